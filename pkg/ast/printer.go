package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chrlskrt/bisayaplusplus/pkg/token"
)

// Format renders statements as parenthesized prefix forms, one top-level
// statement per line.
func Format(statements []Statement) string {
	var b strings.Builder
	for i, stmt := range statements {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(printStatement(stmt, 0))
	}
	return b.String()
}

// FormatExpression renders a single expression.
func FormatExpression(expr Expression) string {
	switch e := expr.(type) {
	case nil:
		return "nil"
	case *Literal:
		return printLiteral(e)
	case *Variable:
		return e.Name.Lexeme
	case *Assign:
		return parenthesize("=", e.Name.Lexeme, FormatExpression(e.Value))
	case *Binary:
		return parenthesize(e.Operator.Lexeme, FormatExpression(e.Left), FormatExpression(e.Right))
	case *Logical:
		return parenthesize(e.Operator.Lexeme, FormatExpression(e.Left), FormatExpression(e.Right))
	case *Grouping:
		return parenthesize("group", FormatExpression(e.Inner))
	case *Unary:
		return parenthesize(e.Operator.Lexeme, FormatExpression(e.Operand))
	case *IncrementOrDecrement:
		if e.IsPrefix {
			return parenthesize("pre"+e.Operator.Lexeme, e.Target.Name.Lexeme)
		}
		return parenthesize("post"+e.Operator.Lexeme, e.Target.Name.Lexeme)
	default:
		return fmt.Sprintf("<%T>", expr)
	}
}

func printLiteral(lit *Literal) string {
	switch v := lit.Value.(type) {
	case nil:
		return "null"
	case bool:
		if v {
			return token.WordTrue
		}
		return token.WordFalse
	case string:
		return strconv.Quote(v)
	case rune:
		return strconv.QuoteRune(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func printStatement(stmt Statement, depth int) string {
	switch s := stmt.(type) {
	case *Block:
		return printBlock(s, depth)
	case *ExpressionStatement:
		return parenthesize("expr", FormatExpression(s.Expression))
	case *VarDecl:
		if s.Initializer == nil {
			return parenthesize("var", s.TypeName, s.Name.Lexeme)
		}
		return parenthesize("var", s.TypeName, s.Name.Lexeme, FormatExpression(s.Initializer))
	case *Print:
		return parenthesize("print", FormatExpression(s.Expression))
	case *Input:
		names := make([]string, len(s.Names))
		for i, n := range s.Names {
			names[i] = n.Lexeme
		}
		return parenthesize("input", names...)
	case *If:
		parts := []string{FormatExpression(s.Condition), printBlock(s.Then, depth)}
		for _, elif := range s.ElseIfs {
			parts = append(parts, parenthesize("elif", FormatExpression(elif.Condition), printBlock(elif.Branch, depth)))
		}
		if s.Else != nil {
			parts = append(parts, parenthesize("else", printBlock(s.Else, depth)))
		}
		return parenthesize("if", parts...)
	case *While:
		return parenthesize("while", FormatExpression(s.Condition), printBlock(s.Body, depth))
	case *DoWhile:
		return parenthesize("do", printBlock(s.Body, depth), FormatExpression(s.Condition))
	case *ForLoop:
		return parenthesize("for",
			printStatement(s.Init, depth),
			FormatExpression(s.Condition),
			printStatement(s.Update, depth),
			printBlock(s.Body, depth))
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("<%T>", stmt)
	}
}

func printBlock(block *Block, depth int) string {
	if block == nil {
		return "nil"
	}
	var b strings.Builder
	b.WriteString("(block")
	indent := strings.Repeat("  ", depth+1)
	for _, stmt := range block.Statements {
		b.WriteByte('\n')
		b.WriteString(indent)
		b.WriteString(printStatement(stmt, depth+1))
	}
	b.WriteByte(')')
	return b.String()
}

func parenthesize(name string, parts ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, p := range parts {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	b.WriteByte(')')
	return b.String()
}

package ast

import "github.com/chrlskrt/bisayaplusplus/pkg/token"

// Builders for constructing trees by hand. Nodes built here carry line 0.

var operatorKinds = map[string]token.Kind{
	"+":    token.PLUS,
	"-":    token.MINUS,
	"*":    token.MULTIPLY,
	"/":    token.DIVIDE,
	"%":    token.MODULO,
	"&":    token.CONCAT,
	"==":   token.EQUAL,
	"<>":   token.NOT_EQUAL,
	">":    token.GREATER,
	">=":   token.GREATER_EQUAL,
	"<":    token.LESS,
	"<=":   token.LESS_EQUAL,
	"O":    token.OR,
	"UG":   token.AND,
	"DILI": token.NOT,
	"++":   token.INCREMENT,
	"--":   token.DECREMENT,
}

// Op returns an operator token for lexeme. Unknown lexemes yield ILLEGAL.
func Op(lexeme string) token.Token {
	kind, ok := operatorKinds[lexeme]
	if !ok {
		kind = token.ILLEGAL
	}
	return token.Token{Kind: kind, Lexeme: lexeme}
}

func Name(name string) token.Token {
	return token.Token{Kind: token.IDENTIFIER, Lexeme: name, Literal: name}
}

// Literal helpers.

func Int(value int64) *Literal {
	return NewLiteral(TypeInteger, value, 0)
}

func Flt(value float64) *Literal {
	return NewLiteral(TypeFloat, value, 0)
}

func Chr(value rune) *Literal {
	return NewLiteral(TypeChar, value, 0)
}

func Bool(value bool) *Literal {
	return NewLiteral(TypeBool, value, 0)
}

func Str(value string) *Literal {
	return NewLiteral(TypeString, value, 0)
}

func Null() *Literal {
	return NewLiteral(TypeNull, nil, 0)
}

// Expression helpers.

func Var(name string) *Variable {
	return NewVariable(Name(name))
}

func Set(name string, value Expression) *Assign {
	return NewAssign(Name(name), value)
}

func Bin(op string, left, right Expression) *Binary {
	return NewBinary(left, Op(op), right)
}

func And(left, right Expression) *Logical {
	return NewLogical(left, Op("UG"), right)
}

func Or(left, right Expression) *Logical {
	return NewLogical(left, Op("O"), right)
}

func Group(inner Expression) *Grouping {
	return NewGrouping(inner, 0)
}

func Not(operand Expression) *Unary {
	return NewUnary(Op("DILI"), operand)
}

func Neg(operand Expression) *Unary {
	return NewUnary(token.Token{Kind: token.NEGATIVE, Lexeme: "-"}, operand)
}

func Pos(operand Expression) *Unary {
	return NewUnary(token.Token{Kind: token.POSITIVE, Lexeme: "+"}, operand)
}

func PreInc(name string) *IncrementOrDecrement {
	return NewIncrementOrDecrement(Op("++"), Var(name), true)
}

func PostInc(name string) *IncrementOrDecrement {
	return NewIncrementOrDecrement(Op("++"), Var(name), false)
}

func PostDec(name string) *IncrementOrDecrement {
	return NewIncrementOrDecrement(Op("--"), Var(name), false)
}

// Statement helpers.

func Blk(statements ...Statement) *Block {
	return NewBlock(statements, 0)
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Decl(typeName, name string, initializer Expression) *VarDecl {
	return NewVarDecl(typeName, Name(name), initializer)
}

func Show(expr Expression) *Print {
	return NewPrint(expr, 0)
}

func Read(names ...string) *Input {
	toks := make([]token.Token, len(names))
	for i, n := range names {
		toks[i] = Name(n)
	}
	return NewInput(toks, 0)
}

func IfElse(condition Expression, then *Block, elseBranch *Block, elseIfs ...*ElseIf) *If {
	return NewIf(condition, then, elseIfs, elseBranch, 0)
}

func Elif(condition Expression, branch *Block) *ElseIf {
	return NewElseIf(condition, branch, 0)
}

func Loop(condition Expression, body *Block) *While {
	return NewWhile(condition, body, 0)
}

func DoLoop(body *Block, condition Expression) *DoWhile {
	return NewDoWhile(condition, body, 0)
}

func For(init Statement, condition Expression, update Statement, body *Block) *ForLoop {
	return NewForLoop(init, condition, update, body, 0)
}

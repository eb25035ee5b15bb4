package parser

import (
	"github.com/chrlskrt/bisayaplusplus/pkg/ast"
	"github.com/chrlskrt/bisayaplusplus/pkg/token"
)

func (p *parser) expression() (ast.Expression, error) {
	return p.assignment()
}

func (p *parser) assignment() (ast.Expression, error) {
	expr, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	if !p.match(token.ASSIGN) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if v, ok := expr.(*ast.Variable); ok {
		return ast.NewAssign(v.Name, value), nil
	}
	msg := "Invalid assignment target."
	if isComparison(ast.StripGroupings(expr)) {
		msg = "Invalid assignment target. Did you mean '=='?"
	}
	return nil, &SyntaxError{Expected: "variable before '='", Found: ast.FormatExpression(expr), Line: equals.Line, Message: msg}
}

func (p *parser) logicalOr() (ast.Expression, error) {
	expr, err := p.logicalAnd()
	if err != nil {
		return nil, err
	}
	for p.match(token.OR) {
		op := p.previous()
		right, err := p.logicalAnd()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogical(expr, op, right)
	}
	return expr, nil
}

func (p *parser) logicalAnd() (ast.Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.AND) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogical(expr, op, right)
	}
	return expr, nil
}

func (p *parser) equality() (ast.Expression, error) {
	return p.binaryLevel(p.comparison, token.EQUAL, token.NOT_EQUAL)
}

func (p *parser) comparison() (ast.Expression, error) {
	return p.binaryLevel(p.term, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

func (p *parser) term() (ast.Expression, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(token.PLUS, token.MINUS, token.CONCAT, token.POSITIVE, token.NEGATIVE) {
		op := p.previous()
		// a sign after a closing parenthesis or literal is still infix
		switch op.Kind {
		case token.POSITIVE:
			op.Kind = token.PLUS
		case token.NEGATIVE:
			op.Kind = token.MINUS
		}
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, op, right)
	}
	return expr, nil
}

func (p *parser) factor() (ast.Expression, error) {
	return p.binaryLevel(p.unary, token.MULTIPLY, token.DIVIDE, token.MODULO)
}

func (p *parser) binaryLevel(next func() (ast.Expression, error), kinds ...token.Kind) (ast.Expression, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(kinds...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, op, right)
	}
	return expr, nil
}

func (p *parser) unary() (ast.Expression, error) {
	if p.match(token.NOT, token.POSITIVE, token.NEGATIVE) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(op, operand), nil
	}
	if p.match(token.INCREMENT) {
		op := p.previous()
		name, err := p.consume(token.IDENTIFIER, "variable after '++'")
		if err != nil {
			return nil, err
		}
		return ast.NewIncrementOrDecrement(op, ast.NewVariable(name), true), nil
	}
	return p.postfix()
}

func (p *parser) postfix() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	if v, ok := expr.(*ast.Variable); ok && p.match(token.INCREMENT, token.DECREMENT) {
		return ast.NewIncrementOrDecrement(p.previous(), v, false), nil
	}
	return expr, nil
}

func (p *parser) primary() (ast.Expression, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.TRUE, token.FALSE:
		p.advance()
		return ast.NewLiteral(ast.TypeBool, tok.Kind == token.TRUE, tok.Line), nil
	case token.NULL:
		p.advance()
		return ast.NewLiteral(ast.TypeNull, nil, tok.Line), nil
	case token.INTEGER:
		p.advance()
		return ast.NewLiteral(ast.TypeInteger, tok.Literal, tok.Line), nil
	case token.FLOAT:
		p.advance()
		return ast.NewLiteral(ast.TypeFloat, tok.Literal, tok.Line), nil
	case token.CHAR:
		p.advance()
		return ast.NewLiteral(ast.TypeChar, tok.Literal, tok.Line), nil
	case token.STRING:
		p.advance()
		return ast.NewLiteral(ast.TypeString, tok.Literal, tok.Line), nil
	case token.DOLLAR:
		p.advance()
		return ast.NewLiteral(ast.TypeString, "\n", tok.Line), nil
	case token.IDENTIFIER:
		p.advance()
		return ast.NewVariable(tok), nil
	case token.LEFT_PAREN:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RIGHT_PAREN, "')' after expression"); err != nil {
			return nil, err
		}
		return ast.NewGrouping(inner, tok.Line), nil
	}
	return nil, p.errorAt(tok, "expression")
}

func (p *parser) parenthesizedCondition(after string) (ast.Expression, error) {
	if _, err := p.consume(token.LEFT_PAREN, "'(' after "+after); err != nil {
		return nil, err
	}
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "')' after condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

// condition parses an expression that must reduce to a boolean test.
func (p *parser) condition() (ast.Expression, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	switch e := ast.StripGroupings(expr).(type) {
	case *ast.Logical, *ast.Variable:
		return expr, nil
	case *ast.Binary:
		if isComparison(e) {
			return expr, nil
		}
	case *ast.Unary:
		if e.Operator.Kind == token.NOT {
			return expr, nil
		}
	case *ast.Literal:
		if e.TypeName == ast.TypeBool {
			return expr, nil
		}
	case *ast.Assign:
		return nil, &SyntaxError{
			Expected: "condition",
			Found:    "assignment",
			Line:     e.Line(),
			Message:  "Invalid condition: assignment found, did you mean '=='?",
		}
	}
	return nil, &SyntaxError{
		Expected: "a comparison or logical condition",
		Found:    ast.FormatExpression(expr),
		Line:     expr.Line(),
	}
}

func isComparison(expr ast.Expression) bool {
	b, ok := expr.(*ast.Binary)
	if !ok {
		return false
	}
	switch b.Operator.Kind {
	case token.EQUAL, token.NOT_EQUAL, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL:
		return true
	}
	return false
}

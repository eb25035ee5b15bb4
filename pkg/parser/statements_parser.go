package parser

import (
	"github.com/chrlskrt/bisayaplusplus/pkg/ast"
	"github.com/chrlskrt/bisayaplusplus/pkg/token"
)

var declaredTypes = map[token.Kind]string{
	token.TYPE_INT:   ast.TypeInteger,
	token.TYPE_FLOAT: ast.TypeFloat,
	token.TYPE_CHAR:  ast.TypeChar,
	token.TYPE_BOOL:  ast.TypeBool,
}

func (p *parser) declaration() ([]ast.Statement, error) {
	if p.match(token.DECLARE) {
		return p.varDeclaration()
	}
	stmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	return []ast.Statement{stmt}, nil
}

func (p *parser) varDeclaration() ([]ast.Statement, error) {
	typeName, err := p.declaredType()
	if err != nil {
		return nil, err
	}
	var decls []ast.Statement
	for {
		decl, err := p.declarator(typeName)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
		if !p.match(token.COMMA) {
			break
		}
	}
	if err := p.endOfStatement("variable declaration"); err != nil {
		return nil, err
	}
	return decls, nil
}

func (p *parser) declaredType() (string, error) {
	tok := p.peek()
	typeName, ok := declaredTypes[tok.Kind]
	if !ok {
		return "", p.errorAt(tok, "a data type (NUMERO, TIPIK, LETRA or TINUOD) after 'MUGNA'")
	}
	p.advance()
	return typeName, nil
}

func (p *parser) declarator(typeName string) (*ast.VarDecl, error) {
	name, err := p.consume(token.IDENTIFIER, "variable name")
	if err != nil {
		return nil, err
	}
	var init ast.Expression
	if p.match(token.ASSIGN) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	return ast.NewVarDecl(typeName, name, init), nil
}

func (p *parser) statement() (ast.Statement, error) {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.READ):
		return p.inputStatement()
	case p.check(token.BLOCK):
		block, err := p.block()
		if err != nil {
			return nil, err
		}
		return block, p.endOfStatement("'}'")
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.DO):
		return p.doWhileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	}
	return p.expressionStatement()
}

func (p *parser) printStatement() (ast.Statement, error) {
	keyword := p.previous()
	if _, err := p.consume(token.COLON, "':' after 'IPAKITA'"); err != nil {
		return nil, err
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.endOfStatement("value"); err != nil {
		return nil, err
	}
	return ast.NewPrint(expr, keyword.Line), nil
}

func (p *parser) inputStatement() (ast.Statement, error) {
	keyword := p.previous()
	if _, err := p.consume(token.COLON, "':' after 'DAWAT'"); err != nil {
		return nil, err
	}
	var names []token.Token
	for {
		name, err := p.consume(token.IDENTIFIER, "variable name")
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.match(token.COMMA) {
			break
		}
	}
	if err := p.endOfStatement("input variables"); err != nil {
		return nil, err
	}
	return ast.NewInput(names, keyword.Line), nil
}

// block parses PUNDOK{ ... } without the trailing newline.
func (p *parser) block() (*ast.Block, error) {
	keyword, err := p.consume(token.BLOCK, "'PUNDOK'")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFT_BRACE, "'{' after 'PUNDOK'"); err != nil {
		return nil, err
	}
	p.match(token.NEWLINE)
	stmts := p.statementsUntil(func() bool {
		return p.check(token.RIGHT_BRACE) || p.check(token.END)
	})
	if _, err := p.consume(token.RIGHT_BRACE, "'}' after block"); err != nil {
		return nil, err
	}
	return ast.NewBlock(stmts, keyword.Line), nil
}

// branch parses an optional newline followed by a block.
func (p *parser) branch() (*ast.Block, error) {
	p.match(token.NEWLINE)
	return p.block()
}

func (p *parser) ifStatement() (ast.Statement, error) {
	keyword := p.previous()
	cond, err := p.parenthesizedCondition("'KUNG'")
	if err != nil {
		return nil, err
	}
	then, err := p.branch()
	if err != nil {
		return nil, err
	}

	var elseIfs []*ast.ElseIf
	for p.continuesWith(token.ELSE_IF) {
		elifTok := p.previous()
		elifCond, err := p.parenthesizedCondition("'KUNG DILI'")
		if err != nil {
			return nil, err
		}
		body, err := p.branch()
		if err != nil {
			return nil, err
		}
		elseIfs = append(elseIfs, ast.NewElseIf(elifCond, body, elifTok.Line))
	}

	var elseBranch *ast.Block
	if p.continuesWith(token.ELSE) {
		if elseBranch, err = p.branch(); err != nil {
			return nil, err
		}
	}
	if err := p.endOfStatement("'}'"); err != nil {
		return nil, err
	}
	return ast.NewIf(cond, then, elseIfs, elseBranch, keyword.Line), nil
}

// continuesWith consumes kind, optionally preceded by one newline.
func (p *parser) continuesWith(kind token.Kind) bool {
	if p.check(token.NEWLINE) && p.checkNext(kind) {
		p.advance()
	}
	return p.match(kind)
}

func (p *parser) whileStatement() (ast.Statement, error) {
	keyword := p.previous()
	cond, err := p.parenthesizedCondition("'MINTRAS'")
	if err != nil {
		return nil, err
	}
	body, err := p.branch()
	if err != nil {
		return nil, err
	}
	if err := p.endOfStatement("'}'"); err != nil {
		return nil, err
	}
	return ast.NewWhile(cond, body, keyword.Line), nil
}

func (p *parser) doWhileStatement() (ast.Statement, error) {
	keyword := p.previous()
	body, err := p.branch()
	if err != nil {
		return nil, err
	}
	p.match(token.NEWLINE)
	if _, err := p.consume(token.WHILE, "'MINTRAS' after 'BUHATA' block"); err != nil {
		return nil, err
	}
	cond, err := p.parenthesizedCondition("'MINTRAS'")
	if err != nil {
		return nil, err
	}
	if err := p.endOfStatement("loop condition"); err != nil {
		return nil, err
	}
	return ast.NewDoWhile(cond, body, keyword.Line), nil
}

func (p *parser) forStatement() (ast.Statement, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LEFT_PAREN, "'(' after 'ALANG SA'"); err != nil {
		return nil, err
	}

	var init ast.Statement
	if p.match(token.DECLARE) {
		typeName, err := p.declaredType()
		if err != nil {
			return nil, err
		}
		decl, err := p.declarator(typeName)
		if err != nil {
			return nil, err
		}
		init = decl
	} else {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		init = ast.NewExpressionStatement(expr)
	}
	if _, err := p.consume(token.COMMA, "',' after loop initializer"); err != nil {
		return nil, err
	}

	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.COMMA, "',' after loop condition"); err != nil {
		return nil, err
	}

	updateExpr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "')' after loop update"); err != nil {
		return nil, err
	}

	body, err := p.branch()
	if err != nil {
		return nil, err
	}
	if err := p.endOfStatement("'}'"); err != nil {
		return nil, err
	}
	return ast.NewForLoop(init, cond, ast.NewExpressionStatement(updateExpr), body, keyword.Line), nil
}

func (p *parser) expressionStatement() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.endOfStatement("expression"); err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(expr), nil
}

// endOfStatement requires the newline that terminates every statement.
func (p *parser) endOfStatement(after string) error {
	if p.match(token.NEWLINE) {
		return nil
	}
	return p.errorAt(p.peek(), "new line after "+after)
}

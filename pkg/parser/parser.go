// Package parser builds Bisaya++ statement trees from token streams using
// recursive descent.
package parser

import (
	"errors"

	"github.com/chrlskrt/bisayaplusplus/pkg/ast"
	"github.com/chrlskrt/bisayaplusplus/pkg/token"
)

type parser struct {
	tokens  []token.Token
	current int
	errs    ErrorList
}

// Parse converts tokens into the program's statements. All syntax errors
// found are returned together as an ErrorList.
func Parse(tokens []token.Token) ([]ast.Statement, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(append([]token.Token(nil), tokens...), token.Token{Kind: token.EOF, Line: line})
	}
	p := &parser{tokens: tokens}
	stmts := p.program()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return stmts, nil
}

func (p *parser) program() []ast.Statement {
	for p.match(token.NEWLINE) {
	}
	if !p.match(token.START) {
		p.errs = append(p.errs, p.errorAt(p.peek(), "'SUGOD' at the start of the program"))
		return nil
	}
	if _, err := p.consume(token.NEWLINE, "new line after 'SUGOD'"); err != nil {
		p.record(err)
	}

	stmts := p.statementsUntil(func() bool { return p.check(token.END) })

	if p.isAtEnd() {
		p.errs = append(p.errs, p.errorAt(p.peek(), "'KATAPUSAN' at the end of the program"))
		return stmts
	}
	p.advance()
	for p.match(token.NEWLINE) {
	}
	if !p.isAtEnd() {
		tok := p.peek()
		p.errs = append(p.errs, &SyntaxError{
			Expected: "end of input",
			Found:    tok.Describe(),
			Line:     tok.Line,
			Message:  "Unexpected " + tok.Describe() + " after 'KATAPUSAN'.",
		})
	}
	return stmts
}

// statementsUntil parses statements until stop reports true or input runs
// out, recovering from each failed statement.
func (p *parser) statementsUntil(stop func() bool) []ast.Statement {
	var stmts []ast.Statement
	for !stop() && !p.isAtEnd() {
		start := p.current
		parsed, err := p.declaration()
		if err != nil {
			p.record(err)
			p.synchronize()
			if p.current == start {
				p.advance()
			}
			continue
		}
		stmts = append(stmts, parsed...)
	}
	return stmts
}

func (p *parser) record(err error) {
	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		p.errs = append(p.errs, synErr)
		return
	}
	p.errs = append(p.errs, &SyntaxError{Message: err.Error(), Line: p.peek().Line})
}

// statementStarts are the keywords the parser resynchronizes on.
var statementStarts = map[token.Kind]bool{
	token.END:     true,
	token.DECLARE: true,
	token.PRINT:   true,
	token.READ:    true,
	token.BLOCK:   true,
	token.IF:      true,
	token.FOR:     true,
	token.WHILE:   true,
	token.DO:      true,
}

// synchronize discards tokens until just after the next newline, or until a
// statement keyword or closing brace.
func (p *parser) synchronize() {
	for !p.isAtEnd() {
		tok := p.peek()
		if tok.Kind == token.NEWLINE {
			p.advance()
			return
		}
		if tok.Kind == token.RIGHT_BRACE || statementStarts[tok.Kind] {
			return
		}
		p.advance()
	}
}

func (p *parser) errorAt(tok token.Token, expected string) *SyntaxError {
	return &SyntaxError{Expected: expected, Found: tok.Describe(), Line: tok.Line}
}

func (p *parser) consume(kind token.Kind, expected string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), expected)
}

func (p *parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

// checkNext reports whether the token after the current one has kind.
func (p *parser) checkNext(kind token.Kind) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Kind == kind
}

func (p *parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

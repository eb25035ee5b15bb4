// Package lexer turns Bisaya++ source text into tokens.
package lexer

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/chrlskrt/bisayaplusplus/pkg/token"
)

// ErrorKind classifies character-level failures.
type ErrorKind int

const (
	IllegalCharacter ErrorKind = iota
	UnterminatedString
	UnterminatedChar
	MalformedNumber
	MalformedEscape
	UnexpectedAfterNumber
)

func (k ErrorKind) String() string {
	switch k {
	case IllegalCharacter:
		return "illegal character"
	case UnterminatedString:
		return "unterminated string"
	case UnterminatedChar:
		return "malformed character literal"
	case MalformedNumber:
		return "malformed number"
	case MalformedEscape:
		return "malformed escape"
	case UnexpectedAfterNumber:
		return "unexpected token after number"
	default:
		return fmt.Sprintf("lexer_error_%d", int(k))
	}
}

// Error reports the first unrecoverable lexical problem.
type Error struct {
	Kind   ErrorKind
	Line   int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Kind)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Detail)
}

type scanner struct {
	src     []rune
	start   int
	current int
	line    int
	// lastEnd is the offset just past the most recently emitted token.
	lastEnd int
	tokens  []token.Token
}

// Scan converts source into a token slice terminated by an EOF token.
func Scan(source string) ([]token.Token, error) {
	s := &scanner{src: []rune(source), line: 1, lastEnd: -1}
	for !s.atEnd() {
		s.start = s.current
		if err := s.scanToken(); err != nil {
			return nil, err
		}
	}
	s.tokens = append(s.tokens, token.Token{Kind: token.EOF, Line: s.line})
	return s.tokens, nil
}

func (s *scanner) scanToken() error {
	c := s.advance()
	switch c {
	case '(':
		s.add(token.LEFT_PAREN, nil)
	case ')':
		s.add(token.RIGHT_PAREN, nil)
	case '{':
		s.add(token.LEFT_BRACE, nil)
	case '}':
		s.add(token.RIGHT_BRACE, nil)
	case ':':
		s.add(token.COLON, nil)
	case ',':
		s.add(token.COMMA, nil)
	case '*':
		s.add(token.MULTIPLY, nil)
	case '/':
		s.add(token.DIVIDE, nil)
	case '%':
		s.add(token.MODULO, nil)
	case '&':
		s.add(token.CONCAT, nil)
	case '$':
		s.add(token.DOLLAR, nil)
	case '+':
		switch {
		case s.match('+'):
			s.add(token.INCREMENT, nil)
		case s.operandBefore():
			s.add(token.PLUS, nil)
		default:
			s.add(token.POSITIVE, nil)
		}
	case '-':
		switch {
		case s.peek() == '-' && s.attachedToIdentifier():
			s.advance()
			s.add(token.DECREMENT, nil)
		case s.match('-'):
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		case s.operandBefore():
			s.add(token.MINUS, nil)
		default:
			s.add(token.NEGATIVE, nil)
		}
	case '=':
		if s.match('=') {
			s.add(token.EQUAL, nil)
		} else {
			s.add(token.ASSIGN, nil)
		}
	case '>':
		if s.match('=') {
			s.add(token.GREATER_EQUAL, nil)
		} else {
			s.add(token.GREATER, nil)
		}
	case '<':
		switch {
		case s.match('='):
			s.add(token.LESS_EQUAL, nil)
		case s.match('>'):
			s.add(token.NOT_EQUAL, nil)
		default:
			s.add(token.LESS, nil)
		}
	case '[':
		return s.escape()
	case ' ', '\t', '\r':
	case '\n':
		if n := len(s.tokens); n > 0 && s.tokens[n-1].Kind != token.NEWLINE {
			s.add(token.NEWLINE, nil)
		}
		s.line++
	case '"':
		return s.stringLiteral()
	case '\'':
		return s.charLiteral()
	default:
		switch {
		case isDigit(c):
			return s.number()
		case c == '_' || unicode.IsLetter(c):
			s.identifier()
		default:
			return s.fail(IllegalCharacter, fmt.Sprintf("%q", c))
		}
	}
	return nil
}

func (s *scanner) identifier() {
	for isIdentChar(s.peek()) {
		s.advance()
	}
	word := string(s.src[s.start:s.current])
	if token.PhrasePrefixes[word] && s.peek() == ' ' {
		saved := s.current
		s.advance()
		for isIdentChar(s.peek()) {
			s.advance()
		}
		if kind, ok := token.Keywords[string(s.src[s.start:s.current])]; ok {
			s.add(kind, nil)
			return
		}
		s.current = saved
	}
	if kind, ok := token.Keywords[word]; ok {
		s.add(kind, nil)
		return
	}
	s.add(token.IDENTIFIER, word)
}

func (s *scanner) number() error {
	for isDigit(s.peek()) {
		s.advance()
	}
	isFloat := false
	if s.peek() == '.' {
		isFloat = true
		s.advance()
		if !isDigit(s.peek()) {
			return s.fail(MalformedNumber, fmt.Sprintf("expected digits after '%s'", string(s.src[s.start:s.current])))
		}
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	text := string(s.src[s.start:s.current])
	if isIdentChar(s.peek()) {
		return s.fail(UnexpectedAfterNumber, fmt.Sprintf("identifier-like sequence after %s", text))
	}
	if isFloat {
		val, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return s.fail(MalformedNumber, text)
		}
		s.add(token.FLOAT, val)
		return nil
	}
	val, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return s.fail(MalformedNumber, text)
	}
	s.add(token.INTEGER, val)
	return nil
}

func (s *scanner) stringLiteral() error {
	startLine := s.line
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		return &Error{Kind: UnterminatedString, Line: startLine, Detail: "missing closing '\"'"}
	}
	s.advance()
	value := string(s.src[s.start+1 : s.current-1])
	switch value {
	case token.WordTrue:
		s.addAt(token.TRUE, true, startLine)
	case token.WordFalse:
		s.addAt(token.FALSE, false, startLine)
	default:
		s.addAt(token.STRING, value, startLine)
	}
	return nil
}

func (s *scanner) charLiteral() error {
	if s.atEnd() || s.peek() == '\n' {
		return s.fail(UnterminatedChar, "missing character literal")
	}
	c := s.advance()
	if c == '\'' {
		return s.fail(UnterminatedChar, "empty character literal")
	}
	if !s.match('\'') {
		return s.fail(UnterminatedChar, "character literals hold exactly one character")
	}
	s.add(token.CHAR, c)
	return nil
}

func (s *scanner) escape() error {
	if s.atEnd() || s.peek() == '\n' {
		return s.fail(MalformedEscape, "missing escape character and closing ']'")
	}
	c := s.advance()
	if s.atEnd() {
		return s.fail(MalformedEscape, "missing closing ']'")
	}
	if !s.match(']') {
		return s.fail(MalformedEscape, fmt.Sprintf("only one character allowed in an escape, found %q", s.peek()))
	}
	s.add(token.CHAR, c)
	return nil
}

// operandBefore reports whether the previous token can be the left operand
// of a binary plus or minus.
func (s *scanner) operandBefore() bool {
	n := len(s.tokens)
	if n == 0 {
		return false
	}
	switch s.tokens[n-1].Kind {
	case token.INTEGER, token.FLOAT, token.IDENTIFIER:
		return true
	}
	return false
}

// attachedToIdentifier reports whether the current token begins directly
// after an identifier, with no whitespace in between.
func (s *scanner) attachedToIdentifier() bool {
	n := len(s.tokens)
	return n > 0 && s.tokens[n-1].Kind == token.IDENTIFIER && s.lastEnd == s.start
}

func (s *scanner) add(kind token.Kind, literal any) {
	s.addAt(kind, literal, s.line)
}

func (s *scanner) addAt(kind token.Kind, literal any, line int) {
	s.tokens = append(s.tokens, token.Token{
		Kind:    kind,
		Lexeme:  string(s.src[s.start:s.current]),
		Literal: literal,
		Line:    line,
	})
	s.lastEnd = s.current
}

func (s *scanner) fail(kind ErrorKind, detail string) error {
	return &Error{Kind: kind, Line: s.line, Detail: detail}
}

func (s *scanner) advance() rune {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *scanner) match(expected rune) bool {
	if s.atEnd() || s.src[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *scanner) atEnd() bool {
	return s.current >= len(s.src)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

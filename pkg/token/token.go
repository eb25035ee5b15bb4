// Package token defines the lexical vocabulary of Bisaya++ source text.
package token

import (
	"fmt"
	"strings"
)

// Kind identifies a token category.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	// Punctuation.
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	COLON
	COMMA

	// Operators.
	PLUS
	MINUS
	POSITIVE
	NEGATIVE
	MULTIPLY
	DIVIDE
	MODULO
	ASSIGN
	EQUAL
	NOT_EQUAL
	GREATER
	GREATER_EQUAL
	LESS
	LESS_EQUAL
	CONCAT
	DOLLAR
	INCREMENT
	DECREMENT

	// Literals.
	IDENTIFIER
	INTEGER
	FLOAT
	CHAR
	STRING
	TRUE
	FALSE
	NULL

	// Keywords.
	START
	END
	DECLARE
	PRINT
	READ
	BLOCK
	IF
	ELSE_IF
	ELSE
	FOR
	WHILE
	DO
	OR
	AND
	NOT
	TYPE_INT
	TYPE_CHAR
	TYPE_FLOAT
	TYPE_BOOL
)

var kindNames = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",

	LEFT_PAREN:  "(",
	RIGHT_PAREN: ")",
	LEFT_BRACE:  "{",
	RIGHT_BRACE: "}",
	COLON:       ":",
	COMMA:       ",",

	PLUS:          "PLUS",
	MINUS:         "MINUS",
	POSITIVE:      "POSITIVE",
	NEGATIVE:      "NEGATIVE",
	MULTIPLY:      "*",
	DIVIDE:        "/",
	MODULO:        "%",
	ASSIGN:        "=",
	EQUAL:         "==",
	NOT_EQUAL:     "<>",
	GREATER:       ">",
	GREATER_EQUAL: ">=",
	LESS:          "<",
	LESS_EQUAL:    "<=",
	CONCAT:        "&",
	DOLLAR:        "$",
	INCREMENT:     "++",
	DECREMENT:     "--",

	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	FLOAT:      "FLOAT",
	CHAR:       "CHAR",
	STRING:     "STRING",
	TRUE:       "TRUE",
	FALSE:      "FALSE",
	NULL:       "NULL",

	START:      "SUGOD",
	END:        "KATAPUSAN",
	DECLARE:    "MUGNA",
	PRINT:      "IPAKITA",
	READ:       "DAWAT",
	BLOCK:      "PUNDOK",
	IF:         "KUNG",
	ELSE_IF:    "KUNG DILI",
	ELSE:       "KUNG WALA",
	FOR:        "ALANG SA",
	WHILE:      "MINTRAS",
	DO:         "BUHATA",
	OR:         "O",
	AND:        "UG",
	NOT:        "DILI",
	TYPE_INT:   "NUMERO",
	TYPE_CHAR:  "LETRA",
	TYPE_FLOAT: "TIPIK",
	TYPE_BOOL:  "TINUOD",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Canonical boolean words.
const (
	WordTrue  = "OO"
	WordFalse = "DILI"
)

// Keywords maps reserved words (including the two-word phrases) to kinds.
var Keywords = map[string]Kind{
	"SUGOD":     START,
	"KATAPUSAN": END,
	"MUGNA":     DECLARE,
	"IPAKITA":   PRINT,
	"DAWAT":     READ,
	"PUNDOK":    BLOCK,
	"KUNG":      IF,
	"KUNG DILI": ELSE_IF,
	"KUNG WALA": ELSE,
	"ALANG SA":  FOR,
	"MINTRAS":   WHILE,
	"BUHATA":    DO,
	"O":         OR,
	"UG":        AND,
	"DILI":      NOT,
	"NUMERO":    TYPE_INT,
	"LETRA":     TYPE_CHAR,
	"TIPIK":     TYPE_FLOAT,
	"TINUOD":    TYPE_BOOL,
	"null":      NULL,
}

// PhrasePrefixes lists first words that may begin a two-word keyword.
var PhrasePrefixes = map[string]bool{
	"KUNG":  true,
	"ALANG": true,
}

// IsKeyword reports whether k is a reserved-word kind.
func (k Kind) IsKeyword() bool {
	return k >= START && k <= TYPE_BOOL
}

// IsType reports whether k names one of the four primitive types.
func (k Kind) IsType() bool {
	return k >= TYPE_INT && k <= TYPE_BOOL
}

// Token is a single lexical unit. Lexeme holds the exact source text.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%d:%s(%v)", t.Line, t.Kind, t.Literal)
	}
	return fmt.Sprintf("%d:%s", t.Line, t.Kind)
}

// Describe renders the token for diagnostics.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "new line"
	case IDENTIFIER, INTEGER, FLOAT:
		return fmt.Sprintf("'%s'", t.Lexeme)
	case STRING, CHAR:
		return t.Lexeme
	}
	if t.Lexeme != "" {
		return fmt.Sprintf("'%s'", t.Lexeme)
	}
	return t.Kind.String()
}

// Reconstruct rebuilds source text from lexemes. Newlines are inserted as
// needed so every token starts on its recorded line.
func Reconstruct(tokens []Token) string {
	var b strings.Builder
	line := 1
	lineStart := true
	var prev Token
	for _, tok := range tokens {
		if tok.Kind == EOF {
			break
		}
		for line < tok.Line {
			b.WriteByte('\n')
			line++
			lineStart = true
		}
		if tok.Kind == NEWLINE {
			b.WriteString(tok.Lexeme)
			line += strings.Count(tok.Lexeme, "\n")
			lineStart = true
			continue
		}
		if !lineStart && tok.Kind != DECREMENT {
			b.WriteByte(' ')
			// a single space would fuse the pair into a two-word keyword
			if prev.Kind == IF || (prev.Kind == IDENTIFIER && PhrasePrefixes[prev.Lexeme]) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(tok.Lexeme)
		line += strings.Count(tok.Lexeme, "\n")
		lineStart = false
		prev = tok
	}
	return b.String()
}

package parser

import (
	"fmt"
	"strings"
)

// SyntaxError describes one grammar violation.
type SyntaxError struct {
	Expected string
	Found    string
	Line     int
	// Message overrides the expected/found rendering when set.
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Description())
}

// Description renders the error without its line prefix.
func (e *SyntaxError) Description() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Found == "" {
		return fmt.Sprintf("Expected %s.", e.Expected)
	}
	return fmt.Sprintf("Expected %s, found %s.", e.Expected, e.Found)
}

// ErrorList holds every syntax error found in one parse, in discovery order.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "parser: no errors"
	case 1:
		return l[0].Error()
	}
	parts := make([]string, len(l))
	for i, err := range l {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}

func (l ErrorList) Unwrap() []error {
	out := make([]error, len(l))
	for i, err := range l {
		out[i] = err
	}
	return out
}

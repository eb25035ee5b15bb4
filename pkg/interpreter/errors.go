package interpreter

import (
	"fmt"
)

// RuntimeError reports an operand, increment or input failure. Err holds the
// cause when the failure came from a collaborator such as the input source.
type RuntimeError struct {
	Message string
	Line    int
	Err     error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// TypeMismatchError reports an assignment the coercion rules reject.
type TypeMismatchError struct {
	DeclaredType string
	ValueType    string
	Variable     string
	Line         int
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("line %d: Cannot assign value of type '%s' to the variable '%s' of type '%s'.",
		e.Line, e.ValueType, e.Variable, e.DeclaredType)
}

// ScopeError attaches a source line to a runtime scope error
// (redeclaration, undefined or uninitialized variable).
type ScopeError struct {
	Err  error
	Line int
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *ScopeError) Unwrap() error { return e.Err }

// stopSignal unwinds evaluation after a stop request was observed.
type stopSignal struct{}

func (stopSignal) Error() string { return "execution stopped" }

func runtimeErrorf(line int, format string, args ...any) error {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Line: line}
}

func wrapRuntimeError(err error, line int) error {
	return &RuntimeError{Message: err.Error(), Line: line, Err: err}
}

func scopeError(err error, line int) error {
	if err == nil {
		return nil
	}
	return &ScopeError{Err: err, Line: line}
}

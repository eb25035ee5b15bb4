package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chrlskrt/bisayaplusplus/pkg/interpreter"
	"github.com/chrlskrt/bisayaplusplus/pkg/lexer"
	"github.com/chrlskrt/bisayaplusplus/pkg/parser"
)

// Stage names the pipeline step that produced an error.
type Stage string

const (
	StageLexical Stage = "lexical"
	StageSyntax  Stage = "syntax"
	StageType    Stage = "type"
	StageRuntime Stage = "runtime"
)

// Diagnostic is a classified, line-tagged error message.
type Diagnostic struct {
	Stage   Stage
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s error: line %d: %s", d.Stage, d.Line, d.Message)
	}
	return fmt.Sprintf("%s error: %s", d.Stage, d.Message)
}

// Diagnose classifies err. A syntax error list yields one diagnostic per
// entry; anything unrecognised is reported as a runtime diagnostic without
// a line.
func Diagnose(err error) []Diagnostic {
	if err == nil {
		return nil
	}
	var (
		lexErr   *lexer.Error
		list     parser.ErrorList
		synErr   *parser.SyntaxError
		mismatch *interpreter.TypeMismatchError
		rtErr    *interpreter.RuntimeError
		scopeErr *interpreter.ScopeError
	)
	switch {
	case errors.As(err, &lexErr):
		msg := lexErr.Kind.String()
		if lexErr.Detail != "" {
			msg += ": " + lexErr.Detail
		}
		return []Diagnostic{{Stage: StageLexical, Line: lexErr.Line, Message: msg}}
	case errors.As(err, &list):
		out := make([]Diagnostic, 0, len(list))
		for _, e := range list {
			out = append(out, Diagnostic{Stage: StageSyntax, Line: e.Line, Message: e.Description()})
		}
		return out
	case errors.As(err, &synErr):
		return []Diagnostic{{Stage: StageSyntax, Line: synErr.Line, Message: synErr.Description()}}
	case errors.As(err, &mismatch):
		msg := strings.TrimPrefix(mismatch.Error(), fmt.Sprintf("line %d: ", mismatch.Line))
		return []Diagnostic{{Stage: StageType, Line: mismatch.Line, Message: msg}}
	case errors.As(err, &rtErr):
		return []Diagnostic{{Stage: StageRuntime, Line: rtErr.Line, Message: rtErr.Message}}
	case errors.As(err, &scopeErr):
		return []Diagnostic{{Stage: StageRuntime, Line: scopeErr.Line, Message: scopeErr.Err.Error()}}
	}
	return []Diagnostic{{Stage: StageRuntime, Message: err.Error()}}
}

// Describe renders err as "<stage> error: line N: message", one line per
// diagnostic.
func Describe(err error) string {
	diags := Diagnose(err)
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

package interpreter

import (
	"context"
	"testing"

	"github.com/chrlskrt/bisayaplusplus/pkg/ast"
	"github.com/chrlskrt/bisayaplusplus/pkg/lexer"
	"github.com/chrlskrt/bisayaplusplus/pkg/parser"
)

// parseProgram wraps body in SUGOD/KATAPUSAN, so body starts on line 2.
func parseProgram(t *testing.T, body string) []ast.Statement {
	t.Helper()
	toks, err := lexer.Scan("SUGOD\n" + body + "\nKATAPUSAN\n")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	stmts, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return stmts
}

func runProgram(t *testing.T, body string, inputs ...string) (string, *Interpreter, error) {
	t.Helper()
	stmts := parseProgram(t, body)
	sink := &RecordingSink{}
	interp := New(Options{Output: sink, Input: NewLinesInput(inputs...)})
	err := interp.Run(context.Background(), stmts)
	return sink.String(), interp, err
}

func mustRun(t *testing.T, body string, inputs ...string) string {
	t.Helper()
	out, _, err := runProgram(t, body, inputs...)
	if err != nil {
		t.Fatalf("run failed: %v\noutput so far: %q", err, out)
	}
	return out
}

package lexer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chrlskrt/bisayaplusplus/pkg/token"
)

func scanKinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := Scan(src)
	if err != nil {
		t.Fatalf("scan %q: %v", src, err)
	}
	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestScanSampleProgram(t *testing.T) {
	src := "-- sample\n" +
		"SUGOD\n" +
		"MUGNA NUMERO x, y, z=5\n" +
		"MUGNA LETRA a_1='n'\n" +
		"x=y=4\n" +
		"IPAKITA: x & z & $ & [#] & \"last\"\n" +
		"KATAPUSAN\n"
	want := []token.Kind{
		token.START, token.NEWLINE,
		token.DECLARE, token.TYPE_INT, token.IDENTIFIER, token.COMMA, token.IDENTIFIER, token.COMMA, token.IDENTIFIER, token.ASSIGN, token.INTEGER, token.NEWLINE,
		token.DECLARE, token.TYPE_CHAR, token.IDENTIFIER, token.ASSIGN, token.CHAR, token.NEWLINE,
		token.IDENTIFIER, token.ASSIGN, token.IDENTIFIER, token.ASSIGN, token.INTEGER, token.NEWLINE,
		token.PRINT, token.COLON, token.IDENTIFIER, token.CONCAT, token.IDENTIFIER, token.CONCAT, token.DOLLAR, token.CONCAT, token.CHAR, token.CONCAT, token.STRING, token.NEWLINE,
		token.END, token.NEWLINE,
		token.EOF,
	}
	if diff := cmp.Diff(want, scanKinds(t, src)); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestScanLiterals(t *testing.T) {
	toks, err := Scan(`12 3.25 'c' [#] "hello" "OO" "DILI" null`)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	got := make([]any, 0, len(toks))
	for _, tok := range toks[:len(toks)-1] {
		got = append(got, tok.Literal)
	}
	want := []any{int64(12), 3.25, 'c', '#', "hello", true, false, nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("literal mismatch (-want +got):\n%s", diff)
	}
	if toks[5].Kind != token.TRUE || toks[6].Kind != token.FALSE {
		t.Fatalf("expected boolean words to be promoted, got %s %s", toks[5].Kind, toks[6].Kind)
	}
}

func TestUnaryDisambiguation(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"a - 1", []token.Kind{token.IDENTIFIER, token.MINUS, token.INTEGER, token.EOF}},
		{"(-1)", []token.Kind{token.LEFT_PAREN, token.NEGATIVE, token.INTEGER, token.RIGHT_PAREN, token.EOF}},
		{"2+3", []token.Kind{token.INTEGER, token.PLUS, token.INTEGER, token.EOF}},
		{"x = +4", []token.Kind{token.IDENTIFIER, token.ASSIGN, token.POSITIVE, token.INTEGER, token.EOF}},
		{"1.5 - -2", []token.Kind{token.FLOAT, token.MINUS, token.NEGATIVE, token.INTEGER, token.EOF}},
		{"(a) - 1", []token.Kind{token.LEFT_PAREN, token.IDENTIFIER, token.RIGHT_PAREN, token.NEGATIVE, token.INTEGER, token.EOF}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, scanKinds(t, tc.src)); diff != "" {
			t.Fatalf("%q (-want +got):\n%s", tc.src, diff)
		}
	}
}

func TestIncrementAndComments(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"x++", []token.Kind{token.IDENTIFIER, token.INCREMENT, token.EOF}},
		{"++x", []token.Kind{token.INCREMENT, token.IDENTIFIER, token.EOF}},
		{"x--", []token.Kind{token.IDENTIFIER, token.DECREMENT, token.EOF}},
		{"x -- trailing note", []token.Kind{token.IDENTIFIER, token.EOF}},
		{"-- only a comment", []token.Kind{token.EOF}},
		// a doubled minus glued to an identifier is always a decrement
		{"x = y--comment", []token.Kind{token.IDENTIFIER, token.ASSIGN, token.IDENTIFIER, token.DECREMENT, token.IDENTIFIER, token.EOF}},
		{"x = y --comment", []token.Kind{token.IDENTIFIER, token.ASSIGN, token.IDENTIFIER, token.EOF}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, scanKinds(t, tc.src)); diff != "" {
			t.Fatalf("%q (-want +got):\n%s", tc.src, diff)
		}
	}
}

func TestMultiWordKeywords(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"KUNG DILI", []token.Kind{token.ELSE_IF, token.EOF}},
		{"KUNG WALA", []token.Kind{token.ELSE, token.EOF}},
		{"ALANG SA", []token.Kind{token.FOR, token.EOF}},
		{"KUNG (x)", []token.Kind{token.IF, token.LEFT_PAREN, token.IDENTIFIER, token.RIGHT_PAREN, token.EOF}},
		{"KUNG x", []token.Kind{token.IF, token.IDENTIFIER, token.EOF}},
		{"KUNG  DILI", []token.Kind{token.IF, token.NOT, token.EOF}},
		{"ALANG x", []token.Kind{token.IDENTIFIER, token.IDENTIFIER, token.EOF}},
		{"DILI x", []token.Kind{token.NOT, token.IDENTIFIER, token.EOF}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, scanKinds(t, tc.src)); diff != "" {
			t.Fatalf("%q (-want +got):\n%s", tc.src, diff)
		}
	}
}

func TestNewlineCollapsing(t *testing.T) {
	src := "\n\n-- heading\nSUGOD\n\n\n-- note\nKATAPUSAN"
	toks, err := Scan(src)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	type kindLine struct {
		Kind token.Kind
		Line int
	}
	got := make([]kindLine, len(toks))
	for i, tok := range toks {
		got[i] = kindLine{tok.Kind, tok.Line}
	}
	want := []kindLine{
		{token.START, 4},
		{token.NEWLINE, 4},
		{token.END, 8},
		{token.EOF, 8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestScanErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind ErrorKind
		line int
	}{
		{"SUGOD\nx = 5abc", UnexpectedAfterNumber, 2},
		{"\"never closed\nKATAPUSAN", UnterminatedString, 1},
		{"'ab'", UnterminatedChar, 1},
		{"''", UnterminatedChar, 1},
		{"'", UnterminatedChar, 1},
		{"[ab]", MalformedEscape, 1},
		{"[", MalformedEscape, 1},
		{"\n\nx @ y", IllegalCharacter, 3},
		{"1.", MalformedNumber, 1},
		{"99999999999999999999", MalformedNumber, 1},
	}
	for _, tc := range cases {
		_, err := Scan(tc.src)
		var lexErr *Error
		if !errors.As(err, &lexErr) {
			t.Fatalf("%q: expected lexer error, got %v", tc.src, err)
		}
		if lexErr.Kind != tc.kind || lexErr.Line != tc.line {
			t.Fatalf("%q: expected %s on line %d, got %s on line %d", tc.src, tc.kind, tc.line, lexErr.Kind, lexErr.Line)
		}
	}
}

func TestReconstructPreservesLines(t *testing.T) {
	src := "SUGOD\n" +
		"MUGNA NUMERO x=1, y\n" +
		"\n" +
		"-- spacer\n" +
		"MUGNA TINUOD t=\"OO\"\n" +
		"KUNG (x <> -1 UG t)\n" +
		"PUNDOK{\n" +
		"  y = (x) - 1\n" +
		"  x--\n" +
		"  IPAKITA: \"multi\nline\" & [[] & $\n" +
		"}\n" +
		"KUNG DILI (DILI t)\n" +
		"PUNDOK{\n" +
		"  ++x\n" +
		"}\n" +
		"KATAPUSAN\n"
	first, err := Scan(src)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	rebuilt := token.Reconstruct(first)
	second, err := Scan(rebuilt)
	if err != nil {
		t.Fatalf("rescan of %q: %v", rebuilt, err)
	}
	strip := func(toks []token.Token) []token.Token {
		out := make([]token.Token, len(toks))
		for i, tok := range toks {
			out[i] = token.Token{Kind: tok.Kind, Literal: tok.Literal, Line: tok.Line}
		}
		return out
	}
	if diff := cmp.Diff(strip(first), strip(second)); diff != "" {
		t.Fatalf("round trip changed tokens (-first +second):\n%s\nrebuilt:\n%s", diff, rebuilt)
	}
}

func TestScanIsDeterministic(t *testing.T) {
	src := "SUGOD\nMUGNA TIPIK f = 2\nIPAKITA: f\nKATAPUSAN"
	a, err := Scan(src)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	b, err := Scan(src)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("scans differ:\n%s", diff)
	}
}

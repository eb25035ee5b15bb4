package ast

import "testing"

func TestFormatExpression(t *testing.T) {
	cases := []struct {
		name string
		expr Expression
		want string
	}{
		{"literal int", Int(5), "5"},
		{"literal float", Flt(2.5), "2.5"},
		{"literal char", Chr('c'), "'c'"},
		{"literal bool", Bool(false), "DILI"},
		{"literal null", Null(), "null"},
		{"string", Str("hi"), `"hi"`},
		{"binary", Bin("+", Var("x"), Int(1)), "(+ x 1)"},
		{"logical", And(Var("a"), Not(Var("b"))), "(UG a (DILI b))"},
		{"logical or", Or(Var("a"), Bool(true)), "(O a OO)"},
		{"unary plus", Pos(Int(2)), "(+ 2)"},
		{"assign chain", Set("x", Set("y", Int(4))), "(= x (= y 4))"},
		{"grouping", Group(Neg(Int(1))), "(group (- 1))"},
		{"increment", PreInc("i"), "(pre++ i)"},
		{"decrement", PostDec("i"), "(post-- i)"},
	}
	for _, tc := range cases {
		if got := FormatExpression(tc.expr); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestFormatStatements(t *testing.T) {
	program := []Statement{
		Decl(TypeInteger, "x", Int(5)),
		For(
			Decl(TypeInteger, "i", Int(0)),
			Bin("<", Var("i"), Int(3)),
			Expr(PostInc("i")),
			Blk(Decl(TypeInteger, "t", nil), Show(Var("t"))),
		),
		IfElse(Bin("==", Var("x"), Int(5)), Blk(Show(Str("yes"))), Blk(Show(Str("no")))),
	}
	want := "(var NUMERO x 5)\n" +
		"(for (var NUMERO i 0) (< i 3) (expr (post++ i)) (block\n" +
		"  (var NUMERO t)\n" +
		"  (print t)))\n" +
		"(if (== x 5) (block\n" +
		"  (print \"yes\")) (else (block\n" +
		"  (print \"no\"))))"
	if got := Format(program); got != want {
		t.Fatalf("unexpected rendering:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatControlFlow(t *testing.T) {
	program := []Statement{
		Decl(TypeInteger, "n", nil),
		Read("n", "m"),
		IfElse(Bin(">", Var("n"), Int(1)), Blk(Show(Int(1))), nil,
			Elif(Bin(">", Var("n"), Int(0)), Blk(Show(Int(0))))),
		Loop(Bin("<", Var("n"), Int(3)), Blk(Expr(PostInc("n")))),
		DoLoop(Blk(Loop(Bool(false), Blk())), Bin(">", Var("n"), Int(0))),
	}
	want := "(var NUMERO n)\n" +
		"(input n m)\n" +
		"(if (> n 1) (block\n" +
		"  (print 1)) (elif (> n 0) (block\n" +
		"  (print 0))))\n" +
		"(while (< n 3) (block\n" +
		"  (expr (post++ n))))\n" +
		"(do (block\n" +
		"  (while DILI (block))) (> n 0))"
	if got := Format(program); got != want {
		t.Fatalf("unexpected rendering:\n%s\nwant:\n%s", got, want)
	}
}

func TestStripGroupings(t *testing.T) {
	inner := Set("x", Int(5))
	if got := StripGroupings(Group(Group(inner))); got != inner {
		t.Fatalf("expected innermost expression, got %#v", got)
	}
	v := Var("x")
	if got := StripGroupings(v); got != v {
		t.Fatalf("expected expression unchanged, got %#v", got)
	}
}

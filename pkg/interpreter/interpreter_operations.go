package interpreter

import (
	"math"

	"github.com/chrlskrt/bisayaplusplus/pkg/runtime"
	"github.com/chrlskrt/bisayaplusplus/pkg/token"
)

func applyBinary(op token.Token, left, right runtime.Value) (runtime.Value, error) {
	switch op.Kind {
	case token.CONCAT:
		return runtime.StringValue{Val: Stringify(left) + Stringify(right)}, nil
	case token.PLUS:
		if l, ok := left.(runtime.StringValue); ok {
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: l.Val + r.Val}, nil
			}
		}
		return arithmetic(op, left, right)
	case token.MINUS, token.MULTIPLY, token.DIVIDE, token.MODULO:
		return arithmetic(op, left, right)
	case token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL:
		return compare(op, left, right)
	case token.EQUAL:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case token.NOT_EQUAL:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	}
	return nil, runtimeErrorf(op.Line, "Unsupported binary operator '%s'.", op.Lexeme)
}

func toFloat(v runtime.Value) (float64, bool) {
	switch n := v.(type) {
	case runtime.IntegerValue:
		return float64(n.Val), true
	case runtime.FloatValue:
		return n.Val, true
	}
	return 0, false
}

// arithmetic computes in float64 when either operand is a float and in
// int64 otherwise, so integer results are already narrowed.
func arithmetic(op token.Token, left, right runtime.Value) (runtime.Value, error) {
	if !runtime.IsNumeric(left) || !runtime.IsNumeric(right) {
		return nil, runtimeErrorf(op.Line, "Operands of '%s' must be numbers, got %s and %s.",
			op.Lexeme, runtime.TypeOf(left), runtime.TypeOf(right))
	}
	l, lInt := left.(runtime.IntegerValue)
	r, rInt := right.(runtime.IntegerValue)
	if lInt && rInt {
		switch op.Kind {
		case token.PLUS:
			return runtime.IntegerValue{Val: l.Val + r.Val}, nil
		case token.MINUS:
			return runtime.IntegerValue{Val: l.Val - r.Val}, nil
		case token.MULTIPLY:
			return runtime.IntegerValue{Val: l.Val * r.Val}, nil
		case token.DIVIDE:
			if r.Val == 0 {
				return nil, runtimeErrorf(op.Line, "Division by zero.")
			}
			return runtime.IntegerValue{Val: l.Val / r.Val}, nil
		case token.MODULO:
			if r.Val == 0 {
				return nil, runtimeErrorf(op.Line, "Division by zero.")
			}
			return runtime.IntegerValue{Val: l.Val % r.Val}, nil
		}
	}
	lf, _ := toFloat(left)
	rf, _ := toFloat(right)
	switch op.Kind {
	case token.PLUS:
		return runtime.FloatValue{Val: lf + rf}, nil
	case token.MINUS:
		return runtime.FloatValue{Val: lf - rf}, nil
	case token.MULTIPLY:
		return runtime.FloatValue{Val: lf * rf}, nil
	case token.DIVIDE:
		if rf == 0 {
			return nil, runtimeErrorf(op.Line, "Division by zero.")
		}
		return runtime.FloatValue{Val: lf / rf}, nil
	case token.MODULO:
		if rf == 0 {
			return nil, runtimeErrorf(op.Line, "Division by zero.")
		}
		return runtime.FloatValue{Val: math.Mod(lf, rf)}, nil
	}
	return nil, runtimeErrorf(op.Line, "Unsupported arithmetic operator '%s'.", op.Lexeme)
}

func compare(op token.Token, left, right runtime.Value) (runtime.Value, error) {
	if !runtime.IsNumeric(left) || !runtime.IsNumeric(right) {
		return nil, runtimeErrorf(op.Line, "Operands of '%s' must be numbers, got %s and %s.",
			op.Lexeme, runtime.TypeOf(left), runtime.TypeOf(right))
	}
	cmp := compareNumbers(left, right)
	var result bool
	switch {
	case cmp == unordered:
		result = false
	case op.Kind == token.GREATER:
		result = cmp > 0
	case op.Kind == token.GREATER_EQUAL:
		result = cmp >= 0
	case op.Kind == token.LESS:
		result = cmp < 0
	case op.Kind == token.LESS_EQUAL:
		result = cmp <= 0
	}
	return runtime.BoolValue{Val: result}, nil
}

// unordered is returned by compareNumbers when either side is NaN.
const unordered = 2

func compareNumbers(left, right runtime.Value) int {
	if l, ok := left.(runtime.IntegerValue); ok {
		if r, ok := right.(runtime.IntegerValue); ok {
			switch {
			case l.Val < r.Val:
				return -1
			case l.Val > r.Val:
				return 1
			}
			return 0
		}
	}
	lf, _ := toFloat(left)
	rf, _ := toFloat(right)
	switch {
	case lf < rf:
		return -1
	case lf > rf:
		return 1
	case lf == rf:
		return 0
	}
	return unordered
}

// valuesEqual compares by value. Numbers compare across integer and float;
// a boolean equals a canonical word string with the same meaning.
func valuesEqual(left, right runtime.Value) bool {
	if runtime.IsNumeric(left) && runtime.IsNumeric(right) {
		return compareNumbers(left, right) == 0
	}
	switch l := left.(type) {
	case runtime.NullValue:
		_, ok := right.(runtime.NullValue)
		return ok
	case runtime.BoolValue:
		switch r := right.(type) {
		case runtime.BoolValue:
			return l.Val == r.Val
		case runtime.StringValue:
			return runtime.BoolWord(l.Val) == r.Val
		}
	case runtime.StringValue:
		switch r := right.(type) {
		case runtime.StringValue:
			return l.Val == r.Val
		case runtime.BoolValue:
			return l.Val == runtime.BoolWord(r.Val)
		}
	case runtime.CharValue:
		r, ok := right.(runtime.CharValue)
		return ok && l.Val == r.Val
	}
	return false
}

// Truthy applies the language's truthiness rules.
func Truthy(v runtime.Value) bool {
	switch val := v.(type) {
	case nil, runtime.NullValue:
		return false
	case runtime.BoolValue:
		return val.Val
	case runtime.StringValue:
		return val.Val != runtime.WordFalse
	case runtime.IntegerValue:
		return val.Val != 0
	case runtime.FloatValue:
		return val.Val != 0
	default:
		return true
	}
}

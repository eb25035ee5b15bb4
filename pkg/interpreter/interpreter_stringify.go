package interpreter

import (
	"math"
	"strconv"
	"strings"

	"github.com/chrlskrt/bisayaplusplus/pkg/runtime"
)

// Stringify renders a value the way IPAKITA and '&' print it.
func Stringify(val runtime.Value) string {
	switch v := val.(type) {
	case nil, runtime.NullValue:
		return "null"
	case runtime.BoolValue:
		return runtime.BoolWord(v.Val)
	case runtime.StringValue:
		return v.Val
	case runtime.CharValue:
		return string(v.Val)
	case runtime.IntegerValue:
		return strconv.FormatInt(v.Val, 10)
	case runtime.FloatValue:
		return formatFloat(v.Val)
	default:
		return "<" + val.Kind().String() + ">"
	}
}

// formatFloat always shows a fractional part and switches to E notation
// outside [1e-3, 1e7): 2.0, 0.5, 1.0E10, 1.5E-5.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'E', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mantissa + "E" + strconv.Itoa(n)
}

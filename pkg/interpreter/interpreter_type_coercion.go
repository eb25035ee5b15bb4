package interpreter

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chrlskrt/bisayaplusplus/pkg/runtime"
)

// coerceAssignment converts value for storage in a variable declared as
// declared. Computed booleans are stored as their canonical word and skip the
// type check.
func coerceAssignment(declared string, value runtime.Value, fromLiteral bool, name string, line int) (runtime.Value, error) {
	valueType := runtime.TypeOf(value)
	switch {
	case declared == runtime.TypeFloat && valueType == runtime.TypeInteger:
		value = runtime.FloatValue{Val: float64(value.(runtime.IntegerValue).Val)}
		valueType = runtime.TypeFloat
	case declared == runtime.TypeInteger && valueType == runtime.TypeFloat && !fromLiteral:
		value = runtime.IntegerValue{Val: narrow(value.(runtime.FloatValue).Val)}
		valueType = runtime.TypeInteger
	}
	if b, ok := value.(runtime.BoolValue); ok && !fromLiteral {
		// stored as the word whatever the declared type
		return runtime.StringValue{Val: runtime.BoolWord(b.Val)}, nil
	}
	if valueType != declared {
		return nil, &TypeMismatchError{DeclaredType: declared, ValueType: valueType, Variable: name, Line: line}
	}
	return value, nil
}

// narrow truncates toward zero, saturating at the int64 range. NaN becomes 0.
func narrow(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// convertInput parses one trimmed input field as the declared type.
func convertInput(field, declared string) (runtime.Value, bool) {
	switch declared {
	case runtime.TypeInteger:
		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, false
		}
		return runtime.IntegerValue{Val: n}, true
	case runtime.TypeFloat:
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, false
		}
		return runtime.FloatValue{Val: f}, true
	case runtime.TypeChar:
		if utf8.RuneCountInString(field) != 1 {
			return nil, false
		}
		r, _ := utf8.DecodeRuneInString(field)
		return runtime.CharValue{Val: r}, true
	case runtime.TypeBool:
		word := field
		if len(word) >= 2 && strings.HasPrefix(word, `"`) && strings.HasSuffix(word, `"`) {
			word = word[1 : len(word)-1]
		}
		if !runtime.IsBoolWord(word) {
			return nil, false
		}
		return runtime.StringValue{Val: word}, true
	}
	return nil, false
}

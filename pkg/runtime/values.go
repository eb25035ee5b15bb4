package runtime

import (
	"fmt"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindChar
	KindNull
	KindInteger
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Primitive type names as written in source.
const (
	TypeInteger = "NUMERO"
	TypeFloat   = "TIPIK"
	TypeChar    = "LETRA"
	TypeBool    = "TINUOD"
	TypeString  = "PULONG"
	TypeNull    = "null"
)

// Canonical boolean words.
const (
	WordTrue  = "OO"
	WordFalse = "DILI"
)

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type CharValue struct {
	Val rune
}

func (v CharValue) Kind() Kind { return KindChar }

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

// BoolWord returns the canonical word for b.
func BoolWord(b bool) string {
	if b {
		return WordTrue
	}
	return WordFalse
}

// IsBoolWord reports whether s is one of the canonical boolean words.
func IsBoolWord(s string) bool {
	return s == WordTrue || s == WordFalse
}

// TypeOf names the source-level type of v. A string holding a canonical
// boolean word is a TINUOD value.
func TypeOf(v Value) string {
	switch val := v.(type) {
	case IntegerValue:
		return TypeInteger
	case FloatValue:
		return TypeFloat
	case CharValue:
		return TypeChar
	case BoolValue:
		return TypeBool
	case StringValue:
		if IsBoolWord(val.Val) {
			return TypeBool
		}
		return TypeString
	case NullValue, nil:
		return TypeNull
	default:
		return fmt.Sprintf("%T", v)
	}
}

// IsNumeric reports whether v is an integer or float.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case IntegerValue, FloatValue:
		return true
	}
	return false
}

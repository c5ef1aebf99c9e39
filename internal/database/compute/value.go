package compute

import (
	"fmt"
	"strconv"
)

type ValueType int8

const (
	IntegerValue = ValueType(1)
	FloatValue   = ValueType(2)
	StringValue  = ValueType(3)
)

// Value is a scalar carried by a request or a response.
// Only the field matching Type is meaningful.
type Value struct {
	Type  ValueType
	Int   int32
	Float float64
	Str   string
}

func IntegerOf(i int32) Value {
	return Value{Type: IntegerValue, Int: i}
}

func FloatOf(f float64) Value {
	return Value{Type: FloatValue, Float: f}
}

func StringOf(s string) Value {
	return Value{Type: StringValue, Str: s}
}

// Tag names the value type the way it is shown to clients.
func (v Value) Tag() string {
	switch v.Type {
	case IntegerValue:
		return "i32"
	case FloatValue:
		return "f64"
	case StringValue:
		return "String"
	default:
		return "unknown"
	}
}

func (v Value) Literal() string {
	switch v.Type {
	case IntegerValue:
		return strconv.FormatInt(int64(v.Int), 10)
	case FloatValue:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case StringValue:
		return v.Str
	default:
		return ""
	}
}

// String renders the value as "<tag> val: <literal>".
func (v Value) String() string {
	return fmt.Sprintf("%s val: %s", v.Tag(), v.Literal())
}

package runtime

import (
	"strconv"

	"github.com/npillmayer/stakk/stakklang"
)

// Type tags of values. They are visible to programs through the TypeOf
// operator and the predefined constants Number_t, String_t, Fun_t and Nil_t.
const (
	NumberType   int8 = 0
	StringType   int8 = 1
	FunctionType int8 = 2
	NullType     int8 = 4
)

// Value is a runtime value. The set of value types is closed: Number, String,
// *Function and Null.
type Value interface {
	Type() int8
	String() string  // string form
	AsNumber() int64 // numeric coercion
	AsBool() bool    // boolean coercion
	isValue()
}

// Number is an integer value.
type Number int64

func (n Number) Type() int8      { return NumberType }
func (n Number) String() string  { return strconv.FormatInt(int64(n), 10) }
func (n Number) AsNumber() int64 { return int64(n) }
func (n Number) AsBool() bool    { return n != 0 }
func (Number) isValue()          {}

// String is a text value. Its numeric value is its length in bytes.
type String string

func (s String) Type() int8      { return StringType }
func (s String) String() string  { return string(s) }
func (s String) AsNumber() int64 { return int64(len(s)) }
func (s String) AsBool() bool    { return len(s) > 0 }
func (String) isValue()          {}

// Null is the empty value.
type Null struct{}

// Nil is the one null value.
var Nil Value = Null{}

func (Null) Type() int8      { return NullType }
func (Null) String() string  { return "" }
func (Null) AsNumber() int64 { return 0 }
func (Null) AsBool() bool    { return false }
func (Null) isValue()        {}

// Function is a closure: a function body together with the scope active at
// the function's declaration.
type Function struct {
	Name   string
	Params []string
	Env    *Scope
	Body   stakklang.Node
}

// Type returns FunctionType.
func (f *Function) Type() int8 { return FunctionType }

// String returns the function's name.
func (f *Function) String() string { return f.Name }

// AsNumber returns the length of the function's name.
func (f *Function) AsNumber() int64 { return int64(len(f.Name)) }

// AsBool is always false for functions.
func (f *Function) AsBool() bool { return false }

func (*Function) isValue() {}

// TypeName returns a readable name for a type tag.
func TypeName(t int8) string {
	switch t {
	case NumberType:
		return "number"
	case StringType:
		return "string"
	case FunctionType:
		return "function"
	case NullType:
		return "null"
	}
	return "unknown"
}

// Repr returns a representation of a value for REPL output, with strings
// quoted and functions marked.
func Repr(v Value) string {
	switch v := v.(type) {
	case String:
		return strconv.Quote(string(v))
	case *Function:
		return "<fun " + v.Name + ">"
	case Null, nil:
		return "Nil"
	}
	return v.String()
}

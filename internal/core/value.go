// Package core implements the runtime dynamic value described in spec
// section 3.4: an opaque tagged union ("Variable") with Undefined, Null,
// Number, Boolean, String, Object, Array, and Function variants, plus the
// coercion, arithmetic, and comparison semantics the C-ABI runtime contract
// (spec section 4.4) exposes to generated code. Value is the pure-Go
// representation; abi.go wraps it behind the cgo-exported ABI surface.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind discriminates a Value's active variant.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindNumber
	KindBoolean
	KindString
	KindObject
	KindArray
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Func is the native code-pointer shape a Function-kind Value holds:
// the callee receives one Value per declared parameter, mirroring the
// generated code's `Variable* (Variable** argv)` calling convention.
type Func struct {
	Name  string
	Arity int
	Call  func(args []*Value) *Value
}

// Value is the runtime dynamic value. A zero Value is Undefined.
type Value struct {
	kind   Kind
	num    float64
	boo    bool
	str    string
	obj    map[string]*Value
	arr    []*Value
	fn     *Func
}

// Undefined returns a fresh Undefined value, as the ABI's allocate does.
func Undefined() *Value { return &Value{kind: KindUndefined} }

// Null returns a fresh Null value.
func Null() *Value { return &Value{kind: KindNull} }

// NaN returns a fresh Number value holding NaN.
func NaN() *Value { return &Value{kind: KindNumber, num: math.NaN()} }

// Infinity returns a fresh Number value holding +Inf.
func Infinity() *Value { return &Value{kind: KindNumber, num: math.Inf(1)} }

// NegInfinity returns a fresh Number value holding -Inf.
func NegInfinity() *Value { return &Value{kind: KindNumber, num: math.Inf(-1)} }

// NewNumber returns a fresh Number value.
func NewNumber(n float64) *Value { return &Value{kind: KindNumber, num: n} }

// NewBoolean returns a fresh Boolean value.
func NewBoolean(b bool) *Value { return &Value{kind: KindBoolean, boo: b} }

// NewString returns a fresh String value.
func NewString(s string) *Value { return &Value{kind: KindString, str: s} }

// NewObject returns a fresh, empty Object value.
func NewObject() *Value { return &Value{kind: KindObject, obj: map[string]*Value{}} }

// NewArray returns a fresh Array value wrapping elems (not copied).
func NewArray(elems []*Value) *Value { return &Value{kind: KindArray, arr: elems} }

// NewFunction returns a fresh Function value.
func NewFunction(fn *Func) *Value { return &Value{kind: KindFunction, fn: fn} }

// Kind reports v's active variant.
func (v *Value) Kind() Kind { return v.kind }

// SetUndefined, SetNull, SetNaN, SetInfinity, SetNegInfinity perform the
// in-place payload replacements the ABI's set_undefined/set_null/set_nan/
// set_infinity/set_neginfinity functions expose.
func (v *Value) SetUndefined()    { *v = Value{kind: KindUndefined} }
func (v *Value) SetNull()         { *v = Value{kind: KindNull} }
func (v *Value) SetNaN()          { *v = Value{kind: KindNumber, num: math.NaN()} }
func (v *Value) SetInfinity()     { *v = Value{kind: KindNumber, num: math.Inf(1)} }
func (v *Value) SetNegInfinity()  { *v = Value{kind: KindNumber, num: math.Inf(-1)} }

// SetNumber is the ABI's set_number: in-place payload replacement.
func (v *Value) SetNumber(n float64) { *v = Value{kind: KindNumber, num: n} }

// SetBoolean is the ABI's set_boolean.
func (v *Value) SetBoolean(b bool) { *v = Value{kind: KindBoolean, boo: b} }

// SetString is the ABI's set_string: copies the string payload.
func (v *Value) SetString(s string) { *v = Value{kind: KindString, str: s} }

// SetObject is the ABI's set_object: in-place payload replacement with a
// fresh, empty property map, so codegen can turn an allocate()-produced
// Variable into an Object before writing its literal's properties onto it
// one at a time via get_property_by_name.
func (v *Value) SetObject() { *v = Value{kind: KindObject, obj: map[string]*Value{}} }

// SetArray is the ABI's set_array: in-place payload replacement with a
// fresh, empty element slice, the array counterpart to SetObject.
func (v *Value) SetArray() { *v = Value{kind: KindArray, arr: nil} }

// SetVariable is the ABI's set_variable: deep-copies src's payload into v.
func (v *Value) SetVariable(src *Value) {
	switch src.kind {
	case KindObject:
		cp := make(map[string]*Value, len(src.obj))
		for k, e := range src.obj {
			dup := &Value{}
			dup.SetVariable(e)
			cp[k] = dup
		}
		*v = Value{kind: KindObject, obj: cp}
	case KindArray:
		cp := make([]*Value, len(src.arr))
		for i, e := range src.arr {
			dup := &Value{}
			dup.SetVariable(e)
			cp[i] = dup
		}
		*v = Value{kind: KindArray, arr: cp}
	default:
		*v = *src
	}
}

// ToBoolean implements the ABI's convert_to_boolean coercion (spec 4.4):
// Undefined/Null/0/NaN/""→false; Object/Array/Function→true.
func (v *Value) ToBoolean() bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindBoolean:
		return v.boo
	case KindString:
		return strlen(v.str) != 0
	case KindObject, KindArray, KindFunction:
		return true
	default:
		return false
	}
}

// ToNumber implements the ABI's convert_to_number coercion: numeric
// coercion of a string uses the standard numeric parse, NaN on failure.
func (v *Value) ToNumber() float64 {
	switch v.kind {
	case KindUndefined:
		return math.NaN()
	case KindNull:
		return 0
	case KindNumber:
		return v.num
	case KindBoolean:
		if v.boo {
			return 1
		}
		return 0
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

// ToString implements the ABI's convert_to_string coercion. Numeric
// formatting follows the shortest round-tripping decimal, falling back
// from 'g' to 'f' formatting whenever 'g' would emit exponential
// notation, since the source language's number-literal grammar has no
// scientific-notation form. Negative zero prints as "0".
func (v *Value) ToString() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindNumber:
		return formatNumber(v.num)
	case KindBoolean:
		if v.boo {
			return "true"
		}
		return "false"
	case KindString:
		return v.str
	case KindObject:
		return "[object Object]"
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.ToString()
		}
		return strings.Join(parts, ",")
	case KindFunction:
		return fmt.Sprintf("function %s() { [native code] }", v.fn.Name)
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	s := strconv.FormatFloat(n, 'g', -1, 64)
	if strings.ContainsAny(s, "eE") {
		s = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return s
}

// Add implements the ABI's arithmetic_add. String concatenation applies
// when either operand is a string; otherwise both operands coerce to
// number.
func Add(a, b *Value) *Value {
	if a.kind == KindString || b.kind == KindString {
		return NewString(a.ToString() + b.ToString())
	}
	return NewNumber(a.ToNumber() + b.ToNumber())
}

// Sub implements the ABI's arithmetic_sub: "a" - 1 -> NaN (a non-numeric string coerces to NaN, and any
// arithmetic on NaN propagates NaN).
func Sub(a, b *Value) *Value { return NewNumber(a.ToNumber() - b.ToNumber()) }

// Mul implements the ABI's arithmetic_mul.
func Mul(a, b *Value) *Value { return NewNumber(a.ToNumber() * b.ToNumber()) }

// Div implements the ABI's arithmetic_div: division follows IEEE 754
// semantics via Go's float64 division (1/0 -> +Inf, 0/0 -> NaN).
func Div(a, b *Value) *Value { return NewNumber(a.ToNumber() / b.ToNumber()) }

// normalizeString NFC-normalizes s so visually-identical strings built
// from different combining-sequence representations compare equal.
func normalizeString(s string) string { return norm.NFC.String(s) }

// strlen and strcmp fold the raw string-length/comparison helpers
// exposed as the ABI's own predefined externs in the source project
// into plain internal Go helpers: the tagged-Variable ABI has no room
// for a raw char*-taking extern, since every codegen call site only
// ever holds Variable* handles.
func strlen(s string) int { return len(s) }

func strcmp(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// LooseEquals implements the ABI's logical_eq ("==", coerces).
func LooseEquals(a, b *Value) bool {
	if a.kind == b.kind {
		return StrictEquals(a, b)
	}
	switch {
	case a.kind == KindUndefined && b.kind == KindNull, a.kind == KindNull && b.kind == KindUndefined:
		return true
	case a.kind == KindNumber && b.kind == KindString, a.kind == KindString && b.kind == KindNumber:
		return a.ToNumber() == b.ToNumber()
	case a.kind == KindBoolean, b.kind == KindBoolean:
		return a.ToNumber() == b.ToNumber()
	default:
		return false
	}
}

// StrictEquals implements the ABI's logical_seq ("===", no coercion).
// Strings compare NFC-normalized; objects and arrays compare by
// identity, matching reference semantics (deep-equal is reserved for
// variable_assert_eq).
func StrictEquals(a, b *Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindNumber:
		return a.num == b.num
	case KindBoolean:
		return a.boo == b.boo
	case KindString:
		return strcmp(normalizeString(a.str), normalizeString(b.str)) == 0
	case KindObject, KindArray:
		return a == b
	case KindFunction:
		return a.fn == b.fn
	default:
		return false
	}
}

// DeepEquals implements variable_assert_eq's structural comparison,
// distinct from StrictEquals' identity comparison on Object/Array.
func DeepEquals(a, b *Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for k, av := range a.obj {
			bv, ok := b.obj[k]
			if !ok || !DeepEquals(av, bv) {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i, av := range a.arr {
			if !DeepEquals(av, b.arr[i]) {
				return false
			}
		}
		return true
	default:
		return StrictEquals(a, b)
	}
}

// Not implements the ABI's logical_not: coerces then negates.
func Not(v *Value) bool { return !v.ToBoolean() }

// GetPropertyByName implements the ABI's get_property_by_name. If
// allocate is set and the property is absent on an Object, an Undefined
// property is created and returned; Array indices accept decimal names
// ("0", "1", ...) and out-of-range reads/writes grow the array on
// allocate.
func (v *Value) GetPropertyByName(name string, allocate bool) *Value {
	switch v.kind {
	case KindObject:
		if prop, ok := v.obj[name]; ok {
			return prop
		}
		if !allocate {
			return Undefined()
		}
		prop := Undefined()
		v.obj[name] = prop
		return prop
	case KindArray:
		idx, err := strconv.Atoi(name)
		if err != nil || idx < 0 {
			return Undefined()
		}
		if idx < len(v.arr) {
			return v.arr[idx]
		}
		if !allocate {
			return Undefined()
		}
		for len(v.arr) <= idx {
			v.arr = append(v.arr, Undefined())
		}
		return v.arr[idx]
	default:
		return Undefined()
	}
}

// GetPropertyByVar implements the ABI's get_property_by_var: the key
// coerces to a string by the same rule a bracket-index expression does.
func (v *Value) GetPropertyByVar(key *Value, allocate bool) *Value {
	return v.GetPropertyByName(key.ToString(), allocate)
}

package core

/*
#include <stdbool.h>

typedef void* Variable;
*/
import "C"

import (
	"fmt"
	"os"
	"runtime/cgo"
	"unsafe"
)

// This file wraps Value behind the exact C-ABI surface spec section 4.4
// hard-codes into codegen's `declare`d externs. Every Variable* codegen
// emits is, at this boundary, a runtime/cgo.Handle disguised as a C
// pointer: cgo.Handle values are already integers, so converting one to
// and from an opaque C pointer needs no bookkeeping beyond the
// handle/pointer round-trip itself. abortFunc is overridable so a driver
// can redirect `abort` (spec's C.2 open-question resolution) without
// this package depending on internal/config.
var abortFunc = func() { os.Exit(1) }

// SetAbortFunc overrides the behavior of the ABI's abort extern.
func SetAbortFunc(f func()) { abortFunc = f }

func handleToPtr(h cgo.Handle) C.Variable {
	return C.Variable(unsafe.Pointer(uintptr(h)))
}

func ptrToHandle(p C.Variable) cgo.Handle {
	return cgo.Handle(uintptr(unsafe.Pointer(p)))
}

func valueOf(p C.Variable) *Value {
	return ptrToHandle(p).Value().(*Value)
}

func newHandle(v *Value) C.Variable {
	return handleToPtr(cgo.NewHandle(v))
}

//export allocate
func allocate() C.Variable {
	return newHandle(Undefined())
}

//export deallocate
func deallocate(this C.Variable) {
	ptrToHandle(this).Delete()
}

//export set_undefined
func set_undefined(this C.Variable) { valueOf(this).SetUndefined() }

//export set_null
func set_null(this C.Variable) { valueOf(this).SetNull() }

//export set_nan
func set_nan(this C.Variable) { valueOf(this).SetNaN() }

//export set_infinity
func set_infinity(this C.Variable) { valueOf(this).SetInfinity() }

//export set_neginfinity
func set_neginfinity(this C.Variable) { valueOf(this).SetNegInfinity() }

//export set_number
func set_number(this C.Variable, val C.double) { valueOf(this).SetNumber(float64(val)) }

//export set_boolean
func set_boolean(this C.Variable, val C.bool) { valueOf(this).SetBoolean(bool(val)) }

//export set_string
func set_string(this C.Variable, val *C.char) {
	valueOf(this).SetString(C.GoString(val))
}

//export set_variable
func set_variable(this, val C.Variable) {
	valueOf(this).SetVariable(valueOf(val))
}

// set_object and set_array are supplemental externs beyond spec's own ABI
// table, the object/array-literal counterpart to variable_truthy: the
// table's allocate/set_* surface otherwise has no way to turn a freshly
// allocated Variable into an Object or Array before codegen writes a
// literal's properties/elements onto it.
//
//export set_object
func set_object(this C.Variable) { valueOf(this).SetObject() }

//export set_array
func set_array(this C.Variable) { valueOf(this).SetArray() }

//export convert_to_number
func convert_to_number(this C.Variable) C.Variable {
	return newHandle(NewNumber(valueOf(this).ToNumber()))
}

//export convert_to_boolean
func convert_to_boolean(this C.Variable) C.Variable {
	return newHandle(NewBoolean(valueOf(this).ToBoolean()))
}

//export convert_to_string
func convert_to_string(this C.Variable) C.Variable {
	return newHandle(NewString(valueOf(this).ToString()))
}

// variable_truthy is the supplemental extern codegen declares beyond
// spec's own ABI table: convert_to_boolean returns a Variable*, not a
// raw bit, and every condition site needs an actual i1 to branch on.
//
//export variable_truthy
func variable_truthy(this C.Variable) C.bool {
	return C.bool(valueOf(this).ToBoolean())
}

//export arithmetic_add
func arithmetic_add(val1, val2 C.Variable) C.Variable {
	return newHandle(Add(valueOf(val1), valueOf(val2)))
}

//export arithmetic_sub
func arithmetic_sub(val1, val2 C.Variable) C.Variable {
	return newHandle(Sub(valueOf(val1), valueOf(val2)))
}

//export arithmetic_mul
func arithmetic_mul(val1, val2 C.Variable) C.Variable {
	return newHandle(Mul(valueOf(val1), valueOf(val2)))
}

//export arithmetic_div
func arithmetic_div(val1, val2 C.Variable) C.Variable {
	return newHandle(Div(valueOf(val1), valueOf(val2)))
}

//export logical_eq
func logical_eq(val1, val2 C.Variable) C.Variable {
	return newHandle(NewBoolean(LooseEquals(valueOf(val1), valueOf(val2))))
}

//export logical_ne
func logical_ne(val1, val2 C.Variable) C.Variable {
	return newHandle(NewBoolean(!LooseEquals(valueOf(val1), valueOf(val2))))
}

//export logical_seq
func logical_seq(val1, val2 C.Variable) C.Variable {
	return newHandle(NewBoolean(StrictEquals(valueOf(val1), valueOf(val2))))
}

//export logical_sne
func logical_sne(val1, val2 C.Variable) C.Variable {
	return newHandle(NewBoolean(!StrictEquals(valueOf(val1), valueOf(val2))))
}

//export logical_and
func logical_and(val1, val2 C.Variable) C.Variable {
	return newHandle(NewBoolean(valueOf(val1).ToBoolean() && valueOf(val2).ToBoolean()))
}

//export logical_or
func logical_or(val1, val2 C.Variable) C.Variable {
	return newHandle(NewBoolean(valueOf(val1).ToBoolean() || valueOf(val2).ToBoolean()))
}

//export logical_not
func logical_not(this C.Variable) C.Variable {
	return newHandle(NewBoolean(Not(valueOf(this))))
}

//export get_property_by_name
func get_property_by_name(this C.Variable, name *C.char, allocate C.bool) C.Variable {
	return newHandle(valueOf(this).GetPropertyByName(C.GoString(name), bool(allocate)))
}

//export get_property_by_var
func get_property_by_var(this, key C.Variable, allocate C.bool) C.Variable {
	return newHandle(valueOf(this).GetPropertyByVar(valueOf(key), bool(allocate)))
}

//export variable_assert
func variable_assert(this C.Variable) {
	if !valueOf(this).ToBoolean() {
		abortFunc()
	}
}

//export variable_assert_eq
func variable_assert_eq(val1, val2 C.Variable) {
	if !DeepEquals(valueOf(val1), valueOf(val2)) {
		abortFunc()
	}
}

//export print
func print(this C.Variable) {
	fmt.Println(valueOf(this).ToString())
}

//export abort
func abort() {
	abortFunc()
}

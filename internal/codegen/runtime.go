package codegen

import "github.com/jsnc-lang/jsnc/internal/codegen/llvmir"

// declareRuntime registers every extern function of the "core" runtime ABI
// (spec §4.4) onto mod. Declared once per module; call sites simply
// reference the names.
func declareRuntime(mod *llvmir.Module) {
	v := llvmir.VariablePtrType

	mod.DeclareExternFunction("allocate", v, nil)
	mod.DeclareExternFunction("deallocate", "void", []string{v})

	for _, name := range []string{"set_undefined", "set_null", "set_nan", "set_infinity", "set_neginfinity"} {
		mod.DeclareExternFunction(name, "void", []string{v})
	}
	mod.DeclareExternFunction("set_number", "void", []string{v, "double"})
	mod.DeclareExternFunction("set_boolean", "void", []string{v, "i1"})
	mod.DeclareExternFunction("set_string", "void", []string{v, "i8*"})
	mod.DeclareExternFunction("set_variable", "void", []string{v, v})

	// set_object/set_array are not named by the ABI table either, for the
	// same reason variable_truthy below isn't: the table's allocate/set_*
	// surface has no aggregate constructor, and object/array literals need
	// one before their properties/elements can be written via
	// get_property_by_name.
	mod.DeclareExternFunction("set_object", "void", []string{v})
	mod.DeclareExternFunction("set_array", "void", []string{v})

	mod.DeclareExternFunction("convert_to_number", v, []string{v})
	mod.DeclareExternFunction("convert_to_boolean", v, []string{v})
	mod.DeclareExternFunction("convert_to_string", v, []string{v})

	for _, name := range []string{"arithmetic_add", "arithmetic_sub", "arithmetic_mul", "arithmetic_div"} {
		mod.DeclareExternFunction(name, v, []string{v, v})
	}
	for _, name := range []string{"logical_eq", "logical_ne", "logical_seq", "logical_sne", "logical_and", "logical_or"} {
		mod.DeclareExternFunction(name, v, []string{v, v})
	}
	mod.DeclareExternFunction("logical_not", v, []string{v})

	mod.DeclareExternFunction("get_property_by_name", v, []string{v, "i8*", "i1"})
	mod.DeclareExternFunction("get_property_by_var", v, []string{v, v, "i1"})

	mod.DeclareExternFunction("variable_assert", "void", []string{v})
	mod.DeclareExternFunction("variable_assert_eq", "void", []string{v, v})
	mod.DeclareExternFunction("print", "void", []string{v})
	mod.DeclareExternFunction("abort", "void", nil)

	// variable_truthy is not named by the ABI table itself: the table's
	// convert_to_boolean returns a Variable*, and branching needs a raw i1.
	// Every condition lowering (if/while/do-while, && / ||) needs exactly
	// this predicate, so it is declared here as the one addition to the
	// table rather than hand-rolled per call site.
	mod.DeclareExternFunction("variable_truthy", "i1", []string{v})
}

func typedArg(typ, value string) string {
	return typ + " " + value
}

func vArg(value string) string {
	return typedArg(llvmir.VariablePtrType, value)
}

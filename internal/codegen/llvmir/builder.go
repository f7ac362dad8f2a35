package llvmir

// CreateAlloca emits a stack slot of typ and returns its pointer register.
func (f *Function) CreateAlloca(typ string) string {
	reg := f.NewTemp()
	f.emit("%s = alloca %s", reg, typ)
	return reg
}

// CreateStore stores value (of typ) into ptr.
func (f *Function) CreateStore(typ, value, ptr string) {
	f.emit("store %s %s, %s* %s", typ, value, typ, ptr)
}

// CreateLoad loads typ from ptr into a fresh register.
func (f *Function) CreateLoad(typ, ptr string) string {
	reg := f.NewTemp()
	f.emit("%s = load %s, %s* %s", reg, typ, typ, ptr)
	return reg
}

// CreateCall emits a call to fnName with args (each "type value"),
// returning the result register, or "" for a void call.
func (f *Function) CreateCall(retType, fnName string, args []string) string {
	argList := ""
	for i, a := range args {
		if i > 0 {
			argList += ", "
		}
		argList += a
	}
	if retType == "void" {
		f.emit("call void @%s(%s)", fnName, argList)
		return ""
	}
	reg := f.NewTemp()
	f.emit("%s = call %s @%s(%s)", reg, retType, fnName, argList)
	return reg
}

// CreateCondBr emits a conditional branch on cond (an i1 value).
func (f *Function) CreateCondBr(cond, trueLabel, falseLabel string) {
	f.emit("br i1 %s, label %%%s, label %%%s", cond, label(trueLabel), label(falseLabel))
}

// CreateBr emits an unconditional branch.
func (f *Function) CreateBr(target string) {
	f.emit("br label %%%s", label(target))
}

// CreateICmpEQ emits an integer-equality comparison, returning an i1
// register. Used to compare the i1 result of variable_truthy against 1.
func (f *Function) CreateICmpEQ(typ, lhs, rhs string) string {
	reg := f.NewTemp()
	f.emit("%s = icmp eq %s %s, %s", reg, typ, lhs, rhs)
	return reg
}

// CreateRet emits a return of the given typed value.
func (f *Function) CreateRet(typ, value string) {
	f.emit("ret %s %s", typ, value)
}

// CreateRetVoid emits a bare void return.
func (f *Function) CreateRetVoid() {
	f.emit("ret void")
}

// CreateBitCast reinterprets value's type without changing its bits.
func (f *Function) CreateBitCast(value, fromType, toType string) string {
	reg := f.NewTemp()
	f.emit("%s = bitcast %s %s to %s", reg, fromType, value, toType)
	return reg
}

// CreateGEPIndex indexes into an array of elemType at basePtr, returning an
// element pointer. Used to pull argv[i] out of a function's argument array
// and to build a call site's own argv array.
func (f *Function) CreateGEPIndex(elemType, basePtr string, index int) string {
	reg := f.NewTemp()
	f.emit("%s = getelementptr %s, %s* %s, i64 %d", reg, elemType, elemType, basePtr, index)
	return reg
}

// CreateGlobalStringPtr decays a [n x i8] global constant to an i8*.
func (f *Function) CreateGlobalStringPtr(global string, length int) string {
	reg := f.NewTemp()
	f.emit("%s = getelementptr [%d x i8], [%d x i8]* %s, i64 0, i64 0", reg, length, length, global)
	return reg
}

func label(l string) string {
	if len(l) > 0 && l[0] == '%' {
		return l[1:]
	}
	return l
}

package codegen

import (
	"fmt"
	"strconv"

	"github.com/jsnc-lang/jsnc/internal/codegen/llvmir"
	"github.com/jsnc-lang/jsnc/internal/ir"
	"github.com/jsnc-lang/jsnc/internal/token"
)

// lowerStatements lowers stmts in order, returning whether the block ended
// in an unconditional branch to the epilogue (spec §4.3: "if it doesn't end
// in return, branch to continue").
func (g *Generator) lowerStatements(c *ctx, stmts []ir.Statement) (bool, error) {
	terminated := false
	for _, s := range stmts {
		if terminated {
			break
		}
		t, err := g.lowerStatement(c, s)
		if err != nil {
			return false, err
		}
		terminated = t
	}
	return terminated, nil
}

func (g *Generator) lowerStatement(c *ctx, s ir.Statement) (bool, error) {
	v := vArg
	switch st := s.(type) {
	case *ir.VarDecl:
		slotVar := c.f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		slot := c.f.CreateAlloca(llvmir.VariablePtrType)
		c.f.CreateStore(llvmir.VariablePtrType, slotVar, slot)
		c.slots[st.Name.String()] = slot

		initVal, isTmp, err := g.lowerExpr(c, st.Init)
		if err != nil {
			return false, err
		}
		c.f.CreateCall("void", "set_variable", []string{v(slotVar), v(initVal)})
		if isTmp {
			c.f.CreateCall("void", "deallocate", []string{v(initVal)})
		}
		return false, nil

	case *ir.Assignment:
		targetPtr, err := g.lowerLValue(c, st.Target)
		if err != nil {
			return false, err
		}
		rightVal, isTmp, err := g.lowerExpr(c, st.Value)
		if err != nil {
			return false, err
		}
		c.f.CreateCall("void", "set_variable", []string{v(targetPtr), v(rightVal)})
		if isTmp {
			c.f.CreateCall("void", "deallocate", []string{v(rightVal)})
		}
		return false, nil

	case *ir.ExprStmt:
		val, isTmp, err := g.lowerExpr(c, st.Expr)
		if err != nil {
			return false, err
		}
		if isTmp {
			c.f.CreateCall("void", "deallocate", []string{v(val)})
		}
		return false, nil

	case *ir.ReturnStmt:
		if st.HasValue {
			val, isTmp, err := g.lowerExpr(c, st.Value)
			if err != nil {
				return false, err
			}
			retVar := c.f.CreateLoad(llvmir.VariablePtrType, c.retSlot)
			c.f.CreateCall("void", "set_variable", []string{v(retVar), v(val)})
			if isTmp {
				c.f.CreateCall("void", "deallocate", []string{v(val)})
			}
		}
		c.f.CreateBr("epilogue")
		return true, nil

	case *ir.Deallocate:
		slot, ok := c.slots[st.Target.String()]
		if !ok {
			return false, fmt.Errorf("deallocate of unknown binding %s", st.Target)
		}
		val := c.f.CreateLoad(llvmir.VariablePtrType, slot)
		c.f.CreateCall("void", "deallocate", []string{v(val)})
		return false, nil

	case *ir.IfStmt:
		return g.lowerIf(c, st)

	case *ir.WhileStmt:
		return g.lowerWhile(c, st)

	case *ir.DoWhileStmt:
		return g.lowerDoWhile(c, st)

	default:
		return false, fmt.Errorf("unsupported IR statement %T", s)
	}
}

func (g *Generator) lowerIf(c *ctx, st *ir.IfStmt) (bool, error) {
	condI1, err := g.lowerCondition(c, st.Cond)
	if err != nil {
		return false, err
	}

	thenLabel := c.newLabel("then")
	contLabel := c.newLabel("continue")
	elseLabel := contLabel
	if st.HasElse {
		elseLabel = c.newLabel("else")
	}
	c.f.CreateCondBr(condI1, thenLabel, elseLabel)

	thenBlock := c.f.AddBasicBlock(thenLabel)
	c.f.SetInsertPoint(thenBlock)
	thenTerminated, err := g.lowerStatements(c, st.Then)
	if err != nil {
		return false, err
	}
	if !thenTerminated {
		c.f.CreateBr(contLabel)
	}

	elseTerminated := false
	if st.HasElse {
		elseBlock := c.f.AddBasicBlock(elseLabel)
		c.f.SetInsertPoint(elseBlock)
		elseTerminated, err = g.lowerStatements(c, st.Else)
		if err != nil {
			return false, err
		}
		if !elseTerminated {
			c.f.CreateBr(contLabel)
		}
	}

	bothReturn := thenTerminated && st.HasElse && elseTerminated
	if bothReturn {
		return true, nil
	}

	contBlock := c.f.AddBasicBlock(contLabel)
	c.f.SetInsertPoint(contBlock)
	return false, nil
}

func (g *Generator) lowerWhile(c *ctx, st *ir.WhileStmt) (bool, error) {
	condLabel := c.newLabel("cond")
	bodyLabel := c.newLabel("body")
	contLabel := c.newLabel("continue")

	c.f.CreateBr(condLabel)

	condBlock := c.f.AddBasicBlock(condLabel)
	c.f.SetInsertPoint(condBlock)
	condI1, err := g.lowerCondition(c, st.Cond)
	if err != nil {
		return false, err
	}
	c.f.CreateCondBr(condI1, bodyLabel, contLabel)

	bodyBlock := c.f.AddBasicBlock(bodyLabel)
	c.f.SetInsertPoint(bodyBlock)
	terminated, err := g.lowerStatements(c, st.Body)
	if err != nil {
		return false, err
	}
	if !terminated {
		c.f.CreateBr(condLabel)
	}

	contBlock := c.f.AddBasicBlock(contLabel)
	c.f.SetInsertPoint(contBlock)
	return false, nil
}

func (g *Generator) lowerDoWhile(c *ctx, st *ir.DoWhileStmt) (bool, error) {
	condLabel := c.newLabel("cond")
	bodyLabel := c.newLabel("body")
	contLabel := c.newLabel("continue")

	c.f.CreateBr(bodyLabel)

	bodyBlock := c.f.AddBasicBlock(bodyLabel)
	c.f.SetInsertPoint(bodyBlock)
	terminated, err := g.lowerStatements(c, st.Body)
	if err != nil {
		return false, err
	}
	if !terminated {
		c.f.CreateBr(condLabel)
	}

	condBlock := c.f.AddBasicBlock(condLabel)
	c.f.SetInsertPoint(condBlock)
	condI1, err := g.lowerCondition(c, st.Cond)
	if err != nil {
		return false, err
	}
	c.f.CreateCondBr(condI1, bodyLabel, contLabel)

	contBlock := c.f.AddBasicBlock(contLabel)
	c.f.SetInsertPoint(contBlock)
	return false, nil
}

// lowerCondition evaluates e, coerces it to boolean via the runtime, and
// compares against 1 (spec §4.3), returning an i1 register ready to branch
// on.
func (g *Generator) lowerCondition(c *ctx, e ir.Expression) (string, error) {
	val, isTmp, err := g.lowerExpr(c, e)
	if err != nil {
		return "", err
	}
	boolVar := c.f.CreateCall(llvmir.VariablePtrType, "convert_to_boolean", []string{vArg(val)})
	if isTmp {
		c.f.CreateCall("void", "deallocate", []string{vArg(val)})
	}
	truthy := c.f.CreateCall("i1", "variable_truthy", []string{vArg(boolVar)})
	c.f.CreateCall("void", "deallocate", []string{vArg(boolVar)})
	return c.f.CreateICmpEQ("i1", truthy, "1"), nil
}

// lowerPropertySlotByName declares name as a global string constant and
// calls get_property_by_name(base, name, allocate=true), returning the
// resulting property slot. Shared by member-dot assignment and by
// object/array literal construction, both of which need a by-name property
// slot created if absent.
func (g *Generator) lowerPropertySlotByName(c *ctx, base, name string) string {
	global := g.mod.DeclareGlobalString(name)
	namePtr := c.f.CreateGlobalStringPtr(global, len(name)+1)
	return c.f.CreateCall(llvmir.VariablePtrType, "get_property_by_name", []string{
		vArg(base), typedArg("i8*", namePtr), typedArg("i1", "true"),
	})
}

func (g *Generator) lowerLValue(c *ctx, e ir.Expression) (string, error) {
	switch v := e.(type) {
	case ir.IdentifierValue:
		slot, ok := c.slots[v.Name.String()]
		if !ok {
			return "", fmt.Errorf("assignment to unresolved binding %s", v.Name)
		}
		return c.f.CreateLoad(llvmir.VariablePtrType, slot), nil

	case *ir.MemberDot:
		base, isTmp, err := g.lowerExprNode(c, v.Base)
		if err != nil {
			return "", err
		}
		prop := g.lowerPropertySlotByName(c, base, v.Name)
		if isTmp {
			c.f.CreateCall("void", "deallocate", []string{vArg(base)})
		}
		return prop, nil

	case *ir.MemberIndex:
		base, isTmpBase, err := g.lowerExprNode(c, v.Base)
		if err != nil {
			return "", err
		}
		idx, isTmpIdx, err := g.lowerExpr(c, v.Index)
		if err != nil {
			return "", err
		}
		prop := c.f.CreateCall(llvmir.VariablePtrType, "get_property_by_var", []string{
			vArg(base), vArg(idx), typedArg("i1", "true"),
		})
		if isTmpIdx {
			c.f.CreateCall("void", "deallocate", []string{vArg(idx)})
		}
		if isTmpBase {
			c.f.CreateCall("void", "deallocate", []string{vArg(base)})
		}
		return prop, nil

	default:
		return "", fmt.Errorf("unsupported assignment target %T", e)
	}
}

// lowerExpr evaluates e and returns its handle plus whether that handle is
// an owned temporary the caller must eventually deallocate.
func (g *Generator) lowerExpr(c *ctx, e ir.Expression) (string, bool, error) {
	return g.lowerExprNode(c, e)
}

func (g *Generator) lowerExprNode(c *ctx, e ir.Expression) (string, bool, error) {
	f := c.f
	switch v := e.(type) {
	case ir.UndefinedValue:
		reg := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		f.CreateCall("void", "set_undefined", []string{vArg(reg)})
		return reg, true, nil

	case ir.NullValue:
		reg := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		f.CreateCall("void", "set_null", []string{vArg(reg)})
		return reg, true, nil

	case ir.NaNValue:
		reg := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		f.CreateCall("void", "set_nan", []string{vArg(reg)})
		return reg, true, nil

	case ir.InfinityValue:
		reg := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		f.CreateCall("void", "set_infinity", []string{vArg(reg)})
		return reg, true, nil

	case ir.NegInfinityValue:
		reg := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		f.CreateCall("void", "set_neginfinity", []string{vArg(reg)})
		return reg, true, nil

	case ir.BooleanValue:
		reg := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		lit := "false"
		if v.Val {
			lit = "true"
		}
		f.CreateCall("void", "set_boolean", []string{vArg(reg), typedArg("i1", lit)})
		return reg, true, nil

	case ir.NumberValue:
		reg := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		f.CreateCall("void", "set_number", []string{vArg(reg), typedArg("double", formatFloat(v.Val))})
		return reg, true, nil

	case ir.StringValue:
		reg := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		global := g.mod.DeclareGlobalString(v.Val)
		ptr := f.CreateGlobalStringPtr(global, len(v.Val)+1)
		f.CreateCall("void", "set_string", []string{vArg(reg), typedArg("i8*", ptr)})
		return reg, true, nil

	case ir.IdentifierValue:
		slot, ok := c.slots[v.Name.String()]
		if !ok {
			return "", false, fmt.Errorf("reference to unresolved binding %s", v.Name)
		}
		return f.CreateLoad(llvmir.VariablePtrType, slot), false, nil

	case ir.ObjectLiteralValue:
		reg := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		f.CreateCall("void", "set_object", []string{vArg(reg)})
		for _, prop := range v.Props {
			val, isTmp, err := g.lowerExprNode(c, prop.Value)
			if err != nil {
				return "", false, err
			}
			slot := g.lowerPropertySlotByName(c, reg, prop.Key)
			f.CreateCall("void", "set_variable", []string{vArg(slot), vArg(val)})
			if isTmp {
				f.CreateCall("void", "deallocate", []string{vArg(val)})
			}
		}
		return reg, true, nil

	case ir.ArrayLiteralValue:
		reg := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		f.CreateCall("void", "set_array", []string{vArg(reg)})
		for i, el := range v.Elements {
			val, isTmp, err := g.lowerExprNode(c, el)
			if err != nil {
				return "", false, err
			}
			slot := g.lowerPropertySlotByName(c, reg, strconv.Itoa(i))
			f.CreateCall("void", "set_variable", []string{vArg(slot), vArg(val)})
			if isTmp {
				f.CreateCall("void", "deallocate", []string{vArg(val)})
			}
		}
		return reg, true, nil

	case *ir.UnaryExpr:
		return g.lowerUnary(c, v)

	case *ir.BinaryExpr:
		if v.Op == token.AND || v.Op == token.OR {
			return g.lowerShortCircuit(c, v)
		}
		return g.lowerBinary(c, v)

	case *ir.MemberDot:
		base, isTmp, err := g.lowerExprNode(c, v.Base)
		if err != nil {
			return "", false, err
		}
		global := g.mod.DeclareGlobalString(v.Name)
		namePtr := f.CreateGlobalStringPtr(global, len(v.Name)+1)
		prop := f.CreateCall(llvmir.VariablePtrType, "get_property_by_name", []string{
			vArg(base), typedArg("i8*", namePtr), typedArg("i1", "false"),
		})
		if isTmp {
			f.CreateCall("void", "deallocate", []string{vArg(base)})
		}
		return prop, true, nil

	case *ir.MemberIndex:
		base, isTmpBase, err := g.lowerExprNode(c, v.Base)
		if err != nil {
			return "", false, err
		}
		idx, isTmpIdx, err := g.lowerExpr(c, v.Index)
		if err != nil {
			return "", false, err
		}
		prop := f.CreateCall(llvmir.VariablePtrType, "get_property_by_var", []string{
			vArg(base), vArg(idx), typedArg("i1", "false"),
		})
		if isTmpIdx {
			f.CreateCall("void", "deallocate", []string{vArg(idx)})
		}
		if isTmpBase {
			f.CreateCall("void", "deallocate", []string{vArg(base)})
		}
		return prop, true, nil

	case *ir.CallExpr:
		return g.lowerCall(c, v)

	default:
		return "", false, fmt.Errorf("unsupported IR expression %T", e)
	}
}

func (g *Generator) lowerUnary(c *ctx, v *ir.UnaryExpr) (string, bool, error) {
	f := c.f
	operand, isTmp, err := g.lowerExprNode(c, v.Operand)
	if err != nil {
		return "", false, err
	}
	switch v.Op {
	case token.BANG:
		result := f.CreateCall(llvmir.VariablePtrType, "logical_not", []string{vArg(operand)})
		if isTmp {
			f.CreateCall("void", "deallocate", []string{vArg(operand)})
		}
		return result, true, nil
	case token.MINUS:
		zero := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
		f.CreateCall("void", "set_number", []string{vArg(zero), typedArg("double", "0.0")})
		result := f.CreateCall(llvmir.VariablePtrType, "arithmetic_sub", []string{vArg(zero), vArg(operand)})
		f.CreateCall("void", "deallocate", []string{vArg(zero)})
		if isTmp {
			f.CreateCall("void", "deallocate", []string{vArg(operand)})
		}
		return result, true, nil
	default:
		return "", false, fmt.Errorf("unsupported unary operator %s", v.Op)
	}
}

func binaryRuntimeFunc(op token.Type) (string, error) {
	switch op {
	case token.PLUS:
		return "arithmetic_add", nil
	case token.MINUS:
		return "arithmetic_sub", nil
	case token.STAR:
		return "arithmetic_mul", nil
	case token.SLASH:
		return "arithmetic_div", nil
	case token.EQ:
		return "logical_eq", nil
	case token.NOT_EQ:
		return "logical_ne", nil
	case token.STRICT_EQ:
		return "logical_seq", nil
	case token.STRICT_NOT_EQ:
		return "logical_sne", nil
	default:
		return "", fmt.Errorf("unsupported binary operator %s", op)
	}
}

func (g *Generator) lowerBinary(c *ctx, v *ir.BinaryExpr) (string, bool, error) {
	f := c.f
	left, isTmpL, err := g.lowerExprNode(c, v.Left)
	if err != nil {
		return "", false, err
	}
	right, isTmpR, err := g.lowerExprNode(c, v.Right)
	if err != nil {
		return "", false, err
	}
	fn, err := binaryRuntimeFunc(v.Op)
	if err != nil {
		return "", false, err
	}
	result := f.CreateCall(llvmir.VariablePtrType, fn, []string{vArg(left), vArg(right)})
	if isTmpL {
		f.CreateCall("void", "deallocate", []string{vArg(left)})
	}
	if isTmpR {
		f.CreateCall("void", "deallocate", []string{vArg(right)})
	}
	return result, true, nil
}

// lowerShortCircuit implements `&&`/`||` per spec §4.3: branch on the
// coerced-boolean of the left operand to decide whether to evaluate the
// right, returning the last evaluated operand rather than a boolean.
func (g *Generator) lowerShortCircuit(c *ctx, v *ir.BinaryExpr) (string, bool, error) {
	f := c.f
	resultSlot := f.CreateAlloca(llvmir.VariablePtrType)
	placeholder := f.CreateCall(llvmir.VariablePtrType, "allocate", nil)
	f.CreateStore(llvmir.VariablePtrType, placeholder, resultSlot)

	left, isTmpL, err := g.lowerExprNode(c, v.Left)
	if err != nil {
		return "", false, err
	}
	f.CreateCall("void", "set_variable", []string{vArg(placeholder), vArg(left)})

	boolVar := f.CreateCall(llvmir.VariablePtrType, "convert_to_boolean", []string{vArg(left)})
	truthy := f.CreateCall("i1", "variable_truthy", []string{vArg(boolVar)})
	f.CreateCall("void", "deallocate", []string{vArg(boolVar)})
	if isTmpL {
		f.CreateCall("void", "deallocate", []string{vArg(left)})
	}
	cmp := f.CreateICmpEQ("i1", truthy, "1")

	evalRightLabel := c.newLabel("scEvalRight")
	contLabel := c.newLabel("scContinue")
	if v.Op == token.AND {
		f.CreateCondBr(cmp, evalRightLabel, contLabel)
	} else {
		f.CreateCondBr(cmp, contLabel, evalRightLabel)
	}

	rightBlock := f.AddBasicBlock(evalRightLabel)
	f.SetInsertPoint(rightBlock)
	right, isTmpR, err := g.lowerExprNode(c, v.Right)
	if err != nil {
		return "", false, err
	}
	f.CreateCall("void", "set_variable", []string{vArg(placeholder), vArg(right)})
	if isTmpR {
		f.CreateCall("void", "deallocate", []string{vArg(right)})
	}
	f.CreateBr(contLabel)

	contBlock := f.AddBasicBlock(contLabel)
	f.SetInsertPoint(contBlock)
	result := f.CreateLoad(llvmir.VariablePtrType, resultSlot)
	return result, true, nil
}

func (g *Generator) lowerCall(c *ctx, v *ir.CallExpr) (string, bool, error) {
	f := c.f
	ident, ok := v.Callee.(ir.IdentifierValue)
	if !ok {
		return "", false, fmt.Errorf("unsupported call target %T", v.Callee)
	}

	argSlots := make([]string, len(v.Args))
	argTmps := make([]bool, len(v.Args))
	for i, a := range v.Args {
		val, isTmp, err := g.lowerExprNode(c, a)
		if err != nil {
			return "", false, err
		}
		argSlots[i] = val
		argTmps[i] = isTmp
	}

	var argvPtr string
	if len(argSlots) > 0 {
		argv := f.CreateAlloca(fmt.Sprintf("[%d x %s]", len(argSlots), llvmir.VariablePtrType))
		for i, val := range argSlots {
			elemPtr := f.CreateGEPIndex(llvmir.VariablePtrType, argv, i)
			f.CreateStore(llvmir.VariablePtrType, val, elemPtr)
		}
		argvPtr = argv
	} else {
		argvPtr = "null"
	}

	result := f.CreateCall(llvmir.VariablePtrType, ident.Name.String(), []string{
		typedArg(llvmir.VariablePtrType+"*", argvPtr),
	})

	for i, val := range argSlots {
		if argTmps[i] {
			f.CreateCall("void", "deallocate", []string{vArg(val)})
		}
	}
	return result, true, nil
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

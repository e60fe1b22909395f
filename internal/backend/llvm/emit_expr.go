package llvm

import (
	"fmt"

	"pasclang/internal/ast"
	"pasclang/internal/types"
)

func (fe *funcEmitter) emitExpr(expr ast.Expr) value {
	bi := fe.e.program.Types.Builtins()

	switch e := expr.(type) {
	case *ast.ConstBool:
		if e.Value {
			return value{typ: bi.Boolean, ref: "true"}
		}
		return value{typ: bi.Boolean, ref: "false"}

	case *ast.ConstInt:
		return value{typ: bi.Integer, ref: fmt.Sprintf("%d", e.Value)}

	case *ast.VarAccess:
		addr, t := fe.slotAddr(e.Name)
		return fe.emitLoad(t, addr)

	case *ast.UnaryOp:
		return fe.emitUnaryOp(e)

	case *ast.BinaryOp:
		if e.Op.IsLogical() {
			return fe.emitShortCircuit(e)
		}
		return fe.emitBinaryOp(e)

	case *ast.Call:
		return fe.emitCall(e)

	case *ast.ArrayAccess:
		array := fe.emitExpr(e.Array)
		index := fe.emitExpr(e.Index)
		elem := fe.e.program.Types.DecreaseDimension(array.typ)
		addr := fe.temp()
		fe.ins("%s = getelementptr %s, ptr %s, i32 %s", addr, llvmType(elem), array.ref, index.ref)
		return fe.emitLoad(elem, addr)

	case *ast.ArrayAlloc:
		count := fe.emitExpr(e.Count)
		result := fe.e.program.Types.IncreaseDimension(e.Elem.Type)
		tmp := fe.temp()
		fe.ins("%s = call ptr @__pasclang_gc_alloc(i32 %s, i8 %d)", tmp, count.ref, allocTag(result))
		return value{typ: result, ref: tmp}
	}

	panic("llvm: unknown expression node")
}

func (fe *funcEmitter) emitUnaryOp(e *ast.UnaryOp) value {
	operand := fe.emitExpr(e.Operand)
	tmp := fe.temp()

	if e.Op == ast.UnaryNot {
		fe.ins("%s = xor i1 %s, true", tmp, operand.ref)
		return value{typ: operand.typ, ref: tmp}
	}
	// -x lowers as 0 - x
	fe.ins("%s = sub i32 0, %s", tmp, operand.ref)
	return value{typ: operand.typ, ref: tmp}
}

var binaryInstr = map[ast.BinaryOpKind]string{
	ast.BinaryAdd:  "add i32",
	ast.BinarySub:  "sub i32",
	ast.BinaryMul:  "mul i32",
	ast.BinaryDiv:  "sdiv i32",
	ast.BinaryLt:   "icmp slt i32",
	ast.BinaryLtEq: "icmp sle i32",
	ast.BinaryGt:   "icmp sgt i32",
	ast.BinaryGtEq: "icmp sge i32",
}

func (fe *funcEmitter) emitBinaryOp(e *ast.BinaryOp) value {
	bi := fe.e.program.Types.Builtins()
	lhs := fe.emitExpr(e.Left)
	rhs := fe.emitExpr(e.Right)
	tmp := fe.temp()

	if op, ok := binaryInstr[e.Op]; ok {
		fe.ins("%s = %s %s, %s", tmp, op, lhs.ref, rhs.ref)
		if e.Op.IsArithmetic() {
			return value{typ: bi.Integer, ref: tmp}
		}
		return value{typ: bi.Boolean, ref: tmp}
	}

	// equality works on any pair of same-typed operands
	cmp := "eq"
	if e.Op == ast.BinaryNotEq {
		cmp = "ne"
	}
	fe.ins("%s = icmp %s %s %s, %s", tmp, cmp, llvmType(lhs.typ), lhs.ref, rhs.ref)
	return value{typ: bi.Boolean, ref: tmp}
}

// emitShortCircuit lowers `and`/`or` with the result-slot scheme: the right
// operand is only evaluated when the left one has not already decided the
// outcome. A plain bitwise op would emit the same result but evaluate both
// sides, which is observable through faulting operands.
func (fe *funcEmitter) emitShortCircuit(e *ast.BinaryOp) value {
	bi := fe.e.program.Types.Builtins()
	slot := fe.temp()
	fe.ins("%s = alloca i1", slot)

	if e.Op == ast.BinaryOr {
		next := fe.freshLabel("or.next")
		final := fe.freshLabel("or.false")
		end := fe.freshLabel("or.end")

		fe.ins("store i1 true, ptr %s", slot)
		lhs := fe.emitExpr(e.Left)
		fe.term("br i1 %s, label %%%s, label %%%s", lhs.ref, end, next)

		fe.label(next)
		rhs := fe.emitExpr(e.Right)
		fe.term("br i1 %s, label %%%s, label %%%s", rhs.ref, end, final)

		fe.label(final)
		fe.ins("store i1 false, ptr %s", slot)
		fe.term("br label %%%s", end)

		fe.label(end)
		return fe.emitLoad(bi.Boolean, slot)
	}

	next := fe.freshLabel("and.next")
	final := fe.freshLabel("and.true")
	end := fe.freshLabel("and.end")

	fe.ins("store i1 false, ptr %s", slot)
	lhs := fe.emitExpr(e.Left)
	fe.term("br i1 %s, label %%%s, label %%%s", lhs.ref, next, end)

	fe.label(next)
	rhs := fe.emitExpr(e.Right)
	fe.term("br i1 %s, label %%%s, label %%%s", rhs.ref, final, end)

	fe.label(final)
	fe.ins("store i1 true, ptr %s", slot)
	fe.term("br label %%%s", end)

	fe.label(end)
	return fe.emitLoad(bi.Boolean, slot)
}

func (fe *funcEmitter) emitCall(e *ast.Call) value {
	args := make([]value, len(e.Args))
	for n, arg := range e.Args {
		args[n] = fe.emitExpr(arg)
	}

	resultType := fe.callResultType(e.Name)
	tmp := fe.temp()
	fe.ins("%s = call %s @%s(%s)", tmp, llvmType(resultType), e.Name, callArgs(args))
	return value{typ: resultType, ref: tmp}
}

// callResultType recovers the source-level result type of a function call.
// Only functions appear in expression position once the program checked.
func (fe *funcEmitter) callResultType(name string) *types.Type {
	if name == "readln" {
		return fe.e.program.Types.Builtins().Integer
	}
	if proc, ok := fe.e.program.Procedure(name); ok && proc.IsFunction() {
		return proc.Result.Type
	}
	return fe.e.program.Types.Builtins().Integer
}

package sema

import (
	"fmt"

	"pasclang/internal/ast"
	"pasclang/internal/diag"
	"pasclang/internal/source"
	"pasclang/internal/types"
)

// checkExpr infers the type of an expression, reporting every violation it
// can. A nil result means the type is unknown because of a prior error;
// callers skip their own checks for nil to avoid cascading reports.
func (c *checker) checkExpr(expr ast.Expr) *types.Type {
	switch e := expr.(type) {
	case *ast.ConstBool:
		return c.boolType

	case *ast.ConstInt:
		return c.intType

	case *ast.VarAccess:
		return c.checkVarAccess(e)

	case *ast.UnaryOp:
		return c.checkUnaryOp(e)

	case *ast.BinaryOp:
		return c.checkBinaryOp(e)

	case *ast.Call:
		return c.checkCall(e)

	case *ast.ArrayAccess:
		return c.checkArrayAccess(e)

	case *ast.ArrayAlloc:
		if count := c.checkExpr(e.Count); count != nil && count != c.intType {
			c.wrongType(count, c.intType, e.Count.Span())
		}
		return c.program.Types.IncreaseDimension(e.Elem.Type)
	}
	return nil
}

func (c *checker) checkVarAccess(e *ast.VarAccess) *types.Type {
	typ, isLocal, ok := c.lookupVariable(e.Name)
	if !ok {
		c.undefinedSymbol(e.Name, e.Sp)
		return nil
	}
	if isLocal {
		c.localUsed[e.Name] = true
		if !c.localInit[e.Name] {
			c.uninitializedRead(e.Name, e.Sp)
		}
	} else {
		c.globalUsed[e.Name] = true
		if init, tracked := c.globalInit[e.Name]; tracked && !init {
			c.uninitializedRead(e.Name, e.Sp)
		}
	}
	return typ.Type
}

func (c *checker) checkUnaryOp(e *ast.UnaryOp) *types.Type {
	operand := c.checkExpr(e.Operand)

	switch e.Op {
	case ast.UnaryNot:
		if operand != nil && operand != c.boolType {
			c.wrongType(operand, c.boolType, e.Operand.Span())
		}
		return c.boolType
	default: // minus
		if operand != nil && operand != c.intType {
			c.wrongType(operand, c.intType, e.Operand.Span())
		}
		return c.intType
	}
}

func (c *checker) checkBinaryOp(e *ast.BinaryOp) *types.Type {
	lhs := c.checkExpr(e.Left)
	rhs := c.checkExpr(e.Right)

	switch {
	case e.Op.IsArithmetic():
		if lhs != nil && lhs != c.intType {
			c.wrongType(lhs, c.intType, e.Left.Span())
		}
		if rhs != nil && rhs != c.intType {
			c.wrongType(rhs, c.intType, e.Right.Span())
		}
		return c.intType

	case e.Op.IsComparison():
		if lhs != nil && lhs != c.intType {
			c.wrongType(lhs, c.intType, e.Left.Span())
		}
		if rhs != nil && rhs != c.intType {
			c.wrongType(rhs, c.intType, e.Right.Span())
		}
		return c.boolType

	case e.Op.IsLogical():
		if lhs != nil && lhs != c.boolType {
			c.wrongType(lhs, c.boolType, e.Left.Span())
		}
		if rhs != nil && rhs != c.boolType {
			c.wrongType(rhs, c.boolType, e.Right.Span())
		}
		return c.boolType

	default: // equality: both sides must share the handle
		if lhs != nil && rhs != nil && lhs != rhs {
			c.wrongType(rhs, lhs, e.Right.Span())
		}
		return c.boolType
	}
}

func (c *checker) checkCall(e *ast.Call) *types.Type {
	// write and writeln return nothing; using them as a value is invalid.
	if e.Name == "write" || e.Name == "writeln" {
		c.invalidCall(e.Name, e.Sp)
		for _, arg := range e.Args {
			c.checkExpr(arg)
		}
		return nil
	}

	if e.Name == "readln" {
		if len(e.Args) != 0 {
			c.invalidArity(e.Name, e.Sp)
		}
		return c.intType
	}

	proc, ok := c.procedures[e.Name]
	if !ok {
		c.undefinedSymbol(e.Name, e.Sp)
		for _, arg := range e.Args {
			c.checkExpr(arg)
		}
		return nil
	}

	c.checkActuals(proc, e.Name, e.Args, e.Sp)

	// Calling a procedure in expression position discards no value; it
	// never produced one.
	if !proc.IsFunction() {
		c.invalidCall(e.Name, e.Sp)
		return nil
	}
	return proc.Result.Type
}

func (c *checker) checkActuals(proc *ast.Procedure, name string, args []ast.Expr, callSpan source.Span) {
	if len(proc.Formals) != len(args) {
		c.invalidArity(name, callSpan)
		for _, arg := range args {
			c.checkExpr(arg)
		}
		return
	}
	for i, arg := range args {
		actual := c.checkExpr(arg)
		if actual != nil && actual != proc.Formals[i].Type.Type {
			c.wrongType(actual, proc.Formals[i].Type.Type, arg.Span())
		}
	}
}

func (c *checker) checkArrayAccess(e *ast.ArrayAccess) *types.Type {
	if index := c.checkExpr(e.Index); index != nil && index != c.intType {
		c.wrongType(index, c.intType, e.Index.Span())
	}

	array := c.checkExpr(e.Array)
	if array == nil {
		return nil
	}
	if array.Dimension == 0 {
		c.notAnArray(e)
		return nil
	}
	return c.program.Types.DecreaseDimension(array)
}

// notAnArray names the indexed value when it is a plain variable, which is
// the common mistake.
func (c *checker) notAnArray(e *ast.ArrayAccess) {
	if base, ok := e.Array.(*ast.VarAccess); ok {
		c.error(diag.SemaNotAnArray, e.Sp,
			fmt.Sprintf("cannot index %s: it is not an array", base.Name))
		return
	}
	c.error(diag.SemaNotAnArray, e.Sp, "indexed value is not an array")
}

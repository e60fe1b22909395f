package llvm

import (
	"fmt"

	"pasclang/internal/ast"
	"pasclang/internal/types"
)

// value is an SSA value paired with its source-level type.
type value struct {
	typ *types.Type
	ref string
}

// funcEmitter emits the body of one function and tracks the block
// discipline: no instruction may follow a terminator, and every block must
// end in one. Violations are collected and surfaced by verify.
type funcEmitter struct {
	e          *Emitter
	tmpID      int
	labelID    int
	locals     map[string]*types.Type
	terminated bool
	violations []string
}

func newFuncEmitter(e *Emitter) *funcEmitter {
	return &funcEmitter{
		e:      e,
		locals: make(map[string]*types.Type),
	}
}

func (fe *funcEmitter) bindLocal(name string, t *types.Type) {
	fe.locals[name] = t
}

func (fe *funcEmitter) temp() string {
	ref := fmt.Sprintf("%%t%d", fe.tmpID)
	fe.tmpID++
	return ref
}

func (fe *funcEmitter) freshLabel(base string) string {
	label := fmt.Sprintf("%s%d", base, fe.labelID)
	fe.labelID++
	return label
}

// ins writes a non-terminator instruction into the current block.
func (fe *funcEmitter) ins(format string, args ...any) {
	if fe.terminated {
		fe.violations = append(fe.violations, "instruction after terminator: "+fmt.Sprintf(format, args...))
		return
	}
	fe.e.buf.WriteString("  ")
	fmt.Fprintf(&fe.e.buf, format, args...)
	fe.e.buf.WriteString("\n")
}

// term writes a terminator and closes the current block.
func (fe *funcEmitter) term(format string, args ...any) {
	if fe.terminated {
		fe.violations = append(fe.violations, "terminator in closed block: "+fmt.Sprintf(format, args...))
		return
	}
	fe.e.buf.WriteString("  ")
	fmt.Fprintf(&fe.e.buf, format, args...)
	fe.e.buf.WriteString("\n")
	fe.terminated = true
}

// label opens a new block.
func (fe *funcEmitter) label(name string) {
	if !fe.terminated {
		fe.violations = append(fe.violations, "fall-through into block "+name)
	}
	fmt.Fprintf(&fe.e.buf, "%s:\n", name)
	fe.terminated = false
}

// verify reports the collected block violations, if any. A failure means
// the emitter produced IR the backend would reject.
func (fe *funcEmitter) verify(fn string) error {
	if fe.terminated {
		fe.violations = append(fe.violations, "function ends in a terminated block before the final ret")
	}
	if len(fe.violations) > 0 {
		return fmt.Errorf("invalid IR in @%s: %s", fn, fe.violations[0])
	}
	return nil
}

// slotAddr returns the address of a named variable: the local alloca when
// bound in this function, the global otherwise.
func (fe *funcEmitter) slotAddr(name string) (string, *types.Type) {
	if t, ok := fe.locals[name]; ok {
		return "%" + name + ".addr", t
	}
	return "@" + name, fe.e.globals[name]
}

func (fe *funcEmitter) emitLoad(t *types.Type, addr string) value {
	tmp := fe.temp()
	fe.ins("%s = load %s, ptr %s", tmp, llvmType(t), addr)
	return value{typ: t, ref: tmp}
}

// --- instructions -----------------------------------------------------

func (fe *funcEmitter) emitInstr(instr ast.Instr) {
	switch i := instr.(type) {
	case *ast.Sequence:
		for _, inner := range i.Instrs {
			fe.emitInstr(inner)
		}

	case *ast.ProcCall:
		fe.emitProcCall(i)

	case *ast.VarAssign:
		rhs := fe.emitExpr(i.Value)
		addr, t := fe.slotAddr(i.Name)
		fe.ins("store %s %s, ptr %s", llvmType(t), rhs.ref, addr)

	case *ast.ArrayAssign:
		fe.emitArrayAssign(i)

	case *ast.If:
		fe.emitIf(i)

	case *ast.While:
		fe.emitWhile(i)
	}
}

func (fe *funcEmitter) emitProcCall(i *ast.ProcCall) {
	args := make([]value, len(i.Args))
	for n, arg := range i.Args {
		args[n] = fe.emitExpr(arg)
	}
	fe.ins("call void @%s(%s)", i.Name, callArgs(args))
}

func (fe *funcEmitter) emitArrayAssign(i *ast.ArrayAssign) {
	rhs := fe.emitExpr(i.Value)
	array := fe.emitExpr(i.Target.Array)
	index := fe.emitExpr(i.Target.Index)

	elem := fe.e.program.Types.DecreaseDimension(array.typ)
	addr := fe.temp()
	fe.ins("%s = getelementptr %s, ptr %s, i32 %s", addr, llvmType(elem), array.ref, index.ref)
	fe.ins("store %s %s, ptr %s", llvmType(elem), rhs.ref, addr)
}

// emitIf compares the condition against false and branches; both arms fall
// through to one merge block.
func (fe *funcEmitter) emitIf(i *ast.If) {
	cond := fe.emitExpr(i.Cond)
	test := fe.temp()
	fe.ins("%s = icmp ne i1 %s, false", test, cond.ref)

	thenLabel := fe.freshLabel("then")
	elseLabel := fe.freshLabel("else")
	mergeLabel := fe.freshLabel("merge")

	fe.term("br i1 %s, label %%%s, label %%%s", test, thenLabel, elseLabel)

	fe.label(thenLabel)
	fe.emitInstr(i.Then)
	fe.term("br label %%%s", mergeLabel)

	fe.label(elseLabel)
	if i.Else != nil {
		fe.emitInstr(i.Else)
	}
	fe.term("br label %%%s", mergeLabel)

	fe.label(mergeLabel)
}

// emitWhile tests the condition before entering the loop and again at the
// end of the body.
func (fe *funcEmitter) emitWhile(i *ast.While) {
	loopLabel := fe.freshLabel("loop")
	endLabel := fe.freshLabel("end")

	cond := fe.emitExpr(i.Cond)
	test := fe.temp()
	fe.ins("%s = icmp ne i1 %s, false", test, cond.ref)
	fe.term("br i1 %s, label %%%s, label %%%s", test, loopLabel, endLabel)

	fe.label(loopLabel)
	fe.emitInstr(i.Body)
	again := fe.emitExpr(i.Cond)
	test2 := fe.temp()
	fe.ins("%s = icmp ne i1 %s, false", test2, again.ref)
	fe.term("br i1 %s, label %%%s, label %%%s", test2, loopLabel, endLabel)

	fe.label(endLabel)
}

func callArgs(args []value) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += llvmType(a.typ) + " " + a.ref
	}
	return out
}

// Package llvm lowers the type-checked AST to textual LLVM IR. The module
// is handed to clang as-is, so everything here is plain text built
// with a strings.Builder, mirroring the value model fixed in the language:
// scalars by value, arrays as heap pointers, every variable in a slot.
package llvm

import (
	"fmt"
	"strings"

	"pasclang/internal/ast"
	"pasclang/internal/types"
)

// DefaultTriple is used when the caller could not obtain one from clang.
const DefaultTriple = "x86_64-linux-gnu"

type funcSig struct {
	ret    string
	params []string
}

// Options configure module emission.
type Options struct {
	ModuleName string
	Triple     string
}

// Emitter lowers one Program into a textual LLVM module.
type Emitter struct {
	program *ast.Program
	buf     strings.Builder
	opts    Options

	funcSigs map[string]funcSig
	globals  map[string]*types.Type
}

// EmitModule lowers the program. The returned string is a complete .ll
// module; err is non-nil when the emitter produced structurally invalid IR
// (an internal bug surfaced as a generator error by the driver).
func EmitModule(program *ast.Program, opts Options) (string, error) {
	if opts.Triple == "" {
		opts.Triple = DefaultTriple
	}
	e := &Emitter{
		program:  program,
		opts:     opts,
		funcSigs: make(map[string]funcSig),
		globals:  make(map[string]*types.Type),
	}

	e.emitPreamble()
	e.emitRuntimeDecls()
	e.emitGlobals()

	// Signatures first so any procedure can call any other regardless of
	// source order.
	e.collectSignatures()

	for _, proc := range program.Procedures {
		if err := e.emitProcedure(proc); err != nil {
			return "", err
		}
	}
	if err := e.emitMain(); err != nil {
		return "", err
	}

	return e.buf.String(), nil
}

func (e *Emitter) emitPreamble() {
	fmt.Fprintf(&e.buf, "; ModuleID = '%s'\n", e.opts.ModuleName)
	fmt.Fprintf(&e.buf, "target triple = %q\n\n", e.opts.Triple)
}

func runtimeDecls() []string {
	return []string{
		"declare void @write(i32)",
		"declare void @writeln(i32)",
		"declare i32 @readln()",
		"declare ptr @__pasclang_gc_alloc(i32, i8)",
	}
}

func (e *Emitter) emitRuntimeDecls() {
	for _, decl := range runtimeDecls() {
		e.buf.WriteString(decl)
		e.buf.WriteString("\n")
	}
	e.buf.WriteString("\n")

	e.funcSigs["write"] = funcSig{ret: "void", params: []string{"i32"}}
	e.funcSigs["writeln"] = funcSig{ret: "void", params: []string{"i32"}}
	e.funcSigs["readln"] = funcSig{ret: "i32"}
	e.funcSigs["__pasclang_gc_alloc"] = funcSig{ret: "ptr", params: []string{"i32", "i8"}}
}

func (e *Emitter) emitGlobals() {
	for i := range e.program.Globals {
		g := &e.program.Globals[i]
		t := g.Type.Type
		fmt.Fprintf(&e.buf, "@%s = global %s %s\n", g.Name, llvmType(t), zeroValue(t))
		e.globals[g.Name] = t
	}
	if len(e.program.Globals) > 0 {
		e.buf.WriteString("\n")
	}
}

func (e *Emitter) collectSignatures() {
	for _, proc := range e.program.Procedures {
		sig := funcSig{ret: "void"}
		if proc.IsFunction() {
			sig.ret = llvmType(proc.Result.Type)
		}
		for i := range proc.Formals {
			sig.params = append(sig.params, llvmType(proc.Formals[i].Type.Type))
		}
		e.funcSigs[proc.Name] = sig
	}
}

func (e *Emitter) emitProcedure(proc *ast.Procedure) error {
	fe := newFuncEmitter(e)

	// Parameters carry a .param suffix so they can never collide with the
	// %tN temporaries (source identifiers contain no dot).
	sig := e.funcSigs[proc.Name]
	params := make([]string, len(proc.Formals))
	for i := range proc.Formals {
		params[i] = fmt.Sprintf("%s %%%s.param", sig.params[i], proc.Formals[i].Name)
	}
	fmt.Fprintf(&e.buf, "define %s @%s(%s) {\nentry:\n", sig.ret, proc.Name, strings.Join(params, ", "))

	// Formals live in slots like everything else; the backend promotes
	// them to registers later.
	for i := range proc.Formals {
		formal := &proc.Formals[i]
		t := formal.Type.Type
		fe.bindLocal(formal.Name, t)
		fmt.Fprintf(&e.buf, "  %%%s.addr = alloca %s\n", formal.Name, llvmType(t))
		fmt.Fprintf(&e.buf, "  store %s %%%s.param, ptr %%%s.addr\n", llvmType(t), formal.Name, formal.Name)
	}

	// The function's return value is the slot bound to its name.
	if proc.IsFunction() {
		t := proc.Result.Type
		fe.bindLocal(proc.Name, t)
		fmt.Fprintf(&e.buf, "  %%%s.addr = alloca %s\n", proc.Name, llvmType(t))
		fmt.Fprintf(&e.buf, "  store %s %s, ptr %%%s.addr\n", llvmType(t), zeroValue(t), proc.Name)
	}

	// Locals get the language's default values on entry.
	for i := range proc.Locals {
		local := &proc.Locals[i]
		t := local.Type.Type
		fe.bindLocal(local.Name, t)
		fmt.Fprintf(&e.buf, "  %%%s.addr = alloca %s\n", local.Name, llvmType(t))
		fmt.Fprintf(&e.buf, "  store %s %s, ptr %%%s.addr\n", llvmType(t), zeroValue(t), local.Name)
	}

	fe.emitInstr(proc.Body)

	if proc.IsFunction() {
		ret := fe.emitLoad(proc.Result.Type, "%"+proc.Name+".addr")
		fmt.Fprintf(&e.buf, "  ret %s %s\n", llvmType(proc.Result.Type), ret.ref)
	} else {
		e.buf.WriteString("  ret void\n")
	}
	e.buf.WriteString("}\n\n")

	return fe.verify(proc.Name)
}

// emitMain wraps the program's top-level sequence into void main().
func (e *Emitter) emitMain() error {
	fe := newFuncEmitter(e)
	e.buf.WriteString("define void @main() {\nentry:\n")
	fe.emitInstr(e.program.Main)
	e.buf.WriteString("  ret void\n}\n")
	return fe.verify("main")
}

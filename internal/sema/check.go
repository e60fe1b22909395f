// Package sema enforces the static semantics of Pseudo-Pascal.
package sema

import (
	"pasclang/internal/ast"
	"pasclang/internal/diag"
	"pasclang/internal/source"
	"pasclang/internal/types"
)

// Builtin names are reserved; user symbols may not take them.
var builtinNames = map[string]bool{
	"write":   true,
	"writeln": true,
	"readln":  true,
}

// Options configure a semantic pass over a program.
type Options struct {
	Reporter diag.Reporter
}

// Result reports the outcome of the pass.
type Result struct {
	HadErrors bool
}

// Check runs semantic analysis over the whole program. Symbol tables are
// rebuilt from the tree on every call; the AST is never mutated, so the
// pass is idempotent. Diagnostics flow through opts.Reporter; the caller
// decides whether an error outcome aborts the pipeline.
func Check(program *ast.Program, opts Options) Result {
	c := checker{
		program:  program,
		reporter: opts.Reporter,
		boolType: program.Types.Get(types.Boolean, 0),
		intType:  program.Types.Get(types.Integer, 0),

		globals:    make(map[string]*ast.TypeNode),
		procedures: make(map[string]*ast.Procedure),
		globalInit: make(map[string]bool),
		globalUsed: make(map[string]bool),
	}
	c.run()
	return Result{HadErrors: c.errored}
}

type checker struct {
	program  *ast.Program
	reporter diag.Reporter
	errored  bool

	boolType *types.Type
	intType  *types.Type

	// program scope
	globals    map[string]*ast.TypeNode
	procedures map[string]*ast.Procedure
	globalInit map[string]bool
	globalUsed map[string]bool

	// current procedure scope; nil maps while checking main
	currentFunction string
	locals          map[string]*ast.TypeNode
	localInit       map[string]bool
	localUsed       map[string]bool
	warnedUninit    map[string]bool
}

func (c *checker) run() {
	// Globals first.
	for i := range c.program.Globals {
		g := &c.program.Globals[i]
		if builtinNames[g.Name] {
			c.reservedName(g.Name, g.NameSpan)
			continue
		}
		if _, dup := c.globals[g.Name]; dup {
			c.redefinedSymbol(g.Name, g.NameSpan)
			continue
		}
		c.globals[g.Name] = g.Type
		c.globalInit[g.Name] = false
		c.globalUsed[g.Name] = false
	}

	// Signatures before bodies so mutual recursion type-checks.
	for _, proc := range c.program.Procedures {
		c.declareProcedure(proc)
	}

	for _, proc := range c.program.Procedures {
		c.checkProcedure(proc)
	}

	// Main runs in program scope only.
	c.currentFunction = ""
	c.locals = nil
	c.localInit = nil
	c.localUsed = nil
	c.warnedUninit = make(map[string]bool)
	c.checkInstr(c.program.Main)

	for i := range c.program.Globals {
		name := c.program.Globals[i].Name
		if used, tracked := c.globalUsed[name]; tracked && !used {
			c.unusedVariable(name, "")
		}
	}
}

func (c *checker) declareProcedure(proc *ast.Procedure) {
	if builtinNames[proc.Name] {
		c.reservedName(proc.Name, proc.NameSpan)
		return
	}
	_, dupProc := c.procedures[proc.Name]
	_, dupGlobal := c.globals[proc.Name]
	if dupProc || dupGlobal {
		c.redefinedSymbol(proc.Name, proc.NameSpan)
		return
	}
	c.procedures[proc.Name] = proc
}

func (c *checker) checkProcedure(proc *ast.Procedure) {
	c.currentFunction = proc.Name
	c.locals = make(map[string]*ast.TypeNode)
	c.localInit = make(map[string]bool)
	c.localUsed = make(map[string]bool)
	c.warnedUninit = make(map[string]bool)

	// The function name doubles as the return slot.
	if proc.IsFunction() {
		c.locals[proc.Name] = proc.Result
		c.localInit[proc.Name] = false
		c.localUsed[proc.Name] = false
	}

	for i := range proc.Formals {
		formal := &proc.Formals[i]
		if builtinNames[formal.Name] {
			c.reservedName(formal.Name, formal.NameSpan)
			continue
		}
		if _, dup := c.locals[formal.Name]; dup {
			c.redefinedSymbol(formal.Name, formal.NameSpan)
			continue
		}
		c.locals[formal.Name] = formal.Type
		c.localInit[formal.Name] = true
		c.localUsed[formal.Name] = false
	}

	for i := range proc.Locals {
		local := &proc.Locals[i]
		if builtinNames[local.Name] {
			c.reservedName(local.Name, local.NameSpan)
			continue
		}
		if _, dup := c.locals[local.Name]; dup {
			c.redefinedSymbol(local.Name, local.NameSpan)
			continue
		}
		c.locals[local.Name] = local.Type
		c.localInit[local.Name] = false
		c.localUsed[local.Name] = false
	}

	c.checkInstr(proc.Body)

	for name := range c.locals {
		// A function returning a constant never reads its own slot; skip it.
		if name == proc.Name {
			continue
		}
		if !c.localUsed[name] {
			c.unusedVariable(name, proc.Name)
		}
	}
}

// lookupVariable resolves a name local-first and returns its type. Marking
// of usage/initialization is left to the callers.
func (c *checker) lookupVariable(name string) (*ast.TypeNode, bool, bool) {
	if c.locals != nil {
		if t, ok := c.locals[name]; ok {
			return t, true, true
		}
	}
	if t, ok := c.globals[name]; ok {
		return t, false, true
	}
	return nil, false, false
}

// --- diagnostics ------------------------------------------------------

func (c *checker) error(code diag.Code, sp source.Span, msg string) {
	c.errored = true
	if c.reporter != nil {
		c.reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func (c *checker) warn(code diag.Code, sp source.Span, msg string) {
	if c.reporter != nil {
		c.reporter.Report(code, diag.SevWarning, sp, msg, nil)
	}
}

func (c *checker) wrongType(got, want *types.Type, sp source.Span) {
	c.error(diag.SemaTypeMismatch, sp,
		"unexpected type "+got.Short()+" instead of "+want.Short())
}

func (c *checker) undefinedSymbol(name string, sp source.Span) {
	c.error(diag.SemaUndefinedSymbol, sp, "undefined symbol "+name)
}

func (c *checker) redefinedSymbol(name string, sp source.Span) {
	c.error(diag.SemaRedefinedSymbol, sp, "redefinition of symbol "+name)
}

func (c *checker) reservedName(name string, sp source.Span) {
	c.error(diag.SemaReservedName, sp, name+" is a built-in and cannot be redefined")
}

func (c *checker) invalidCall(name string, sp source.Span) {
	c.error(diag.SemaInvalidCall, sp, "invalid call to procedure or function "+name)
}

func (c *checker) invalidArity(name string, sp source.Span) {
	c.error(diag.SemaWrongArity, sp, "wrong number of arguments in call to "+name)
}

func (c *checker) unusedVariable(name, function string) {
	msg := "unused variable " + name
	if function != "" {
		msg += " in function " + function
	}
	c.warn(diag.SemaUnusedVariable, source.Span{}, msg)
}

func (c *checker) uninitializedRead(name string, sp source.Span) {
	if c.warnedUninit[name] {
		return
	}
	c.warnedUninit[name] = true
	msg := "using uninitialized variable " + name
	if c.currentFunction != "" {
		msg += " in function " + c.currentFunction
	}
	c.warn(diag.SemaUninitializedRead, sp, msg)
}

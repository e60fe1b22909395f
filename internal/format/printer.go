// Package format renders a parsed Program back into Pseudo-Pascal source.
// The output reparses to a tree equal to the input modulo locations, which
// is the contract the -p flag and the round-trip tests rely on.
package format

import (
	"fmt"
	"strings"

	"pasclang/internal/ast"
)

type printer struct {
	buf         strings.Builder
	indentation int
}

// Print renders the whole program.
func Print(program *ast.Program) string {
	p := &printer{}
	p.program(program)
	return p.buf.String()
}

func (p *printer) indent() {
	for i := 0; i < p.indentation; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *printer) program(program *ast.Program) {
	p.buf.WriteString("program\n")

	if len(program.Globals) > 0 {
		p.buf.WriteString("var\n")
		p.indentation++
		for _, g := range program.Globals {
			p.indent()
			p.buf.WriteString(g.Name + " : " + g.Type.Type.String() + ";\n")
		}
		p.indentation--
	}
	p.buf.WriteString("\n")

	for _, proc := range program.Procedures {
		p.procedure(proc)
	}

	p.instr(program.Main)
	p.buf.WriteString(".\n")
}

func (p *printer) procedure(proc *ast.Procedure) {
	if proc.IsFunction() {
		p.buf.WriteString("function ")
	} else {
		p.buf.WriteString("procedure ")
	}
	p.buf.WriteString(proc.Name + "(")

	for i, formal := range proc.Formals {
		if i > 0 {
			p.buf.WriteString(" ; ")
		}
		p.buf.WriteString(formal.Name + " : " + formal.Type.Type.String())
	}
	p.buf.WriteString(")")

	if proc.IsFunction() {
		p.buf.WriteString(" : " + proc.Result.Type.String())
	}
	p.buf.WriteString(";\n")

	if len(proc.Locals) > 0 {
		p.buf.WriteString("var\n")
		p.indentation++
		for _, local := range proc.Locals {
			p.indent()
			p.buf.WriteString(local.Name + " : " + local.Type.Type.String() + ";\n")
		}
		p.indentation--
	}

	p.instr(proc.Body)
	p.buf.WriteString(";\n")
}

func (p *printer) instr(instr ast.Instr) {
	switch i := instr.(type) {
	case *ast.Sequence:
		p.indent()
		p.buf.WriteString("begin\n")
		p.indentation++
		for n, inner := range i.Instrs {
			p.instr(inner)
			if n < len(i.Instrs)-1 {
				p.buf.WriteString(";")
			}
			p.buf.WriteString("\n")
		}
		p.indentation--
		p.indent()
		p.buf.WriteString("end")

	case *ast.If:
		p.indent()
		p.buf.WriteString("if ")
		p.expr(i.Cond)
		p.buf.WriteString(" then\n")
		p.indentation++
		p.instr(i.Then)
		p.indentation--
		if i.Else != nil {
			p.buf.WriteString("\n")
			p.indent()
			p.buf.WriteString("else\n")
			p.indentation++
			p.instr(i.Else)
			p.indentation--
		}

	case *ast.While:
		p.indent()
		p.buf.WriteString("while ")
		p.expr(i.Cond)
		p.buf.WriteString(" do\n")
		p.indentation++
		p.instr(i.Body)
		p.indentation--

	case *ast.ProcCall:
		p.indent()
		p.buf.WriteString(i.Name + "(")
		for n, arg := range i.Args {
			if n > 0 {
				p.buf.WriteString(", ")
			}
			p.expr(arg)
		}
		p.buf.WriteString(")")

	case *ast.VarAssign:
		p.indent()
		p.buf.WriteString(i.Name + " := ")
		p.expr(i.Value)

	case *ast.ArrayAssign:
		p.indent()
		p.expr(i.Target)
		p.buf.WriteString(" := ")
		p.expr(i.Value)
	}
}

func (p *printer) expr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.ConstBool:
		if e.Value {
			p.buf.WriteString("true")
		} else {
			p.buf.WriteString("false")
		}

	case *ast.ConstInt:
		fmt.Fprintf(&p.buf, "%d", e.Value)

	case *ast.VarAccess:
		p.buf.WriteString(e.Name)

	case *ast.UnaryOp:
		p.buf.WriteString("(")
		switch e.Op {
		case ast.UnaryMinus:
			p.buf.WriteString("-")
		case ast.UnaryNot:
			p.buf.WriteString("not ")
		}
		p.expr(e.Operand)
		p.buf.WriteString(")")

	case *ast.BinaryOp:
		p.buf.WriteString("(")
		p.expr(e.Left)
		p.buf.WriteString(" " + e.Op.String() + " ")
		p.expr(e.Right)
		p.buf.WriteString(")")

	case *ast.Call:
		p.buf.WriteString(e.Name + "(")
		for n, arg := range e.Args {
			if n > 0 {
				p.buf.WriteString(", ")
			}
			p.expr(arg)
		}
		p.buf.WriteString(")")

	case *ast.ArrayAccess:
		p.expr(e.Array)
		p.buf.WriteString("[")
		p.expr(e.Index)
		p.buf.WriteString("]")

	case *ast.ArrayAlloc:
		p.buf.WriteString("new " + e.Elem.Type.String() + "[")
		p.expr(e.Count)
		p.buf.WriteString("]")
	}
}

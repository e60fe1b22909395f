package ast

import (
	"pasclang/internal/source"
	"pasclang/internal/types"
)

// Procedure is a user procedure or function; Result is nil for procedures.
type Procedure struct {
	Name     string
	NameSpan source.Span
	Formals  []Binding
	Result   *TypeNode
	Locals   []Binding
	Body     *Sequence
	Sp       source.Span
}

func (p *Procedure) Span() source.Span { return p.Sp }

// IsFunction reports whether the procedure returns a value.
func (p *Procedure) IsFunction() bool { return p.Result != nil }

// Program is the root of the tree. It owns the type interner, the globals,
// the procedure list, and the main sequence.
type Program struct {
	Globals    []Binding
	Procedures []*Procedure
	Main       *Sequence
	Types      *types.Interner
	Sp         source.Span
}

func (p *Program) Span() source.Span { return p.Sp }

// Procedure returns the declared procedure with the given name, if any.
func (p *Program) Procedure(name string) (*Procedure, bool) {
	for _, proc := range p.Procedures {
		if proc.Name == name {
			return proc, true
		}
	}
	return nil, false
}

package parser

import (
	"pasclang/internal/ast"
	"pasclang/internal/token"
	"pasclang/internal/types"
)

// parseProgram parses the whole compilation unit:
//
//	program = "program" ( "var" locals )? procedure* sequence "."
func (p *Parser) parseProgram() *ast.Program {
	kw := p.expect(token.KwProgram)

	var globals []ast.Binding
	if p.eat(token.KwVar) {
		globals = p.parseLocals()
	}

	var procedures []*ast.Procedure
	for p.atAny(token.KwFunction, token.KwProcedure) {
		procKw := p.advance()
		procedures = append(procedures, p.parseProcedure(procKw))
	}

	main := p.parseSequence()
	p.expect(token.Dot)

	return &ast.Program{
		Globals:    globals,
		Procedures: procedures,
		Main:       main,
		Types:      p.types,
		Sp:         p.spanFrom(kw.Span),
	}
}

// parseLocals parses one or more declarations, each terminated by a
// semicolon:
//
//	locals = ( decl ";" )+
func (p *Parser) parseLocals() []ast.Binding {
	var bindings []ast.Binding

	if !p.at(token.Ident) {
		p.syntaxError(token.Ident)
	}
	for p.at(token.Ident) {
		bindings = append(bindings, p.parseDecl()...)
		p.expect(token.Semicolon)
	}
	return bindings
}

// parseFormals parses a possibly empty semicolon-separated declaration list:
//
//	formals = ( decl ( ";" decl )* )?
func (p *Parser) parseFormals() []ast.Binding {
	var bindings []ast.Binding

	if p.at(token.Ident) {
		bindings = append(bindings, p.parseDecl()...)
		for p.eat(token.Semicolon) {
			if !p.at(token.Ident) {
				p.syntaxError(token.Ident)
			}
			bindings = append(bindings, p.parseDecl()...)
		}
	}
	return bindings
}

// parseDecl parses `a, b, c : type` and yields one binding per name. The
// bindings share the interned type handle but each gets its own TypeNode.
func (p *Parser) parseDecl() []ast.Binding {
	first := p.expect(token.Ident)
	names := []token.Token{first}
	for p.eat(token.Comma) {
		names = append(names, p.expect(token.Ident))
	}

	p.expect(token.Colon)
	typ := p.parseType()

	bindings := make([]ast.Binding, 0, len(names))
	for _, name := range names {
		nodeCopy := &ast.TypeNode{Type: typ.Type, Sp: typ.Sp}
		bindings = append(bindings, ast.Binding{
			Name:     name.Text,
			NameSpan: name.Span,
			Type:     nodeCopy,
		})
	}
	return bindings
}

// parseType parses `( "array" "of" )* ( "integer" | "boolean" )` and interns
// the resulting handle.
func (p *Parser) parseType() *ast.TypeNode {
	tok := p.expectAny(token.KwInteger, token.KwBoolean, token.KwArray)

	switch tok.Kind {
	case token.KwInteger:
		return &ast.TypeNode{Type: p.types.Get(types.Integer, 0), Sp: tok.Span}
	case token.KwBoolean:
		return &ast.TypeNode{Type: p.types.Get(types.Boolean, 0), Sp: tok.Span}
	default: // array
		p.expect(token.KwOf)
		inner := p.parseType()
		return &ast.TypeNode{
			Type: p.types.IncreaseDimension(inner.Type),
			Sp:   tok.Span.Cover(inner.Sp),
		}
	}
}

// parseProcedure parses a procedure or function definition. kw is the
// already-consumed `procedure` or `function` keyword:
//
//	procedure = ( "function" | "procedure" ) IDENT "(" formals ")"
//	            ( ":" type )? ";" ( "var" locals )? sequence ";"
func (p *Parser) parseProcedure(kw token.Token) *ast.Procedure {
	isFunction := kw.Kind == token.KwFunction

	name := p.expect(token.Ident)
	p.expect(token.LParen)
	formals := p.parseFormals()
	p.expect(token.RParen)

	var result *ast.TypeNode
	if isFunction {
		p.expect(token.Colon)
		result = p.parseType()
	}

	p.expect(token.Semicolon)

	var locals []ast.Binding
	if p.eat(token.KwVar) {
		locals = p.parseLocals()
	}

	body := p.parseSequence()
	p.expect(token.Semicolon)

	return &ast.Procedure{
		Name:     name.Text,
		NameSpan: name.Span,
		Formals:  formals,
		Result:   result,
		Locals:   locals,
		Body:     body,
		Sp:       p.spanFrom(kw.Span),
	}
}

package parser

import (
	"strconv"

	"pasclang/internal/ast"
	"pasclang/internal/source"
	"pasclang/internal/token"
)

// parseExpression parses the top expression level:
//
//	expr = "new" type "[" expr "]" | or
func (p *Parser) parseExpression() ast.Expr {
	if p.at(token.KwNew) {
		kw := p.advance()
		elem := p.parseType()
		p.expect(token.LBracket)
		count := p.parseExpression()
		p.expect(token.RBracket)
		return &ast.ArrayAlloc{Elem: elem, Count: count, Sp: p.spanFrom(kw.Span)}
	}
	return p.parseOr()
}

// parseOr parses `and ( "or" and )*`, left-associative.
func (p *Parser) parseOr() ast.Expr {
	start := p.lx.Peek().Span
	expr := p.parseAnd()

	for p.eat(token.KwOr) {
		rhs := p.parseAnd()
		expr = &ast.BinaryOp{Op: ast.BinaryOr, Left: expr, Right: rhs, Sp: p.spanFrom(start)}
	}
	return expr
}

// parseAnd parses `nu ( "and" nu )*`, left-associative.
func (p *Parser) parseAnd() ast.Expr {
	start := p.lx.Peek().Span
	expr := p.parseNot()

	for p.eat(token.KwAnd) {
		rhs := p.parseNot()
		expr = &ast.BinaryOp{Op: ast.BinaryAnd, Left: expr, Right: rhs, Sp: p.spanFrom(start)}
	}
	return expr
}

// parseNot parses `"not" eq | eq`.
func (p *Parser) parseNot() ast.Expr {
	if p.at(token.KwNot) {
		kw := p.advance()
		operand := p.parseEquality()
		return &ast.UnaryOp{Op: ast.UnaryNot, Operand: operand, Sp: p.spanFrom(kw.Span)}
	}
	return p.parseEquality()
}

// parseEquality parses `rel ( ("=" | "<>") rel )?`; equality does not chain.
func (p *Parser) parseEquality() ast.Expr {
	start := p.lx.Peek().Span
	expr := p.parseRelational()

	if p.atAny(token.Eq, token.NotEq) {
		op := ast.BinaryEq
		if p.advance().Kind == token.NotEq {
			op = ast.BinaryNotEq
		}
		rhs := p.parseRelational()
		expr = &ast.BinaryOp{Op: op, Left: expr, Right: rhs, Sp: p.spanFrom(start)}
	}
	return expr
}

// parseRelational parses `add ( ("<" | "<=" | ">" | ">=") add )?`.
func (p *Parser) parseRelational() ast.Expr {
	start := p.lx.Peek().Span
	expr := p.parseAdditive()

	if p.atAny(token.Lt, token.LtEq, token.Gt, token.GtEq) {
		var op ast.BinaryOpKind
		switch p.advance().Kind {
		case token.Lt:
			op = ast.BinaryLt
		case token.LtEq:
			op = ast.BinaryLtEq
		case token.Gt:
			op = ast.BinaryGt
		default:
			op = ast.BinaryGtEq
		}
		rhs := p.parseAdditive()
		expr = &ast.BinaryOp{Op: op, Left: expr, Right: rhs, Sp: p.spanFrom(start)}
	}
	return expr
}

// parseAdditive parses `mul ( ("+" | "-") mul )*`, left-associative.
func (p *Parser) parseAdditive() ast.Expr {
	start := p.lx.Peek().Span
	expr := p.parseMultiplicative()

	for p.atAny(token.Plus, token.Minus) {
		op := ast.BinaryAdd
		if p.advance().Kind == token.Minus {
			op = ast.BinarySub
		}
		rhs := p.parseMultiplicative()
		expr = &ast.BinaryOp{Op: op, Left: expr, Right: rhs, Sp: p.spanFrom(start)}
	}
	return expr
}

// parseMultiplicative parses `unary ( ("*" | "/") unary )*`.
func (p *Parser) parseMultiplicative() ast.Expr {
	start := p.lx.Peek().Span
	expr := p.parseUnary()

	for p.atAny(token.Star, token.Slash) {
		op := ast.BinaryMul
		if p.advance().Kind == token.Slash {
			op = ast.BinaryDiv
		}
		rhs := p.parseUnary()
		expr = &ast.BinaryOp{Op: op, Left: expr, Right: rhs, Sp: p.spanFrom(start)}
	}
	return expr
}

// parseUnary parses `"-" postfix | postfix`.
func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.Minus) {
		kw := p.advance()
		operand := p.parsePostfix()
		return &ast.UnaryOp{Op: ast.UnaryMinus, Operand: operand, Sp: p.spanFrom(kw.Span)}
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary followed by either one call argument list
// or a chain of index operations:
//
//	postfix = primary ( "(" actuals ")" | "[" expr "]" { "[" expr "]" } )?
func (p *Parser) parsePostfix() ast.Expr {
	start := p.lx.Peek().Span
	primary := p.parsePrimary()

	if p.at(token.LParen) {
		access, ok := primary.(*ast.VarAccess)
		if !ok {
			p.syntaxError()
		}
		p.advance()
		args := p.parseActuals()
		p.expect(token.RParen)
		return &ast.Call{Name: access.Name, Args: args, Sp: p.spanFrom(start)}
	}

	if p.at(token.LBracket) {
		return p.parseIndexChain(primary, start)
	}

	return primary
}

// parseIndexChain parses one or more `[ expr ]` accesses applied to array.
func (p *Parser) parseIndexChain(array ast.Expr, start source.Span) *ast.ArrayAccess {
	p.expect(token.LBracket)
	index := p.parseExpression()
	p.expect(token.RBracket)
	access := &ast.ArrayAccess{Array: array, Index: index, Sp: p.spanFrom(start)}

	for p.at(token.LBracket) {
		p.advance()
		index = p.parseExpression()
		p.expect(token.RBracket)
		access = &ast.ArrayAccess{Array: access, Index: index, Sp: p.spanFrom(start)}
	}
	return access
}

// parsePrimary parses `INTLIT | BOOLLIT | IDENT | "(" expr ")"`.
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.expectAny(token.BoolLit, token.IntLit, token.Ident, token.LParen)

	switch tok.Kind {
	case token.BoolLit:
		return &ast.ConstBool{Value: tok.Text == "true", Sp: tok.Span}

	case token.IntLit:
		// Out-of-range literals were already reported by the lexer; use 0
		// in their place so parsing can continue.
		value, err := strconv.ParseInt(tok.Text, 10, 32)
		if err != nil {
			value = 0
		}
		return &ast.ConstInt{Value: int32(value), Sp: tok.Span}

	case token.Ident:
		return &ast.VarAccess{Name: tok.Text, Sp: tok.Span}

	default: // LParen
		expr := p.parseExpression()
		p.expect(token.RParen)
		return expr
	}
}

// parseActuals parses a possibly empty comma-separated argument list:
//
//	actuals = ( expr ( "," expr )* )?
func (p *Parser) parseActuals() []ast.Expr {
	var args []ast.Expr
	if p.at(token.RParen) {
		return args
	}
	args = append(args, p.parseExpression())
	for p.eat(token.Comma) {
		args = append(args, p.parseExpression())
	}
	return args
}

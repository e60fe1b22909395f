package parser

import (
	"pasclang/internal/diag"
	"pasclang/internal/source"
	"pasclang/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	peek := p.lx.Peek().Kind
	for _, k := range kinds {
		if peek == k {
			return true
		}
	}
	return false
}

// eat consumes the next token when it matches k.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of kind k or raises a syntax error.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.syntaxError(k)
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}
}

// expectAny consumes a token matching one of kinds or raises a syntax error.
func (p *Parser) expectAny(kinds ...token.Kind) token.Token {
	for _, k := range kinds {
		if p.at(k) {
			return p.advance()
		}
	}
	p.syntaxError(kinds...)
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}
}

// diagnosticSpan picks the best span for a diagnostic. At EOF the zero-width
// position after the last consumed token reads better than an empty span at
// offset zero.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if (peek.Kind == token.EOF || peek.Kind == token.Invalid) && peek.Span.Empty() {
		if p.lastSpan.End > 0 {
			return source.Span{
				File:  p.lastSpan.File,
				Start: p.lastSpan.End,
				End:   p.lastSpan.End,
			}
		}
	}
	return peek.Span
}

// spanFrom covers everything from start up to the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return source.Span{
		File:  start.File,
		Start: start.Start,
		End:   p.lastSpan.End,
	}
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if !p.opts.Enough() {
		p.opts.Reporter.Report(code, sev, sp, msg, nil)
	}
}

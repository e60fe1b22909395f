// Package parser implements the recursive-descent parser for Pseudo-Pascal.
package parser

import (
	"pasclang/internal/ast"
	"pasclang/internal/diag"
	"pasclang/internal/lexer"
	"pasclang/internal/source"
	"pasclang/internal/token"
	"pasclang/internal/types"
)

// Options configure a parse of one file.
type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser holds the state for parsing a single file.
type Parser struct {
	lx       *lexer.Lexer
	types    *types.Interner
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span
	errored  bool // first syntax error already reported
}

// parseAbort unwinds the parser after panic-mode recovery has run its
// course. Recovered in ParseFile only.
type parseAbort struct{}

// Result carries the parsed tree; Program is nil when a syntax error
// occurred.
type Result struct {
	Program   *ast.Program
	HadErrors bool
}

// ParseFile parses one file into a Program, interning every written type.
// The lexer must be positioned at the start of the file.
func ParseFile(fs *source.FileSet, lx *lexer.Lexer, interner *types.Interner, opts Options) (result Result) {
	p := Parser{
		lx:       lx,
		types:    interner,
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); !ok {
				panic(r)
			}
			result = Result{Program: nil, HadErrors: true}
		}
	}()

	prog := p.parseProgram()
	return Result{Program: prog, HadErrors: p.opts.CurrentErrors > 0}
}

// syntaxError reports the offending token with the expected set, then
// enters panic mode: it scans forward re-entering major productions on their
// anchor keywords so further errors surface, and finally aborts the parse.
func (p *Parser) syntaxError(expected ...token.Kind) {
	peek := p.lx.Peek()
	msg := "unexpected token " + peek.Kind.String()
	if len(expected) > 0 {
		msg += " when expecting any of the following: "
		for i, k := range expected {
			if i > 0 {
				msg += ", "
			}
			msg += k.String()
		}
	}

	if peek.Kind == token.EOF {
		p.report(diag.SynUnexpectedToken, diag.SevError, p.diagnosticSpan(), msg)
	} else {
		p.report(diag.SynUnexpectedToken, diag.SevError, peek.Span, msg)
	}

	if !p.errored {
		p.errored = true
		p.report(diag.SynInfo, diag.SevNote, source.Span{},
			"pasclang will now look for additional syntax errors; "+
				"since the input already contains an error, some reports may be wrong")
	}

	p.scavenge()
	panic(parseAbort{})
}

// scavenge consumes tokens until EOF, re-entering a production whenever an
// anchor keyword shows up. Nested errors abort through here; the outermost
// recover lives in ParseFile.
func (p *Parser) scavenge() {
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.KwBegin, token.KwDo, token.KwThen, token.KwElse:
			p.advance()
			p.parseInstruction()
			continue
		case token.Colon, token.KwNew:
			p.advance()
			p.parseType()
			continue
		case token.KwIf, token.KwWhile, token.Assign, token.LParen, token.LBracket:
			p.advance()
			p.parseExpression()
			continue
		case token.KwFunction, token.KwProcedure:
			kw := p.advance()
			p.parseProcedure(kw)
			continue
		case token.KwVar:
			p.advance()
			p.parseLocals()
			continue
		}
		p.advance()
	}
}

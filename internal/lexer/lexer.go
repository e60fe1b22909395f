// Package lexer turns Pseudo-Pascal source bytes into tokens.
package lexer

import (
	"pasclang/internal/diag"
	"pasclang/internal/source"
	"pasclang/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // one-token lookahead buffer
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
	}
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
			Text: "",
		}
	}

	ch := lx.cursor.Peek()

	switch {
	case isAlpha(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan is a zero-length span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// skipTrivia consumes whitespace and comments. Comments are `{ ... }` and
// nest; one left unterminated at EOF is a lexical error.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			lx.cursor.Bump()
			continue
		}

		if b == '{' {
			lx.skipComment()
			continue
		}

		break
	}
}

func (lx *Lexer) skipComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '{'
	depth := 1
	for depth > 0 {
		if lx.cursor.EOF() {
			lx.report(diag.LexUnterminatedComment, lx.cursor.SpanFrom(start),
				"unterminated comment at end of file")
			return
		}
		switch lx.cursor.Bump() {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlnum(b byte) bool {
	return isAlpha(b) || isDec(b)
}

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}

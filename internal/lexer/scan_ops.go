package lexer

import (
	"fmt"

	"pasclang/internal/diag"
	"pasclang/internal/token"
)

// scanOperatorOrPunct consumes one operator or punctuation token. The
// digraphs ":=", "<=", "<>", ">=" take both bytes only when both match;
// otherwise the leading byte stands alone.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()

	var kind token.Kind
	switch b {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '.':
		kind = token.Dot
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '=':
		kind = token.Eq
	case ':':
		if lx.cursor.Eat('=') {
			kind = token.Assign
		} else {
			kind = token.Colon
		}
	case '<':
		switch {
		case lx.cursor.Eat('='):
			kind = token.LtEq
		case lx.cursor.Eat('>'):
			kind = token.NotEq
		default:
			kind = token.Lt
		}
	case '>':
		if lx.cursor.Eat('=') {
			kind = token.GtEq
		} else {
			kind = token.Gt
		}
	default:
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnknownChar, sp,
			fmt.Sprintf("unknown character %q", rune(b)))
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(b)}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

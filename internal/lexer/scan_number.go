package lexer

import (
	"strconv"

	"pasclang/internal/diag"
	"pasclang/internal/token"
)

// scanNumber consumes a decimal run. Literals are signed 32-bit; anything
// larger is a lexical error but still yields an IntLit token so parsing can
// continue.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	if _, err := strconv.ParseInt(text, 10, 32); err != nil {
		lx.report(diag.LexIntOutOfRange, sp,
			"integer literal "+text+" does not fit in 32 bits")
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}

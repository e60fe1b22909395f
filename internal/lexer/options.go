package lexer

import (
	"pasclang/internal/diag"
)

// Options configure a Lexer.
type Options struct {
	Reporter diag.Reporter
}

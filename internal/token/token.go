package token

import (
	"pasclang/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is an integer or boolean literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, BoolLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwProgram, KwBegin, KwEnd, KwVar, KwFunction, KwProcedure, KwArray,
		KwOf, KwInteger, KwBoolean, KwNew, KwIf, KwThen, KwElse, KwWhile,
		KwDo, KwOr, KwAnd, KwNot:
		return true
	default:
		return false
	}
}

// IsTypeStarter reports whether the token can begin a type denotation.
func (t Token) IsTypeStarter() bool {
	switch t.Kind {
	case KwArray, KwInteger, KwBoolean:
		return true
	default:
		return false
	}
}

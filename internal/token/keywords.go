package token

var keywords = map[string]Kind{
	"program":   KwProgram,
	"begin":     KwBegin,
	"end":       KwEnd,
	"var":       KwVar,
	"function":  KwFunction,
	"procedure": KwProcedure,
	"array":     KwArray,
	"of":        KwOf,
	"integer":   KwInteger,
	"boolean":   KwBoolean,
	"new":       KwNew,
	"if":        KwIf,
	"then":      KwThen,
	"else":      KwElse,
	"while":     KwWhile,
	"do":        KwDo,
	"or":        KwOr,
	"and":       KwAnd,
	"not":       KwNot,
	"true":      BoolLit,
	"false":     BoolLit,
}

// LookupKeyword reports the token kind for ident if it is a keyword or a
// boolean literal. Keywords are case-sensitive, lowercase only.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

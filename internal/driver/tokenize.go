package driver

import (
	"pasclang/internal/diag"
	"pasclang/internal/lexer"
	"pasclang/internal/source"
	"pasclang/internal/token"
)

// TokenizeResult carries the token vector plus everything needed to render
// its diagnostics.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file to EOF. The returned error is a typed Failure
// when the source had lexical errors; the result still carries the
// diagnostics either way.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, Fail(InternalError, "could not open file "+path)
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	result := &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}
	if bag.HasErrors() {
		return result, Fail(LexicalError, "lexical errors in "+path)
	}
	return result, nil
}

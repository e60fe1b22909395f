package driver

import (
	"pasclang/internal/ast"
	"pasclang/internal/diag"
	"pasclang/internal/lexer"
	"pasclang/internal/parser"
	"pasclang/internal/source"
	"pasclang/internal/types"

	"fortio.org/safecast"
)

// ParseResult carries the parsed program and its diagnostics.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Program *ast.Program
	Bag     *diag.Bag
}

// Parse runs lexing and parsing over one file. Lexical errors win over
// syntactic ones when both are present, matching the stage order.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, Fail(InternalError, "could not open file "+path)
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})

	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, Fail(InternalError, "invalid diagnostics limit")
	}

	parsed := parser.ParseFile(fs, lx, types.NewInterner(), parser.Options{
		Reporter:  reporter,
		MaxErrors: maxErrors,
	})

	result := &ParseResult{
		FileSet: fs,
		File:    file,
		Program: parsed.Program,
		Bag:     bag,
	}

	if hasLexicalErrors(bag) {
		return result, Fail(LexicalError, "lexical errors in "+path)
	}
	if parsed.HadErrors || parsed.Program == nil {
		return result, Fail(SyntaxError, "syntax errors in "+path)
	}
	return result, nil
}

func hasLexicalErrors(bag *diag.Bag) bool {
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError && d.Code >= 1000 && d.Code < 2000 {
			return true
		}
	}
	return false
}

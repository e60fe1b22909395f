package driver

import (
	"pasclang/internal/diag"
	"pasclang/internal/sema"
)

// Frontend runs lexing, parsing, and semantic analysis. This is the whole
// pipeline for -f and -p runs and the prefix of every build.
func Frontend(path string, maxDiagnostics int) (*ParseResult, error) {
	result, err := Parse(path, maxDiagnostics)
	if err != nil {
		return result, err
	}

	checked := sema.Check(result.Program, sema.Options{
		Reporter: diag.BagReporter{Bag: result.Bag},
	})
	if checked.HadErrors {
		return result, Fail(TypeError, "type errors in "+path)
	}
	return result, nil
}

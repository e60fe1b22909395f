// Package driver wires the compiler stages together and owns the mapping
// from stage outcomes to process exit categories.
package driver

import (
	"errors"
)

// Category identifies the exit code of a compiler run.
type Category int

const (
	Success Category = iota
	WrongUsage
	InternalError
	LexicalError
	SyntaxError
	TypeError
	GeneratorError
)

func (c Category) String() string {
	switch c {
	case Success:
		return "success"
	case WrongUsage:
		return "wrong usage"
	case InternalError:
		return "internal error"
	case LexicalError:
		return "lexical error"
	case SyntaxError:
		return "syntax error"
	case TypeError:
		return "type error"
	case GeneratorError:
		return "generator error"
	}
	return "unknown"
}

// Failure is the typed error a stage raises once its walk is complete and
// the sticky error flag is set. It aborts the pipeline; no later stage runs.
type Failure struct {
	Category Category
	Msg      string
}

func (f *Failure) Error() string {
	if f.Msg == "" {
		return f.Category.String()
	}
	return f.Msg
}

// Fail builds a typed failure.
func Fail(category Category, msg string) *Failure {
	return &Failure{Category: category, Msg: msg}
}

// ExitCode maps an error to the process exit code. A nil error is success;
// an untyped error is an internal one.
func ExitCode(err error) int {
	if err == nil {
		return int(Success)
	}
	var failure *Failure
	if errors.As(err, &failure) {
		return int(failure.Category)
	}
	return int(InternalError)
}

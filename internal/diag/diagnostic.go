package diag

import (
	"pasclang/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single report from any compiler stage.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// HasSpan distinguishes a zero Primary from "no position available";
	// stage-level notes and usage errors carry no span.
	HasSpan bool
	Notes   []Note
}

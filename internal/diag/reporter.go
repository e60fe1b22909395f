package diag

import "pasclang/internal/source"

// Reporter is the minimal contract for receiving diagnostics from stages.
// Implementations: BagReporter (appends to a Bag), test reporters.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter adapts a *Bag to the Reporter interface.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, HasSpan: primary != (source.Span{}), Notes: notes,
	})
}

// ReportSpanless records a diagnostic that has no usable source position.
func ReportSpanless(r Reporter, code Code, sev Severity, msg string) {
	r.Report(code, sev, source.Span{}, msg, nil)
}

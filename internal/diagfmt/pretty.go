// Package diagfmt renders collected diagnostics for humans and tools.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pasclang/internal/diag"
	"pasclang/internal/source"
)

// Pretty formats diagnostics in a human-readable form. Call bag.Sort()
// first for deterministic output. Each diagnostic prints as
//
//	<path>:<line>:<col>: <severity>: <message> [CODE]
//	    <offending source line>
//	    ^~~~~
//
// with the caret underlining the region from the start offset to the end
// offset when both are on one line, and to the end of the line otherwise.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	if !d.HasSpan {
		fmt.Fprintf(w, "%s: %s [%s]\n", severityLabel(d.Severity, opts.Color), d.Message, d.Code.ID())
		return
	}

	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]\n",
		file.Path, start.Line, start.Col,
		severityLabel(d.Severity, opts.Color), d.Message, d.Code.ID())

	quoteLine(w, file, start, end, opts)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			if note.Span == (source.Span{}) {
				fmt.Fprintf(w, "%s: %s\n", severityLabel(diag.SevNote, opts.Color), note.Msg)
				continue
			}
			noteStart, noteEnd := fs.Resolve(note.Span)
			fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
				file.Path, noteStart.Line, noteStart.Col,
				severityLabel(diag.SevNote, opts.Color), note.Msg)
			quoteLine(w, file, noteStart, noteEnd, opts)
		}
	}
}

// quoteLine prints the offending line and a caret marker under the span.
func quoteLine(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts) {
	line := file.GetLine(start.Line)
	if line == "" && start.Line > 1 {
		return
	}

	expanded := strings.ReplaceAll(line, "\t", "    ")
	fmt.Fprintf(w, "    %s\n", expanded)

	prefix := lineSlice(line, 0, start.Col-1)
	pad := runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", "    "))

	var markedWidth int
	if end.Line == start.Line && end.Col > start.Col {
		marked := lineSlice(line, start.Col-1, end.Col-1)
		markedWidth = runewidth.StringWidth(marked)
	} else {
		rest := lineSlice(line, start.Col-1, uint32(len(line)))
		markedWidth = runewidth.StringWidth(rest)
	}

	marker := "^"
	if markedWidth > 1 {
		marker += strings.Repeat("~", markedWidth-1)
	}
	if opts.Color {
		marker = color.New(color.FgGreen, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), marker)
}

// lineSlice cuts [from, to) out of line by byte columns, clamped.
func lineSlice(line string, from, to uint32) string {
	if int(from) > len(line) {
		from = uint32(len(line))
	}
	if int(to) > len(line) {
		to = uint32(len(line))
	}
	if from >= to {
		return ""
	}
	return line[from:to]
}

func severityLabel(sev diag.Severity, colored bool) string {
	if !colored {
		return sev.String()
	}
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(sev.String())
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(sev.String())
	default:
		return color.New(color.FgCyan).Sprint(sev.String())
	}
}

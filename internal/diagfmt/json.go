package diagfmt

import (
	"encoding/json"
	"io"

	"pasclang/internal/diag"
	"pasclang/internal/source"
)

type jsonDiag struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	Path     string     `json:"path,omitempty"`
	Line     uint32     `json:"line,omitempty"`
	Col      uint32     `json:"col,omitempty"`
	EndLine  uint32     `json:"endLine,omitempty"`
	EndCol   uint32     `json:"endCol,omitempty"`
	Notes    []jsonNote `json:"notes,omitempty"`
}

type jsonNote struct {
	Message string `json:"message"`
	Line    uint32 `json:"line,omitempty"`
	Col     uint32 `json:"col,omitempty"`
}

// JSON renders diagnostics as a JSON array, one object per diagnostic.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out := make([]jsonDiag, 0, bag.Len())
	for _, d := range bag.Items() {
		entry := jsonDiag{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
		}
		if d.HasSpan && opts.IncludePositions {
			file := fs.Get(d.Primary.File)
			start, end := fs.Resolve(d.Primary)
			entry.Path = file.Path
			entry.Line = start.Line
			entry.Col = start.Col
			entry.EndLine = end.Line
			entry.EndCol = end.Col
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				jn := jsonNote{Message: note.Msg}
				if note.Span != (source.Span{}) {
					start, _ := fs.Resolve(note.Span)
					jn.Line = start.Line
					jn.Col = start.Col
				}
				entry.Notes = append(entry.Notes, jn)
			}
		}
		out = append(out, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

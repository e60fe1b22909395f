package source_test

import (
	"testing"

	"pasclang/internal/source"
)

func TestResolveLineCol(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.pp", []byte("program\nbegin\n  writeln(42)\nend.\n"))

	cases := []struct {
		name  string
		off   uint32
		line  uint32
		col   uint32
	}{
		{"start of file", 0, 1, 1},
		{"middle of first line", 3, 1, 4},
		{"newline stays on its line", 7, 1, 8},
		{"start of second line", 8, 2, 1},
		{"indented third line", 16, 3, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, _ := fs.Resolve(source.Span{File: id, Start: tc.off, End: tc.off})
			if start.Line != tc.line || start.Col != tc.col {
				t.Fatalf("offset %d: got %d:%d, want %d:%d", tc.off, start.Line, start.Col, tc.line, tc.col)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.pp", []byte("program\nbegin writeln(1) end.\n"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "program" {
		t.Errorf("line 1 = %q", got)
	}
	if got := f.GetLine(2); got != "begin writeln(1) end." {
		t.Errorf("line 2 = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Errorf("line 3 = %q, want empty", got)
	}
}

func TestVirtualFileLineIndex(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("crlf.pp", []byte("a\nb"))
	f := fs.Get(id)
	if len(f.LineIdx) != 1 || f.LineIdx[0] != 1 {
		t.Fatalf("line index = %v", f.LineIdx)
	}
	if f.Flags&source.FileVirtual == 0 {
		t.Fatal("virtual flag not set")
	}
}

func TestSpanCover(t *testing.T) {
	a := source.Span{File: 0, Start: 4, End: 9}
	b := source.Span{File: 0, Start: 2, End: 6}
	c := a.Cover(b)
	if c.Start != 2 || c.End != 9 {
		t.Fatalf("cover = %v", c)
	}
	other := source.Span{File: 1, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("cross-file cover changed span: %v", got)
	}
}

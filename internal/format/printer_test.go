package format_test

import (
	"strings"
	"testing"

	"pasclang/internal/ast"
	"pasclang/internal/diag"
	"pasclang/internal/format"
	"pasclang/internal/lexer"
	"pasclang/internal/parser"
	"pasclang/internal/source"
	"pasclang/internal/types"
)

func parseSource(t *testing.T, input string) *ast.Program {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.pp", []byte(input)))
	bag := diag.NewBag(100)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	result := parser.ParseFile(fs, lx, types.NewInterner(), parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	if result.Program == nil || bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("diag: %s %s", d.Severity, d.Message)
		}
		t.Fatalf("parse failed for %q", input)
	}
	return result.Program
}

func TestPrintContainsDeclarations(t *testing.T) {
	prog := parseSource(t, `program var a : array of integer;
function f(n : integer) : boolean;
begin f := n = 0 end;
begin a := new integer[3]; a[0] := 1 end.`)

	out := format.Print(prog)
	for _, want := range []string{
		"program",
		"a : array of integer;",
		"function f(n : integer) : boolean;",
		"new integer[",
		"a[0] := ",
		".\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// Pretty-printing the parsed tree and reparsing the result must converge:
// the second print is byte-identical to the first, which is the
// location-insensitive equality the round-trip property asks for.
func TestRoundTripFixpoint(t *testing.T) {
	sources := []string{
		"program\nbegin writeln(42) end.",
		`program var i : integer;
begin i := 0; while i < 3 do begin writeln(i); i := i + 1 end end.`,
		`program var a : array of integer;
begin a := new integer[1]; a[0] := 7;
  if (1 = 0) and (a[2] = 0) then writeln(0) else writeln(1) end.`,
		`program
function even(n : integer) : boolean;
begin if n = 0 then even := true else even := odd(n - 1) end;
function odd(n : integer) : boolean;
begin if n = 0 then odd := false else odd := even(n - 1) end;
begin if even(10) then writeln(1) else writeln(0) end.`,
		`program var m : array of array of boolean;
procedure fill(v : boolean);
var i : integer;
begin m[0][i] := v or not v end;
begin fill(true) end.`,
	}

	for _, src := range sources {
		first := format.Print(parseSource(t, src))
		second := format.Print(parseSource(t, first))
		if first != second {
			t.Errorf("round trip diverged for %q:\n--- first\n%s\n--- second\n%s", src, first, second)
		}
	}
}

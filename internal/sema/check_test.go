package sema_test

import (
	"strings"
	"testing"

	"pasclang/internal/ast"
	"pasclang/internal/diag"
	"pasclang/internal/lexer"
	"pasclang/internal/parser"
	"pasclang/internal/sema"
	"pasclang/internal/source"
	"pasclang/internal/types"
)

func parseProgram(t *testing.T, input string) *ast.Program {
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
		t.Fatalf("parse failed for:\n%s", input)
	}
	return result.Program
}

func check(t *testing.T, input string) (sema.Result, *diag.Bag) {
	t.Helper()
	prog := parseProgram(t, input)
	bag := diag.NewBag(100)
	res := sema.Check(prog, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
	return res, bag
}

func errorsOf(bag *diag.Bag) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			out = append(out, d)
		}
	}
	return out
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestHelloWorldChecks(t *testing.T) {
	res, bag := check(t, "program\nbegin writeln(42) end.")
	if res.HadErrors {
		t.Fatalf("diags: %v", bag.Items())
	}
}

func TestMutualRecursionChecks(t *testing.T) {
	res, bag := check(t, `program
function even(n : integer) : boolean;
begin if n = 0 then even := true else even := odd(n - 1) end;
function odd(n : integer) : boolean;
begin if n = 0 then odd := false else odd := even(n - 1) end;
begin if even(10) then writeln(1) else writeln(0) end.`)
	if res.HadErrors {
		for _, d := range bag.Items() {
			t.Logf("diag: %s %s", d.Severity, d.Message)
		}
		t.Fatal("mutual recursion must type-check")
	}
}

func TestIndexingScalarIsError(t *testing.T) {
	res, bag := check(t, "program var x : integer;\nbegin x[0] := 1 end.")
	if !res.HadErrors {
		t.Fatal("expected TypeError outcome")
	}
	if !hasCode(bag, diag.SemaNotAnArray) {
		t.Fatalf("missing not-an-array diagnostic: %v", bag.Items())
	}
	found := false
	for _, d := range errorsOf(bag) {
		if strings.Contains(d.Message, "x") {
			found = true
		}
	}
	if !found {
		t.Error("diagnostic does not name the variable")
	}
}

func TestBuiltinArity(t *testing.T) {
	res, bag := check(t, "program begin writeln(1, 2) end.")
	if !res.HadErrors {
		t.Fatal("expected arity error")
	}
	if !hasCode(bag, diag.SemaWrongArity) {
		t.Fatalf("missing arity diagnostic: %v", bag.Items())
	}
	for _, d := range errorsOf(bag) {
		if d.Code == diag.SemaWrongArity && !strings.Contains(d.Message, "writeln") {
			t.Error("arity diagnostic does not mention writeln")
		}
	}
}

func TestWriteAsFunctionIsError(t *testing.T) {
	res, bag := check(t, "program var x : integer;\nbegin x := writeln(1) end.")
	if !res.HadErrors || !hasCode(bag, diag.SemaInvalidCall) {
		t.Fatalf("writeln in expression position must be invalid: %v", bag.Items())
	}
}

func TestReadlnTypesAsInteger(t *testing.T) {
	res, bag := check(t, "program var x : integer;\nbegin x := readln() end.")
	if res.HadErrors {
		t.Fatalf("diags: %v", bag.Items())
	}

	res, bag = check(t, "program var b : boolean;\nbegin b := readln() end.")
	if !res.HadErrors || !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatalf("readln into boolean must mismatch: %v", bag.Items())
	}

	res, bag = check(t, "program begin readln() end.")
	if !res.HadErrors || !hasCode(bag, diag.SemaInvalidCall) {
		t.Fatalf("discarding readln's value must be invalid: %v", bag.Items())
	}
}

func TestProcedureCalledAsFunction(t *testing.T) {
	res, bag := check(t, `program var x : integer;
procedure p(a : integer);
begin writeln(a) end;
begin x := p(1) end.`)
	if !res.HadErrors || !hasCode(bag, diag.SemaInvalidCall) {
		t.Fatalf("procedure in expression position must be invalid: %v", bag.Items())
	}
}

func TestFunctionCalledAsInstruction(t *testing.T) {
	res, bag := check(t, `program
function f(a : integer) : integer;
begin f := a end;
begin f(1) end.`)
	if !res.HadErrors || !hasCode(bag, diag.SemaInvalidCall) {
		t.Fatalf("discarding a function result must be invalid: %v", bag.Items())
	}
}

func TestUndefinedSymbol(t *testing.T) {
	res, bag := check(t, "program begin writeln(x) end.")
	if !res.HadErrors || !hasCode(bag, diag.SemaUndefinedSymbol) {
		t.Fatalf("missing undefined symbol: %v", bag.Items())
	}
}

func TestRedefinitions(t *testing.T) {
	cases := []string{
		"program var a : integer; a : boolean;\nbegin a := 1 end.",
		`program var p : integer;
procedure p(); begin writeln(1) end;
begin p := 1 end.`,
		`program
procedure q(); begin writeln(1) end;
procedure q(); begin writeln(2) end;
begin q() end.`,
		`program
procedure r(a : integer; a : boolean); begin writeln(1) end;
begin r(1, true) end.`,
	}
	for _, src := range cases {
		res, bag := check(t, src)
		if !res.HadErrors || !hasCode(bag, diag.SemaRedefinedSymbol) {
			t.Errorf("missing redefinition for:\n%s\ndiags: %v", src, bag.Items())
		}
	}
}

func TestReservedBuiltinNames(t *testing.T) {
	res, bag := check(t, "program var writeln : integer;\nbegin writeln := 1 end.")
	if !res.HadErrors || !hasCode(bag, diag.SemaReservedName) {
		t.Fatalf("builtin name must be reserved: %v", bag.Items())
	}
}

func TestEqualityNeedsSameHandle(t *testing.T) {
	res, bag := check(t, "program var b : boolean;\nbegin b := 1 = true end.")
	if !res.HadErrors || !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatalf("int = bool must mismatch: %v", bag.Items())
	}

	res, bag = check(t, `program var a : array of integer; b : array of integer; ok : boolean;
begin a := new integer[1]; b := a; ok := a = b; writeln(0) end.`)
	if res.HadErrors {
		t.Fatalf("same-handle equality must check: %v", bag.Items())
	}

	res, bag = check(t, `program var a : array of integer; m : array of array of integer; ok : boolean;
begin a := new integer[1]; m := new array of integer[1]; ok := a = m end.`)
	if !res.HadErrors || !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatalf("different dimensions must mismatch: %v", bag.Items())
	}
}

func TestConditionTypes(t *testing.T) {
	res, bag := check(t, "program begin if 1 then writeln(1) end.")
	if !res.HadErrors || !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatalf("integer condition must mismatch: %v", bag.Items())
	}

	res, bag = check(t, "program var i : integer;\nbegin i := 0; while i do writeln(i) end.")
	if !res.HadErrors || !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatalf("integer while-condition must mismatch: %v", bag.Items())
	}
}

func TestArrayAllocAndAssignTypes(t *testing.T) {
	res, bag := check(t, `program var a : array of boolean;
begin a := new boolean[3]; a[0] := true end.`)
	if res.HadErrors {
		t.Fatalf("diags: %v", bag.Items())
	}

	res, bag = check(t, `program var a : array of boolean;
begin a := new boolean[3]; a[0] := 1 end.`)
	if !res.HadErrors || !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatalf("element type must match: %v", bag.Items())
	}

	res, bag = check(t, "program var a : array of integer;\nbegin a := new integer[true] end.")
	if !res.HadErrors || !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatalf("count must be integer: %v", bag.Items())
	}

	res, bag = check(t, "program var a : array of integer; i : integer;\nbegin a := new integer[2]; i := a[true] end.")
	if !res.HadErrors || !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatalf("index must be integer: %v", bag.Items())
	}
}

func TestWarnings(t *testing.T) {
	res, bag := check(t, `program var unused : integer; seen : integer;
begin seen := 1; writeln(seen) end.`)
	if res.HadErrors {
		t.Fatalf("warnings must not be errors: %v", bag.Items())
	}
	if !hasCode(bag, diag.SemaUnusedVariable) {
		t.Errorf("missing unused warning: %v", bag.Items())
	}

	_, bag = check(t, "program var x : integer;\nbegin writeln(x) end.")
	if !hasCode(bag, diag.SemaUninitializedRead) {
		t.Errorf("missing uninitialized warning: %v", bag.Items())
	}
}

func TestFormalsCountAsInitialized(t *testing.T) {
	_, bag := check(t, `program
procedure p(n : integer);
begin writeln(n) end;
begin p(3) end.`)
	if hasCode(bag, diag.SemaUninitializedRead) {
		t.Errorf("formals are initialized by the caller: %v", bag.Items())
	}
}

func TestArgumentTypesChecked(t *testing.T) {
	res, bag := check(t, `program
procedure p(n : integer);
begin writeln(n) end;
begin p(true) end.`)
	if !res.HadErrors || !hasCode(bag, diag.SemaTypeMismatch) {
		t.Fatalf("actual/formal mismatch not caught: %v", bag.Items())
	}

	res, bag = check(t, `program
procedure p(n : integer);
begin writeln(n) end;
begin p(1, 2) end.`)
	if !res.HadErrors || !hasCode(bag, diag.SemaWrongArity) {
		t.Fatalf("user arity mismatch not caught: %v", bag.Items())
	}
}

// Running the analyzer twice over one tree must produce identical
// diagnostics: tables are pass-local and the AST is read-only.
func TestCheckIsIdempotent(t *testing.T) {
	prog := parseProgram(t, `program var x : integer; dead : boolean;
begin x := true; writeln(y) end.`)

	run := func() []diag.Diagnostic {
		bag := diag.NewBag(100)
		sema.Check(prog, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
		return bag.Items()
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("diag count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Severity != b.Severity || a.Code != b.Code || a.Message != b.Message || a.Primary != b.Primary {
			t.Fatalf("diagnostic %d changed: %+v vs %+v", i, a, b)
		}
	}
}

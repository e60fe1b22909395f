package parser_test

import (
	"testing"

	"pasclang/internal/ast"
	"pasclang/internal/diag"
	"pasclang/internal/lexer"
	"pasclang/internal/parser"
	"pasclang/internal/source"
	"pasclang/internal/types"
)

func parseSource(t *testing.T, input string) (parser.Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.pp", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	result := parser.ParseFile(fs, lx, types.NewInterner(), parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	return result, bag
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	result, bag := parseSource(t, input)
	if result.HadErrors || result.Program == nil {
		for _, d := range bag.Items() {
			t.Logf("diag: %s %s", d.Severity, d.Message)
		}
		t.Fatal("parse failed")
	}
	return result.Program
}

func TestParseMinimalProgram(t *testing.T) {
	prog := mustParse(t, "program\nbegin writeln(42) end.")
	if len(prog.Globals) != 0 || len(prog.Procedures) != 0 {
		t.Fatal("unexpected declarations")
	}
	if len(prog.Main.Instrs) != 1 {
		t.Fatalf("main has %d instructions", len(prog.Main.Instrs))
	}
	call, ok := prog.Main.Instrs[0].(*ast.ProcCall)
	if !ok {
		t.Fatalf("instr is %T", prog.Main.Instrs[0])
	}
	if call.Name != "writeln" || len(call.Args) != 1 {
		t.Fatalf("call = %+v", call)
	}
	lit, ok := call.Args[0].(*ast.ConstInt)
	if !ok || lit.Value != 42 {
		t.Fatalf("arg = %#v", call.Args[0])
	}
}

func TestParseGlobalsShareHandle(t *testing.T) {
	prog := mustParse(t, "program var a, b : array of integer; c : integer;\nbegin a := b end.")
	if len(prog.Globals) != 3 {
		t.Fatalf("globals = %d", len(prog.Globals))
	}
	a, b, c := prog.Globals[0], prog.Globals[1], prog.Globals[2]
	if a.Type.Type != b.Type.Type {
		t.Error("a and b should share the interned handle")
	}
	if a.Type == b.Type {
		t.Error("a and b must not share the TypeNode")
	}
	if a.Type.Type.Dimension != 1 || c.Type.Type.Dimension != 0 {
		t.Error("dimensions wrong")
	}
	if a.Type.Type.Kind != types.Integer {
		t.Error("kind wrong")
	}
}

func TestParseProcedureAndFunction(t *testing.T) {
	prog := mustParse(t, `program
procedure p(x : integer; y : boolean);
begin writeln(x) end;
function f(n : integer) : boolean;
var tmp : integer;
begin f := n = 0 end;
begin p(1, true) end.`)

	if len(prog.Procedures) != 2 {
		t.Fatalf("procedures = %d", len(prog.Procedures))
	}
	proc, fn := prog.Procedures[0], prog.Procedures[1]
	if proc.IsFunction() || proc.Name != "p" || len(proc.Formals) != 2 {
		t.Fatalf("proc = %+v", proc)
	}
	if !fn.IsFunction() || fn.Result.Type.Kind != types.Boolean || len(fn.Locals) != 1 {
		t.Fatalf("fn = %+v", fn)
	}
}

func TestParsePrecedence(t *testing.T) {
	prog := mustParse(t, "program var x : boolean;\nbegin x := 1 + 2 * 3 < 4 and true end.")
	assign := prog.Main.Instrs[0].(*ast.VarAssign)
	// and at the top
	and, ok := assign.Value.(*ast.BinaryOp)
	if !ok || and.Op != ast.BinaryAnd {
		t.Fatalf("top = %#v", assign.Value)
	}
	cmp, ok := and.Left.(*ast.BinaryOp)
	if !ok || cmp.Op != ast.BinaryLt {
		t.Fatalf("cmp = %#v", and.Left)
	}
	add, ok := cmp.Left.(*ast.BinaryOp)
	if !ok || add.Op != ast.BinaryAdd {
		t.Fatalf("add = %#v", cmp.Left)
	}
	mul, ok := add.Right.(*ast.BinaryOp)
	if !ok || mul.Op != ast.BinaryMul {
		t.Fatalf("mul = %#v", add.Right)
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	prog := mustParse(t, "program var x : integer;\nbegin x := 1 - 2 - 3 end.")
	assign := prog.Main.Instrs[0].(*ast.VarAssign)
	outer := assign.Value.(*ast.BinaryOp)
	if outer.Op != ast.BinarySub {
		t.Fatal("outer op")
	}
	inner, ok := outer.Left.(*ast.BinaryOp)
	if !ok || inner.Op != ast.BinarySub {
		t.Fatalf("1-2-3 must associate left: %#v", outer.Left)
	}
}

func TestParseNewAndIndexChain(t *testing.T) {
	prog := mustParse(t, `program var m : array of array of integer;
begin
  m := new array of integer[10];
  m[1][2] := 3
end.`)

	alloc := prog.Main.Instrs[0].(*ast.VarAssign).Value.(*ast.ArrayAlloc)
	if alloc.Elem.Type.Dimension != 1 {
		t.Fatalf("alloc elem dim = %d", alloc.Elem.Type.Dimension)
	}

	assign := prog.Main.Instrs[1].(*ast.ArrayAssign)
	inner, ok := assign.Target.Array.(*ast.ArrayAccess)
	if !ok {
		t.Fatalf("target = %#v", assign.Target)
	}
	if _, ok := inner.Array.(*ast.VarAccess); !ok {
		t.Fatalf("base = %#v", inner.Array)
	}
}

func TestParseIfElseWhile(t *testing.T) {
	prog := mustParse(t, `program var i : integer;
begin
  while i < 3 do
    if i = 0 then i := 1 else i := i + 1
end.`)

	loop := prog.Main.Instrs[0].(*ast.While)
	cond, ok := loop.Body.(*ast.If)
	if !ok {
		t.Fatalf("body = %T", loop.Body)
	}
	if cond.Else == nil {
		t.Fatal("else branch lost")
	}
}

func TestParseFunctionCallExpr(t *testing.T) {
	prog := mustParse(t, "program var x : integer;\nbegin x := f(1, g()) end.")
	call := prog.Main.Instrs[0].(*ast.VarAssign).Value.(*ast.Call)
	if call.Name != "f" || len(call.Args) != 2 {
		t.Fatalf("call = %+v", call)
	}
	nested, ok := call.Args[1].(*ast.Call)
	if !ok || nested.Name != "g" || len(nested.Args) != 0 {
		t.Fatalf("nested = %#v", call.Args[1])
	}
}

func TestSyntaxErrorReportsExpectedSet(t *testing.T) {
	result, bag := parseSource(t, "program\nbegin x + 1 end.")
	if !result.HadErrors || result.Program != nil {
		t.Fatal("expected a syntax error")
	}
	var sawError, sawNote bool
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError && d.Code == diag.SynUnexpectedToken {
			sawError = true
		}
		if d.Severity == diag.SevNote {
			sawNote = true
		}
	}
	if !sawError {
		t.Error("no unexpected-token error")
	}
	if !sawNote {
		t.Error("missing one-time recovery note")
	}
}

func TestSyntaxErrorRecoveryFindsMore(t *testing.T) {
	// Two independent mistakes; panic mode should surface both.
	result, bag := parseSource(t, `program
begin
  x := ;
  while do writeln(1)
end.`)
	if !result.HadErrors {
		t.Fatal("expected errors")
	}
	errCount := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			errCount++
		}
	}
	if errCount < 2 {
		t.Errorf("recovery found %d errors, want at least 2", errCount)
	}
}

func TestMissingDotIsError(t *testing.T) {
	result, _ := parseSource(t, "program\nbegin writeln(1) end")
	if !result.HadErrors {
		t.Fatal("missing final dot must be a syntax error")
	}
}

func TestEveryTypeIsInterned(t *testing.T) {
	prog := mustParse(t, `program var g : array of boolean;
function f(x : integer) : array of integer;
var l : boolean;
begin f := new integer[x] end;
begin g := new boolean[1] end.`)

	check := func(tn *ast.TypeNode) {
		if tn.Type != prog.Types.Get(tn.Type.Kind, tn.Type.Dimension) {
			t.Errorf("type %v not interned", tn.Type)
		}
	}
	for _, g := range prog.Globals {
		check(g.Type)
	}
	for _, proc := range prog.Procedures {
		for _, f := range proc.Formals {
			check(f.Type)
		}
		for _, l := range proc.Locals {
			check(l.Type)
		}
		if proc.Result != nil {
			check(proc.Result)
		}
	}
}

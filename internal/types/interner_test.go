package types_test

import (
	"testing"

	"pasclang/internal/types"
)

func TestInternIdentity(t *testing.T) {
	in := types.NewInterner()

	a := in.Get(types.Integer, 2)
	b := in.Get(types.Integer, 2)
	if a != b {
		t.Fatal("same (kind, dimension) produced distinct handles")
	}

	c := in.Get(types.Boolean, 2)
	if a == c {
		t.Fatal("distinct kinds share a handle")
	}
	d := in.Get(types.Integer, 3)
	if a == d {
		t.Fatal("distinct dimensions share a handle")
	}
}

func TestBuiltins(t *testing.T) {
	in := types.NewInterner()
	bi := in.Builtins()
	if bi.Integer != in.Get(types.Integer, 0) {
		t.Fatal("builtin integer is not the interned scalar")
	}
	if bi.Boolean != in.Get(types.Boolean, 0) {
		t.Fatal("builtin boolean is not the interned scalar")
	}
	if !bi.Integer.IsScalar() || bi.Integer.IsArray() {
		t.Fatal("scalar misclassified")
	}
}

func TestIncreaseDecreaseDimension(t *testing.T) {
	in := types.NewInterner()
	scalar := in.Get(types.Boolean, 0)
	arr := in.IncreaseDimension(scalar)
	if arr != in.Get(types.Boolean, 1) {
		t.Fatal("IncreaseDimension disagrees with Get")
	}
	if in.DecreaseDimension(arr) != scalar {
		t.Fatal("DecreaseDimension did not return the element type")
	}
}

func TestIndependentInterners(t *testing.T) {
	a := types.NewInterner()
	b := types.NewInterner()
	// Handles are only canonical within one interner.
	if a.Get(types.Integer, 1) == b.Get(types.Integer, 1) {
		t.Fatal("handles from independent interners should be distinct")
	}
}

func TestTypeStrings(t *testing.T) {
	in := types.NewInterner()
	arr := in.Get(types.Integer, 2)
	if got := arr.String(); got != "array of array of integer" {
		t.Errorf("String() = %q", got)
	}
	if got := arr.Short(); got != "int[2]" {
		t.Errorf("Short() = %q", got)
	}
}

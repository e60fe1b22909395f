package llvm

import (
	"pasclang/internal/types"
)

// llvmType lowers a Pseudo-Pascal type: i1 and i32 for the scalars, an
// opaque pointer for any array dimension.
func llvmType(t *types.Type) string {
	if t == nil {
		return "void"
	}
	if t.Dimension > 0 {
		return "ptr"
	}
	if t.Kind == types.Boolean {
		return "i1"
	}
	return "i32"
}

// zeroValue is the default initializer: false, 0, or null.
func zeroValue(t *types.Type) string {
	if t.Dimension > 0 {
		return "null"
	}
	if t.Kind == types.Boolean {
		return "false"
	}
	return "0"
}

// allocTag selects the runtime allocator tag for an allocation that yields
// resultType: pointer cells for nested arrays, else the scalar cell kind.
func allocTag(resultType *types.Type) int {
	if resultType.Dimension > 1 {
		return 3
	}
	if resultType.Kind == types.Integer {
		return 2
	}
	return 1
}

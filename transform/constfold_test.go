package transform

import (
	"context"
	"testing"

	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixtures below spell uses in the qualified "name#k" form ssa.Rename
// actually produces, while leaving every Dst bare, the same post-rename
// shape ConstantFold only ever runs against in the real pipeline.
func TestConstantFoldRewritesBinaryToAssign(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	a.Append(ir.NewAssign(0, "x", "2"))
	a.Append(ir.NewAssign(0, "y", "3"))
	bin := ir.NewBinary(0, "z", ir.Add, "x#0", "y#0")
	a.Append(bin)
	a.AddTerminator(ir.NewReturn(0, "z#0", true))

	changed, err := ConstantFold(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, changed)

	assign, ok := a.Instrs[2].(*ir.Assign)
	require.True(t, ok, "folded binary must become an Assign")
	assert.Equal(t, ir.Var("z"), assign.Dst)
	assert.Equal(t, ir.Operand("5"), assign.Src)
}

func TestConstantFoldSubstitutesKnownOperandsWithoutFoldingNonLiteralMix(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	a.Append(ir.NewAssign(0, "x", "2"))
	bin := ir.NewBinary(0, "z", ir.Add, "x#0", "unknownParam")
	a.Append(bin)
	a.AddTerminator(ir.NewReturn(0, "z#0", true))

	changed, err := ConstantFold(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, changed)

	stillBinary, ok := a.Instrs[1].(*ir.Binary)
	require.True(t, ok, "one unknown operand prevents folding to Assign")
	assert.Equal(t, ir.Operand("2"), stillBinary.Left, "known operand x is substituted with its literal")
	assert.Equal(t, ir.Operand("unknownParam"), stillBinary.Right)
}

// entry -> {then, else} -> merge, where entry's branch condition is a
// literal true; ConstantFold should resolve it to an unconditional jump to
// then, disconnect else, and invalidate dominators.
func TestConstantFoldResolvesLiteralBranchAndInvalidatesDominators(t *testing.T) {
	g := ir.NewControlFlowGraph()
	entry := g.NewBlock("entry")
	then := g.NewBlock("then")
	els := g.NewBlock("else")
	entry.Append(ir.NewAssign(0, "cond", "true"))
	entry.AddTerminator(ir.NewBranch(0, "cond#0", then, els))
	then.AddTerminator(ir.NewReturn(0, "", false))
	els.AddTerminator(ir.NewReturn(0, "", false))

	g.MarkDominatorsComputed()

	changed, err := ConstantFold(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, changed)

	_, isJump := entry.Terminator().(*ir.Jump)
	assert.True(t, isJump)
	assert.False(t, g.DominatorsComputed(), "branch folding changes edges and must invalidate stale dominator info")
	assert.NotContains(t, entry.Successors, els)
}

func TestConstantFoldReachesFixedPointAndReportsNoChange(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	a.Append(ir.NewCall(0, "r", `"f"`, nil))
	a.AddTerminator(ir.NewReturn(0, "r#0", true))

	changed, err := ConstantFold(context.Background(), g)
	require.NoError(t, err)
	assert.False(t, changed, "a call result is never constant, nothing to fold")
}

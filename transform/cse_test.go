package transform

import (
	"context"
	"testing"

	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSERewritesRecomputedExpressionToCopy(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	first := ir.NewBinary(0, "t1", ir.Add, "x", "y")
	second := ir.NewBinary(0, "t2", ir.Add, "x", "y")
	a.Append(first)
	a.Append(second)
	a.AddTerminator(ir.NewReturn(0, "t2", true))

	changed := CommonSubexpressionElimination(context.Background(), g)
	assert.True(t, changed)

	assign, ok := a.Instrs[1].(*ir.Assign)
	require.True(t, ok, "the second, redundant computation becomes a copy")
	assert.Equal(t, ir.Var("t2"), assign.Dst)
	assert.Equal(t, ir.Operand("t1#0"), assign.Src, "the copy must reference t1's qualified SSA name, the spelling every other use of it carries")
}

func TestCSECommutativeOperandOrderStillMatches(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	first := ir.NewBinary(0, "t1", ir.Add, "x", "y")
	second := ir.NewBinary(0, "t2", ir.Add, "y", "x")
	a.Append(first)
	a.Append(second)
	a.AddTerminator(ir.NewReturn(0, "t2", true))

	changed := CommonSubexpressionElimination(context.Background(), g)
	assert.True(t, changed)
	_, stillBinary := a.Instrs[1].(*ir.Binary)
	assert.False(t, stillBinary)
}

func TestCSEInvalidatesOnOperandRedefinitionBeforeRecording(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	// Both computations read the same qualified "x#0". In genuine pruned
	// SSA this redefinition could not happen inside one block at all, but
	// the invalidate-before-insert ordering (spec.md §9) is specified
	// defensively regardless, so this exercises that path directly.
	first := ir.NewBinary(0, "t1", ir.Add, "x#0", "y")
	redefine := ir.NewAssign(0, "x", "99")
	second := ir.NewBinary(0, "t2", ir.Add, "x#0", "y")
	a.Append(first)
	a.Append(redefine)
	a.Append(second)
	a.AddTerminator(ir.NewReturn(0, "t2#0", true))

	changed := CommonSubexpressionElimination(context.Background(), g)
	assert.False(t, changed, "x was redefined between the two computations, so they are not the same expression")
	_, stillBinary := a.Instrs[2].(*ir.Binary)
	assert.True(t, stillBinary)
}

func TestCSEDoesNotCrossBlockBoundaries(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	b := g.NewBlock("b")
	a.Append(ir.NewBinary(0, "t1", ir.Add, "x", "y"))
	a.AddTerminator(ir.NewJump(0, b))
	b.Append(ir.NewBinary(0, "t2", ir.Add, "x", "y"))
	b.AddTerminator(ir.NewReturn(0, "t2", true))

	changed := CommonSubexpressionElimination(context.Background(), g)
	assert.False(t, changed, "CSE's producer map is per-block, per spec.md scoping")
	_, stillBinary := b.Instrs[0].(*ir.Binary)
	assert.True(t, stillBinary)
}

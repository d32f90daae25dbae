package transform

import (
	"context"
	"testing"

	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every fixture below leaves Dst bare on its definitions (Rename never
// touches it) and spells uses in the qualified "name#k" form Rename
// actually produces, even though every instruction here stays at its
// default Version 0, this is what a real post-rename block looks like,
// as opposed to a CFG that was never renamed at all.
func TestDeadCodeEliminationRemovesUnusedAssignment(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	a.Append(ir.NewAssign(0, "x", "1"))
	a.Append(ir.NewAssign(0, "y", "2"))
	a.AddTerminator(ir.NewReturn(0, "x#0", true))

	changed, err := DeadCodeElimination(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, a.Instrs, 2)
	assign := a.Instrs[0].(*ir.Assign)
	assert.Equal(t, ir.Var("x"), assign.Dst)
}

func TestDeadCodeEliminationKeepsDefinitionUsedInLaterBlock(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	b := g.NewBlock("b")
	a.Append(ir.NewAssign(0, "x", "1"))
	a.Append(ir.NewAssign(0, "y", "2"))
	a.AddTerminator(ir.NewJump(0, b))
	b.Append(ir.NewBinary(0, "z", ir.Add, "x#0", "1"))
	b.AddTerminator(ir.NewReturn(0, "z#0", true))

	changed, err := DeadCodeElimination(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, changed)

	// y is dead and removed, x survives because b still consumes it.
	require.Len(t, a.Instrs, 2)
	assign := a.Instrs[0].(*ir.Assign)
	assert.Equal(t, ir.Var("x"), assign.Dst)
	require.Len(t, b.Instrs, 2)
}

func TestDeadCodeEliminationIteratesUntilFixedPoint(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	// chained dead defs: y depends on x, both unused, removing y first
	// should expose x as dead in the same or a following pass.
	a.Append(ir.NewAssign(0, "x", "1"))
	a.Append(ir.NewBinary(0, "y", ir.Add, "x#0", "1"))
	a.AddTerminator(ir.NewReturn(0, "", false))

	changed, err := DeadCodeElimination(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, a.Instrs, 1, "both x and y are unreachable from any live use; only the return remains")
	assert.IsType(t, &ir.Return{}, a.Instrs[0])
}

func TestDeadCodeEliminationNeverRemovesCallForSideEffects(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	a.Append(ir.NewCall(0, "unused", `"f"`, nil))
	a.AddTerminator(ir.NewReturn(0, "", false))

	changed, err := DeadCodeElimination(context.Background(), g)
	require.NoError(t, err)
	assert.False(t, changed)
	require.Len(t, a.Instrs, 2)
}

func TestDeadCodeEliminationNoOpWhenEverythingLive(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	a.Append(ir.NewAssign(0, "x", "1"))
	a.AddTerminator(ir.NewReturn(0, "x#0", true))

	changed, err := DeadCodeElimination(context.Background(), g)
	require.NoError(t, err)
	assert.False(t, changed)
	require.Len(t, a.Instrs, 2)
}

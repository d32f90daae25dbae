package analysis

import (
	"context"
	"testing"

	"github.com/Manifest-Son/JS-Compiler-Project/dataflow"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a -> b -> c:
//
//	a: x = 1; y = 2
//	b: z = x + 1        (y dead after a, x live into b)
//	c: return z
//
// Every instruction here sits at Version 0 (never renamed), so each
// definition's post-rename identity (spec.md §4.D step (b): Dst stays
// bare, only the instruction's own Version carries the numbering)
// qualifies to "name#0". b's use of a's x is spelled "x#0" to match what
// ssa.Rename would actually leave behind, rather than the bare spelling
// that would only be consistent pre-SSA.
func buildLiveChain() (g *ir.ControlFlowGraph, a, b, c *ir.BasicBlock) {
	g = ir.NewControlFlowGraph()
	a = g.NewBlock("a")
	b = g.NewBlock("b")
	c = g.NewBlock("c")
	a.Append(ir.NewAssign(0, "x", "1"))
	a.Append(ir.NewAssign(0, "y", "2"))
	a.AddTerminator(ir.NewJump(0, b))
	b.Append(ir.NewBinary(0, "z", ir.Add, "x#0", "1"))
	b.AddTerminator(ir.NewJump(0, c))
	c.AddTerminator(ir.NewReturn(0, "z#0", true))
	return
}

// outputs[blk] from Run is live-IN, the value Transfer produces by walking
// a block backward from the merged successor value. live-OUT (the value
// flowing in at the bottom of the block, before that walk) has to be
// recomputed with ComputeInput, the same pattern transform.ConstantFold
// uses for its forward analysis.
func TestLiveVariablesBackward(t *testing.T) {
	g, a, b, c := buildLiveChain()
	outputs, err := dataflow.Run[VarSet](context.Background(), g, LiveVariables{}, dataflow.Unbounded)
	require.NoError(t, err)

	assert.False(t, outputs[a]["x#0"], "x and y are both resolved within a; nothing is live into a")
	assert.False(t, outputs[a]["y#0"])
	assert.True(t, outputs[b]["x#0"], "x is live into b, consumed by z = x + 1")
	assert.False(t, outputs[b]["z#0"], "z is defined in b, not live into it")
	assert.True(t, outputs[c]["z#0"], "z is live into c, consumed by the return")

	live := LiveVariables{}
	assert.True(t, live.ComputeInput(a, outputs)["x#0"], "x must be live out of a: b consumes it")
	assert.False(t, live.ComputeInput(a, outputs)["y#0"], "y is never consumed, dead on exit from a")
}

func TestUnusedDefinitionsFindsDeadAssignment(t *testing.T) {
	g, a, _, _ := buildLiveChain()
	outputs, err := dataflow.Run[VarSet](context.Background(), g, LiveVariables{}, dataflow.Unbounded)
	require.NoError(t, err)

	live := LiveVariables{}
	result := UnusedDefinitions(a, live.ComputeInput(a, outputs))
	require.Equal(t, 1, result.Count)
	assign := result.Removable[0].(*ir.Assign)
	assert.Equal(t, ir.Var("y"), assign.Dst)
}

func TestUnusedDefinitionsNeverReportsCallsOrTerminators(t *testing.T) {
	g := ir.NewControlFlowGraph()
	b := g.NewBlock("entry")
	b.Append(ir.NewCall(0, "unused", `"f"`, nil))
	b.AddTerminator(ir.NewReturn(0, "", false))

	result := UnusedDefinitions(b, make(VarSet))
	assert.Equal(t, 0, result.Count)
}

package analysis

import (
	"context"
	"testing"

	"github.com/Manifest-Son/JS-Compiler-Project/dataflow"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableExpressionsPropagatesAcrossStraightLine(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	b := g.NewBlock("b")
	a.Append(ir.NewBinary(0, "t", ir.Add, "x", "y"))
	a.AddTerminator(ir.NewJump(0, b))
	b.AddTerminator(ir.NewReturn(0, "t", true))

	analysis := NewAvailableExpressions(g)
	outputs, err := dataflow.Run[ExprSet](context.Background(), g, analysis, dataflow.Unbounded)
	require.NoError(t, err)

	in := analysis.ComputeInput(b, outputs)
	assert.True(t, in[canonicalBinary(ir.Add, "x", "y")])
}

func TestAvailableExpressionsInvalidatedByOperandRedefinition(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	b := g.NewBlock("b")
	a.Append(ir.NewBinary(0, "t", ir.Add, "x", "y"))
	a.Append(ir.NewAssign(0, "x", "5"))
	a.AddTerminator(ir.NewJump(0, b))
	b.AddTerminator(ir.NewReturn(0, "t", true))

	analysis := NewAvailableExpressions(g)
	outputs, err := dataflow.Run[ExprSet](context.Background(), g, analysis, dataflow.Unbounded)
	require.NoError(t, err)

	in := analysis.ComputeInput(b, outputs)
	assert.False(t, in[canonicalBinary(ir.Add, "x", "y")], "redefining x must invalidate x+y")
}

func TestAvailableExpressionsIntersectsAcrossMergingPaths(t *testing.T) {
	g := ir.NewControlFlowGraph()
	entry := g.NewBlock("entry")
	then := g.NewBlock("then")
	els := g.NewBlock("else")
	merge := g.NewBlock("merge")
	entry.AddTerminator(ir.NewBranch(0, "cond", then, els))
	then.Append(ir.NewBinary(0, "t", ir.Add, "x", "y"))
	then.AddTerminator(ir.NewJump(0, merge))
	els.AddTerminator(ir.NewJump(0, merge))
	merge.AddTerminator(ir.NewReturn(0, "", false))

	analysis := NewAvailableExpressions(g)
	outputs, err := dataflow.Run[ExprSet](context.Background(), g, analysis, dataflow.Unbounded)
	require.NoError(t, err)

	in := analysis.ComputeInput(merge, outputs)
	assert.False(t, in[canonicalBinary(ir.Add, "x", "y")], "only computed on one incoming path, not available at merge")
}

func TestCanonicalBinaryNormalizesCommutativeOperandOrder(t *testing.T) {
	ab := canonicalBinary(ir.Add, "a", "b")
	ba := canonicalBinary(ir.Add, "b", "a")
	assert.Equal(t, ab, ba)
}

package analysis

import (
	"context"
	"testing"

	"github.com/Manifest-Son/JS-Compiler-Project/dataflow"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withVersion is a test helper that mirrors what ssa.Rename actually does to
// a definition: it leaves Dst bare and only ever sets the instruction's own
// version. Every operand string fed to the instructions below is written in
// the qualified "name#k" form Rename bakes into uses, so these fixtures
// look like real post-rename SSA rather than the accidentally-consistent
// bare-everywhere form a CFG has before renaming.
func withVersion(instr ir.Instr, v int) ir.Instr {
	instr.SetVersion(v)
	return instr
}

func TestConstantPropagationEvaluatesStraightLineArithmetic(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	a.Append(withVersion(ir.NewAssign(0, "x", "2"), 0))
	a.Append(withVersion(ir.NewAssign(0, "y", "3"), 0))
	a.Append(withVersion(ir.NewBinary(0, "z", ir.Add, "x#0", "y#0"), 0))
	a.AddTerminator(ir.NewReturn(0, "z#0", true))

	outputs, err := dataflow.Run[ConstMap](context.Background(), g, ConstantPropagation{}, dataflow.Unbounded)
	require.NoError(t, err)

	z := outputs[a].Lookup("z#0")
	require.Equal(t, ConstVal, z.Kind)
	assert.Equal(t, ir.Operand("5"), z.Literal)
}

func TestConstantPropagationGoesBottomOnCallResult(t *testing.T) {
	g := ir.NewControlFlowGraph()
	a := g.NewBlock("a")
	a.Append(withVersion(ir.NewCall(0, "r", `"f"`, nil), 0))
	a.AddTerminator(ir.NewReturn(0, "r#0", true))

	outputs, err := dataflow.Run[ConstMap](context.Background(), g, ConstantPropagation{}, dataflow.Unbounded)
	require.NoError(t, err)

	assert.Equal(t, Bottom, outputs[a].Lookup("r#0").Kind)
}

// entry -> {then, else} -> merge, a phi for x with equal constant values on
// both incoming edges should resolve to that constant, not bottom. Dst
// stays the bare source name "x" on every definition, exactly as Rename
// leaves it; only each instruction's own Version (and, for the phi's
// incoming edges, the already-qualified use spelling) carries the SSA
// numbering.
func TestConstantPropagationPhiMeetsEqualConstantsToConstant(t *testing.T) {
	g := ir.NewControlFlowGraph()
	entry := g.NewBlock("entry")
	then := g.NewBlock("then")
	els := g.NewBlock("else")
	merge := g.NewBlock("merge")
	entry.AddTerminator(ir.NewBranch(0, "cond", then, els))
	then.Append(withVersion(ir.NewAssign(0, "x", "7"), 1))
	then.AddTerminator(ir.NewJump(0, merge))
	els.Append(withVersion(ir.NewAssign(0, "x", "7"), 2))
	els.AddTerminator(ir.NewJump(0, merge))
	phi := withVersion(ir.NewPhi(0, "x", []ir.PhiEdge{
		{Pred: then, Src: "x#1"},
		{Pred: els, Src: "x#2"},
	}), 3)
	merge.Append(phi)
	merge.AddTerminator(ir.NewReturn(0, "x#3", true))

	outputs, err := dataflow.Run[ConstMap](context.Background(), g, ConstantPropagation{}, dataflow.Unbounded)
	require.NoError(t, err)

	val := outputs[merge].Lookup("x#3")
	require.Equal(t, ConstVal, val.Kind)
	assert.Equal(t, ir.Operand("7"), val.Literal)
}

func TestConstantPropagationPhiMeetsDifferentConstantsToBottom(t *testing.T) {
	g := ir.NewControlFlowGraph()
	entry := g.NewBlock("entry")
	then := g.NewBlock("then")
	els := g.NewBlock("else")
	merge := g.NewBlock("merge")
	entry.AddTerminator(ir.NewBranch(0, "cond", then, els))
	then.Append(withVersion(ir.NewAssign(0, "x", "7"), 1))
	then.AddTerminator(ir.NewJump(0, merge))
	els.Append(withVersion(ir.NewAssign(0, "x", "8"), 2))
	els.AddTerminator(ir.NewJump(0, merge))
	phi := withVersion(ir.NewPhi(0, "x", []ir.PhiEdge{
		{Pred: then, Src: "x#1"},
		{Pred: els, Src: "x#2"},
	}), 3)
	merge.Append(phi)
	merge.AddTerminator(ir.NewReturn(0, "x#3", true))

	outputs, err := dataflow.Run[ConstMap](context.Background(), g, ConstantPropagation{}, dataflow.Unbounded)
	require.NoError(t, err)

	val := outputs[merge].Lookup("x#3")
	assert.Equal(t, Bottom, val.Kind)
}

func TestMeetConstLattice(t *testing.T) {
	c7 := ConstValue{Kind: ConstVal, Literal: "7"}
	c8 := ConstValue{Kind: ConstVal, Literal: "8"}
	top := ConstValue{Kind: Top}
	bottom := ConstValue{Kind: Bottom}

	assert.Equal(t, c7, MeetConst(top, c7))
	assert.Equal(t, bottom, MeetConst(bottom, c7))
	assert.Equal(t, c7, MeetConst(c7, c7))
	assert.Equal(t, Bottom, MeetConst(c7, c8).Kind)
}

func TestOperandValueResolvesLiteralAndVariable(t *testing.T) {
	m := ConstMap{"x#0": {Kind: ConstVal, Literal: "4"}}
	assert.Equal(t, ConstValue{Kind: ConstVal, Literal: "4"}, OperandValue("x#0", m))
	assert.Equal(t, ConstValue{Kind: ConstVal, Literal: "9"}, OperandValue("9", m))
	assert.Equal(t, Top, OperandValue("unseen", m).Kind)
}

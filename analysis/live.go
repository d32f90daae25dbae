// Package analysis implements the five dataflow analyses of spec.md §4.F on
// top of the generic engine in package dataflow. Each analysis is grounded
// on the corresponding templated subclass in
// original_source/include/cfg/ssa_transformer.h, adapted from C++ template
// specialization onto a dataflow.Analysis[V] implementation per value.
package analysis

import "github.com/Manifest-Son/JS-Compiler-Project/ir"

// VarSet is the lattice value for live-variable analysis: the set of
// variables live at a program point. Meet is set union.
type VarSet map[ir.Var]bool

func (s VarSet) clone() VarSet {
	out := make(VarSet, len(s))
	for v := range s {
		out[v] = true
	}
	return out
}

func unionVarSets(sets ...VarSet) VarSet {
	out := make(VarSet)
	for _, s := range sets {
		for v := range s {
			out[v] = true
		}
	}
	return out
}

func equalVarSets(a, b VarSet) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if !b[v] {
			return false
		}
	}
	return true
}

// LiveVariables computes, per block, the set of variables live on entry
// (i.e. used in that block or a successor before being redefined); a
// block's live-out set is ComputeInput over those outputs. It is a
// backward analysis: ComputeInput joins successors' outputs plus the phi
// sources those successors take along the edge from the block, and
// Transfer removes the block's defs then adds its uses, matching
// LiveVariableAnalysis::transferFunction in the original header.
type LiveVariables struct{}

func (LiveVariables) Initialize(g *ir.ControlFlowGraph) map[*ir.BasicBlock]VarSet {
	out := make(map[*ir.BasicBlock]VarSet, len(g.Blocks))
	for _, b := range g.Blocks {
		out[b] = make(VarSet)
	}
	return out
}

func (LiveVariables) ComputeInput(b *ir.BasicBlock, outputs map[*ir.BasicBlock]VarSet) VarSet {
	sets := make([]VarSet, 0, len(b.Successors))
	for _, s := range b.Successors {
		sets = append(sets, outputs[s])
	}
	live := unionVarSets(sets...)
	for _, s := range b.Successors {
		for _, phi := range s.Phis() {
			for _, e := range phi.Incoming {
				if v, ok := e.Src.Var(); ok && e.Pred == b {
					live[v] = true
				}
			}
		}
	}
	return live
}

func (LiveVariables) Transfer(b *ir.BasicBlock, in VarSet, _ map[*ir.BasicBlock]VarSet) VarSet {
	live := in.clone()
	// Walk the block backward: a def kills liveness, a use (processed
	// after the kill, since it happens before the def in program order)
	// adds it. Phis are skipped here: a phi's uses are attributed to
	// the corresponding predecessor, not to this block's own exit set
	// (spec.md §4.F note on phi handling).
	for i := len(b.Instrs) - 1; i >= 0; i-- {
		instr := b.Instrs[i]
		if _, isPhi := instr.(*ir.Phi); isPhi {
			continue
		}
		for _, v := range ir.QualifiedDefs(instr) {
			delete(live, v)
		}
		for _, v := range instr.UsedVars() {
			live[v] = true
		}
	}
	return live
}

func (LiveVariables) Equal(a, b VarSet) bool { return equalVarSets(a, b) }

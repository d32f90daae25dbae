package analysis

import "github.com/Manifest-Son/JS-Compiler-Project/ir"

// DefSet is the lattice value for reaching-definitions analysis: for every
// variable, the set of instructions whose definition of that variable may
// reach this point. In pruned SSA form each variable has exactly one
// definition, so every set collapses to size one once reached. This
// analysis is kept general rather than special-cased, the way
// ReachingDefinitionsAnalysis in the original header stays generic even
// though its callers happen to only ever run it pre-SSA.
type DefSet map[ir.Var]map[ir.Instr]bool

func (s DefSet) clone() DefSet {
	out := make(DefSet, len(s))
	for v, is := range s {
		cp := make(map[ir.Instr]bool, len(is))
		for i := range is {
			cp[i] = true
		}
		out[v] = cp
	}
	return out
}

func unionDefSets(sets ...DefSet) DefSet {
	out := make(DefSet)
	for _, s := range sets {
		for v, is := range s {
			dst := out[v]
			if dst == nil {
				dst = make(map[ir.Instr]bool)
				out[v] = dst
			}
			for i := range is {
				dst[i] = true
			}
		}
	}
	return out
}

func equalDefSets(a, b DefSet) bool {
	if len(a) != len(b) {
		return false
	}
	for v, is := range a {
		bis, ok := b[v]
		if !ok || len(is) != len(bis) {
			return false
		}
		for i := range is {
			if !bis[i] {
				return false
			}
		}
	}
	return true
}

// ReachingDefinitions is a forward analysis: ComputeInput joins
// predecessors' outputs, and Transfer replaces, for each variable an
// instruction defines, the incoming reaching set with exactly that
// instruction (a def always kills every prior reaching definition of the
// same variable).
type ReachingDefinitions struct{}

func (ReachingDefinitions) Initialize(g *ir.ControlFlowGraph) map[*ir.BasicBlock]DefSet {
	out := make(map[*ir.BasicBlock]DefSet, len(g.Blocks))
	for _, b := range g.Blocks {
		out[b] = make(DefSet)
	}
	return out
}

func (ReachingDefinitions) ComputeInput(b *ir.BasicBlock, outputs map[*ir.BasicBlock]DefSet) DefSet {
	sets := make([]DefSet, 0, len(b.Predecessors))
	for _, p := range b.Predecessors {
		sets = append(sets, outputs[p])
	}
	return unionDefSets(sets...)
}

func (ReachingDefinitions) Transfer(b *ir.BasicBlock, in DefSet, _ map[*ir.BasicBlock]DefSet) DefSet {
	out := in.clone()
	for _, instr := range b.Instrs {
		for _, v := range instr.DefinedVars() {
			out[v] = map[ir.Instr]bool{instr: true}
		}
	}
	return out
}

func (ReachingDefinitions) Equal(a, b DefSet) bool { return equalDefSets(a, b) }

package ir

// ControlFlowGraph owns the set of basic blocks and identifies one entry
// block, the first block created. Blocks are reachable from the CFG both
// by ownership (the Blocks slice) and by the non-owning predecessor/
// successor/phi/branch back-references threaded through them (spec.md §3,
// §5); there is no shared ownership or cycle across CFGs.
type ControlFlowGraph struct {
	Entry  *BasicBlock
	Blocks []*BasicBlock

	// domComputed is set once the dom package has populated Idom and
	// DominanceFrontier on every block; the printer uses it to decide
	// whether to render the "Dominance frontier" line at all.
	domComputed bool
}

// MarkDominatorsComputed records that Idom/DominanceFrontier are now
// populated on every block. Called by the dom package after a run.
func (g *ControlFlowGraph) MarkDominatorsComputed() { g.domComputed = true }

// DominatorsComputed reports whether MarkDominatorsComputed has been
// called since the CFG was last structurally mutated.
func (g *ControlFlowGraph) DominatorsComputed() bool { return g.domComputed }

// InvalidateDominators clears the computed flag; any pass that adds or
// removes blocks or edges should call this so a stale dominator tree is
// never mistaken for a fresh one.
func (g *ControlFlowGraph) InvalidateDominators() { g.domComputed = false }

// NewControlFlowGraph returns an empty CFG with no blocks yet.
func NewControlFlowGraph() *ControlFlowGraph {
	return &ControlFlowGraph{}
}

// NewBlock creates a fresh block owned by g and named name. The first
// block ever created becomes g.Entry.
func (g *ControlFlowGraph) NewBlock(name string) *BasicBlock {
	b := newBlock(name)
	g.Blocks = append(g.Blocks, b)
	if g.Entry == nil {
		g.Entry = b
	}
	return b
}

// BlockByName returns the block named name, or nil.
func (g *ControlFlowGraph) BlockByName(name string) *BasicBlock {
	for _, b := range g.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Clone returns a deep, structurally identical copy of g: every block,
// instruction, and edge is duplicated, with phi/branch/jump references
// retargeted to the corresponding block in the copy. Not part of the
// original's ControlFlowGraph, added so the dominator round-trip and
// transformation-idempotence properties of spec.md §8 can compare a
// pipeline stage's output against an untouched baseline without the two
// runs aliasing the same blocks.
func (g *ControlFlowGraph) Clone() *ControlFlowGraph {
	clone := NewControlFlowGraph()
	mapping := make(map[*BasicBlock]*BasicBlock, len(g.Blocks))
	for _, b := range g.Blocks {
		mapping[b] = clone.NewBlock(b.Name)
	}
	for _, b := range g.Blocks {
		nb := mapping[b]
		nb.Instrs = make([]Instr, len(b.Instrs))
		for i, instr := range b.Instrs {
			nb.Instrs[i] = retarget(instr.Clone(), mapping)
		}
		for _, p := range b.Predecessors {
			nb.Predecessors = append(nb.Predecessors, mapping[p])
		}
		for _, s := range b.Successors {
			nb.Successors = append(nb.Successors, mapping[s])
		}
		if b.Idom != nil {
			nb.Idom = mapping[b.Idom]
		}
		for _, d := range b.DominanceFrontier {
			nb.DominanceFrontier = append(nb.DominanceFrontier, mapping[d])
		}
	}
	clone.domComputed = g.domComputed
	return clone
}

// retarget rewrites the block references an already-cloned instruction
// carries (Phi predecessors, Branch/Jump targets) to point into the new
// CFG instead of the original.
func retarget(instr Instr, mapping map[*BasicBlock]*BasicBlock) Instr {
	switch i := instr.(type) {
	case *Phi:
		for k, e := range i.Incoming {
			i.Incoming[k].Pred = mapping[e.Pred]
		}
	case *Branch:
		i.TrueTarget = mapping[i.TrueTarget]
		i.FalseTarget = mapping[i.FalseTarget]
	case *Jump:
		i.Target = mapping[i.Target]
	}
	return instr
}

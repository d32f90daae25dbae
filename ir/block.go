package ir

// BasicBlock is a maximal straight-line sequence of instructions with a
// single entry and a single exit (see GLOSSARY). Predecessor/successor
// edges are kept as ordered, deduplicated slices rather than the teacher's
// map[*BasicBlock]bool, since spec.md §4.A/§4.D require a deterministic,
// index-aligned predecessor order so that Phi incoming lists line up with
// predecessors() and so to_string output is reproducible.
type BasicBlock struct {
	Name   string
	Instrs []Instr

	Predecessors []*BasicBlock
	Successors   []*BasicBlock

	// Idom is nil for the entry block and for any block before dominator
	// computation has run.
	Idom              *BasicBlock
	DominanceFrontier []*BasicBlock
}

func newBlock(name string) *BasicBlock {
	return &BasicBlock{Name: name}
}

// HasTerminator reports whether b is non-empty and its last instruction is
// a terminator variant.
func (b *BasicBlock) HasTerminator() bool {
	if len(b.Instrs) == 0 {
		return false
	}
	return b.Instrs[len(b.Instrs)-1].IsTerminator()
}

// Terminator returns b's terminator instruction, or nil if b has none.
func (b *BasicBlock) Terminator() Instr {
	if !b.HasTerminator() {
		return nil
	}
	return b.Instrs[len(b.Instrs)-1]
}

// Append adds a non-terminator instruction to the end of b. It is the
// caller's responsibility not to append after a terminator has been added
// (the builder's current-block discipline guarantees this).
func (b *BasicBlock) Append(i Instr) {
	b.Instrs = append(b.Instrs, i)
}

// AddTerminator is a no-op when b already terminates; otherwise it appends
// t and wires the successor/predecessor edges implied by a Branch or Jump.
// Edges are added in a deterministic order: for Branch, true-target then
// false-target (spec.md §4.A).
func (b *BasicBlock) AddTerminator(t Instr) {
	if b.HasTerminator() {
		return
	}
	b.Instrs = append(b.Instrs, t)
	switch term := t.(type) {
	case *Branch:
		connect(b, term.TrueTarget)
		connect(b, term.FalseTarget)
	case *Jump:
		connect(b, term.Target)
	}
}

func connect(from, to *BasicBlock) {
	if to == nil {
		return
	}
	from.Successors = appendUnique(from.Successors, to)
	to.Predecessors = appendUnique(to.Predecessors, from)
}

func appendUnique(blocks []*BasicBlock, b *BasicBlock) []*BasicBlock {
	for _, existing := range blocks {
		if existing == b {
			return blocks
		}
	}
	return append(blocks, b)
}

// PrependPhi inserts phi at the front of b's instruction list, preserving
// invariant 3 of spec.md §3: phis precede every non-phi instruction. Phis
// are themselves prepended in the order they are inserted, so the most
// recently inserted phi ends up first; callers that care about a stable
// order should read Phis() rather than rely on insertion order.
func (b *BasicBlock) PrependPhi(phi *Phi) {
	b.Instrs = append([]Instr{phi}, b.Instrs...)
}

// Phis returns the leading run of Phi instructions in b.
func (b *BasicBlock) Phis() []*Phi {
	var phis []*Phi
	for _, instr := range b.Instrs {
		phi, ok := instr.(*Phi)
		if !ok {
			break
		}
		phis = append(phis, phi)
	}
	return phis
}

// PhiFor returns the Phi defining v in b, if any.
func (b *BasicBlock) PhiFor(v Var) *Phi {
	for _, phi := range b.Phis() {
		if phi.Dst == v {
			return phi
		}
	}
	return nil
}

// PredIndex returns the index of pred within b.Predecessors, or -1.
// Used by the SSA renamer to locate which incoming slot of a successor's
// phis corresponds to the edge from a given predecessor (spec.md §4.D
// step c).
func (b *BasicBlock) PredIndex(pred *BasicBlock) int {
	for i, p := range b.Predecessors {
		if p == pred {
			return i
		}
	}
	return -1
}

// Remove deletes instr from b's instruction list. It is a no-op if instr
// is not in b. Used by the DCE transform to drop dead instructions without
// disturbing the relative order of the rest.
func (b *BasicBlock) Remove(instr Instr) {
	for i, cur := range b.Instrs {
		if cur == instr {
			b.Instrs = append(b.Instrs[:i], b.Instrs[i+1:]...)
			return
		}
	}
}

// removeEdge drops the from->to successor/predecessor edge pair, used when
// a Branch folds to a known direction and the untaken edge becomes dead.
func removeEdge(from, to *BasicBlock) {
	from.Successors = removeBlock(from.Successors, to)
	to.Predecessors = removeBlock(to.Predecessors, from)
}

func removeBlock(blocks []*BasicBlock, b *BasicBlock) []*BasicBlock {
	for i, cur := range blocks {
		if cur == b {
			return append(blocks[:i], blocks[i+1:]...)
		}
	}
	return blocks
}

// ResolveBranch replaces b's terminating Branch with an unconditional Jump
// to kept, disconnecting the edge to discarded. Used by the constant-
// folding transform once a branch condition is known, following the
// teacher's evalBranch/JumpTo pattern in ir/sccp.go: fold first, then let
// a later dominator recomputation account for the now-missing edge. Any
// phi in discarded that still reserved an incoming slot for b has that
// slot dropped, keeping invariant 4 (phi arity matches predecessor count)
// intact even for the now-possibly-unreachable discarded block.
func (b *BasicBlock) ResolveBranch(kept, discarded *BasicBlock) {
	idx := discarded.PredIndex(b)
	removeEdge(b, discarded)
	if idx >= 0 {
		for _, phi := range discarded.Phis() {
			phi.Incoming = append(phi.Incoming[:idx], phi.Incoming[idx+1:]...)
		}
	}
	b.Instrs[len(b.Instrs)-1] = NewJump(b.Terminator().Pos(), kept)
}

// AddToFrontier adds d to b's dominance frontier if not already present.
func (b *BasicBlock) AddToFrontier(d *BasicBlock) {
	b.DominanceFrontier = appendUnique(b.DominanceFrontier, d)
}

// Dominates reports whether b dominates other by walking other's idom
// chain. Used by SSA validation.
func (b *BasicBlock) Dominates(other *BasicBlock) bool {
	for cur := other; cur != nil; cur = cur.Idom {
		if cur == b {
			return true
		}
	}
	return false
}

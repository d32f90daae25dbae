// Package dom computes immediate dominators and dominance frontiers over
// a control flow graph, following the classical iterative dataflow
// algorithm of spec.md §4.C rather than the teacher's Lengauer-Tarjan
// algorithm in ir/ssa.go's computeDominators. See DESIGN.md for why the
// simpler, more directly verifiable fixed point was kept instead.
package dom

import (
	"context"

	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"tlog.app/go/tlog"
)

// Compute populates Idom and DominanceFrontier on every block of g and
// marks g's dominator info as fresh. It must be re-run after any pass
// that adds or removes blocks or edges.
func Compute(ctx context.Context, g *ir.ControlFlowGraph) {
	span := tlog.SpanFromContext(ctx)
	span.Printw("dom: computing dominators", "blocks", len(g.Blocks))

	dom := computeDomSets(g)

	for _, b := range g.Blocks {
		b.DominanceFrontier = nil
		if b == g.Entry {
			b.Idom = nil
			continue
		}
		b.Idom = idomOf(b, dom, g.Blocks)
	}

	computeFrontiers(g)
	g.MarkDominatorsComputed()

	span.Printw("dom: done")
}

type blockSet = map[*ir.BasicBlock]bool

// computeDomSets runs the fixed point: dom(entry) = {entry}, dom(b) =
// all_blocks initially, then dom(b) = {b} ∪ ⋂ dom(p) for p ∈ preds(b)
// until no change.
func computeDomSets(g *ir.ControlFlowGraph) map[*ir.BasicBlock]blockSet {
	all := make(blockSet, len(g.Blocks))
	for _, b := range g.Blocks {
		all[b] = true
	}

	dom := make(map[*ir.BasicBlock]blockSet, len(g.Blocks))
	for _, b := range g.Blocks {
		if b == g.Entry {
			dom[b] = blockSet{b: true}
		} else {
			dom[b] = cloneSet(all)
		}
	}

	for changed := true; changed; {
		changed = false
		for _, b := range g.Blocks {
			if b == g.Entry {
				continue
			}
			next := intersectPredDoms(b, dom)
			next[b] = true
			if !setEqual(next, dom[b]) {
				dom[b] = next
				changed = true
			}
		}
	}
	return dom
}

func intersectPredDoms(b *ir.BasicBlock, dom map[*ir.BasicBlock]blockSet) blockSet {
	if len(b.Predecessors) == 0 {
		return blockSet{}
	}
	result := cloneSet(dom[b.Predecessors[0]])
	for _, p := range b.Predecessors[1:] {
		pd := dom[p]
		for k := range result {
			if !pd[k] {
				delete(result, k)
			}
		}
	}
	return result
}

// idomOf extracts idom(b) as the unique element of dom(b) \ {b} that
// strictly dominates no other element of that set (spec.md §4.C.1).
// order fixes iteration to g.Blocks' creation order so the result does
// not depend on Go's randomized map iteration.
func idomOf(b *ir.BasicBlock, dom map[*ir.BasicBlock]blockSet, order []*ir.BasicBlock) *ir.BasicBlock {
	var candidates []*ir.BasicBlock
	for _, c := range order {
		if c != b && dom[b][c] {
			candidates = append(candidates, c)
		}
	}
	for _, c := range candidates {
		dominatesOther := false
		for _, other := range candidates {
			if other != c && dom[other][c] {
				dominatesOther = true
				break
			}
		}
		if !dominatesOther {
			return c
		}
	}
	return nil
}

// computeFrontiers implements spec.md §4.C.2: for every block b with two
// or more predecessors, walk each predecessor up the idom chain, adding b
// to the frontier of every block visited before reaching idom(b).
func computeFrontiers(g *ir.ControlFlowGraph) {
	for _, b := range g.Blocks {
		if len(b.Predecessors) < 2 {
			continue
		}
		for _, p := range b.Predecessors {
			for runner := p; runner != nil && runner != b.Idom; runner = runner.Idom {
				runner.AddToFrontier(b)
			}
		}
	}
}

func cloneSet(s blockSet) blockSet {
	c := make(blockSet, len(s))
	for k := range s {
		c[k] = true
	}
	return c
}

func setEqual(a, b blockSet) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

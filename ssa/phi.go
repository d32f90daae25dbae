// Package ssa transforms a CFG with dominance information already
// computed into semi-pruned SSA form: phi placement followed by variable
// renaming (spec.md §4.D). The work-list structure directly follows
// wzh99-GoCompiler's ir/ssa.go insertPhi/renameVar, adapted from that
// compiler's Symbol/PhiOpd model onto this module's ir.Var/ir.PhiEdge.
package ssa

import (
	"context"

	"github.com/Manifest-Son/JS-Compiler-Project/compileerr"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"tlog.app/go/tlog"
)

// InsertPhis places phi instructions at every block on the iterated
// dominance frontier of a variable's definition sites. Only variables that
// some block reads before defining them get phis; a variable used only
// inside the block that defines it (an expression temporary, say) gets
// none. g must already have dominators and dominance frontiers computed.
func InsertPhis(ctx context.Context, g *ir.ControlFlowGraph) error {
	if !g.DominatorsComputed() {
		return compileerr.New(compileerr.InconsistentCFG, "phi placement requires dominators to be computed first")
	}
	span := tlog.SpanFromContext(ctx)
	span.Printw("ssa: inserting phis", "blocks", len(g.Blocks))

	phiCount := 0
	for v, sites := range defSitesByVar(g) {
		workList := make(map[*ir.BasicBlock]bool, len(sites))
		for b := range sites {
			workList[b] = true
		}
		hasPhi := make(map[*ir.BasicBlock]bool)

		for len(workList) > 0 {
			var b *ir.BasicBlock
			for n := range workList {
				b = n
				break
			}
			delete(workList, b)

			for _, d := range b.DominanceFrontier {
				if hasPhi[d] {
					continue
				}
				incoming := make([]ir.PhiEdge, len(d.Predecessors))
				for i, p := range d.Predecessors {
					incoming[i] = ir.PhiEdge{Pred: p, Src: ir.Operand(v)}
				}
				d.PrependPhi(ir.NewPhi(0, v, incoming))
				hasPhi[d] = true
				phiCount++
				if !sites[d] {
					workList[d] = true
				}
			}
		}
	}
	span.Printw("ssa: phis inserted", "count", phiCount)
	return nil
}

// defSitesByVar maps every variable that some block reads before defining
// it to the set of blocks that define it anywhere in the CFG.
func defSitesByVar(g *ir.ControlFlowGraph) map[ir.Var]map[*ir.BasicBlock]bool {
	sites := make(map[ir.Var]map[*ir.BasicBlock]bool)
	global := make(map[ir.Var]bool)
	for _, b := range g.Blocks {
		local := make(map[ir.Var]bool)
		for _, instr := range b.Instrs {
			for _, v := range instr.UsedVars() {
				if !local[v] {
					global[v] = true
				}
			}
			for _, v := range instr.DefinedVars() {
				local[v] = true
				if sites[v] == nil {
					sites[v] = make(map[*ir.BasicBlock]bool)
				}
				sites[v][b] = true
			}
		}
	}
	for v := range sites {
		if !global[v] {
			delete(sites, v)
		}
	}
	return sites
}

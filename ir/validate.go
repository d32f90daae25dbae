package ir

import "github.com/Manifest-Son/JS-Compiler-Project/compileerr"

// Validate checks four of the five BasicBlock invariants of spec.md §3
// (edge symmetry, terminator placement, phi placement, and phi arity and
// order; the idom invariant is not checked) plus, when
// ssaForm is true, the SSA dominance property of spec.md §8 property 3.
// It returns compileerr.InconsistentCFG on the first violation found
// rather than letting a broken invariant surface as a panic deep inside a
// later pass. Not present on the original's ControlFlowGraph, see
// DESIGN.md for why this module adds it.
func (g *ControlFlowGraph) Validate(ssaForm bool) error {
	for _, b := range g.Blocks {
		if err := validateBlock(b); err != nil {
			return err
		}
	}
	if !ssaForm {
		return nil
	}

	// Index every definition by its fully-qualified SSA name ("name#k"):
	// after renaming, every *use* operand has already been rewritten to
	// that same spelling (ssa.Rename bakes the version into the operand
	// string), so the two sides of this lookup agree on identity without
	// needing a separate version field on Operand.
	defs := make(map[Var]Instr)
	for _, b := range g.Blocks {
		for _, instr := range b.Instrs {
			for _, qualified := range QualifiedDefs(instr) {
				if prior, ok := defs[qualified]; ok {
					return compileerr.New(compileerr.InconsistentCFG,
						"variable "+string(qualified)+" redefined in SSA form: "+blockOf(g, prior)+" and "+b.Name)
				}
				defs[qualified] = instr
			}
		}
	}
	return validateDominance(g, defs)
}

func validateBlock(b *BasicBlock) error {
	for _, succ := range b.Successors {
		if succ.PredIndex(b) < 0 {
			return compileerr.New(compileerr.InconsistentCFG,
				"block "+b.Name+" lists "+succ.Name+" as successor but is not in its predecessors")
		}
	}
	for _, pred := range b.Predecessors {
		found := false
		for _, s := range pred.Successors {
			if s == b {
				found = true
				break
			}
		}
		if !found {
			return compileerr.New(compileerr.InconsistentCFG,
				"block "+b.Name+" lists "+pred.Name+" as predecessor but is not in its successors")
		}
	}
	seenTerminator := false
	seenNonPhi := false
	for _, instr := range b.Instrs {
		if seenTerminator {
			return compileerr.New(compileerr.InconsistentCFG, "instruction after terminator in block "+b.Name)
		}
		if instr.IsTerminator() {
			seenTerminator = true
		}
		if _, isPhi := instr.(*Phi); isPhi {
			if seenNonPhi {
				return compileerr.New(compileerr.InconsistentCFG, "phi after non-phi instruction in block "+b.Name)
			}
		} else {
			seenNonPhi = true
		}
	}
	for _, phi := range b.Phis() {
		if len(phi.Incoming) != len(b.Predecessors) {
			return compileerr.New(compileerr.InconsistentCFG,
				"phi for "+string(phi.Dst)+" in block "+b.Name+" has arity mismatched to predecessors")
		}
		for i, e := range phi.Incoming {
			if e.Pred != b.Predecessors[i] {
				return compileerr.New(compileerr.InconsistentCFG,
					"phi for "+string(phi.Dst)+" in block "+b.Name+" incoming order does not match predecessors")
			}
		}
	}
	return nil
}

func validateDominance(g *ControlFlowGraph, defs map[Var]Instr) error {
	for _, b := range g.Blocks {
		if b != g.Entry && b.Idom == nil {
			// Unreachable from entry. Dominance is vacuous here, and the
			// rename pass never visits such blocks, so their operands are
			// left in bare, un-versioned form by construction.
			continue
		}
		for _, instr := range b.Instrs {
			if _, isPhi := instr.(*Phi); isPhi {
				// Phi uses occur at the end of the corresponding
				// predecessor (spec.md §4.D); checking that is cheap to
				// get wrong and cheap to skip, so this pass only checks
				// the defining arity invariant for phis (validateBlock)
				// and leaves per-edge dominance unchecked here.
				continue
			}
			for _, v := range instr.UsedVars() {
				def, ok := defs[v]
				if !ok {
					return compileerr.New(compileerr.InconsistentCFG, "use of undefined SSA variable "+string(v))
				}
				defBlock := blockContaining(g, def)
				if defBlock == nil || !defBlock.Dominates(b) {
					return compileerr.New(compileerr.InconsistentCFG,
						"use of "+string(v)+" in block "+b.Name+" is not dominated by its definition")
				}
			}
		}
	}
	return nil
}

func blockContaining(g *ControlFlowGraph, target Instr) *BasicBlock {
	for _, b := range g.Blocks {
		for _, instr := range b.Instrs {
			if instr == target {
				return b
			}
		}
	}
	return nil
}

func blockOf(g *ControlFlowGraph, instr Instr) string {
	if b := blockContaining(g, instr); b != nil {
		return b.Name
	}
	return "<unknown>"
}

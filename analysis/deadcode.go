package analysis

import "github.com/Manifest-Son/JS-Compiler-Project/ir"

// DeadCodeResult is UnusedDefinitions' return value: the removable
// instructions plus a count, surfaced as its own type (rather than a bare
// slice) per original_source/include/cfg/dataflow_analyses.h, which
// reports both the removable set and an elimination count for its
// equivalent helper.
type DeadCodeResult struct {
	Removable []ir.Instr
	Count     int
}

// UnusedDefinitions reports every instruction in b whose defined variable
// is never used, not by a later instruction in b, and not live on exit
// from b per liveOut. It piggy-backs on LiveVariables' computed outputs
// rather than being a standalone dataflow.Analysis, per spec.md §4.F's
// "dead code piggy-backs on live-variables" note. Call, Return, Branch,
// and Jump are never reported even when their result (if any) is unused:
// they may have side effects the dataflow framework does not model, and
// the DCE transform, which removes only what this reports, therefore
// never removes them.
func UnusedDefinitions(b *ir.BasicBlock, liveOut VarSet) DeadCodeResult {
	live := liveOut.clone()
	var dead []ir.Instr
	for i := len(b.Instrs) - 1; i >= 0; i-- {
		instr := b.Instrs[i]
		switch instr.(type) {
		case *ir.Call, *ir.Return, *ir.Branch, *ir.Jump:
			for _, v := range instr.UsedVars() {
				live[v] = true
			}
			continue
		}
		defs := ir.QualifiedDefs(instr)
		used := false
		for _, v := range defs {
			if live[v] {
				used = true
			}
		}
		if len(defs) > 0 && !used {
			dead = append(dead, instr)
		} else {
			for _, v := range defs {
				delete(live, v)
			}
		}
		for _, v := range instr.UsedVars() {
			live[v] = true
		}
	}
	return DeadCodeResult{Removable: dead, Count: len(dead)}
}

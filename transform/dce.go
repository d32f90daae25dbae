package transform

import (
	"context"

	"github.com/Manifest-Son/JS-Compiler-Project/analysis"
	"github.com/Manifest-Son/JS-Compiler-Project/dataflow"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"tlog.app/go/tlog"
)

// DeadCodeElimination removes every instruction whose defined variable is
// never used, per spec.md §4.G, by recomputing live-variables analysis and
// consulting analysis.UnusedDefinitions one pass at a time until a pass
// removes nothing. Removing one dead instruction can expose its own
// operand's producer as newly dead, so a single sweep is not enough.
// Removing a dead Phi needs no incoming-edge surgery elsewhere: phis
// reference other definitions only by operand string, never by pointer,
// so no other block's Phi.Incoming holds a reference that needs fixing up.
// It returns whether anything was removed.
func DeadCodeElimination(ctx context.Context, g *ir.ControlFlowGraph) (bool, error) {
	span := tlog.SpanFromContext(ctx)
	anyRemoved := false
	for {
		outputs, err := dataflow.Run[analysis.VarSet](ctx, g, analysis.LiveVariables{}, dataflow.Unbounded)
		if err != nil {
			return anyRemoved, err
		}
		removedThisPass := 0
		live := analysis.LiveVariables{}
		for _, b := range g.Blocks {
			// outputs[b] is live-IN (Transfer walks backward from the
			// merged successor value to produce it); UnusedDefinitions
			// wants live-OUT, the same merged successor value before that
			// walk, i.e. ComputeInput recomputed directly from outputs.
			liveOut := live.ComputeInput(b, outputs)
			result := analysis.UnusedDefinitions(b, liveOut)
			for _, instr := range result.Removable {
				b.Remove(instr)
				removedThisPass++
			}
		}
		if removedThisPass == 0 {
			span.Printw("transform: DCE reached fixed point", "any_removed", anyRemoved)
			return anyRemoved, nil
		}
		span.Printw("transform: DCE pass removed instructions", "count", removedThisPass)
		anyRemoved = true
	}
}

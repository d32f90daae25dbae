// Package dataflow is the generic monotone fixed-point engine of spec.md
// §4.E. It is the direct Go-generics analogue of the templated
// DataFlowAnalysis<ValueType> base class in
// original_source/include/cfg/ssa_transformer.h: Initialize seeds
// per-block outputs, ComputeInput joins predecessor or successor outputs
// per the analysis's own direction, and Transfer computes a block's new
// output from its input. The teacher repo has no equivalent generic
// framework: its SCCP and GVN passes each hand-roll their own worklist, so
// this package follows the original's shape directly.
package dataflow

import (
	"context"

	"github.com/Manifest-Son/JS-Compiler-Project/compileerr"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"tlog.app/go/tlog"
)

// Analysis is implemented by each concrete dataflow analysis. Direction
// (forward or backward) is not a separate flag, it is implicit in
// whether ComputeInput reads predecessor or successor outputs.
type Analysis[V any] interface {
	// Initialize seeds the output value for every block before the first
	// pass.
	Initialize(g *ir.ControlFlowGraph) map[*ir.BasicBlock]V
	// ComputeInput joins the relevant neighbors' outputs per the
	// analysis's meet operator.
	ComputeInput(b *ir.BasicBlock, outputs map[*ir.BasicBlock]V) V
	// Transfer computes b's new output from its input. It also receives
	// the full per-block outputs map. Most analyses ignore it, but
	// constant propagation's phi rule needs to resolve each incoming
	// value against its own specific predecessor's output rather than
	// the already-merged in value (spec.md §4.F: "each resolved via its
	// corresponding predecessor's output").
	Transfer(b *ir.BasicBlock, in V, outputs map[*ir.BasicBlock]V) V
	// Equal reports whether two values of V are the same, used to detect
	// a fixed point.
	Equal(a, b V) bool
}

// Budget bounds how many full passes Run makes before giving up. A zero
// MaxPasses means unlimited. Every analysis in this module is monotone
// over a finite lattice, so in practice a budget only matters as a
// circuit breaker against a bug in a future analysis.
type Budget struct {
	MaxPasses int
}

// Unbounded is the zero Budget: run until fixed point with no pass cap.
var Unbounded = Budget{}

// Run iterates Analysis a over g round-robin until no block's output
// changes in a full pass, per spec.md §4.E. It returns
// compileerr.AnalysisDiverged if budget.MaxPasses is positive and
// exceeded first.
func Run[V any](ctx context.Context, g *ir.ControlFlowGraph, a Analysis[V], budget Budget) (map[*ir.BasicBlock]V, error) {
	span := tlog.SpanFromContext(ctx)
	outputs := a.Initialize(g)
	for pass := 0; ; pass++ {
		if budget.MaxPasses > 0 && pass >= budget.MaxPasses {
			return nil, compileerr.New(compileerr.AnalysisDiverged,
				"dataflow analysis did not converge within the configured pass budget")
		}
		changed := false
		for _, b := range g.Blocks {
			in := a.ComputeInput(b, outputs)
			out := a.Transfer(b, in, outputs)
			if !a.Equal(out, outputs[b]) {
				outputs[b] = out
				changed = true
			}
		}
		if !changed {
			span.Printw("dataflow: reached fixed point", "passes", pass+1)
			return outputs, nil
		}
	}
}

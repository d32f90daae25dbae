// Package transform implements the three optimizing passes of spec.md
// §4.G over SSA-form CFGs: constant propagation/folding, common
// subexpression elimination, and dead code elimination. Each is grounded
// on the matching pass in wzh99-GoCompiler's ir package (sccp.go, gvn.go,
// dce.go respectively), adapted from that compiler's SSA-graph worklist
// machinery onto this module's simpler per-block sweep driven by the
// dataflow package rather than a hand-rolled SSA-edge worklist.
package transform

import (
	"context"

	"github.com/Manifest-Son/JS-Compiler-Project/analysis"
	"github.com/Manifest-Son/JS-Compiler-Project/dataflow"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"tlog.app/go/tlog"
)

// ConstantFold runs constant-propagation analysis over g and rewrites
// every operand whose value resolved to a known constant to that
// constant's literal spelling, folds fully-literal Binary/Unary
// instructions into Assign, and resolves a Branch whose condition folded
// to a literal bool into an unconditional Jump, following the teacher's
// evalBranch/JumpTo pattern in ir/sccp.go. It reports whether anything
// changed, since the caller runs this to a fixed point alongside CSE and
// DCE (spec.md §4.G).
func ConstantFold(ctx context.Context, g *ir.ControlFlowGraph) (bool, error) {
	span := tlog.SpanFromContext(ctx)
	cp := analysis.ConstantPropagation{}
	outputs, err := dataflow.Run[analysis.ConstMap](ctx, g, cp, dataflow.Unbounded)
	if err != nil {
		return false, err
	}

	changed := false
	for _, b := range g.Blocks {
		cur := cp.ComputeInput(b, outputs)
		for idx, instr := range b.Instrs {
			if rewriteAndFold(instr, cur, outputs) {
				changed = true
			}
			if repl := foldToAssign(instr, cur); repl != nil {
				b.Instrs[idx] = repl
				changed = true
			}
		}
		if foldTerminator(b, cur) {
			changed = true
			g.InvalidateDominators()
		}
	}
	span.Printw("transform: constant fold pass done", "changed", changed)
	return changed, nil
}

// foldToAssign replaces a Binary or Unary whose operands are now both
// literal with an equivalent Assign, per spec.md §4.G. It returns nil when
// instr is not eligible.
func foldToAssign(instr ir.Instr, cur analysis.ConstMap) ir.Instr {
	switch i := instr.(type) {
	case *ir.Binary:
		val := cur.Lookup(ir.Var(i.Dst.Versioned(i.Version())))
		if val.Kind == analysis.ConstVal && !i.Left.IsVariable() && !i.Right.IsVariable() {
			a := ir.NewAssign(i.Pos(), i.Dst, val.Literal)
			a.SetVersion(i.Version())
			return a
		}
	case *ir.Unary:
		val := cur.Lookup(ir.Var(i.Dst.Versioned(i.Version())))
		if val.Kind == analysis.ConstVal && !i.X.IsVariable() {
			a := ir.NewAssign(i.Pos(), i.Dst, val.Literal)
			a.SetVersion(i.Version())
			return a
		}
	}
	return nil
}

// rewriteAndFold substitutes every known-constant operand instr uses with
// its literal spelling, computes instr's own resulting value into cur (so
// later instructions in the same block see it), and, when every operand
// of a Binary/Unary is now literal, replaces instr's effect by also
// updating cur with the folded value (the actual in-place Binary-to-Assign
// rewrite happens in foldToAssign, which ConstantFold calls right after
// this for every instruction).
func rewriteAndFold(instr ir.Instr, cur analysis.ConstMap, outputs map[*ir.BasicBlock]analysis.ConstMap) bool {
	changed := false
	switch i := instr.(type) {
	case *ir.Assign:
		changed = substitute(&i.Src, cur) || changed
		cur[ir.Var(i.Dst.Versioned(i.Version()))] = analysis.OperandValue(i.Src, cur)
	case *ir.Binary:
		changed = substitute(&i.Left, cur) || changed
		changed = substitute(&i.Right, cur) || changed
		left := analysis.OperandValue(i.Left, cur)
		right := analysis.OperandValue(i.Right, cur)
		cur[ir.Var(i.Dst.Versioned(i.Version()))] = evalBinaryValue(i.Op, left, right)
	case *ir.Unary:
		changed = substitute(&i.X, cur) || changed
		cur[ir.Var(i.Dst.Versioned(i.Version()))] = evalUnaryValue(i.Op, analysis.OperandValue(i.X, cur))
	case *ir.Call:
		for k := range i.Args {
			changed = substitute(&i.Args[k], cur) || changed
		}
		cur[ir.Var(i.Dst.Versioned(i.Version()))] = analysis.ConstValue{Kind: analysis.Bottom}
	case *ir.Phi:
		acc := analysis.ConstValue{Kind: analysis.Top}
		for _, e := range i.Incoming {
			acc = analysis.MeetConst(acc, analysis.OperandValue(e.Src, outputs[e.Pred]))
		}
		cur[ir.Var(i.Dst.Versioned(i.Version()))] = acc
	case *ir.Return:
		if i.HasValue {
			changed = substitute(&i.Value, cur) || changed
		}
	case *ir.Branch:
		changed = substitute(&i.Cond, cur) || changed
	}
	return changed
}

func substitute(o *ir.Operand, cur analysis.ConstMap) bool {
	v, ok := o.Var()
	if !ok {
		return false
	}
	val := cur.Lookup(v)
	if val.Kind != analysis.ConstVal {
		return false
	}
	*o = val.Literal
	return true
}

func evalBinaryValue(op ir.Operator, a, b analysis.ConstValue) analysis.ConstValue {
	if a.Kind == analysis.Bottom || b.Kind == analysis.Bottom {
		return analysis.ConstValue{Kind: analysis.Bottom}
	}
	if a.Kind == analysis.Top || b.Kind == analysis.Top {
		return analysis.ConstValue{Kind: analysis.Top}
	}
	if res, ok := ir.FoldBinary(op, a.Literal, b.Literal); ok {
		return analysis.ConstValue{Kind: analysis.ConstVal, Literal: res}
	}
	return analysis.ConstValue{Kind: analysis.Bottom}
}

func evalUnaryValue(op ir.Operator, a analysis.ConstValue) analysis.ConstValue {
	if a.Kind == analysis.Bottom {
		return analysis.ConstValue{Kind: analysis.Bottom}
	}
	if a.Kind == analysis.Top {
		return analysis.ConstValue{Kind: analysis.Top}
	}
	if res, ok := ir.FoldUnary(op, a.Literal); ok {
		return analysis.ConstValue{Kind: analysis.ConstVal, Literal: res}
	}
	return analysis.ConstValue{Kind: analysis.Bottom}
}

// foldTerminator resolves b's Branch to a Jump once its condition is a
// known literal bool, mirroring the teacher's SCCP pass folding a constant
// branch into an unconditional jump and disconnecting the untaken edge.
func foldTerminator(b *ir.BasicBlock, cur analysis.ConstMap) bool {
	branch, ok := b.Terminator().(*ir.Branch)
	if !ok {
		return false
	}
	val := analysis.OperandValue(branch.Cond, cur)
	if val.Kind != analysis.ConstVal {
		return false
	}
	taken, ok := val.Literal.BoolValue()
	if !ok {
		return false
	}
	if taken {
		b.ResolveBranch(branch.TrueTarget, branch.FalseTarget)
	} else {
		b.ResolveBranch(branch.FalseTarget, branch.TrueTarget)
	}
	return true
}

package transform

import (
	"context"

	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"tlog.app/go/tlog"
)

// canonExpr mirrors analysis.CanonExpr locally rather than importing it,
// since CSE's producer map is keyed purely on operator+operands with no
// need for the analysis package's dataflow machinery. Duplicating this
// small value type keeps transform free of an analysis dependency it
// would otherwise only use for one helper.
type canonExpr struct {
	op          ir.Operator
	left, right ir.Operand
	isUnary     bool
}

func canonBinary(op ir.Operator, left, right ir.Operand) canonExpr {
	if op.Commutative() && string(right) < string(left) {
		left, right = right, left
	}
	return canonExpr{op: op, left: left, right: right}
}

func canonUnary(op ir.Operator, x ir.Operand) canonExpr {
	return canonExpr{op: op, left: x, isUnary: true}
}

// CommonSubexpressionElimination walks each block once, keeping a map from
// canonical expression to the variable that most recently computed it.
// When a Binary or Unary recomputes an expression already in the map, it
// is rewritten to an Assign copying the earlier result instead. A def
// invalidates every tracked expression that reads the redefined variable
// BEFORE this instruction's own expression (if any) is inserted. spec.md
// §9's explicit bug-fix note: inserting first and invalidating after would
// wrongly erase an instruction's own just-computed entry whenever its
// destination variable coincides with one of its operands, which can't
// happen in pruned SSA form but is the reason this order is specified
// regardless. This is deliberately the opposite order from the available-
// expressions analysis's add-then-remove Transfer (package analysis),
// which is a different component answering a different question.
func CommonSubexpressionElimination(ctx context.Context, g *ir.ControlFlowGraph) bool {
	changed := false
	for _, b := range g.Blocks {
		producer := make(map[canonExpr]ir.Var)
		for idx, instr := range b.Instrs {
			switch i := instr.(type) {
			case *ir.Binary:
				ce := canonBinary(i.Op, i.Left, i.Right)
				dst := ir.Var(i.Dst.Versioned(i.Version()))
				if src, ok := producer[ce]; ok {
					a := ir.NewAssign(i.Pos(), i.Dst, ir.Operand(src))
					a.SetVersion(i.Version())
					b.Instrs[idx] = a
					changed = true
					continue
				}
				invalidate(producer, dst)
				producer[ce] = dst
			case *ir.Unary:
				ce := canonUnary(i.Op, i.X)
				dst := ir.Var(i.Dst.Versioned(i.Version()))
				if src, ok := producer[ce]; ok {
					a := ir.NewAssign(i.Pos(), i.Dst, ir.Operand(src))
					a.SetVersion(i.Version())
					b.Instrs[idx] = a
					changed = true
					continue
				}
				invalidate(producer, dst)
				producer[ce] = dst
			default:
				for _, v := range ir.QualifiedDefs(instr) {
					invalidate(producer, v)
				}
			}
		}
	}
	tlog.SpanFromContext(ctx).Printw("transform: CSE pass done", "changed", changed)
	return changed
}

func invalidate(producer map[canonExpr]ir.Var, v ir.Var) {
	for ce, dst := range producer {
		if dst == v || ce.left == ir.Operand(v) || (!ce.isUnary && ce.right == ir.Operand(v)) {
			delete(producer, ce)
		}
	}
}

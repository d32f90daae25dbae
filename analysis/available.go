package analysis

import (
	"strings"

	"github.com/Manifest-Son/JS-Compiler-Project/ir"
)

// CanonExpr is a hashable, order-normalized computation: a binary or unary
// operator applied to operands. Commutative binaries are canonicalized to
// a fixed operand order so "a+b" and "b+a" hash identically, per spec.md
// §4.F's "syntactically equal up to commutativity" wording.
type CanonExpr struct {
	Op          ir.Operator
	Left, Right ir.Operand
	IsUnary     bool
}

func canonicalBinary(op ir.Operator, left, right ir.Operand) CanonExpr {
	if op.Commutative() && string(right) < string(left) {
		left, right = right, left
	}
	return CanonExpr{Op: op, Left: left, Right: right}
}

func canonicalUnary(op ir.Operator, x ir.Operand) CanonExpr {
	return CanonExpr{Op: op, Left: x, IsUnary: true}
}

func (e CanonExpr) String() string {
	if e.IsUnary {
		return string(e.Op) + string(e.Left)
	}
	var sb strings.Builder
	sb.WriteString(string(e.Left))
	sb.WriteString(string(e.Op))
	sb.WriteString(string(e.Right))
	return sb.String()
}

// ExprSet is the lattice value for available-expressions analysis: the set
// of expressions already computed (and not since invalidated) on every
// path reaching this point. Meet is set intersection.
type ExprSet map[CanonExpr]bool

func (s ExprSet) clone() ExprSet {
	out := make(ExprSet, len(s))
	for e := range s {
		out[e] = true
	}
	return out
}

func intersectExprSets(all ExprSet, sets ...ExprSet) ExprSet {
	if len(sets) == 0 {
		return make(ExprSet)
	}
	out := sets[0].clone()
	for _, s := range sets[1:] {
		for e := range out {
			if !s[e] {
				delete(out, e)
			}
		}
	}
	_ = all
	return out
}

func equalExprSets(a, b ExprSet) bool {
	if len(a) != len(b) {
		return false
	}
	for e := range a {
		if !b[e] {
			return false
		}
	}
	return true
}

// allExprs collects every binary/unary expression computed anywhere in the
// CFG, used to seed non-entry blocks' initial value as spec.md §4.F
// requires ("Top" for a meet-over-all-paths forward analysis with ∩ as
// meet is the universal set, not the empty set).
func allExprs(g *ir.ControlFlowGraph) ExprSet {
	all := make(ExprSet)
	for _, b := range g.Blocks {
		for _, instr := range b.Instrs {
			switch i := instr.(type) {
			case *ir.Binary:
				all[canonicalBinary(i.Op, i.Left, i.Right)] = true
			case *ir.Unary:
				all[canonicalUnary(i.Op, i.X)] = true
			}
		}
	}
	return all
}

// AvailableExpressions is a forward analysis seeded with the universal set
// on every block but the entry (which starts empty, having no predecessor
// paths at all). Its Transfer follows spec.md §4.F's literal add-then-
// remove order: an expression an instruction both computes and immediately
// invalidates (by redefining one of its own operands) is added and then
// removed again in the same step, different from the CSE transform's
// invalidate-before-insert order (package transform), which exists to fix
// the opposite bug for a different purpose.
type AvailableExpressions struct {
	all ExprSet
}

func NewAvailableExpressions(g *ir.ControlFlowGraph) *AvailableExpressions {
	return &AvailableExpressions{all: allExprs(g)}
}

func (a *AvailableExpressions) Initialize(g *ir.ControlFlowGraph) map[*ir.BasicBlock]ExprSet {
	out := make(map[*ir.BasicBlock]ExprSet, len(g.Blocks))
	for _, b := range g.Blocks {
		if b == g.Entry {
			out[b] = make(ExprSet)
			continue
		}
		out[b] = a.all.clone()
	}
	return out
}

func (a *AvailableExpressions) ComputeInput(b *ir.BasicBlock, outputs map[*ir.BasicBlock]ExprSet) ExprSet {
	if len(b.Predecessors) == 0 {
		return outputs[b]
	}
	sets := make([]ExprSet, 0, len(b.Predecessors))
	for _, p := range b.Predecessors {
		sets = append(sets, outputs[p])
	}
	return intersectExprSets(a.all, sets...)
}

func (a *AvailableExpressions) Transfer(b *ir.BasicBlock, in ExprSet, _ map[*ir.BasicBlock]ExprSet) ExprSet {
	avail := in.clone()
	for _, instr := range b.Instrs {
		switch i := instr.(type) {
		case *ir.Binary:
			avail[canonicalBinary(i.Op, i.Left, i.Right)] = true
		case *ir.Unary:
			avail[canonicalUnary(i.Op, i.X)] = true
		}
		for _, v := range instr.DefinedVars() {
			invalidate(avail, v)
		}
	}
	return avail
}

func (a *AvailableExpressions) Equal(x, y ExprSet) bool { return equalExprSets(x, y) }

// invalidate drops every expression that reads v, since a redefinition of
// v makes any previously-computed value of such an expression stale.
func invalidate(avail ExprSet, v ir.Var) {
	for e := range avail {
		if ir.Operand(e.Left).IsVariable() {
			if lv, ok := ir.Operand(e.Left).Var(); ok && lv == v {
				delete(avail, e)
				continue
			}
		}
		if !e.IsUnary && ir.Operand(e.Right).IsVariable() {
			if rv, ok := ir.Operand(e.Right).Var(); ok && rv == v {
				delete(avail, e)
			}
		}
	}
}

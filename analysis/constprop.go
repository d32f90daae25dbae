package analysis

import "github.com/Manifest-Son/JS-Compiler-Project/ir"

// ConstKind classifies a ConstValue's position in the three-level constant
// lattice of spec.md §4.F: Top (not yet known, meet-identity), a known
// literal, or Bottom (provably not a single constant, NAC).
type ConstKind int

const (
	Top ConstKind = iota
	ConstVal
	Bottom
)

// ConstValue is one lattice element: either Top, Bottom, or a specific
// literal operand.
type ConstValue struct {
	Kind    ConstKind
	Literal ir.Operand
}

func topValue() ConstValue    { return ConstValue{Kind: Top} }
func bottomValue() ConstValue { return ConstValue{Kind: Bottom} }
func constValue(lit ir.Operand) ConstValue {
	return ConstValue{Kind: ConstVal, Literal: lit}
}

// MeetConst implements spec.md §4.F's pairwise meet rule exactly:
// ⊤∧x=x, ⊥∧x=⊥, c∧c=c, c∧c'=⊥ for c≠c'. Exported so the constant-folding
// transform can resolve a Phi's incoming edges with the identical rule the
// analysis itself uses.
func MeetConst(a, b ConstValue) ConstValue { return meetConst(a, b) }

func meetConst(a, b ConstValue) ConstValue {
	if a.Kind == Top {
		return b
	}
	if b.Kind == Top {
		return a
	}
	if a.Kind == Bottom || b.Kind == Bottom {
		return bottomValue()
	}
	if a.Literal == b.Literal {
		return a
	}
	return bottomValue()
}

// ConstMap is the lattice value for constant-propagation analysis: a
// variable absent from the map is implicitly Top. Meet is pointwise
// meetConst over the union of both maps' keys.
type ConstMap map[ir.Var]ConstValue

// Lookup returns v's resolved constant value, Top if v is absent. Exported
// for the constant-folding transform, which needs to query the same maps
// this analysis produces.
func (m ConstMap) Lookup(v ir.Var) ConstValue { return m.get(v) }

func (m ConstMap) get(v ir.Var) ConstValue {
	if val, ok := m[v]; ok {
		return val
	}
	return topValue()
}

func (m ConstMap) clone() ConstMap {
	out := make(ConstMap, len(m))
	for v, val := range m {
		out[v] = val
	}
	return out
}

func meetConstMaps(sets ...ConstMap) ConstMap {
	out := make(ConstMap)
	seen := make(map[ir.Var]bool)
	for _, s := range sets {
		for v := range s {
			seen[v] = true
		}
	}
	for v := range seen {
		vals := make([]ConstValue, 0, len(sets))
		for _, s := range sets {
			vals = append(vals, s.get(v))
		}
		acc := vals[0]
		for _, val := range vals[1:] {
			acc = meetConst(acc, val)
		}
		out[v] = acc
	}
	return out
}

func equalConstMaps(a, b ConstMap) bool {
	keys := make(map[ir.Var]bool, len(a)+len(b))
	for v := range a {
		keys[v] = true
	}
	for v := range b {
		keys[v] = true
	}
	for v := range keys {
		if a.get(v) != b.get(v) {
			return false
		}
	}
	return true
}

// ConstantPropagation is a forward analysis over pruned SSA form. Every
// variable besides a phi destination has exactly one definition, so its
// transfer function for most instructions is a straight evaluation; a phi
// is the one case where the generically-merged in value is insufficient:
// each incoming edge must be resolved against its own specific
// predecessor's output (spec.md §4.F), which is why Transfer takes the
// full outputs map rather than just in.
type ConstantPropagation struct{}

func (ConstantPropagation) Initialize(g *ir.ControlFlowGraph) map[*ir.BasicBlock]ConstMap {
	out := make(map[*ir.BasicBlock]ConstMap, len(g.Blocks))
	for _, b := range g.Blocks {
		out[b] = make(ConstMap)
	}
	return out
}

func (ConstantPropagation) ComputeInput(b *ir.BasicBlock, outputs map[*ir.BasicBlock]ConstMap) ConstMap {
	sets := make([]ConstMap, 0, len(b.Predecessors))
	for _, p := range b.Predecessors {
		sets = append(sets, outputs[p])
	}
	return meetConstMaps(sets...)
}

func (ConstantPropagation) Transfer(b *ir.BasicBlock, in ConstMap, outputs map[*ir.BasicBlock]ConstMap) ConstMap {
	out := in.clone()
	for _, instr := range b.Instrs {
		switch i := instr.(type) {
		case *ir.Phi:
			vals := make([]ConstValue, 0, len(i.Incoming))
			for _, e := range i.Incoming {
				vals = append(vals, operandValue(e.Src, outputs[e.Pred]))
			}
			acc := topValue()
			for _, v := range vals {
				acc = meetConst(acc, v)
			}
			out[ir.Var(i.Dst.Versioned(i.Version()))] = acc
		case *ir.Assign:
			out[ir.Var(i.Dst.Versioned(i.Version()))] = operandValue(i.Src, out)
		case *ir.Binary:
			out[ir.Var(i.Dst.Versioned(i.Version()))] = evalBinary(i.Op, operandValue(i.Left, out), operandValue(i.Right, out))
		case *ir.Unary:
			out[ir.Var(i.Dst.Versioned(i.Version()))] = evalUnary(i.Op, operandValue(i.X, out))
		case *ir.Call:
			out[ir.Var(i.Dst.Versioned(i.Version()))] = bottomValue()
		}
	}
	return out
}

func (ConstantPropagation) Equal(a, b ConstMap) bool { return equalConstMaps(a, b) }

// OperandValue resolves a raw operand against a ConstMap: a literal
// operand is trivially itself, a variable operand looks up the map (Top if
// absent, matching every other lattice lookup in this package). Exported
// so the constant-folding transform can reuse the same resolution rule the
// analysis itself uses.
func OperandValue(o ir.Operand, m ConstMap) ConstValue { return operandValue(o, m) }

func operandValue(o ir.Operand, m ConstMap) ConstValue {
	if v, ok := o.Var(); ok {
		return m.get(v)
	}
	return constValue(o)
}

func evalBinary(op ir.Operator, a, b ConstValue) ConstValue {
	if a.Kind == Bottom || b.Kind == Bottom {
		return bottomValue()
	}
	if a.Kind == Top || b.Kind == Top {
		return topValue()
	}
	result, ok := ir.FoldBinary(op, a.Literal, b.Literal)
	if !ok {
		return bottomValue()
	}
	return constValue(result)
}

func evalUnary(op ir.Operator, a ConstValue) ConstValue {
	if a.Kind == Bottom {
		return bottomValue()
	}
	if a.Kind == Top {
		return topValue()
	}
	result, ok := ir.FoldUnary(op, a.Literal)
	if !ok {
		return bottomValue()
	}
	return constValue(result)
}

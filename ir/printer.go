package ir

import "strings"

// String renders g's blocks in creation order using the to_string format
// of spec.md §6, stable for golden-file testing. Dispatch on instruction
// variant is a type switch (spec.md §9), the Go analogue of the teacher's
// Printer.VisitInstr visitor switch.
func (g *ControlFlowGraph) String() string {
	var sb strings.Builder
	for i, b := range g.Blocks {
		if i != 0 {
			sb.WriteByte('\n')
		}
		b.writeTo(&sb, g.domComputed)
	}
	return sb.String()
}

func (b *BasicBlock) String() string {
	var sb strings.Builder
	b.writeTo(&sb, len(b.DominanceFrontier) > 0 || b.Idom != nil)
	return sb.String()
}

func (b *BasicBlock) writeTo(sb *strings.Builder, showFrontier bool) {
	sb.WriteString(b.Name)
	sb.WriteString(":\n")
	sb.WriteString("  // Predecessors: ")
	sb.WriteString(namesOf(b.Predecessors))
	sb.WriteByte('\n')
	for _, instr := range b.Instrs {
		sb.WriteString("  ")
		sb.WriteString(renderInstr(instr))
		sb.WriteByte('\n')
	}
	sb.WriteString("  // Successors: ")
	sb.WriteString(namesOf(b.Successors))
	sb.WriteByte('\n')
	if showFrontier {
		sb.WriteString("  // Dominance frontier: ")
		sb.WriteString(namesOf(b.DominanceFrontier))
		sb.WriteByte('\n')
	}
}

func namesOf(blocks []*BasicBlock) string {
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = b.Name
	}
	return strings.Join(names, ", ")
}

// renderInstr renders a single instruction per the exact forms of spec.md
// §6: "tmp_3#2 = a#0 + b#1", "return x#4;", "if (c#0) goto then_5; else
// goto else_5", "goto merge_7", "x#3 = phi(x#0 [bb_1], x#2 [bb_2])".
func renderInstr(instr Instr) string {
	switch i := instr.(type) {
	case *Assign:
		return i.Dst.Versioned(i.Version()) + " = " + string(i.Src)
	case *Binary:
		return i.Dst.Versioned(i.Version()) + " = " + string(i.Left) + " " + string(i.Op) + " " + string(i.Right)
	case *Unary:
		return i.Dst.Versioned(i.Version()) + " = " + string(i.Op) + string(i.X)
	case *Call:
		return i.Dst.Versioned(i.Version()) + " = " + string(i.Callee) + "(" + joinOperands(i.Args) + ")"
	case *Phi:
		return i.Dst.Versioned(i.Version()) + " = phi(" + joinPhiEdges(i.Incoming) + ")"
	case *Return:
		if !i.HasValue {
			return "return;"
		}
		return "return " + string(i.Value) + ";"
	case *Branch:
		return "if (" + string(i.Cond) + ") goto " + i.TrueTarget.Name + "; else goto " + i.FalseTarget.Name
	case *Jump:
		return "goto " + i.Target.Name
	default:
		return "<unknown instruction>"
	}
}

func joinOperands(ops []Operand) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = string(o)
	}
	return strings.Join(parts, ", ")
}

func joinPhiEdges(edges []PhiEdge) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = string(e.Src) + " [" + e.Pred.Name + "]"
	}
	return strings.Join(parts, ", ")
}

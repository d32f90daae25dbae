package ssa

import (
	"context"

	"github.com/Manifest-Son/JS-Compiler-Project/compileerr"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"tlog.app/go/tlog"
)

// Rename performs the depth-first dominator-tree walk of spec.md §4.D,
// versioning every definition and rewriting every non-phi use in place to
// its fully-qualified "name#k" spelling. g must already have phis placed.
func Rename(ctx context.Context, g *ir.ControlFlowGraph) error {
	span := tlog.SpanFromContext(ctx)
	span.Printw("ssa: renaming to SSA form", "blocks", len(g.Blocks))

	versions := make(map[ir.Var]int)
	stacks := make(map[ir.Var][]int)
	children := domChildren(g)
	if err := renameBlock(g.Entry, children, versions, stacks); err != nil {
		return err
	}

	span.Printw("ssa: rename done", "distinct_variables", len(versions))
	return nil
}

func domChildren(g *ir.ControlFlowGraph) map[*ir.BasicBlock][]*ir.BasicBlock {
	children := make(map[*ir.BasicBlock][]*ir.BasicBlock, len(g.Blocks))
	for _, b := range g.Blocks {
		if b.Idom != nil {
			children[b.Idom] = append(children[b.Idom], b)
		}
	}
	return children
}

func renameBlock(b *ir.BasicBlock, children map[*ir.BasicBlock][]*ir.BasicBlock, versions map[ir.Var]int, stacks map[ir.Var][]int) error {
	pushedCounts := make(map[ir.Var]int)
	push := func(v ir.Var) int {
		k := versions[v]
		versions[v] = k + 1
		stacks[v] = append(stacks[v], k)
		pushedCounts[v]++
		return k
	}

	// (a) version every phi at the top of b.
	for _, phi := range b.Phis() {
		phi.SetVersion(push(phi.Dst))
	}

	// (b) for every non-phi instruction, rewrite uses then version defs.
	for _, instr := range b.Instrs {
		if _, isPhi := instr.(*ir.Phi); isPhi {
			continue
		}
		if err := rewriteUses(instr, stacks); err != nil {
			return err
		}
		for _, v := range instr.DefinedVars() {
			instr.SetVersion(push(v))
		}
	}

	// (c) patch the incoming slot each successor's phis reserve for b.
	for _, s := range b.Successors {
		i := s.PredIndex(b)
		if i < 0 {
			return compileerr.New(compileerr.InconsistentCFG,
				"successor "+s.Name+" does not list "+b.Name+" as a predecessor")
		}
		for _, phi := range s.Phis() {
			top, err := topOf(stacks, phi.Dst)
			if err != nil {
				return err
			}
			phi.Incoming[i].Src = ir.Operand(phi.Dst.Versioned(top))
		}
	}

	// (d) recurse into the dominator tree.
	for _, child := range children[b] {
		if err := renameBlock(child, children, versions, stacks); err != nil {
			return err
		}
	}

	// (e) restore the stacks for sibling subtrees.
	for v, n := range pushedCounts {
		stacks[v] = stacks[v][:len(stacks[v])-n]
	}
	return nil
}

func topOf(stacks map[ir.Var][]int, v ir.Var) (int, error) {
	s := stacks[v]
	if len(s) == 0 {
		return 0, compileerr.New(compileerr.InconsistentCFG, "no live version for variable "+string(v))
	}
	return s[len(s)-1], nil
}

// rewriteUses rewrites every variable operand an instruction uses to its
// versioned spelling, in place. Dispatch is a type switch over the
// concrete variant (spec.md §9) since each carries its operands in
// differently-named fields.
func rewriteUses(instr ir.Instr, stacks map[ir.Var][]int) error {
	switch i := instr.(type) {
	case *ir.Assign:
		return rewriteOperand(&i.Src, stacks)
	case *ir.Binary:
		if err := rewriteOperand(&i.Left, stacks); err != nil {
			return err
		}
		return rewriteOperand(&i.Right, stacks)
	case *ir.Unary:
		return rewriteOperand(&i.X, stacks)
	case *ir.Call:
		if err := rewriteOperand(&i.Callee, stacks); err != nil {
			return err
		}
		for k := range i.Args {
			if err := rewriteOperand(&i.Args[k], stacks); err != nil {
				return err
			}
		}
		return nil
	case *ir.Return:
		if !i.HasValue {
			return nil
		}
		return rewriteOperand(&i.Value, stacks)
	case *ir.Branch:
		return rewriteOperand(&i.Cond, stacks)
	case *ir.Jump:
		return nil
	default:
		return nil
	}
}

func rewriteOperand(o *ir.Operand, stacks map[ir.Var][]int) error {
	v, ok := o.Var()
	if !ok {
		return nil
	}
	top, err := topOf(stacks, v)
	if err != nil {
		return err
	}
	*o = ir.Operand(v.Versioned(top))
	return nil
}

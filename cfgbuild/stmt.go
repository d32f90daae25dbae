package cfgbuild

import (
	"github.com/Manifest-Son/JS-Compiler-Project/ast"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
)

func (b *builder) lowerStmt(s ast.Stmt) error {
	switch x := s.(type) {
	case *ast.BlockStmt:
		return b.lowerBlock(x)
	case *ast.ExprStmt:
		_, err := b.lowerExpr(x.X)
		return err
	case *ast.VarDeclStmt:
		return b.lowerVarDecl(x)
	case *ast.AssignStmt:
		return b.lowerAssign(x)
	case *ast.IfStmt:
		return b.lowerIf(x)
	case *ast.WhileStmt:
		return b.lowerWhile(x)
	case *ast.ForStmt:
		return b.lowerFor(x)
	case *ast.BreakStmt:
		return b.lowerBreak(x)
	case *ast.ContinueStmt:
		return b.lowerContinue(x)
	case *ast.ReturnStmt:
		return b.lowerReturn(x)
	case *ast.FuncDeclStmt:
		return b.lowerFuncDecl(x)
	default:
		return malformed(s.Pos(), "unsupported statement variant")
	}
}

// lowerBlock lowers a brace-delimited sequence in place: it introduces no
// new block of its own (spec.md §4.B).
func (b *builder) lowerBlock(x *ast.BlockStmt) error {
	for _, s := range x.Stmts {
		if err := b.lowerStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) lowerVarDecl(x *ast.VarDeclStmt) error {
	b.declared[x.Name] = true
	if x.Init == nil {
		// `let x;` with no initializer still needs a reaching definition,
		// since every declared variable must have one for the rename pass
		// to find a live version at every later use, so it is lowered as if
		// initialized to the undefined sentinel.
		b.emit(ir.NewAssign(x.Pos(), ir.Var(x.Name), ir.Operand("undefined")))
		return nil
	}
	op, err := b.lowerExpr(x.Init)
	if err != nil {
		return err
	}
	b.emit(ir.NewAssign(x.Pos(), ir.Var(x.Name), op))
	return nil
}

func (b *builder) lowerAssign(x *ast.AssignStmt) error {
	if !b.declared[x.Name] {
		return unbound(x.Pos(), x.Name)
	}
	op, err := b.lowerExpr(x.Value)
	if err != nil {
		return err
	}
	b.emit(ir.NewAssign(x.Pos(), ir.Var(x.Name), op))
	return nil
}

func (b *builder) lowerIf(x *ast.IfStmt) error {
	cond, err := b.lowerExpr(x.Cond)
	if err != nil {
		return err
	}
	thenBlk := b.newBlock("then")
	mergeBlk := b.newBlock("merge")
	elseBlk := mergeBlk
	if x.Else != nil {
		elseBlk = b.newBlock("else")
	}
	entry := b.cur
	entry.AddTerminator(ir.NewBranch(x.Pos(), cond, thenBlk, elseBlk))

	b.cur = thenBlk
	if err := b.lowerStmt(x.Then); err != nil {
		return err
	}
	if b.reachable() && !b.cur.HasTerminator() {
		b.cur.AddTerminator(ir.NewJump(x.Pos(), mergeBlk))
	}

	if x.Else != nil {
		b.cur = elseBlk
		if err := b.lowerStmt(x.Else); err != nil {
			return err
		}
		if b.reachable() && !b.cur.HasTerminator() {
			b.cur.AddTerminator(ir.NewJump(x.Pos(), mergeBlk))
		}
	}

	b.cur = mergeBlk
	return nil
}

func (b *builder) lowerWhile(x *ast.WhileStmt) error {
	condBlk := b.newBlock("cond")
	bodyBlk := b.newBlock("body")
	exitBlk := b.newBlock("exit")

	b.cur.AddTerminator(ir.NewJump(x.Pos(), condBlk))
	b.cur = condBlk
	cond, err := b.lowerExpr(x.Cond)
	if err != nil {
		return err
	}
	b.cur.AddTerminator(ir.NewBranch(x.Pos(), cond, bodyBlk, exitBlk))

	b.loops = append(b.loops, loopContext{continueTarget: condBlk, breakTarget: exitBlk})
	b.cur = bodyBlk
	err = b.lowerStmt(x.Body)
	b.loops = b.loops[:len(b.loops)-1]
	if err != nil {
		return err
	}
	if b.reachable() && !b.cur.HasTerminator() {
		b.cur.AddTerminator(ir.NewJump(x.Pos(), condBlk))
	}

	b.cur = exitBlk
	return nil
}

func (b *builder) lowerFor(x *ast.ForStmt) error {
	if x.Init != nil {
		if err := b.lowerStmt(x.Init); err != nil {
			return err
		}
	}

	condBlk := b.newBlock("cond")
	bodyBlk := b.newBlock("body")
	incrBlk := b.newBlock("incr")
	exitBlk := b.newBlock("exit")

	b.cur.AddTerminator(ir.NewJump(x.Pos(), condBlk))
	b.cur = condBlk
	if x.Cond != nil {
		cond, err := b.lowerExpr(x.Cond)
		if err != nil {
			return err
		}
		b.cur.AddTerminator(ir.NewBranch(x.Pos(), cond, bodyBlk, exitBlk))
	} else {
		b.cur.AddTerminator(ir.NewJump(x.Pos(), bodyBlk))
	}

	b.loops = append(b.loops, loopContext{continueTarget: incrBlk, breakTarget: exitBlk})
	b.cur = bodyBlk
	err := b.lowerStmt(x.Body)
	b.loops = b.loops[:len(b.loops)-1]
	if err != nil {
		return err
	}
	if b.reachable() && !b.cur.HasTerminator() {
		b.cur.AddTerminator(ir.NewJump(x.Pos(), incrBlk))
	}

	b.cur = incrBlk
	if x.Post != nil {
		if err := b.lowerStmt(x.Post); err != nil {
			return err
		}
	}
	if b.reachable() && !b.cur.HasTerminator() {
		b.cur.AddTerminator(ir.NewJump(x.Pos(), condBlk))
	}

	b.cur = exitBlk
	return nil
}

func (b *builder) lowerBreak(x *ast.BreakStmt) error {
	if len(b.loops) == 0 {
		return malformed(x.Pos(), "break outside any loop")
	}
	target := b.loops[len(b.loops)-1].breakTarget
	b.cur.AddTerminator(ir.NewJump(x.Pos(), target))
	b.cur = b.newBlock("unreachable")
	return nil
}

func (b *builder) lowerContinue(x *ast.ContinueStmt) error {
	if len(b.loops) == 0 {
		return malformed(x.Pos(), "continue outside any loop")
	}
	target := b.loops[len(b.loops)-1].continueTarget
	b.cur.AddTerminator(ir.NewJump(x.Pos(), target))
	b.cur = b.newBlock("unreachable")
	return nil
}

func (b *builder) lowerReturn(x *ast.ReturnStmt) error {
	if x.Value == nil {
		b.cur.AddTerminator(ir.NewReturn(x.Pos(), "", false))
		b.cur = b.newBlock("unreachable")
		return nil
	}
	v, err := b.lowerExpr(x.Value)
	if err != nil {
		return err
	}
	b.cur.AddTerminator(ir.NewReturn(x.Pos(), v, true))
	b.cur = b.newBlock("unreachable")
	return nil
}

func (b *builder) lowerFuncDecl(x *ast.FuncDeclStmt) error {
	b.declared[x.Name] = true
	childCFG, err := b.buildFunction(x.Params, x.Body)
	if err != nil {
		return err
	}
	b.unit.Functions = append(b.unit.Functions, &Function{Name: x.Name, Params: x.Params, CFG: childCFG})
	b.emit(ir.NewAssign(x.Pos(), ir.Var(x.Name), ir.Operand(`"function_object"`)))
	return nil
}

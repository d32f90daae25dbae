// Package cfgbuild lowers a parsed AST into a control flow graph of
// three-address instructions (spec.md §4.B). It threads a single current-
// block pointer, fresh temp/block-name counters, and a stack of loop
// contexts explicitly. The teacher's equivalent, Builder in
// ir/builder.go, keeps the same kind of state on its visitor rather than
// inside the AST nodes themselves.
package cfgbuild

import (
	"context"
	"strconv"

	"github.com/Manifest-Son/JS-Compiler-Project/ast"
	"github.com/Manifest-Son/JS-Compiler-Project/compileerr"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"tlog.app/go/tlog"
)

// Function is one lowered function body: a named function declaration or
// an anonymous arrow function. Name is empty for the latter. The top-level
// program is lowered into Unit.Main, not into a Function.
type Function struct {
	Name   string
	Params []string
	CFG    *ir.ControlFlowGraph
}

// Unit is everything Build produces from one program: the top-level CFG
// plus every nested function CFG it found along the way. The original's
// single Program/Func tree is flattened here because downstream passes
// (dom, ssa, analysis, transform) operate one CFG at a time.
type Unit struct {
	Main      *ir.ControlFlowGraph
	Functions []*Function
}

type loopContext struct {
	continueTarget *ir.BasicBlock
	breakTarget    *ir.BasicBlock
}

type builder struct {
	ctx      context.Context
	unit     *Unit
	cfg      *ir.ControlFlowGraph
	cur      *ir.BasicBlock
	tempSeq  int
	blockSeq map[string]int
	loops    []loopContext
	declared map[string]bool
}

func newBuilder(ctx context.Context, unit *Unit) *builder {
	return &builder{
		ctx:      ctx,
		unit:     unit,
		blockSeq: make(map[string]int),
		declared: make(map[string]bool),
	}
}

// Build lowers prog into a Unit. Top-level statements compile into the
// Unit's Main CFG; any function declarations or arrow functions reached
// along the way compile into their own CFG and are appended to Functions
// in the order encountered.
func Build(ctx context.Context, prog *ast.Program) (*Unit, error) {
	span := tlog.SpanFromContext(ctx)
	span.Printw("cfgbuild: lowering program", "top_level_stmts", len(prog.Stmts))

	unit := &Unit{}
	b := newBuilder(ctx, unit)
	b.cfg = ir.NewControlFlowGraph()
	b.cur = b.cfg.NewBlock("entry")
	for _, s := range prog.Stmts {
		if err := b.lowerStmt(s); err != nil {
			return nil, err
		}
	}
	b.finish()
	unit.Main = b.cfg

	span.Printw("cfgbuild: done", "blocks", len(unit.Main.Blocks), "functions", len(unit.Functions))
	return unit, nil
}

func (b *builder) buildFunction(params []string, body *ast.BlockStmt) (*ir.ControlFlowGraph, error) {
	child := newBuilder(b.ctx, b.unit)
	child.cfg = ir.NewControlFlowGraph()
	child.cur = child.cfg.NewBlock("entry")
	for _, p := range params {
		child.declared[p] = true
		// Parameters need a reaching definition the same way any other
		// variable does. The IR has no dedicated parameter-binding
		// instruction, so this binds it with a Call to an opaque builtin,
		// a Call's result is unconditionally NAC under constant
		// propagation (spec.md §4.F), which is exactly the right
		// conservative value for an argument whose caller is unknown.
		child.emit(ir.NewCall(0, ir.Var(p), ir.Operand(`"parameter"`), nil))
	}
	if err := child.lowerStmt(body); err != nil {
		return nil, err
	}
	child.finish()
	return child.cfg, nil
}

// finish appends an implicit, valueless Return to the current block if
// lowering left it without a terminator (spec.md §4.B "Return").
func (b *builder) finish() {
	if b.cur.HasTerminator() {
		return
	}
	r := ir.NewReturn(0, "", false)
	r.Implicit = true
	b.cur.AddTerminator(r)
}

func (b *builder) newTemp() ir.Var {
	v := ir.Var("tmp_" + strconv.Itoa(b.tempSeq))
	b.tempSeq++
	return v
}

func (b *builder) newBlock(prefix string) *ir.BasicBlock {
	n := b.blockSeq[prefix]
	b.blockSeq[prefix] = n + 1
	return b.cfg.NewBlock(prefix + "_" + strconv.Itoa(n))
}

func (b *builder) emit(i ir.Instr) { b.cur.Append(i) }

// reachable reports whether b.cur can currently be reached from the
// function's entry: either it is the entry block itself, or something has
// already wired a predecessor edge into it. break/continue/return leave
// b.cur pointing at a fresh placeholder block with no predecessors, and a
// nested if/while/for whose every arm terminates can leave its own merge
// block in the same state. Callers use this before deciding whether to
// auto-wire a falls-through jump out of the current block, so a dead-end
// position never gets spuriously connected to a real successor.
func (b *builder) reachable() bool {
	return b.cur == b.cfg.Entry || len(b.cur.Predecessors) > 0
}

func malformed(pos ast.Pos, msg string) error {
	return compileerr.New(compileerr.MalformedAST, msg+" at "+pos.String())
}

func unbound(pos ast.Pos, name string) error {
	return compileerr.New(compileerr.UnboundVariable, "reference to undeclared variable "+name+" at "+pos.String())
}

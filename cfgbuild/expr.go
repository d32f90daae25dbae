package cfgbuild

import (
	"strconv"

	"github.com/Manifest-Son/JS-Compiler-Project/ast"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
)

// lowerExpr emits the instructions for x and returns a single operand
// holding its result: the variable name itself for a VariableExpr, the
// literal spelling for a LiteralExpr, a fresh temporary for everything
// else (spec.md §4.B).
func (b *builder) lowerExpr(x ast.Expr) (ir.Operand, error) {
	switch e := x.(type) {
	case *ast.LiteralExpr:
		return literalOperand(e), nil
	case *ast.VariableExpr:
		if !b.declared[e.Name] {
			return "", unbound(e.Pos(), e.Name)
		}
		return ir.Operand(e.Name), nil
	case *ast.BinaryExpr:
		return b.lowerBinary(e)
	case *ast.UnaryExpr:
		return b.lowerUnary(e)
	case *ast.CallExpr:
		return b.lowerCall(e)
	case *ast.GetExpr:
		return b.lowerGet(e)
	case *ast.ArrayExpr:
		return b.lowerArray(e)
	case *ast.ObjectExpr:
		return b.lowerObject(e)
	case *ast.ArrowFunctionExpr:
		return b.lowerArrowFunction(e)
	default:
		return "", malformed(x.Pos(), "unsupported expression variant")
	}
}

func literalOperand(e *ast.LiteralExpr) ir.Operand {
	switch e.Kind {
	case ast.LitNumber:
		return ir.Operand(strconv.FormatFloat(e.Number, 'f', -1, 64))
	case ast.LitString:
		return ir.Operand(`"` + e.String + `"`)
	case ast.LitBool:
		return ir.Operand(strconv.FormatBool(e.Bool))
	case ast.LitNull:
		return ir.Operand("null")
	default:
		return ir.Operand("undefined")
	}
}

func (b *builder) lowerBinary(e *ast.BinaryExpr) (ir.Operand, error) {
	if e.Op == ast.OpAnd || e.Op == ast.OpOr {
		return b.lowerShortCircuit(e)
	}
	left, err := b.lowerExpr(e.Left)
	if err != nil {
		return "", err
	}
	right, err := b.lowerExpr(e.Right)
	if err != nil {
		return "", err
	}
	dst := b.newTemp()
	b.emit(ir.NewBinary(e.Pos(), dst, ir.Operator(e.Op), left, right))
	return ir.Operand(dst), nil
}

// lowerShortCircuit lowers && and || into two blocks that both write into
// the same destination temporary, leaving the merge-point phi for the SSA
// transformer to discover on its own (spec.md §4.B): it never inserts a
// phi itself.
func (b *builder) lowerShortCircuit(e *ast.BinaryExpr) (ir.Operand, error) {
	left, err := b.lowerExpr(e.Left)
	if err != nil {
		return "", err
	}
	dst := b.newTemp()
	rhsBlk := b.newBlock("sc_rhs")
	keepBlk := b.newBlock("sc_keep")
	mergeBlk := b.newBlock("sc_merge")

	if e.Op == ast.OpAnd {
		b.cur.AddTerminator(ir.NewBranch(e.Pos(), left, rhsBlk, keepBlk))
	} else {
		b.cur.AddTerminator(ir.NewBranch(e.Pos(), left, keepBlk, rhsBlk))
	}

	b.cur = keepBlk
	b.emit(ir.NewAssign(e.Pos(), dst, left))
	b.cur.AddTerminator(ir.NewJump(e.Pos(), mergeBlk))

	b.cur = rhsBlk
	right, err := b.lowerExpr(e.Right)
	if err != nil {
		return "", err
	}
	b.emit(ir.NewAssign(e.Pos(), dst, right))
	b.cur.AddTerminator(ir.NewJump(e.Pos(), mergeBlk))

	b.cur = mergeBlk
	return ir.Operand(dst), nil
}

func (b *builder) lowerUnary(e *ast.UnaryExpr) (ir.Operand, error) {
	x, err := b.lowerExpr(e.X)
	if err != nil {
		return "", err
	}
	dst := b.newTemp()
	b.emit(ir.NewUnary(e.Pos(), dst, ir.Operator(e.Op), x))
	return ir.Operand(dst), nil
}

func (b *builder) lowerCall(e *ast.CallExpr) (ir.Operand, error) {
	callee, err := b.lowerExpr(e.Callee)
	if err != nil {
		return "", err
	}
	args := make([]ir.Operand, len(e.Args))
	for i, a := range e.Args {
		op, err := b.lowerExpr(a)
		if err != nil {
			return "", err
		}
		args[i] = op
	}
	dst := b.newTemp()
	b.emit(ir.NewCall(e.Pos(), dst, callee, args))
	return ir.Operand(dst), nil
}

// lowerGet lowers property access as a Binary with the Dot operator and a
// quoted-string operand holding the property name, the encoding spec.md
// §9's open question leaves unresolved; see DESIGN.md for why this module
// keeps it rather than introducing GetProp/SetProp.
func (b *builder) lowerGet(e *ast.GetExpr) (ir.Operand, error) {
	x, err := b.lowerExpr(e.X)
	if err != nil {
		return "", err
	}
	dst := b.newTemp()
	b.emit(ir.NewBinary(e.Pos(), dst, ir.Dot, x, ir.Operand(`"`+e.Name+`"`)))
	return ir.Operand(dst), nil
}

// lowerArray and lowerObject lower literal construction as an opaque call
// to a synthetic builtin. Array/object contents are Non-goals (spec.md
// §1: "property stores are opaque side-effectful operations"), but their
// elements must still be evaluated left-to-right for side effects.
func (b *builder) lowerArray(e *ast.ArrayExpr) (ir.Operand, error) {
	args := make([]ir.Operand, len(e.Elements))
	for i, el := range e.Elements {
		op, err := b.lowerExpr(el)
		if err != nil {
			return "", err
		}
		args[i] = op
	}
	dst := b.newTemp()
	b.emit(ir.NewCall(e.Pos(), dst, ir.Operand(`"array_literal"`), args))
	return ir.Operand(dst), nil
}

func (b *builder) lowerObject(e *ast.ObjectExpr) (ir.Operand, error) {
	args := make([]ir.Operand, 0, len(e.Props)*2)
	for _, p := range e.Props {
		v, err := b.lowerExpr(p.Value)
		if err != nil {
			return "", err
		}
		args = append(args, ir.Operand(`"`+p.Key+`"`), v)
	}
	dst := b.newTemp()
	b.emit(ir.NewCall(e.Pos(), dst, ir.Operand(`"object_literal"`), args))
	return ir.Operand(dst), nil
}

func (b *builder) lowerArrowFunction(e *ast.ArrowFunctionExpr) (ir.Operand, error) {
	childCFG, err := b.buildFunction(e.Params, e.Body)
	if err != nil {
		return "", err
	}
	b.unit.Functions = append(b.unit.Functions, &Function{Params: e.Params, CFG: childCFG})
	dst := b.newTemp()
	b.emit(ir.NewAssign(e.Pos(), dst, ir.Operand(`"function_object"`)))
	return ir.Operand(dst), nil
}

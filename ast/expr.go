package ast

// Operator enumerates the operators that can appear in a BinaryExpr or
// UnaryExpr. It mirrors the closed set in spec.md §3 (arithmetic,
// relational, logical, unary and property access) as plain strings so the
// builder can hand the token spelling straight through to ir.Operator
// without an intermediate translation table.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"

	OpEq Operator = "=="
	OpNe Operator = "!="
	OpLt Operator = "<"
	OpLe Operator = "<="
	OpGt Operator = ">"
	OpGe Operator = ">="

	OpAnd Operator = "&&"
	OpOr  Operator = "||"

	OpNeg Operator = "-" // unary minus, same spelling as OpSub
	OpNot Operator = "!"

	OpDot Operator = "." // property access
)

// Expr is the sum type of expression nodes.
type Expr interface {
	Node
	expr()
}

type exprBase struct{ base }

func (exprBase) expr() {}

// LiteralKind distinguishes the five kinds of literal operand §3 allows.
type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitBool
	LitNull
	LitUndefined
)

// LiteralExpr is a literal constant: number, string, boolean, or the
// null/undefined sentinels.
type LiteralExpr struct {
	exprBase
	Kind   LiteralKind
	Number float64
	String string
	Bool   bool
}

func NewNumberLit(pos Pos, v float64) *LiteralExpr {
	return &LiteralExpr{exprBase{base{pos}}, LitNumber, v, "", false}
}

func NewStringLit(pos Pos, v string) *LiteralExpr {
	return &LiteralExpr{exprBase{base{pos}}, LitString, 0, v, false}
}

func NewBoolLit(pos Pos, v bool) *LiteralExpr {
	return &LiteralExpr{exprBase{base{pos}}, LitBool, 0, "", v}
}

func NewNullLit(pos Pos) *LiteralExpr {
	return &LiteralExpr{exprBase{base{pos}}, LitNull, 0, "", false}
}

func NewUndefinedLit(pos Pos) *LiteralExpr {
	return &LiteralExpr{exprBase{base{pos}}, LitUndefined, 0, "", false}
}

// VariableExpr references a previously declared identifier.
type VariableExpr struct {
	exprBase
	Name string
}

func NewVariableExpr(pos Pos, name string) *VariableExpr {
	return &VariableExpr{exprBase{base{pos}}, name}
}

// BinaryExpr applies Op to Left and Right.
type BinaryExpr struct {
	exprBase
	Op    Operator
	Left  Expr
	Right Expr
}

func NewBinaryExpr(pos Pos, op Operator, left, right Expr) *BinaryExpr {
	return &BinaryExpr{exprBase{base{pos}}, op, left, right}
}

// UnaryExpr applies Op to X.
type UnaryExpr struct {
	exprBase
	Op Operator
	X  Expr
}

func NewUnaryExpr(pos Pos, op Operator, x Expr) *UnaryExpr {
	return &UnaryExpr{exprBase{base{pos}}, op, x}
}

// CallExpr invokes Callee with Args.
type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func NewCallExpr(pos Pos, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{exprBase{base{pos}}, callee, args}
}

// GetExpr is property access `X.Name`. The builder lowers it to a Binary
// instruction with OpDot per the open question in spec.md §9; a future
// pass may split it into explicit GetProp/SetProp instructions.
type GetExpr struct {
	exprBase
	X    Expr
	Name string
}

func NewGetExpr(pos Pos, x Expr, name string) *GetExpr {
	return &GetExpr{exprBase{base{pos}}, x, name}
}

// ArrayExpr is an array literal. Its elements are treated as opaque
// side-effectful operands; element layout is not modeled (spec.md §1
// Non-goals: property stores are opaque).
type ArrayExpr struct {
	exprBase
	Elements []Expr
}

func NewArrayExpr(pos Pos, elements []Expr) *ArrayExpr {
	return &ArrayExpr{exprBase{base{pos}}, elements}
}

// ObjectProp is a single `key: value` entry of an ObjectExpr.
type ObjectProp struct {
	Key   string
	Value Expr
}

// ObjectExpr is an object literal.
type ObjectExpr struct {
	exprBase
	Props []ObjectProp
}

func NewObjectExpr(pos Pos, props []ObjectProp) *ObjectExpr {
	return &ObjectExpr{exprBase{base{pos}}, props}
}

// ArrowFunctionExpr is a function literal. Like FuncDeclStmt, the builder
// compiles its body into a child CFG and leaves a "function_object"
// placeholder operand in its place.
type ArrowFunctionExpr struct {
	exprBase
	Params []string
	Body   *BlockStmt
}

func NewArrowFunctionExpr(pos Pos, params []string, body *BlockStmt) *ArrowFunctionExpr {
	return &ArrowFunctionExpr{exprBase{base{pos}}, params, body}
}

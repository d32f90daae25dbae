package ast

// Node is the common interface of every AST node the builder can lower.
// Modeled on wzh99-GoCompiler's ast.IASTNode, but carrying the packed Pos of
// spec.md §6 instead of a line/column pair object.
type Node interface {
	Pos() Pos
}

// base is embedded by every concrete node to satisfy Node without
// repeating the position field and accessor everywhere.
type base struct {
	pos Pos
}

func (b base) Pos() Pos { return b.pos }

// Program is the root of a parsed source file: a sequence of top-level
// statements.
type Program struct {
	base
	Stmts []Stmt
}

func NewProgram(pos Pos, stmts []Stmt) *Program {
	return &Program{base: base{pos}, Stmts: stmts}
}

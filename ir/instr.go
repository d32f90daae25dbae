package ir

import "github.com/Manifest-Son/JS-Compiler-Project/ast"

// Instr is the common interface implemented by every instruction variant
// of spec.md §3. Concrete variants are dispatched by type switch rather
// than by virtual call (spec.md §9 "Dispatch on variant replaces virtual
// calls"). See printer.go, cfg.go and the ssa/analysis/transform
// packages for the switches.
type Instr interface {
	Pos() ast.Pos
	Version() int
	SetVersion(int)
	DefinedVars() []Var
	UsedVars() []Var
	IsTerminator() bool
	Clone() Instr
}

// base is the common header every variant embeds: an optional source
// position and the SSA version slot (0 before SSA, non-negative after).
type base struct {
	pos     ast.Pos
	version int
}

func (b *base) Pos() ast.Pos     { return b.pos }
func (b *base) Version() int     { return b.version }
func (b *base) SetVersion(v int) { b.version = v }

// QualifiedDefs returns instr's defined variables in their post-Rename
// spelling: Dst versioned with instr's own Version, the same "name#k" form
// ssa.Rename bakes into every *use* of that definition (rewriteOperand
// rewrites used operands in place; it never touches Dst). DefinedVars()
// alone is therefore the wrong key for anything comparing a definition's
// identity against a used operand's Var() once a CFG is in SSA form.
// printer.go computes this version-qualified name itself; Validate's
// dominance check calls this function.
func QualifiedDefs(instr Instr) []Var {
	defs := instr.DefinedVars()
	if len(defs) == 0 {
		return nil
	}
	out := make([]Var, len(defs))
	for i, v := range defs {
		out[i] = Var(v.Versioned(instr.Version()))
	}
	return out
}

// varsOf collects the variable references among operands, in order,
// dropping literals. Used by every UsedVars implementation below.
func varsOf(operands ...Operand) []Var {
	var vs []Var
	for _, o := range operands {
		if v, ok := o.Var(); ok {
			vs = append(vs, v)
		}
	}
	return vs
}

// Assign is `dst = src`.
type Assign struct {
	base
	Dst Var
	Src Operand
}

func NewAssign(pos ast.Pos, dst Var, src Operand) *Assign {
	return &Assign{base: base{pos: pos}, Dst: dst, Src: src}
}

func (i *Assign) DefinedVars() []Var { return []Var{i.Dst} }
func (i *Assign) UsedVars() []Var    { return varsOf(i.Src) }
func (i *Assign) IsTerminator() bool { return false }
func (i *Assign) Clone() Instr {
	c := *i
	return &c
}

// Binary is `dst = left op right`.
type Binary struct {
	base
	Dst   Var
	Op    Operator
	Left  Operand
	Right Operand
}

func NewBinary(pos ast.Pos, dst Var, op Operator, left, right Operand) *Binary {
	return &Binary{base: base{pos: pos}, Dst: dst, Op: op, Left: left, Right: right}
}

func (i *Binary) DefinedVars() []Var { return []Var{i.Dst} }
func (i *Binary) UsedVars() []Var    { return varsOf(i.Left, i.Right) }
func (i *Binary) IsTerminator() bool { return false }
func (i *Binary) Clone() Instr {
	c := *i
	return &c
}

// Unary is `dst = op x`.
type Unary struct {
	base
	Dst Var
	Op  Operator
	X   Operand
}

func NewUnary(pos ast.Pos, dst Var, op Operator, x Operand) *Unary {
	return &Unary{base: base{pos: pos}, Dst: dst, Op: op, X: x}
}

func (i *Unary) DefinedVars() []Var { return []Var{i.Dst} }
func (i *Unary) UsedVars() []Var    { return varsOf(i.X) }
func (i *Unary) IsTerminator() bool { return false }
func (i *Unary) Clone() Instr {
	c := *i
	return &c
}

// Call is `dst = callee(args...)`. Calls are side-effecting and therefore
// never eligible for dead-code elimination (spec.md §4.F).
type Call struct {
	base
	Dst    Var
	Callee Operand
	Args   []Operand
}

func NewCall(pos ast.Pos, dst Var, callee Operand, args []Operand) *Call {
	return &Call{base: base{pos: pos}, Dst: dst, Callee: callee, Args: append([]Operand(nil), args...)}
}

func (i *Call) DefinedVars() []Var { return []Var{i.Dst} }
func (i *Call) UsedVars() []Var    { return varsOf(append([]Operand{i.Callee}, i.Args...)...) }
func (i *Call) IsTerminator() bool { return false }
func (i *Call) Clone() Instr {
	c := *i
	c.Args = append([]Operand(nil), i.Args...)
	return &c
}

// PhiEdge is one incoming (predecessor, value) pair of a Phi instruction.
type PhiEdge struct {
	Pred *BasicBlock
	Src  Operand
}

// Phi selects a value according to which predecessor edge was taken. Its
// Incoming slice must always have the same length as, and correspond
// index-for-index with, its owning block's Predecessors (spec.md §3
// invariant 4).
type Phi struct {
	base
	Dst      Var
	Incoming []PhiEdge
}

func NewPhi(pos ast.Pos, dst Var, incoming []PhiEdge) *Phi {
	return &Phi{base: base{pos: pos}, Dst: dst, Incoming: append([]PhiEdge(nil), incoming...)}
}

func (i *Phi) DefinedVars() []Var { return []Var{i.Dst} }
func (i *Phi) UsedVars() []Var {
	ops := make([]Operand, len(i.Incoming))
	for k, e := range i.Incoming {
		ops[k] = e.Src
	}
	return varsOf(ops...)
}
func (i *Phi) IsTerminator() bool { return false }
func (i *Phi) Clone() Instr {
	c := *i
	c.Incoming = append([]PhiEdge(nil), i.Incoming...)
	return &c
}

// Return is `return value;` or a bare `return;`. Implicit is set by the
// builder when it synthesizes a missing trailing return (spec.md §4.B).
type Return struct {
	base
	Value    Operand
	HasValue bool
	Implicit bool
}

func NewReturn(pos ast.Pos, value Operand, hasValue bool) *Return {
	return &Return{base: base{pos: pos}, Value: value, HasValue: hasValue}
}

func (i *Return) DefinedVars() []Var { return nil }
func (i *Return) UsedVars() []Var {
	if !i.HasValue {
		return nil
	}
	return varsOf(i.Value)
}
func (i *Return) IsTerminator() bool { return true }
func (i *Return) Clone() Instr {
	c := *i
	return &c
}

// Branch is `if (cond) goto TrueTarget; else goto FalseTarget`. Edges are
// added to the block in true-then-false order by add_terminator (spec.md
// §4.A).
type Branch struct {
	base
	Cond        Operand
	TrueTarget  *BasicBlock
	FalseTarget *BasicBlock
}

func NewBranch(pos ast.Pos, cond Operand, trueTarget, falseTarget *BasicBlock) *Branch {
	return &Branch{base: base{pos: pos}, Cond: cond, TrueTarget: trueTarget, FalseTarget: falseTarget}
}

func (i *Branch) DefinedVars() []Var { return nil }
func (i *Branch) UsedVars() []Var    { return varsOf(i.Cond) }
func (i *Branch) IsTerminator() bool { return true }
func (i *Branch) Clone() Instr {
	c := *i
	return &c
}

// Jump is an unconditional `goto Target`.
type Jump struct {
	base
	Target *BasicBlock
}

func NewJump(pos ast.Pos, target *BasicBlock) *Jump {
	return &Jump{base: base{pos: pos}, Target: target}
}

func (i *Jump) DefinedVars() []Var { return nil }
func (i *Jump) UsedVars() []Var    { return nil }
func (i *Jump) IsTerminator() bool { return true }
func (i *Jump) Clone() Instr {
	c := *i
	return &c
}

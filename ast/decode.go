package ast

import (
	"encoding/json"
	"fmt"
)

// DecodeProgram parses a JSON-encoded AST fixture into a Program. Lexing
// and parsing a real source file is out of scope (spec.md §1), so this is
// the only supported input boundary: each node is a JSON object tagged
// with a "type" discriminator naming one of the concrete node types above,
// e.g. {"type":"BinaryExpr","op":"+","left":...,"right":...}. encoding/json
// is used directly rather than a third-party decoder. This is a one-shot
// fixture format for a demo driver, not a wire protocol or domain concern,
// so there is nothing here for a library like a schema validator or a
// protobuf/flatbuffers codec to usefully replace.
func DecodeProgram(data []byte) (*Program, error) {
	var raw struct {
		Pos   Pos               `json:"pos"`
		Stmts []json.RawMessage `json:"stmts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	stmts, err := decodeStmts(raw.Stmts)
	if err != nil {
		return nil, err
	}
	return NewProgram(raw.Pos, stmts), nil
}

type node struct {
	Type string `json:"type"`
	Pos  Pos    `json:"pos"`

	// Expr fields
	Number float64           `json:"number"`
	Str    string            `json:"str"`
	Bool   bool              `json:"bool"`
	Name   string            `json:"name"`
	Op     Operator          `json:"op"`
	Left   json.RawMessage   `json:"left"`
	Right  json.RawMessage   `json:"right"`
	X      json.RawMessage   `json:"x"`
	Callee json.RawMessage   `json:"callee"`
	Args   []json.RawMessage `json:"args"`
	Elems  []json.RawMessage `json:"elements"`
	Props  []rawProp         `json:"props"`
	Params []string          `json:"params"`
	Body   json.RawMessage   `json:"body"`

	// Stmt fields
	Init  json.RawMessage   `json:"init"`
	Cond  json.RawMessage   `json:"cond"`
	Post  json.RawMessage   `json:"post"`
	Then  json.RawMessage   `json:"then"`
	Else  json.RawMessage   `json:"else"`
	Value json.RawMessage   `json:"value"`
	Stmts []json.RawMessage `json:"stmts"`
}

type rawProp struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func decodeStmts(raw []json.RawMessage) ([]Stmt, error) {
	stmts := make([]Stmt, len(raw))
	for i, r := range raw {
		s, err := DecodeStmt(r)
		if err != nil {
			return nil, err
		}
		stmts[i] = s
	}
	return stmts, nil
}

func decodeExprs(raw []json.RawMessage) ([]Expr, error) {
	exprs := make([]Expr, len(raw))
	for i, r := range raw {
		e, err := DecodeExpr(r)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

// DecodeStmt decodes one JSON-tagged statement node. nil input (a JSON
// null) decodes to a nil Stmt, matching the optional Init/Post/Else slots
// in ForStmt/IfStmt.
func DecodeStmt(raw json.RawMessage) (Stmt, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("decode stmt: %w", err)
	}
	switch n.Type {
	case "BlockStmt":
		stmts, err := decodeStmts(n.Stmts)
		if err != nil {
			return nil, err
		}
		return NewBlockStmt(n.Pos, stmts), nil
	case "ExprStmt":
		x, err := DecodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return NewExprStmt(n.Pos, x), nil
	case "VarDeclStmt":
		init, err := DecodeExpr(n.Init)
		if err != nil {
			return nil, err
		}
		return NewVarDeclStmt(n.Pos, n.Name, init), nil
	case "AssignStmt":
		val, err := DecodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return NewAssignStmt(n.Pos, n.Name, val), nil
	case "IfStmt":
		cond, err := DecodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := DecodeStmt(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := DecodeStmt(n.Else)
		if err != nil {
			return nil, err
		}
		return NewIfStmt(n.Pos, cond, then, els), nil
	case "WhileStmt":
		cond, err := DecodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := DecodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		return NewWhileStmt(n.Pos, cond, body), nil
	case "ForStmt":
		init, err := DecodeStmt(n.Init)
		if err != nil {
			return nil, err
		}
		cond, err := DecodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		post, err := DecodeStmt(n.Post)
		if err != nil {
			return nil, err
		}
		body, err := DecodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		return NewForStmt(n.Pos, init, cond, post, body), nil
	case "BreakStmt":
		return NewBreakStmt(n.Pos), nil
	case "ContinueStmt":
		return NewContinueStmt(n.Pos), nil
	case "ReturnStmt":
		val, err := DecodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return NewReturnStmt(n.Pos, val), nil
	case "FuncDeclStmt":
		body, err := DecodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		block, ok := body.(*BlockStmt)
		if !ok && body != nil {
			return nil, fmt.Errorf("decode stmt: FuncDeclStmt body must be a BlockStmt")
		}
		return NewFuncDeclStmt(n.Pos, n.Name, n.Params, block), nil
	default:
		return nil, fmt.Errorf("decode stmt: unknown type %q", n.Type)
	}
}

// DecodeExpr decodes one JSON-tagged expression node. nil input decodes to
// a nil Expr, matching VarDeclStmt.Init/ReturnStmt.Value's optional slots.
func DecodeExpr(raw json.RawMessage) (Expr, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("decode expr: %w", err)
	}
	switch n.Type {
	case "NumberLit":
		return NewNumberLit(n.Pos, n.Number), nil
	case "StringLit":
		return NewStringLit(n.Pos, n.Str), nil
	case "BoolLit":
		return NewBoolLit(n.Pos, n.Bool), nil
	case "NullLit":
		return NewNullLit(n.Pos), nil
	case "UndefinedLit":
		return NewUndefinedLit(n.Pos), nil
	case "VariableExpr":
		return NewVariableExpr(n.Pos, n.Name), nil
	case "BinaryExpr":
		left, err := DecodeExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return NewBinaryExpr(n.Pos, n.Op, left, right), nil
	case "UnaryExpr":
		x, err := DecodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return NewUnaryExpr(n.Pos, n.Op, x), nil
	case "CallExpr":
		callee, err := DecodeExpr(n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return NewCallExpr(n.Pos, callee, args), nil
	case "GetExpr":
		x, err := DecodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return NewGetExpr(n.Pos, x, n.Name), nil
	case "ArrayExpr":
		elems, err := decodeExprs(n.Elems)
		if err != nil {
			return nil, err
		}
		return NewArrayExpr(n.Pos, elems), nil
	case "ObjectExpr":
		props := make([]ObjectProp, len(n.Props))
		for i, p := range n.Props {
			v, err := DecodeExpr(p.Value)
			if err != nil {
				return nil, err
			}
			props[i] = ObjectProp{Key: p.Key, Value: v}
		}
		return NewObjectExpr(n.Pos, props), nil
	case "ArrowFunctionExpr":
		body, err := DecodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		block, ok := body.(*BlockStmt)
		if !ok {
			return nil, fmt.Errorf("decode expr: ArrowFunctionExpr body must be a BlockStmt")
		}
		return NewArrowFunctionExpr(n.Pos, n.Params, block), nil
	default:
		return nil, fmt.Errorf("decode expr: unknown type %q", n.Type)
	}
}

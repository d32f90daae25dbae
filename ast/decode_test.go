package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProgramSimpleAssignment(t *testing.T) {
	src := `{
		"pos": 0,
		"stmts": [
			{"type": "VarDeclStmt", "name": "x", "init": {"type": "NumberLit", "number": 1}},
			{"type": "ReturnStmt", "value": {"type": "VariableExpr", "name": "x"}}
		]
	}`
	prog, err := DecodeProgram([]byte(src))
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 2)

	decl, ok := prog.Stmts[0].(*VarDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	lit, ok := decl.Init.(*LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, LitNumber, lit.Kind)
	assert.Equal(t, float64(1), lit.Number)

	ret, ok := prog.Stmts[1].(*ReturnStmt)
	require.True(t, ok)
	v, ok := ret.Value.(*VariableExpr)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
}

func TestDecodeIfStmtWithNilElse(t *testing.T) {
	src := `{
		"type": "IfStmt",
		"cond": {"type": "BoolLit", "bool": true},
		"then": {"type": "BlockStmt", "stmts": []},
		"else": null
	}`
	s, err := DecodeStmt([]byte(src))
	require.NoError(t, err)
	ifs, ok := s.(*IfStmt)
	require.True(t, ok)
	assert.Nil(t, ifs.Else)
}

func TestDecodeBinaryExprNestsRecursively(t *testing.T) {
	src := `{
		"type": "BinaryExpr",
		"op": "+",
		"left": {"type": "NumberLit", "number": 1},
		"right": {"type": "BinaryExpr", "op": "*", "left": {"type": "NumberLit", "number": 2}, "right": {"type": "NumberLit", "number": 3}}
	}`
	e, err := DecodeExpr([]byte(src))
	require.NoError(t, err)
	bin, ok := e.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpAdd, bin.Op)
	rightBin, ok := bin.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpMul, rightBin.Op)
}

func TestDecodeArrowFunctionExprRequiresBlockBody(t *testing.T) {
	src := `{"type": "ArrowFunctionExpr", "params": ["a"], "body": {"type": "ReturnStmt", "value": null}}`
	_, err := DecodeExpr([]byte(src))
	assert.Error(t, err, "a non-BlockStmt body must be rejected")
}

func TestDecodeExprUnknownTypeErrors(t *testing.T) {
	_, err := DecodeExpr([]byte(`{"type": "NotARealExpr"}`))
	assert.Error(t, err)
}

func TestDecodeExprNullReturnsNilWithoutError(t *testing.T) {
	e, err := DecodeExpr(nil)
	require.NoError(t, err)
	assert.Nil(t, e)

	e2, err := DecodeExpr([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, e2)
}

func TestDecodeObjectExprProps(t *testing.T) {
	src := `{
		"type": "ObjectExpr",
		"props": [
			{"key": "a", "value": {"type": "NumberLit", "number": 1}},
			{"key": "b", "value": {"type": "StringLit", "str": "hi"}}
		]
	}`
	e, err := DecodeExpr([]byte(src))
	require.NoError(t, err)
	obj, ok := e.(*ObjectExpr)
	require.True(t, ok)
	require.Len(t, obj.Props, 2)
	assert.Equal(t, "a", obj.Props[0].Key)
	assert.Equal(t, "b", obj.Props[1].Key)
}

func TestPosPacksLineAndColumn(t *testing.T) {
	p := NewPos(12, 34)
	assert.Equal(t, 12, p.Line())
	assert.Equal(t, 34, p.Column())
	assert.True(t, p.Valid())
	assert.False(t, Pos(0).Valid())
}

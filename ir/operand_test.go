package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperandClassification(t *testing.T) {
	cases := []struct {
		op        Operand
		isNumber  bool
		isString  bool
		isBool    bool
		isNull    bool
		isUndef   bool
		isLiteral bool
	}{
		{"3.14", true, false, false, false, false, true},
		{"-2", true, false, false, false, false, true},
		{`"hello"`, false, true, false, false, false, true},
		{"true", false, false, true, false, false, true},
		{"false", false, false, true, false, false, true},
		{"null", false, false, false, true, false, true},
		{"undefined", false, false, false, false, true, true},
		{"x", false, false, false, false, false, false},
		{"tmp_3", false, false, false, false, false, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.isNumber, c.op.IsNumber(), "IsNumber(%q)", c.op)
		assert.Equal(t, c.isString, c.op.IsStringLiteral(), "IsStringLiteral(%q)", c.op)
		assert.Equal(t, c.isBool, c.op.IsBool(), "IsBool(%q)", c.op)
		assert.Equal(t, c.isNull, c.op.IsNull(), "IsNull(%q)", c.op)
		assert.Equal(t, c.isUndef, c.op.IsUndefined(), "IsUndefined(%q)", c.op)
		assert.Equal(t, c.isLiteral, c.op.IsLiteral(), "IsLiteral(%q)", c.op)
		assert.Equal(t, !c.isLiteral, c.op.IsVariable(), "IsVariable(%q)", c.op)
	}
}

func TestOperandVar(t *testing.T) {
	v, ok := Operand("x").Var()
	assert.True(t, ok)
	assert.Equal(t, Var("x"), v)

	_, ok = Operand("3").Var()
	assert.False(t, ok)
}

func TestOperandUnquotedSyntheticNamesAreVariables(t *testing.T) {
	// array_literal without quotes would be misclassified as a variable,
	// this is exactly the bug found and fixed in cfgbuild: the builder must
	// emit the quoted spelling to get a literal instead.
	assert.True(t, Operand("array_literal").IsVariable())
	assert.True(t, Operand(`"array_literal"`).IsStringLiteral())
}

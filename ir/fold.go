package ir

import "strconv"

// FoldBinary evaluates op over two literal operands at compile time, used
// by both the constant-propagation analysis and the constant-folding
// transform (spec.md §4.F, §4.G). ok is false when either operand is not a
// literal, or the combination isn't one this module folds (e.g. string
// arithmetic beyond "+" concatenation); the caller treats that as NAC.
func FoldBinary(op Operator, a, b Operand) (Operand, bool) {
	if op == Add {
		if sa, sb, ok := bothStrings(a, b); ok {
			return quoteString(sa + sb), true
		}
	}
	if op == Eq || op == Ne {
		if res, ok := foldEquality(op, a, b); ok {
			return res, true
		}
	}
	na, aok := a.NumberValue()
	nb, bok := b.NumberValue()
	if aok && bok {
		if res, ok := foldNumeric(op, na, nb); ok {
			return res, true
		}
	}
	ba, aok := a.BoolValue()
	bb, bok := b.BoolValue()
	if aok && bok {
		if res, ok := foldBoolean(op, ba, bb); ok {
			return res, true
		}
	}
	return "", false
}

// FoldUnary evaluates op over a single literal operand.
func FoldUnary(op Operator, a Operand) (Operand, bool) {
	switch op {
	case Neg:
		if n, ok := a.NumberValue(); ok {
			return quoteNumber(-n), true
		}
	case Not:
		if b, ok := a.BoolValue(); ok {
			return quoteBool(!b), true
		}
	}
	return "", false
}

func bothStrings(a, b Operand) (string, string, bool) {
	sa, aok := a.StringValue()
	sb, bok := b.StringValue()
	if aok && bok {
		return sa, sb, true
	}
	return "", "", false
}

func foldEquality(op Operator, a, b Operand) (Operand, bool) {
	if !a.IsLiteral() || !b.IsLiteral() {
		return "", false
	}
	eq := a == b
	if op == Ne {
		eq = !eq
	}
	return quoteBool(eq), true
}

func foldNumeric(op Operator, a, b float64) (Operand, bool) {
	switch op {
	case Add:
		return quoteNumber(a + b), true
	case Sub:
		return quoteNumber(a - b), true
	case Mul:
		return quoteNumber(a * b), true
	case Div:
		if b == 0 {
			return "", false
		}
		return quoteNumber(a / b), true
	case Lt:
		return quoteBool(a < b), true
	case Le:
		return quoteBool(a <= b), true
	case Gt:
		return quoteBool(a > b), true
	case Ge:
		return quoteBool(a >= b), true
	}
	return "", false
}

func foldBoolean(op Operator, a, b bool) (Operand, bool) {
	switch op {
	case And:
		return quoteBool(a && b), true
	case Or:
		return quoteBool(a || b), true
	}
	return "", false
}

func quoteNumber(n float64) Operand {
	return Operand(strconv.FormatFloat(n, 'f', -1, 64))
}

func quoteBool(b bool) Operand {
	return Operand(strconv.FormatBool(b))
}

func quoteString(s string) Operand {
	return Operand(`"` + s + `"`)
}

package main

// simplify rewrites an analyzed expression into a simpler equivalent:
// operators whose operands are all literals are folded into a single
// literal. The caller must store the returned node in place of the one
// it passed. Folding is idempotent, and anything it cannot prove safe
// (division by zero, negative shift counts) is left for the runtime.
func simplify(e *Expression) *Expression {
	switch e.Kind {
	case UnaryExpr:
		e.Lhs = simplify(e.Lhs)
		return foldUnary(e)
	case BinaryExpr:
		e.Lhs = simplify(e.Lhs)
		e.Rhs = simplify(e.Rhs)
		return foldBinary(e)
	case AssignExpr:
		e.Lhs = simplify(e.Lhs)
		e.Rhs = simplify(e.Rhs)
		return e
	case TernaryExpr:
		e.Cond = simplify(e.Cond)
		e.Lhs = simplify(e.Lhs)
		e.Rhs = simplify(e.Rhs)
		if e.Cond.Kind == IntExpr {
			if e.Cond.Int != 0 {
				return e.Lhs
			}
			return e.Rhs
		}
		return e
	case CallExpr:
		for i := range e.Args {
			e.Args[i] = simplify(e.Args[i])
		}
		return e
	case MemberExpr:
		e.Lhs = simplify(e.Lhs)
		return e
	default:
		return e
	}
}

func foldedInt(v int64) *Expression {
	e := newExpr(IntExpr)
	e.Int = v
	e.ValueType = intType
	return e
}

func foldedFloat(v float64) *Expression {
	e := newExpr(FloatExpr)
	e.Float = v
	e.ValueType = floatType
	return e
}

func foldedString(s string) *Expression {
	e := newExpr(StringExpr)
	e.Str = s
	e.ValueType = stringType
	return e
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func foldUnary(e *Expression) *Expression {
	operand := e.Lhs
	switch e.Op {
	case MINUS:
		if operand.Kind == IntExpr {
			return foldedInt(-operand.Int)
		}
		if operand.Kind == FloatExpr {
			return foldedFloat(-operand.Float)
		}
	case BANG:
		if operand.Kind == IntExpr {
			return foldedInt(boolToInt(operand.Int == 0))
		}
	case TILDE:
		if operand.Kind == IntExpr {
			return foldedInt(^operand.Int)
		}
	}
	return e
}

func foldBinary(e *Expression) *Expression {
	l, r := e.Lhs, e.Rhs
	switch {
	case l.Kind == IntExpr && r.Kind == IntExpr:
		return foldIntBinary(e, l.Int, r.Int)
	case l.Kind == StringExpr && r.Kind == StringExpr:
		return foldStringBinary(e, l.Str, r.Str)
	case (l.Kind == IntExpr || l.Kind == FloatExpr) && (r.Kind == IntExpr || r.Kind == FloatExpr):
		return foldFloatBinary(e, floatValue(l), floatValue(r))
	}
	return e
}

func floatValue(e *Expression) float64 {
	if e.Kind == IntExpr {
		return float64(e.Int)
	}
	return e.Float
}

func foldIntBinary(e *Expression, l, r int64) *Expression {
	switch e.Op {
	case PLUS:
		return foldedInt(l + r)
	case MINUS:
		return foldedInt(l - r)
	case ASTERISK:
		return foldedInt(l * r)
	case SLASH:
		if r == 0 {
			return e
		}
		return foldedInt(l / r)
	case PERCENT:
		if r == 0 {
			return e
		}
		return foldedInt(l % r)
	case SHL:
		if r < 0 {
			return e
		}
		return foldedInt(l << uint64(r))
	case SHR:
		if r < 0 {
			return e
		}
		return foldedInt(l >> uint64(r))
	case BIT_AND:
		return foldedInt(l & r)
	case BIT_OR:
		return foldedInt(l | r)
	case XOR:
		return foldedInt(l ^ r)
	case AND:
		return foldedInt(boolToInt(l != 0 && r != 0))
	case OR:
		return foldedInt(boolToInt(l != 0 || r != 0))
	case EQ:
		return foldedInt(boolToInt(l == r))
	case NOT_EQ:
		return foldedInt(boolToInt(l != r))
	case LT:
		return foldedInt(boolToInt(l < r))
	case GT:
		return foldedInt(boolToInt(l > r))
	case LE:
		return foldedInt(boolToInt(l <= r))
	case GE:
		return foldedInt(boolToInt(l >= r))
	}
	return e
}

// foldFloatBinary handles float pairs and mixed int/float pairs; the
// integer side is promoted before folding, matching the runtime's
// behavior for mixed arithmetic.
func foldFloatBinary(e *Expression, l, r float64) *Expression {
	switch e.Op {
	case PLUS:
		return foldedFloat(l + r)
	case MINUS:
		return foldedFloat(l - r)
	case ASTERISK:
		return foldedFloat(l * r)
	case SLASH:
		if r == 0 {
			return e
		}
		return foldedFloat(l / r)
	case EQ:
		return foldedInt(boolToInt(l == r))
	case NOT_EQ:
		return foldedInt(boolToInt(l != r))
	case LT:
		return foldedInt(boolToInt(l < r))
	case GT:
		return foldedInt(boolToInt(l > r))
	case LE:
		return foldedInt(boolToInt(l <= r))
	case GE:
		return foldedInt(boolToInt(l >= r))
	}
	return e
}

func foldStringBinary(e *Expression, l, r string) *Expression {
	switch e.Op {
	case PLUS:
		return foldedString(l + r)
	case EQ:
		return foldedInt(boolToInt(l == r))
	case NOT_EQ:
		return foldedInt(boolToInt(l != r))
	}
	return e
}

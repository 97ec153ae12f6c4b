package main

import "fmt"

var (
	voidType   = TypeRef{Data: DataVoid, StructNo: -1}
	intType    = TypeRef{Data: DataInt, StructNo: -1}
	floatType  = TypeRef{Data: DataFloat, StructNo: -1}
	stringType = TypeRef{Data: DataString, StructNo: -1}
)

// deriveTypes computes the value type of an expression bottom-up,
// resolving identifiers through the scope chain and leaving resolution
// indices (variable, function, member) behind for code generation.
func deriveTypes(env *env, e *Expression) error {
	switch e.Kind {
	case IntExpr:
		e.ValueType = intType
	case FloatExpr:
		e.ValueType = floatType
	case StringExpr:
		e.ValueType = stringType
	case IdentExpr:
		return resolveIdent(env, e)
	case UnaryExpr:
		return deriveUnary(env, e)
	case BinaryExpr:
		return deriveBinary(env, e)
	case AssignExpr:
		return deriveAssign(env, e)
	case TernaryExpr:
		return deriveTernary(env, e)
	case CallExpr:
		return deriveCall(env, e)
	case MemberExpr:
		return deriveMember(env, e)
	default:
		panic("analyze: unknown expression kind: " + string(e.Kind))
	}
	return nil
}

// resolveIdent binds a name to the innermost local that declares it, or
// failing that to a global. Locals are searched newest-first so a
// redeclaration shadows within its own scope as well as across scopes.
func resolveIdent(env *env, e *Expression) error {
	enc, err := env.obj.encodeName(e.Name)
	if err != nil {
		return err
	}
	for scope := env; scope != nil; scope = scope.parent {
		for i := len(scope.locals) - 1; i >= 0; i-- {
			l := scope.locals[i]
			if l.v.Name == enc {
				e.Ref = l.v
				e.Global = false
				e.VarNo = l.no
				e.ValueType = l.v.Type
				return nil
			}
		}
	}
	if no, ok := env.obj.GlobalNo(e.Name); ok {
		g := env.obj.Globals[no]
		e.Ref = g
		e.Global = true
		e.VarNo = no
		e.ValueType = g.Type
		return nil
	}
	return fmt.Errorf("error: undefined variable '%s'", e.Name)
}

func deriveUnary(env *env, e *Expression) error {
	if err := deriveTypes(env, e.Lhs); err != nil {
		return err
	}
	t := e.Lhs.ValueType.Data
	switch e.Op {
	case MINUS:
		if t != DataInt && t != DataFloat {
			return fmt.Errorf("error: invalid operand type %s for unary '%s'", t, e.Op)
		}
		e.ValueType = e.Lhs.ValueType
	case BANG, TILDE:
		if t != DataInt {
			return fmt.Errorf("error: invalid operand type %s for unary '%s'", t, e.Op)
		}
		e.ValueType = intType
	default:
		panic("analyze: unknown unary operator: " + string(e.Op))
	}
	return nil
}

// numericPair reports the arithmetic result type of two operands: int
// with int stays int, any float operand promotes the result to float.
func numericPair(l, r DataType) (DataType, bool) {
	if l == DataInt && r == DataInt {
		return DataInt, true
	}
	if (l == DataInt || l == DataFloat) && (r == DataInt || r == DataFloat) {
		return DataFloat, true
	}
	return DataInvalid, false
}

func deriveBinary(env *env, e *Expression) error {
	if err := deriveTypes(env, e.Lhs); err != nil {
		return err
	}
	if err := deriveTypes(env, e.Rhs); err != nil {
		return err
	}
	lt := e.Lhs.ValueType.Data
	rt := e.Rhs.ValueType.Data
	switch e.Op {
	case PLUS:
		if lt == DataString && rt == DataString {
			e.ValueType = stringType
			return nil
		}
		if t, ok := numericPair(lt, rt); ok {
			e.ValueType = TypeRef{Data: t, StructNo: -1}
			return nil
		}
	case MINUS, ASTERISK, SLASH:
		if t, ok := numericPair(lt, rt); ok {
			e.ValueType = TypeRef{Data: t, StructNo: -1}
			return nil
		}
	case PERCENT, SHL, SHR, BIT_AND, BIT_OR, XOR, AND, OR:
		if lt == DataInt && rt == DataInt {
			e.ValueType = intType
			return nil
		}
	case EQ, NOT_EQ:
		if lt == DataString && rt == DataString {
			e.ValueType = intType
			return nil
		}
		if _, ok := numericPair(lt, rt); ok {
			e.ValueType = intType
			return nil
		}
	case LT, GT, LE, GE:
		if _, ok := numericPair(lt, rt); ok {
			e.ValueType = intType
			return nil
		}
	default:
		panic("analyze: unknown binary operator: " + string(e.Op))
	}
	return fmt.Errorf("error: invalid operand types %s and %s for '%s'", lt, rt, e.Op)
}

func deriveAssign(env *env, e *Expression) error {
	if err := deriveTypes(env, e.Lhs); err != nil {
		return err
	}
	if err := deriveTypes(env, e.Rhs); err != nil {
		return err
	}
	if e.Lhs.Kind != IdentExpr && e.Lhs.Kind != MemberExpr {
		return fmt.Errorf("error: left side of assignment is not assignable")
	}
	target := e.Lhs.ValueType
	if e.Op == ASSIGN {
		if err := checkType(e.Rhs, target); err != nil {
			return err
		}
		e.ValueType = target
		return nil
	}
	// Compound assignment types like the underlying binary operation,
	// and its result must still fit the target: int += float is an
	// error because the sum is float.
	lt := target.Data
	rt := e.Rhs.ValueType.Data
	var result DataType
	switch e.Op {
	case PLUS_ASSIGN:
		if lt == DataString && rt == DataString {
			result = DataString
			break
		}
		t, ok := numericPair(lt, rt)
		if !ok {
			return fmt.Errorf("error: invalid operand types %s and %s for '%s'", lt, rt, e.Op)
		}
		result = t
	case MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN:
		t, ok := numericPair(lt, rt)
		if !ok {
			return fmt.Errorf("error: invalid operand types %s and %s for '%s'", lt, rt, e.Op)
		}
		result = t
	case PERCENT_ASSIGN:
		if lt != DataInt || rt != DataInt {
			return fmt.Errorf("error: invalid operand types %s and %s for '%s'", lt, rt, e.Op)
		}
		result = DataInt
	default:
		panic("analyze: unknown assignment operator: " + string(e.Op))
	}
	if !assignable(TypeRef{Data: result, StructNo: -1}, target) {
		return fmt.Errorf("error: type mismatch: expected %s but got %s", lt, result)
	}
	e.ValueType = target
	return nil
}

func deriveTernary(env *env, e *Expression) error {
	if err := deriveTypes(env, e.Cond); err != nil {
		return err
	}
	if err := deriveTypes(env, e.Lhs); err != nil {
		return err
	}
	if err := deriveTypes(env, e.Rhs); err != nil {
		return err
	}
	if e.Cond.ValueType.Data != DataInt {
		return fmt.Errorf("error: condition of '?:' must be int, got %s", e.Cond.ValueType.Data)
	}
	lt := e.Lhs.ValueType
	rt := e.Rhs.ValueType
	if lt == rt {
		e.ValueType = lt
		return nil
	}
	if t, ok := numericPair(lt.Data, rt.Data); ok {
		e.ValueType = TypeRef{Data: t, StructNo: -1}
		return nil
	}
	return fmt.Errorf("error: mismatched types %s and %s in '?:'", lt.Data, rt.Data)
}

func deriveCall(env *env, e *Expression) error {
	for _, arg := range e.Args {
		if err := deriveTypes(env, arg); err != nil {
			return err
		}
	}
	no, ok := env.obj.FunctionNo(e.Name)
	if !ok {
		return fmt.Errorf("error: undefined function '%s'", e.Name)
	}
	f := env.obj.Functions[no]
	e.FuncNo = no
	if len(e.Args) != f.Args {
		return fmt.Errorf("error: function '%s' expects %d arguments but got %d", e.Name, f.Args, len(e.Args))
	}
	for i, arg := range e.Args {
		if !assignable(arg.ValueType, f.Vars[i].Type) {
			return fmt.Errorf("error: invalid argument type %s for parameter '%s' of function '%s'",
				arg.ValueType.Data, f.Vars[i].Name, e.Name)
		}
	}
	e.ValueType = f.ReturnType
	return nil
}

func deriveMember(env *env, e *Expression) error {
	if err := deriveTypes(env, e.Lhs); err != nil {
		return err
	}
	if e.Lhs.ValueType.Data != DataStruct {
		return fmt.Errorf("error: member access on non-struct type %s", e.Lhs.ValueType.Data)
	}
	s := env.obj.Structs[e.Lhs.ValueType.StructNo]
	enc, err := env.obj.encodeName(e.Name)
	if err != nil {
		return err
	}
	for i := range s.Members {
		if s.Members[i].Name == enc {
			e.MemberNo = i
			e.ValueType = s.Members[i].Type
			return nil
		}
	}
	return fmt.Errorf("error: struct '%s' has no member '%s'", s.Name, e.Name)
}

// assignable reports whether a value of type src can be stored into a
// slot of type dst. Integers widen to float; nothing narrows, and
// struct types must match exactly.
func assignable(src, dst TypeRef) bool {
	if src.Data == dst.Data {
		if src.Data == DataStruct {
			return src.StructNo == dst.StructNo
		}
		return true
	}
	return src.Data == DataInt && dst.Data == DataFloat
}

// checkType verifies that an analyzed expression can inhabit the target
// type, with the same widening rule as assignment.
func checkType(e *Expression, target TypeRef) error {
	if assignable(e.ValueType, target) {
		return nil
	}
	return fmt.Errorf("error: type mismatch: expected %s but got %s", target.Data, e.ValueType.Data)
}

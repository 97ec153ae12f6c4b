package main

import (
	"testing"

	"github.com/nalgeon/be"
)

// deriveSource analyzes a full unit and digs out the expression of the
// statement at path root.Items[itemNo] (descending into a function body
// when bodyNo >= 0).
func deriveSource(t *testing.T, inputStr string, itemNo, bodyNo int) *Expression {
	t.Helper()
	_, root := analyzeSource(t, inputStr)
	item := root.Items[itemNo]
	if bodyNo >= 0 {
		item = item.Decl.Body.Items[bodyNo]
	}
	return item.Expr
}

func TestCheckLiteralTypes(t *testing.T) {
	e := deriveSource(t, "int f() { return 42; }", 0, 0)
	be.Equal(t, e.ValueType, TypeRef{Data: DataInt, StructNo: -1})

	e = deriveSource(t, "float f() { return 2.5; }", 0, 0)
	be.Equal(t, e.ValueType, TypeRef{Data: DataFloat, StructNo: -1})

	e = deriveSource(t, "string f() { return \"hi\"; }", 0, 0)
	be.Equal(t, e.ValueType, TypeRef{Data: DataString, StructNo: -1})
}

func TestCheckArithmeticTypes(t *testing.T) {
	tests := []struct {
		input    string
		expected DataType
	}{
		{"int f(int a) { return a + 1; }", DataInt},
		{"float f(float a) { return a * 2.0; }", DataFloat},
		// Mixing int and float promotes to float.
		{"float f(float a) { return a + 1; }", DataFloat},
		{"float f(int a) { return a + 1.5; }", DataFloat},
		// Comparisons and logic always yield int.
		{"int f(float a) { return a < 2.5; }", DataInt},
		{"int f(string s) { return s == \"\"; }", DataInt},
		{"int f(int a) { return a && 1; }", DataInt},
		// String concatenation stays string.
		{"string f(string s) { return s + \"!\"; }", DataString},
	}

	for _, test := range tests {
		e := deriveSource(t, test.input, 0, 0)
		be.Equal(t, e.ValueType.Data, test.expected)
	}
}

func TestCheckAssignmentTypes(t *testing.T) {
	// An assignment takes the type of its target.
	e := deriveSource(t, "float g;\nvoid f() { g = 1; }", 1, 0)
	be.Equal(t, e.Kind, AssignExpr)
	be.Equal(t, e.ValueType.Data, DataFloat)

	e = deriveSource(t, "int g;\nvoid f() { g += 2; }", 1, 0)
	be.Equal(t, e.ValueType.Data, DataInt)
}

func TestCheckTernaryTypes(t *testing.T) {
	e := deriveSource(t, "int f(int c, int a, int b) { return c ? a : b; }", 0, 0)
	be.Equal(t, e.ValueType.Data, DataInt)

	// Mixed arms promote to float.
	e = deriveSource(t, "float f(int c, float a, int b) { return c ? a : b; }", 0, 0)
	be.Equal(t, e.ValueType.Data, DataFloat)
}

func TestCheckCallTypes(t *testing.T) {
	e := deriveSource(t, "float h() { return 0.5; }\nfloat f() { return h(); }", 1, 0)
	be.Equal(t, e.Kind, CallExpr)
	be.Equal(t, e.ValueType.Data, DataFloat)
}

func TestCheckStructTypes(t *testing.T) {
	input := `
		struct P { float len; };
		struct P p;
		float f() { return p.len; }
	`
	e := deriveSource(t, input, 2, 0)
	be.Equal(t, e.ValueType.Data, DataFloat)
	be.Equal(t, e.Lhs.ValueType, TypeRef{Data: DataStruct, StructNo: 0})
}

func TestCheckExpressionErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"int f() { return missing; }", "error: undefined variable 'missing'"},
		{"int f() { return \"a\" + 1; }", "error: invalid operand types string and int for '+'"},
		{"int f() { return 1.5 % 2.0; }", "error: invalid operand types float and float for '%'"},
		{"int f(float a) { return a | 1; }", "error: invalid operand types float and int for '|'"},
		{"int f(string s) { return s < \"a\"; }", "error: invalid operand types string and string for '<'"},
		{"int f(string s) { return -s; }", "error: invalid operand type string for unary '-'"},
		{"int f(float a) { return !a; }", "error: invalid operand type float for unary '!'"},
		{"int f(float c) { return c ? 1 : 2; }", "error: condition of '?:' must be int, got float"},
		{"int f(int c, string s) { return c ? s : 2; }", "error: mismatched types string and int in '?:'"},
		{"void f() { 5 = 3; }", "error: left side of assignment is not assignable"},
		{"int g;\nvoid f() { g = \"s\"; }", "error: type mismatch: expected int but got string"},
		{"int g;\nvoid f() { g = 1.5; }", "error: type mismatch: expected int but got float"},
		{"string g;\nvoid f() { g += 1; }", "error: invalid operand types string and int for '+='"},
		{"int g;\nvoid f() { g += 1.5; }", "error: type mismatch: expected int but got float"},
		{"int g;\nvoid f() { g %= 2.0; }", "error: invalid operand types int and float for '%='"},
		{"int f() { return missing(); }", "error: undefined function 'missing'"},
		{
			"int id(int a) { return a; }\nint f() { return id(); }",
			"error: function 'id' expects 1 arguments but got 0",
		},
		{
			"int id(int a) { return a; }\nint f() { return id(1, 2); }",
			"error: function 'id' expects 1 arguments but got 2",
		},
		{
			"int id(int a) { return a; }\nint f() { return id(\"s\"); }",
			"error: invalid argument type string for parameter 'a' of function 'id'",
		},
		{
			"int id(int a) { return a; }\nint f() { return id(1.5); }",
			"error: invalid argument type float for parameter 'a' of function 'id'",
		},
		{"int f(int a) { return a.x; }", "error: member access on non-struct type int"},
		{
			"struct P { int x; };\nstruct P p;\nint f() { return p.nope; }",
			"error: struct 'P' has no member 'nope'",
		},
	}

	for _, test := range tests {
		err := analyzeError(t, test.input)
		be.Equal(t, err.Error(), test.wantErr)
	}
}

package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func registerSource(t *testing.T, inputStr string) (*Object, *Block) {
	t.Helper()
	l := NewLexer([]byte(inputStr + "\x00"))
	l.NextToken()
	prog, err := ParseProgram(l)
	be.Err(t, err, nil)
	obj := NewObject(defaultObjectVersion)
	err = resolveTypes(obj, prog)
	be.Err(t, err, nil)
	err = registerDecls(obj, prog)
	be.Err(t, err, nil)
	return obj, prog
}

func registerError(t *testing.T, inputStr string) error {
	t.Helper()
	l := NewLexer([]byte(inputStr + "\x00"))
	l.NextToken()
	prog, err := ParseProgram(l)
	be.Err(t, err, nil)
	obj := NewObject(defaultObjectVersion)
	err = resolveTypes(obj, prog)
	be.Err(t, err, nil)
	return registerDecls(obj, prog)
}

func TestRegisterFunction(t *testing.T) {
	obj, prog := registerSource(t, "int f(int a, float b) { int c; return 0; }")

	be.Equal(t, len(obj.Functions), 1)
	fn := obj.Functions[0]
	be.Equal(t, fn.Name, "f")
	be.Equal(t, fn.ReturnType, TypeRef{Data: DataInt, StructNo: -1})
	be.Equal(t, fn.Args, 2)

	be.Equal(t, len(fn.Vars), 3)
	be.Equal(t, fn.Vars[0].Name, "a")
	be.Equal(t, fn.Vars[1].Name, "b")
	be.Equal(t, fn.Vars[2].Name, "c")
	be.Equal(t, fn.Vars[1].Type.Data, DataFloat)

	be.Equal(t, prog.Items[0].Decl.FuncNo, 0)
}

func TestRegisterVoidFunction(t *testing.T) {
	obj, _ := registerSource(t, "void f() {}")

	fn := obj.Functions[0]
	be.Equal(t, fn.ReturnType.Data, DataVoid)
	be.Equal(t, fn.Args, 0)
	be.Equal(t, len(fn.Vars), 0)
}

func TestRegisterFlattensNestedLocals(t *testing.T) {
	obj, _ := registerSource(t, `
		int f() {
			int a;
			{
				int b;
				{
					int c;
				}
			}
			int d;
			return 0;
		}
	`)

	fn := obj.Functions[0]
	be.Equal(t, len(fn.Vars), 4)
	be.Equal(t, fn.Vars[0].Name, "a")
	be.Equal(t, fn.Vars[1].Name, "b")
	be.Equal(t, fn.Vars[2].Name, "c")
	be.Equal(t, fn.Vars[3].Name, "d")
}

func TestRegisterCollectsControlFlowLocals(t *testing.T) {
	obj, _ := registerSource(t, `
		int f(int n) {
			for (int i = 0; i < n; i = i + 1) {
				int inner;
			}
			if (n) {
				int branch;
			}
			return 0;
		}
	`)

	fn := obj.Functions[0]
	be.Equal(t, len(fn.Vars), 4)
	be.Equal(t, fn.Vars[0].Name, "n")
	be.Equal(t, fn.Vars[1].Name, "i")
	be.Equal(t, fn.Vars[2].Name, "inner")
	be.Equal(t, fn.Vars[3].Name, "branch")
}

func TestRegisterAssignsVarNos(t *testing.T) {
	_, prog := registerSource(t, "int f(int a, int b) { int c; return 0; }")

	decl := prog.Items[0].Decl
	be.Equal(t, decl.Params.Items[0].Decl.VarNo, 0)
	be.Equal(t, decl.Params.Items[1].Decl.VarNo, 1)
	be.Equal(t, decl.Body.Items[0].Decl.VarNo, 2)
}

func TestRegisterGlobals(t *testing.T) {
	obj, prog := registerSource(t, "int x;\nfloat y;")

	be.Equal(t, len(obj.Globals), 2)
	be.Equal(t, obj.Globals[0].Name, "x")
	be.Equal(t, obj.Globals[0].Type.Data, DataInt)
	be.Equal(t, obj.Globals[1].Name, "y")
	be.Equal(t, obj.Globals[1].Type.Data, DataFloat)

	be.Equal(t, prog.Items[0].Decl.VarNo, 0)
	be.Equal(t, prog.Items[1].Decl.VarNo, 1)

	no, ok := obj.GlobalNo("y")
	be.True(t, ok)
	be.Equal(t, no, 1)
}

func TestRegisterStructGlobal(t *testing.T) {
	obj, _ := registerSource(t, "struct P { int a; };\nstruct P p;")

	be.Equal(t, len(obj.Globals), 1)
	be.Equal(t, obj.Globals[0].Type, TypeRef{Data: DataStruct, StructNo: 0})
}

func TestRegisterSkipsTypedefs(t *testing.T) {
	obj, _ := registerSource(t, "struct P { int a; };\ntypedef struct P Q;")

	be.Equal(t, len(obj.Globals), 0)
	be.Equal(t, len(obj.Functions), 0)
}

func TestRegisterDuplicateFunctionKeepsFirst(t *testing.T) {
	obj, _ := registerSource(t, "int f() { return 1; }\nint f() { return 2; }")

	be.Equal(t, len(obj.Functions), 2)
	no, ok := obj.FunctionNo("f")
	be.True(t, ok)
	be.Equal(t, no, 0)
}

func TestRegisterNestedFunctionError(t *testing.T) {
	err := registerError(t, "int outer() { int inner() { return 1; } return 0; }")
	be.Equal(t, err.Error(), "error: nested functions are not supported")
}

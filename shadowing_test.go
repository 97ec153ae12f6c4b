package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestBlockShadowing(t *testing.T) {
	source := `
		int x;
		int f() {
			int x;
			{
				int x;
				x = 1;
			}
			x = 2;
			return x;
		}
	`
	obj, root := analyzeSource(t, source)

	fn := obj.Functions[0]
	be.Equal(t, len(fn.Vars), 2)
	be.Equal(t, fn.Vars[0].Name, "x")
	be.Equal(t, fn.Vars[1].Name, "x")

	body := root.Items[1].Decl.Body

	// The inner block assigns the inner slot.
	inner := body.Items[1].Block.Items[1].Expr
	be.Equal(t, inner.Lhs.Global, false)
	be.Equal(t, inner.Lhs.VarNo, 1)

	// After the block the outer local is visible again.
	outer := body.Items[2].Expr
	be.Equal(t, outer.Lhs.Global, false)
	be.Equal(t, outer.Lhs.VarNo, 0)

	ret := body.Items[3].Expr
	be.Equal(t, ret.VarNo, 0)
}

func TestParameterShadowing(t *testing.T) {
	source := `
		int f(int x) {
			{
				int x;
				x = 99;
			}
			return x;
		}
	`
	obj, root := analyzeSource(t, source)

	fn := obj.Functions[0]
	be.Equal(t, len(fn.Vars), 2)

	body := root.Items[0].Decl.Body

	inner := body.Items[0].Block.Items[1].Expr
	be.Equal(t, inner.Lhs.VarNo, 1)

	ret := body.Items[1].Expr
	be.Equal(t, ret.VarNo, 0)
}

func TestForScopeShadowing(t *testing.T) {
	source := `
		int f(int i) {
			for (int i = 0; i < 3; i = i + 1) {
			}
			return i;
		}
	`
	_, root := analyzeSource(t, source)

	body := root.Items[0].Decl.Body

	// The loop clauses see the loop's own variable.
	loop := body.Items[0]
	be.Equal(t, loop.Test.Lhs.VarNo, 1)
	be.Equal(t, loop.After.Lhs.VarNo, 1)

	// After the loop the parameter is back in scope.
	ret := body.Items[1].Expr
	be.Equal(t, ret.VarNo, 0)
}

func TestShadowingGlobals(t *testing.T) {
	source := `
		int x;
		void f() {
			x = 1;
			{
				int x;
				x = 2;
			}
			x = 3;
		}
	`
	_, root := analyzeSource(t, source)

	body := root.Items[1].Decl.Body

	first := body.Items[0].Expr
	be.Equal(t, first.Lhs.Global, true)
	be.Equal(t, first.Lhs.VarNo, 0)

	inner := body.Items[1].Block.Items[1].Expr
	be.Equal(t, inner.Lhs.Global, false)
	be.Equal(t, inner.Lhs.VarNo, 0)

	// Leaving the block restores the global.
	last := body.Items[2].Expr
	be.Equal(t, last.Lhs.Global, true)
	be.Equal(t, last.Lhs.VarNo, 0)
}

func TestNewestDeclarationWinsWithinScope(t *testing.T) {
	// Two declarations of one name in one scope are allowed; references
	// bind to the newest slot.
	source := `
		int f() {
			int x;
			int x;
			return x;
		}
	`
	obj, root := analyzeSource(t, source)

	fn := obj.Functions[0]
	be.Equal(t, len(fn.Vars), 2)

	ret := root.Items[0].Decl.Body.Items[2].Expr
	be.Equal(t, ret.VarNo, 1)
}

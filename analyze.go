package main

import "fmt"

// env is one lexical scope during analysis. Scopes chain through
// parent; the enclosing function's identity rides along unchanged so
// statements deep in a body can type their returns. env doubles as the
// walk visitor for pass 3.
type env struct {
	obj    *Object
	parent *env
	funcNo int
	fn     *Declaration
	locals []localVar
}

// localVar pairs an in-scope variable with its slot in the enclosing
// function's variable table.
type localVar struct {
	no int
	v  *Variable
}

func (e *env) enterScope() visitor {
	return &env{obj: e.obj, parent: e, funcNo: e.funcNo, fn: e.fn}
}

func (e *env) expr(slot **Expression) error {
	return analyzeExpression(e, slot)
}

// analyzeExpression types and folds the expression in slot, storing the
// folded replacement back. A nil slot is an absent optional expression,
// such as an omitted for-loop condition.
func analyzeExpression(e *env, slot **Expression) error {
	if *slot == nil {
		return nil
	}
	if err := deriveTypes(e, *slot); err != nil {
		return err
	}
	*slot = simplify(*slot)
	return nil
}

func (e *env) decl(item *BlockItem) error {
	decl := item.Decl
	if decl.Name == "" || decl.Typedef {
		return nil
	}
	if e.parent != nil {
		return e.localDecl(decl)
	}
	return e.globalDecl(decl)
}

// localDecl brings a body declaration into scope. Storage was already
// assigned by registration, which flattened the body in this same
// order; a mismatch between the two traversals is a compiler bug, not
// a user error.
func (e *env) localDecl(decl *Declaration) error {
	if e.funcNo < 0 {
		return fmt.Errorf("error: declaration of '%s' requires an enclosing function", decl.Name)
	}
	fn := e.obj.Functions[e.funcNo]
	if decl.VarNo < 0 || decl.VarNo >= len(fn.Vars) {
		panic(fmt.Sprintf("analyze: variable '%s' has no storage in function '%s'", decl.Name, fn.Name))
	}
	v := &fn.Vars[decl.VarNo]
	enc, err := e.obj.encodeName(decl.Name)
	if err != nil {
		return err
	}
	if v.Name != enc {
		panic(fmt.Sprintf("analyze: variable table desync in function '%s': slot %d holds '%s', expected '%s'",
			fn.Name, decl.VarNo, v.Name, enc))
	}
	e.locals = append(e.locals, localVar{no: decl.VarNo, v: v})
	return nil
}

// globalDecl analyzes a global's initializer and records the resulting
// constant. Globals without initializers were fully handled by
// registration.
func (e *env) globalDecl(decl *Declaration) error {
	if decl.Init == nil {
		return nil
	}
	if decl.VarNo < 0 {
		panic("analyze: global '" + decl.Name + "' was never registered")
	}
	if err := analyzeExpression(e, &decl.Init); err != nil {
		return err
	}
	tr, err := typeRef(decl.Type)
	if err != nil {
		return err
	}
	if err := checkType(decl.Init, tr); err != nil {
		return err
	}
	iv, err := toInitVal(decl, tr)
	if err != nil {
		return err
	}
	e.obj.AddInitVal(iv)
	return nil
}

// toInitVal materializes a folded initializer as an object initial
// value. The declared type drives literal coercion: an integer literal
// initializing a float global is stored as the float it widens to.
func toInitVal(decl *Declaration, target TypeRef) (InitVal, error) {
	iv := InitVal{GlobalNo: decl.VarNo}
	switch decl.Init.Kind {
	case IntExpr:
		if target.Data == DataFloat {
			iv.Type = DataFloat
			iv.Float = float64(decl.Init.Int)
			return iv, nil
		}
		iv.Type = DataInt
		iv.Int = decl.Init.Int
		return iv, nil
	case FloatExpr:
		iv.Type = DataFloat
		iv.Float = decl.Init.Float
		return iv, nil
	case StringExpr:
		iv.Type = DataString
		iv.Str = decl.Init.Str
		return iv, nil
	default:
		return InitVal{}, fmt.Errorf("error: initial value of global '%s' is not constant", decl.Name)
	}
}

func (e *env) funcDecl(item *BlockItem) error {
	decl := item.Decl
	if decl.FuncNo < 0 {
		// Registration only visits the top level, so a function that
		// reaches analysis without a number sits inside a block.
		return fmt.Errorf("error: nested functions are not supported")
	}
	fn := e.obj.Functions[decl.FuncNo]
	funenv := &env{obj: e.obj, parent: e, funcNo: decl.FuncNo, fn: decl}
	funenv.locals = make([]localVar, 0, fn.Args)
	for i := 0; i < fn.Args; i++ {
		funenv.locals = append(funenv.locals, localVar{no: i, v: &fn.Vars[i]})
	}
	return walkBlock(decl.Body, funenv)
}

func (e *env) returnStmt(item *BlockItem) error {
	if e.fn == nil {
		return fmt.Errorf("error: return outside of function")
	}
	want := e.obj.Functions[e.funcNo].ReturnType
	if item.Expr == nil {
		if want.Data == DataVoid {
			return nil
		}
		return fmt.Errorf("error: return with no value in function returning %s", want.Data)
	}
	if want.Data == DataVoid {
		return fmt.Errorf("error: return with a value in function returning void")
	}
	return checkType(item.Expr, want)
}

// AnalyzeProgram runs semantic analysis over a parsed translation
// unit: type resolution, declaration registration, then scope-aware
// type derivation with constant folding. The tree is rewritten in
// place and returned; obj accumulates the structs, functions, globals
// and initial values the code generator consumes. The first error
// aborts analysis, leaving obj in a partial state the caller should
// discard.
func AnalyzeProgram(obj *Object, prog *Block) (*Block, error) {
	if err := resolveTypes(obj, prog); err != nil {
		return nil, err
	}
	if err := registerDecls(obj, prog); err != nil {
		return nil, err
	}
	genv := &env{obj: obj, funcNo: -1}
	if err := walkBlock(prog, genv); err != nil {
		return nil, err
	}
	return prog, nil
}

package main

import "fmt"

// registerDecls is pass 2: a non-recursive walk of the top level that
// interns functions and globals. Function variable tables are built
// here, parameters first, then every body declaration in the order the
// analysis pass will encounter them.
func registerDecls(obj *Object, root *Block) error {
	for _, item := range root.Items {
		switch item.Kind {
		case FuncDeclItem:
			if err := addFunction(obj, item.Decl); err != nil {
				return err
			}
		case DeclItem:
			if item.Decl.Name == "" || item.Decl.Typedef {
				continue
			}
			if err := addGlobal(obj, item.Decl); err != nil {
				return err
			}
		}
	}
	return nil
}

func addFunction(obj *Object, decl *Declaration) error {
	ret, err := typeRef(decl.Type)
	if err != nil {
		return err
	}
	f := &Function{Name: decl.Name, ReturnType: ret}
	if err := functionInitVars(obj, f, decl); err != nil {
		return err
	}
	no, err := obj.AddFunction(f)
	if err != nil {
		return err
	}
	decl.FuncNo = no
	return nil
}

func functionInitVars(obj *Object, f *Function, decl *Declaration) error {
	if decl.Params != nil {
		f.Args = len(decl.Params.Items)
	}
	f.Vars = make([]Variable, 0, f.Args)
	for i := 0; i < f.Args; i++ {
		item := decl.Params.Items[i]
		if item.Kind != DeclItem || item.Decl.Name == "" {
			panic("register: malformed parameter in function '" + decl.Name + "'")
		}
		v, err := initVariable(obj, item.Decl, i)
		if err != nil {
			return err
		}
		f.Vars = append(f.Vars, v)
	}
	c := &varCollector{obj: obj, fn: f}
	return walkBlock(decl.Body, c)
}

// initVariable builds a variable-table entry and stamps the declaration
// with its assigned index.
func initVariable(obj *Object, decl *Declaration, varNo int) (Variable, error) {
	name, err := obj.encodeName(decl.Name)
	if err != nil {
		return Variable{}, err
	}
	tr, err := typeRef(decl.Type)
	if err != nil {
		return Variable{}, err
	}
	decl.VarNo = varNo
	return Variable{Name: name, Type: tr}, nil
}

func addGlobal(obj *Object, decl *Declaration) error {
	v, no, err := obj.AddGlobal(decl.Name)
	if err != nil {
		return err
	}
	tr, err := typeRef(decl.Type)
	if err != nil {
		return err
	}
	v.Type = tr
	decl.VarNo = no
	return nil
}

// varCollector flattens every named declaration in a function body into
// the function's variable table. Lexical nesting is ignored here; the
// analysis pass reconstructs visibility from the same traversal order.
type varCollector struct {
	obj *Object
	fn  *Function
}

func (c *varCollector) enterScope() visitor              { return c }
func (c *varCollector) expr(slot **Expression) error     { return nil }
func (c *varCollector) returnStmt(item *BlockItem) error { return nil }

func (c *varCollector) funcDecl(item *BlockItem) error {
	return fmt.Errorf("error: nested functions are not supported")
}

func (c *varCollector) decl(item *BlockItem) error {
	if item.Decl.Name == "" || item.Decl.Typedef {
		return nil
	}
	v, err := initVariable(c.obj, item.Decl, len(c.fn.Vars))
	if err != nil {
		return err
	}
	c.fn.Vars = append(c.fn.Vars, v)
	return nil
}

package main

import "fmt"

// typeResolver is pass 1. A define walk interns every inline structure
// definition so indices exist before any reference resolves; a resolve
// walk then rewrites type names to structure indices and populates member
// lists. Typedef aliases live here rather than in the object: downstream
// consumers only ever see resolved indices.
type typeResolver struct {
	obj     *Object
	aliases map[string]int
}

func resolveTypes(obj *Object, root *Block) error {
	r := &typeResolver{obj: obj, aliases: map[string]int{}}
	if err := walkBlock(root, structDefiner{r}); err != nil {
		return err
	}
	return walkBlock(root, typeWalker{r})
}

// ===== DEFINE WALK =====

type structDefiner struct{ r *typeResolver }

func (d structDefiner) enterScope() visitor              { return d }
func (d structDefiner) expr(slot **Expression) error     { return nil }
func (d structDefiner) returnStmt(item *BlockItem) error { return nil }

func (d structDefiner) decl(item *BlockItem) error {
	return d.r.defineType(item.Decl.Type)
}

func (d structDefiner) funcDecl(item *BlockItem) error {
	if err := d.r.defineType(item.Decl.Type); err != nil {
		return err
	}
	if err := walkBlock(item.Decl.Params, d); err != nil {
		return err
	}
	return walkBlock(item.Decl.Body, d)
}

func (r *typeResolver) defineType(ts *TypeSpecifier) error {
	if ts == nil {
		panic("resolve: declaration with no type")
	}
	if ts.Kind != SpecStruct || ts.Def == nil {
		return nil
	}
	return r.defineStruct(ts)
}

// defineStruct interns a defined structure and validates its member
// block. Nested inline definitions are interned after their container.
func (r *typeResolver) defineStruct(ts *TypeSpecifier) error {
	if ts.Name == "" {
		return fmt.Errorf("error: anonymous structs are not supported")
	}
	if r.obj.HasStruct(ts.Name) {
		return fmt.Errorf("error: redefinition of struct '%s'", ts.Name)
	}
	no, err := r.obj.AddStruct(ts.Name)
	if err != nil {
		return err
	}
	ts.StructNo = no

	for _, item := range ts.Def.Items {
		if item.Kind != DeclItem || item.Decl.Name == "" || item.Decl.Typedef {
			return fmt.Errorf("error: invalid member in struct '%s'", ts.Name)
		}
		if item.Decl.Init != nil {
			return fmt.Errorf("error: struct member '%s' cannot have an initializer", item.Decl.Name)
		}
		if err := r.defineType(item.Decl.Type); err != nil {
			return err
		}
	}
	return nil
}

// ===== RESOLVE WALK =====

type typeWalker struct{ r *typeResolver }

func (w typeWalker) enterScope() visitor              { return w }
func (w typeWalker) expr(slot **Expression) error     { return nil }
func (w typeWalker) returnStmt(item *BlockItem) error { return nil }

func (w typeWalker) decl(item *BlockItem) error {
	decl := item.Decl
	if err := w.r.resolveType(decl.Type); err != nil {
		return err
	}
	if decl.Typedef {
		return w.r.registerAlias(decl)
	}
	return nil
}

func (w typeWalker) funcDecl(item *BlockItem) error {
	if err := w.r.resolveType(item.Decl.Type); err != nil {
		return err
	}
	if err := walkBlock(item.Decl.Params, w); err != nil {
		return err
	}
	return walkBlock(item.Decl.Body, w)
}

func (r *typeResolver) resolveType(ts *TypeSpecifier) error {
	switch ts.Kind {
	case SpecTypedef:
		no, ok := r.lookupStructName(ts.Name)
		if !ok {
			return fmt.Errorf("error: failed to resolve typedef '%s'", ts.Name)
		}
		ts.Kind = SpecStruct
		ts.StructNo = no
		return nil
	case SpecStruct:
		if ts.Def != nil {
			return r.resolveStruct(ts)
		}
		if ts.StructNo >= 0 {
			return nil
		}
		no, ok := r.lookupStructName(ts.Name)
		if !ok {
			return fmt.Errorf("error: failed to resolve struct '%s'", ts.Name)
		}
		ts.StructNo = no
		return nil
	default:
		return nil
	}
}

// resolveStruct fills in the member list of a structure interned by the
// define walk. Members of nested definitions are filled in recursively.
func (r *typeResolver) resolveStruct(ts *TypeSpecifier) error {
	if ts.StructNo < 0 || ts.StructNo >= len(r.obj.Structs) {
		panic("resolve: struct '" + ts.Name + "' was not interned")
	}
	members := make([]Variable, 0, len(ts.Def.Items))
	for _, item := range ts.Def.Items {
		decl := item.Decl
		if err := r.resolveType(decl.Type); err != nil {
			return err
		}
		name, err := r.obj.encodeName(decl.Name)
		if err != nil {
			return err
		}
		tr, err := typeRef(decl.Type)
		if err != nil {
			return err
		}
		members = append(members, Variable{Name: name, Type: tr})
	}
	r.obj.Structs[ts.StructNo].Members = members
	return nil
}

// lookupStructName consults typedef aliases before the object's struct
// table.
func (r *typeResolver) lookupStructName(name string) (int, bool) {
	if no, ok := r.aliases[name]; ok {
		return no, true
	}
	return r.obj.StructNo(name)
}

func (r *typeResolver) registerAlias(decl *Declaration) error {
	if decl.Type.Kind != SpecStruct {
		return fmt.Errorf("error: typedef '%s' does not name a struct type", decl.Name)
	}
	if _, taken := r.lookupStructName(decl.Name); taken {
		return fmt.Errorf("error: redefinition of type name '%s'", decl.Name)
	}
	r.aliases[decl.Name] = decl.Type.StructNo
	return nil
}

// typeRef converts a resolved specifier to its object-model type.
func typeRef(ts *TypeSpecifier) (TypeRef, error) {
	switch ts.Kind {
	case SpecVoid:
		return TypeRef{Data: DataVoid, StructNo: -1}, nil
	case SpecInt:
		return TypeRef{Data: DataInt, StructNo: -1}, nil
	case SpecFloat:
		return TypeRef{Data: DataFloat, StructNo: -1}, nil
	case SpecString:
		return TypeRef{Data: DataString, StructNo: -1}, nil
	case SpecStruct:
		if ts.StructNo < 0 {
			panic("typeRef: unresolved struct '" + ts.Name + "'")
		}
		return TypeRef{Data: DataStruct, StructNo: ts.StructNo}, nil
	case SpecEnum:
		return TypeRef{}, fmt.Errorf("error: enums are not supported")
	default:
		return TypeRef{}, fmt.Errorf("error: unknown type '%s'", ts.Kind)
	}
}

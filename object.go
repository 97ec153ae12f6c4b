package main

import (
	"fmt"
	"strconv"
	"strings"
)

type DataType int

const (
	DataInvalid DataType = iota
	DataVoid
	DataInt
	DataFloat
	DataString
	DataStruct
)

func (d DataType) String() string {
	switch d {
	case DataVoid:
		return "void"
	case DataInt:
		return "int"
	case DataFloat:
		return "float"
	case DataString:
		return "string"
	case DataStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// TypeRef is a resolved type in the object model. StructNo is only
// meaningful when Data is DataStruct.
type TypeRef struct {
	Data     DataType
	StructNo int
}

type Variable struct {
	Name string
	Type TypeRef
}

type Struct struct {
	Name    string
	Members []Variable
}

// Function is a function record. The first Args entries of Vars are the
// parameters; the rest are body declarations in first-encounter order.
type Function struct {
	Name       string
	ReturnType TypeRef
	Args       int
	Vars       []Variable
}

// InitVal is the compile-time initial value of the global at GlobalNo.
type InitVal struct {
	GlobalNo int
	Type     DataType
	Int      int64
	Float    float64
	Str      string
}

// Object is the compilation output consumed by code generation: interned
// structures, functions, globals and global initial values, addressed by
// stable indices. Entries are append-only; an index handed out never
// moves.
type Object struct {
	Version   int
	Structs   []*Struct
	Functions []*Function
	Globals   []*Variable
	InitVals  []InitVal

	structNos map[string]int
	funcNos   map[string]int
	globalNos map[string]int
}

func NewObject(version int) *Object {
	return &Object{
		Version:   version,
		structNos: map[string]int{},
		funcNos:   map[string]int{},
		globalNos: map[string]int{},
	}
}

// AddStruct interns a new structure entry and returns its index. The
// member list is filled in afterwards by type resolution.
func (o *Object) AddStruct(name string) (int, error) {
	enc, err := o.encodeName(name)
	if err != nil {
		return -1, err
	}
	if _, ok := o.structNos[enc]; ok {
		return -1, fmt.Errorf("error: struct '%s' already defined", name)
	}
	no := len(o.Structs)
	o.Structs = append(o.Structs, &Struct{Name: enc})
	o.structNos[enc] = no
	return no, nil
}

func (o *Object) HasStruct(name string) bool {
	_, ok := o.StructNo(name)
	return ok
}

// StructNo looks up a structure index by source-spelled name.
func (o *Object) StructNo(name string) (int, bool) {
	enc, err := o.encodeName(name)
	if err != nil {
		return -1, false
	}
	no, ok := o.structNos[enc]
	if !ok {
		return -1, false
	}
	return no, true
}

// AddFunction appends a function record and returns its index. Duplicate
// names are allowed; name lookup finds the earliest entry.
func (o *Object) AddFunction(f *Function) (int, error) {
	enc, err := o.encodeName(f.Name)
	if err != nil {
		return -1, err
	}
	f.Name = enc
	no := len(o.Functions)
	o.Functions = append(o.Functions, f)
	if _, ok := o.funcNos[enc]; !ok {
		o.funcNos[enc] = no
	}
	return no, nil
}

func (o *Object) FunctionNo(name string) (int, bool) {
	enc, err := o.encodeName(name)
	if err != nil {
		return -1, false
	}
	no, ok := o.funcNos[enc]
	if !ok {
		return -1, false
	}
	return no, true
}

// AddGlobal appends a global variable entry and returns both the entry,
// for the caller to fill in its type, and the assigned index.
func (o *Object) AddGlobal(name string) (*Variable, int, error) {
	enc, err := o.encodeName(name)
	if err != nil {
		return nil, -1, err
	}
	v := &Variable{Name: enc}
	no := len(o.Globals)
	o.Globals = append(o.Globals, v)
	if _, ok := o.globalNos[enc]; !ok {
		o.globalNos[enc] = no
	}
	return v, no, nil
}

func (o *Object) GlobalNo(name string) (int, bool) {
	enc, err := o.encodeName(name)
	if err != nil {
		return -1, false
	}
	no, ok := o.globalNos[enc]
	if !ok {
		return -1, false
	}
	return no, true
}

func (o *Object) AddInitVal(iv InitVal) {
	o.InitVals = append(o.InitVals, iv)
}

// ===== S-EXPRESSION DUMPING =====

// ToSExpr renders the object tables for tests and verbose CLI output.
func (o *Object) ToSExpr() string {
	var sb strings.Builder
	sb.WriteString("(object (structs")
	for _, s := range o.Structs {
		sb.WriteString(" (struct " + s.Name + " (members")
		for _, m := range s.Members {
			sb.WriteString(" ")
			o.varSExpr(&sb, m)
		}
		sb.WriteString("))")
	}
	sb.WriteString(") (functions")
	for _, f := range o.Functions {
		sb.WriteString(" (func " + f.Name + " ")
		o.typeRefSExpr(&sb, f.ReturnType)
		sb.WriteString(" (args " + strconv.Itoa(f.Args) + ") (vars")
		for _, v := range f.Vars {
			sb.WriteString(" ")
			o.varSExpr(&sb, v)
		}
		sb.WriteString("))")
	}
	sb.WriteString(") (globals")
	for _, g := range o.Globals {
		sb.WriteString(" ")
		o.varSExpr(&sb, *g)
	}
	sb.WriteString(") (initvals")
	for _, iv := range o.InitVals {
		sb.WriteString(" (initval " + strconv.Itoa(iv.GlobalNo) + " ")
		switch iv.Type {
		case DataInt:
			sb.WriteString("(integer " + strconv.FormatInt(iv.Int, 10) + ")")
		case DataFloat:
			sb.WriteString("(float " + strconv.FormatFloat(iv.Float, 'g', -1, 64) + ")")
		case DataString:
			sb.WriteString("(string " + strconv.Quote(iv.Str) + ")")
		default:
			panic("object: initval with non-constant type " + iv.Type.String())
		}
		sb.WriteString(")")
	}
	sb.WriteString("))")
	return sb.String()
}

func (o *Object) varSExpr(sb *strings.Builder, v Variable) {
	sb.WriteString("(" + v.Name + " ")
	o.typeRefSExpr(sb, v.Type)
	sb.WriteString(")")
}

func (o *Object) typeRefSExpr(sb *strings.Builder, tr TypeRef) {
	if tr.Data == DataStruct {
		sb.WriteString("(struct " + o.Structs[tr.StructNo].Name + ")")
		return
	}
	sb.WriteString(tr.Data.String())
}

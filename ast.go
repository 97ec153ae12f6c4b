package main

import (
	"strconv"
	"strings"
)

// ItemKind tags BlockItem. One struct covers every statement and
// declaration form; which fields are meaningful depends on the kind.
type ItemKind string

const (
	DeclItem     ItemKind = "Decl"
	FuncDeclItem ItemKind = "FuncDecl"
	LabeledItem  ItemKind = "Labeled"
	CompoundItem ItemKind = "Compound"
	ExprStmtItem ItemKind = "ExprStmt"
	IfItem       ItemKind = "If"
	SwitchItem   ItemKind = "Switch"
	WhileItem    ItemKind = "While"
	DoWhileItem  ItemKind = "DoWhile"
	ForItem      ItemKind = "For"
	ReturnItem   ItemKind = "Return"
	CaseItem     ItemKind = "Case"
	DefaultItem  ItemKind = "Default"
	GotoItem     ItemKind = "Goto"
	ContinueItem ItemKind = "Continue"
	BreakItem    ItemKind = "Break"
)

type TypeKind string

const (
	SpecVoid    TypeKind = "void"
	SpecInt     TypeKind = "int"
	SpecFloat   TypeKind = "float"
	SpecString  TypeKind = "string"
	SpecStruct  TypeKind = "struct"
	SpecEnum    TypeKind = "enum"
	SpecTypedef TypeKind = "typedef"
)

type ExprKind string

const (
	IdentExpr   ExprKind = "Ident"
	IntExpr     ExprKind = "Integer"
	FloatExpr   ExprKind = "Float"
	StringExpr  ExprKind = "String"
	UnaryExpr   ExprKind = "Unary"
	BinaryExpr  ExprKind = "Binary"
	AssignExpr  ExprKind = "Assign"
	TernaryExpr ExprKind = "Ternary"
	CallExpr    ExprKind = "Call"
	MemberExpr  ExprKind = "Member"
)

// Block is an ordered sequence of declarations and statements. The whole
// translation unit is a Block, as is every brace-enclosed body.
type Block struct {
	Items []*BlockItem
}

// BlockItem is a single declaration or statement.
type BlockItem struct {
	Kind ItemKind

	Decl  *Declaration // DeclItem, FuncDeclItem
	Label string       // LabeledItem, GotoItem
	Stmt  *BlockItem   // LabeledItem, CaseItem, DefaultItem
	Block *Block       // CompoundItem, SwitchItem body, ForItem init clause
	Expr  *Expression  // ExprStmtItem, ReturnItem, SwitchItem, CaseItem value
	Test  *Expression  // IfItem, WhileItem, DoWhileItem, ForItem
	After *Expression  // ForItem increment
	Cons  *BlockItem   // IfItem consequent
	Alt   *BlockItem   // IfItem alternative, may be nil
	Body  *BlockItem   // WhileItem, DoWhileItem, ForItem
}

// TypeSpecifier is the syntactic spelling of a type. A Struct specifier may
// carry an inline member definition; StructNo stays -1 until type
// resolution assigns the structure's object index.
type TypeSpecifier struct {
	Kind     TypeKind
	Name     string
	Def      *Block
	StructNo int
}

// Declaration covers variables, globals, structure definitions, typedef
// aliases and functions. VarNo and FuncNo stay -1 until registration.
type Declaration struct {
	Name    string
	Type    *TypeSpecifier
	Init    *Expression
	Params  *Block // function parameters, each a DeclItem
	Body    *Block // function body
	Typedef bool
	VarNo   int
	FuncNo  int
}

// Expression is a single tagged node. Analysis fills ValueType and the
// resolution fields (Ref/Global/VarNo for identifiers, FuncNo for calls,
// MemberNo for member access).
type Expression struct {
	Kind ExprKind

	Int   int64
	Float float64
	Str   string

	Name string    // IdentExpr, MemberExpr field, CallExpr callee
	Op   TokenType // UnaryExpr, BinaryExpr, AssignExpr
	Lhs  *Expression
	Rhs  *Expression
	Cond *Expression   // TernaryExpr condition
	Args []*Expression // CallExpr

	ValueType TypeRef
	Ref       *Variable
	Global    bool
	VarNo     int
	FuncNo    int
	MemberNo  int
}

func newTypeSpec(kind TypeKind) *TypeSpecifier {
	return &TypeSpecifier{Kind: kind, StructNo: -1}
}

func newDeclaration(name string) *Declaration {
	return &Declaration{Name: name, VarNo: -1, FuncNo: -1}
}

func newExpr(kind ExprKind) *Expression {
	return &Expression{Kind: kind, VarNo: -1, FuncNo: -1, MemberNo: -1}
}

// ===== S-EXPRESSION DUMPING =====

// ToSExpr renders a block as an s-expression, for tests and the ast
// subcommand. The rendering is purely syntactic plus any folding already
// applied; resolved indices are not shown.
func ToSExpr(b *Block) string {
	var sb strings.Builder
	blockSExpr(&sb, b)
	return sb.String()
}

// ExprToSExpr renders a single expression.
func ExprToSExpr(e *Expression) string {
	var sb strings.Builder
	exprSExpr(&sb, e)
	return sb.String()
}

func blockSExpr(sb *strings.Builder, b *Block) {
	sb.WriteString("(block")
	if b != nil {
		for _, item := range b.Items {
			sb.WriteString(" ")
			itemSExpr(sb, item)
		}
	}
	sb.WriteString(")")
}

func itemSExpr(sb *strings.Builder, item *BlockItem) {
	if item == nil {
		sb.WriteString("()")
		return
	}
	switch item.Kind {
	case DeclItem:
		declSExpr(sb, item.Decl)
	case FuncDeclItem:
		sb.WriteString("(func ")
		typeSExpr(sb, item.Decl.Type)
		sb.WriteString(" " + item.Decl.Name + " (params")
		if item.Decl.Params != nil {
			for _, p := range item.Decl.Params.Items {
				sb.WriteString(" ")
				declSExpr(sb, p.Decl)
			}
		}
		sb.WriteString(") ")
		blockSExpr(sb, item.Decl.Body)
		sb.WriteString(")")
	case LabeledItem:
		sb.WriteString("(label " + item.Label + " ")
		itemSExpr(sb, item.Stmt)
		sb.WriteString(")")
	case CompoundItem:
		blockSExpr(sb, item.Block)
	case ExprStmtItem:
		sb.WriteString("(expr ")
		exprSExpr(sb, item.Expr)
		sb.WriteString(")")
	case IfItem:
		sb.WriteString("(if ")
		exprSExpr(sb, item.Test)
		sb.WriteString(" ")
		itemSExpr(sb, item.Cons)
		if item.Alt != nil {
			sb.WriteString(" ")
			itemSExpr(sb, item.Alt)
		}
		sb.WriteString(")")
	case SwitchItem:
		sb.WriteString("(switch ")
		exprSExpr(sb, item.Expr)
		sb.WriteString(" ")
		blockSExpr(sb, item.Block)
		sb.WriteString(")")
	case WhileItem:
		sb.WriteString("(while ")
		exprSExpr(sb, item.Test)
		sb.WriteString(" ")
		itemSExpr(sb, item.Body)
		sb.WriteString(")")
	case DoWhileItem:
		sb.WriteString("(do-while ")
		exprSExpr(sb, item.Test)
		sb.WriteString(" ")
		itemSExpr(sb, item.Body)
		sb.WriteString(")")
	case ForItem:
		sb.WriteString("(for ")
		blockSExpr(sb, item.Block)
		sb.WriteString(" ")
		exprSExpr(sb, item.Test)
		sb.WriteString(" ")
		exprSExpr(sb, item.After)
		sb.WriteString(" ")
		itemSExpr(sb, item.Body)
		sb.WriteString(")")
	case ReturnItem:
		if item.Expr == nil {
			sb.WriteString("(return)")
		} else {
			sb.WriteString("(return ")
			exprSExpr(sb, item.Expr)
			sb.WriteString(")")
		}
	case CaseItem:
		sb.WriteString("(case ")
		exprSExpr(sb, item.Expr)
		sb.WriteString(" ")
		itemSExpr(sb, item.Stmt)
		sb.WriteString(")")
	case DefaultItem:
		sb.WriteString("(default ")
		itemSExpr(sb, item.Stmt)
		sb.WriteString(")")
	case GotoItem:
		sb.WriteString("(goto " + item.Label + ")")
	case ContinueItem:
		sb.WriteString("(continue)")
	case BreakItem:
		sb.WriteString("(break)")
	default:
		panic("ToSExpr: unknown block item kind: " + string(item.Kind))
	}
}

func declSExpr(sb *strings.Builder, decl *Declaration) {
	if decl.Typedef {
		sb.WriteString("(typedef ")
	} else {
		sb.WriteString("(decl ")
	}
	typeSExpr(sb, decl.Type)
	if decl.Name != "" {
		sb.WriteString(" " + decl.Name)
	}
	if decl.Init != nil {
		sb.WriteString(" ")
		exprSExpr(sb, decl.Init)
	}
	sb.WriteString(")")
}

func typeSExpr(sb *strings.Builder, ts *TypeSpecifier) {
	switch ts.Kind {
	case SpecVoid, SpecInt, SpecFloat, SpecString:
		sb.WriteString(string(ts.Kind))
	case SpecStruct:
		sb.WriteString("(struct " + ts.Name)
		if ts.Def != nil {
			sb.WriteString(" ")
			blockSExpr(sb, ts.Def)
		}
		sb.WriteString(")")
	case SpecEnum:
		if ts.Name == "" {
			sb.WriteString("(enum)")
		} else {
			sb.WriteString("(enum " + ts.Name + ")")
		}
	case SpecTypedef:
		sb.WriteString("(typename " + ts.Name + ")")
	default:
		panic("ToSExpr: unknown type kind: " + string(ts.Kind))
	}
}

func exprSExpr(sb *strings.Builder, e *Expression) {
	if e == nil {
		sb.WriteString("()")
		return
	}
	switch e.Kind {
	case IntExpr:
		sb.WriteString("(integer " + strconv.FormatInt(e.Int, 10) + ")")
	case FloatExpr:
		sb.WriteString("(float " + strconv.FormatFloat(e.Float, 'g', -1, 64) + ")")
	case StringExpr:
		sb.WriteString("(string " + strconv.Quote(e.Str) + ")")
	case IdentExpr:
		sb.WriteString("(ident " + e.Name + ")")
	case UnaryExpr:
		sb.WriteString("(unary " + strconv.Quote(string(e.Op)) + " ")
		exprSExpr(sb, e.Lhs)
		sb.WriteString(")")
	case BinaryExpr:
		sb.WriteString("(binary " + strconv.Quote(string(e.Op)) + " ")
		exprSExpr(sb, e.Lhs)
		sb.WriteString(" ")
		exprSExpr(sb, e.Rhs)
		sb.WriteString(")")
	case AssignExpr:
		sb.WriteString("(assign " + strconv.Quote(string(e.Op)) + " ")
		exprSExpr(sb, e.Lhs)
		sb.WriteString(" ")
		exprSExpr(sb, e.Rhs)
		sb.WriteString(")")
	case TernaryExpr:
		sb.WriteString("(ternary ")
		exprSExpr(sb, e.Cond)
		sb.WriteString(" ")
		exprSExpr(sb, e.Lhs)
		sb.WriteString(" ")
		exprSExpr(sb, e.Rhs)
		sb.WriteString(")")
	case CallExpr:
		sb.WriteString("(call " + e.Name)
		for _, arg := range e.Args {
			sb.WriteString(" ")
			exprSExpr(sb, arg)
		}
		sb.WriteString(")")
	case MemberExpr:
		sb.WriteString("(member ")
		exprSExpr(sb, e.Lhs)
		sb.WriteString(" " + e.Name + ")")
	default:
		panic("ToSExpr: unknown expression kind: " + string(e.Kind))
	}
}

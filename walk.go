package main

// visitor is the per-pass hook set for the shared statement traversal.
// Every pass that must agree on declaration order drives its recursion
// through walkBlock/walkItem, so the visit order is fixed in one place.
type visitor interface {
	// enterScope returns the visitor for a nested lexical scope: compound
	// statements, switch bodies and for statements. Passes that do not
	// track scopes return themselves, which flattens the nesting.
	enterScope() visitor

	decl(item *BlockItem) error
	funcDecl(item *BlockItem) error

	// expr receives the address of a statement-position expression slot.
	// The slot may hold nil and the visitor may replace its contents.
	expr(slot **Expression) error

	// returnStmt runs after the return value's expr hook.
	returnStmt(item *BlockItem) error
}

func walkBlock(b *Block, v visitor) error {
	if b == nil {
		return nil
	}
	for _, item := range b.Items {
		if err := walkItem(item, v); err != nil {
			return err
		}
	}
	return nil
}

func walkItem(item *BlockItem, v visitor) error {
	if item == nil {
		return nil
	}
	switch item.Kind {
	case DeclItem:
		return v.decl(item)
	case FuncDeclItem:
		return v.funcDecl(item)
	case LabeledItem:
		return walkItem(item.Stmt, v)
	case CompoundItem:
		return walkBlock(item.Block, v.enterScope())
	case ExprStmtItem:
		return v.expr(&item.Expr)
	case IfItem:
		if err := v.expr(&item.Test); err != nil {
			return err
		}
		if err := walkItem(item.Cons, v); err != nil {
			return err
		}
		return walkItem(item.Alt, v)
	case SwitchItem:
		if err := v.expr(&item.Expr); err != nil {
			return err
		}
		return walkBlock(item.Block, v.enterScope())
	case WhileItem, DoWhileItem:
		if err := v.expr(&item.Test); err != nil {
			return err
		}
		return walkItem(item.Body, v)
	case ForItem:
		// One scope spans the init clause, both loop expressions and the
		// body, so init-clause declarations are visible throughout.
		fv := v.enterScope()
		if err := walkBlock(item.Block, fv); err != nil {
			return err
		}
		if err := fv.expr(&item.Test); err != nil {
			return err
		}
		if err := fv.expr(&item.After); err != nil {
			return err
		}
		return walkItem(item.Body, fv)
	case ReturnItem:
		if err := v.expr(&item.Expr); err != nil {
			return err
		}
		return v.returnStmt(item)
	case CaseItem, DefaultItem:
		// case values stay untouched; only the labeled statement is
		// visited
		return walkItem(item.Stmt, v)
	case GotoItem, ContinueItem, BreakItem:
		return nil
	default:
		panic("walk: unknown block item kind: " + string(item.Kind))
	}
}

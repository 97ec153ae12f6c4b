package main

import "fmt"

// ParseProgram parses a whole translation unit. The lexer must already be
// primed with NextToken.
func ParseProgram(l *Lexer) (*Block, error) {
	return parseBlockItems(l, EOF)
}

func expect(l *Lexer, expectedType TokenType) error {
	if l.CurrTokenType != expectedType {
		return fmt.Errorf("error: expected '%s' but got '%s'", expectedType, l.CurrLiteral)
	}
	l.NextToken()
	return nil
}

// startsType reports whether the current token can open a type specifier.
// A lone identifier only counts when followed by another identifier, so
// that expression statements starting with a name are not mistaken for
// typedef-name declarations.
func startsType(l *Lexer) bool {
	switch l.CurrTokenType {
	case VOID, INT_KW, FLOAT_KW, STRING_KW, STRUCT, ENUM, TYPEDEF:
		return true
	case IDENT:
		return l.PeekToken() == IDENT
	}
	return false
}

func parseBlockItem(l *Lexer) (*BlockItem, error) {
	switch l.CurrTokenType {
	case LBRACE:
		block, err := parseCompound(l)
		if err != nil {
			return nil, err
		}
		return &BlockItem{Kind: CompoundItem, Block: block}, nil
	case IF:
		return parseIf(l)
	case SWITCH:
		return parseSwitch(l)
	case WHILE:
		return parseWhile(l)
	case DO:
		return parseDoWhile(l)
	case FOR:
		return parseFor(l)
	case RETURN:
		return parseReturn(l)
	case CASE:
		return parseCase(l)
	case DEFAULT:
		l.SkipToken(DEFAULT)
		if err := expect(l, COLON); err != nil {
			return nil, err
		}
		stmt, err := parseBlockItem(l)
		if err != nil {
			return nil, err
		}
		return &BlockItem{Kind: DefaultItem, Stmt: stmt}, nil
	case GOTO:
		l.SkipToken(GOTO)
		if l.CurrTokenType != IDENT {
			return nil, fmt.Errorf("error: expected label name after 'goto' but got '%s'", l.CurrLiteral)
		}
		label := l.CurrLiteral
		l.SkipToken(IDENT)
		if err := expect(l, SEMICOLON); err != nil {
			return nil, err
		}
		return &BlockItem{Kind: GotoItem, Label: label}, nil
	case CONTINUE:
		l.SkipToken(CONTINUE)
		if err := expect(l, SEMICOLON); err != nil {
			return nil, err
		}
		return &BlockItem{Kind: ContinueItem}, nil
	case BREAK:
		l.SkipToken(BREAK)
		if err := expect(l, SEMICOLON); err != nil {
			return nil, err
		}
		return &BlockItem{Kind: BreakItem}, nil
	case SEMICOLON:
		// empty statement
		l.SkipToken(SEMICOLON)
		return &BlockItem{Kind: ExprStmtItem}, nil
	case IDENT:
		if l.PeekToken() == COLON {
			label := l.CurrLiteral
			l.SkipToken(IDENT)
			l.SkipToken(COLON)
			stmt, err := parseBlockItem(l)
			if err != nil {
				return nil, err
			}
			return &BlockItem{Kind: LabeledItem, Label: label, Stmt: stmt}, nil
		}
	}

	return parseExprStatement(l)
}

// parseBlockItems parses items into a block until the given closing token.
// Declarations are only accepted here, at block level, so a comma list can
// expand into consecutive items of the enclosing scope.
func parseBlockItems(l *Lexer, until TokenType) (*Block, error) {
	block := &Block{}
	for l.CurrTokenType != until {
		if l.CurrTokenType == EOF {
			return nil, fmt.Errorf("error: expected '%s' but got end of input", until)
		}
		if startsType(l) {
			items, err := parseDeclaration(l)
			if err != nil {
				return nil, err
			}
			block.Items = append(block.Items, items...)
			continue
		}
		item, err := parseBlockItem(l)
		if err != nil {
			return nil, err
		}
		block.Items = append(block.Items, item)
	}
	return block, nil
}

func parseCompound(l *Lexer) (*Block, error) {
	if err := expect(l, LBRACE); err != nil {
		return nil, err
	}
	block, err := parseBlockItems(l, RBRACE)
	if err != nil {
		return nil, err
	}
	l.SkipToken(RBRACE)
	return block, nil
}

func parseIf(l *Lexer) (*BlockItem, error) {
	l.SkipToken(IF)
	if err := expect(l, LPAREN); err != nil {
		return nil, err
	}
	test, err := parseExpression(l, 0)
	if err != nil {
		return nil, err
	}
	if err := expect(l, RPAREN); err != nil {
		return nil, err
	}
	cons, err := parseBlockItem(l)
	if err != nil {
		return nil, err
	}
	item := &BlockItem{Kind: IfItem, Test: test, Cons: cons}
	if l.CurrTokenType == ELSE {
		l.SkipToken(ELSE)
		alt, err := parseBlockItem(l)
		if err != nil {
			return nil, err
		}
		item.Alt = alt
	}
	return item, nil
}

func parseSwitch(l *Lexer) (*BlockItem, error) {
	l.SkipToken(SWITCH)
	if err := expect(l, LPAREN); err != nil {
		return nil, err
	}
	expr, err := parseExpression(l, 0)
	if err != nil {
		return nil, err
	}
	if err := expect(l, RPAREN); err != nil {
		return nil, err
	}
	body, err := parseCompound(l)
	if err != nil {
		return nil, err
	}
	return &BlockItem{Kind: SwitchItem, Expr: expr, Block: body}, nil
}

func parseWhile(l *Lexer) (*BlockItem, error) {
	l.SkipToken(WHILE)
	if err := expect(l, LPAREN); err != nil {
		return nil, err
	}
	test, err := parseExpression(l, 0)
	if err != nil {
		return nil, err
	}
	if err := expect(l, RPAREN); err != nil {
		return nil, err
	}
	body, err := parseBlockItem(l)
	if err != nil {
		return nil, err
	}
	return &BlockItem{Kind: WhileItem, Test: test, Body: body}, nil
}

func parseDoWhile(l *Lexer) (*BlockItem, error) {
	l.SkipToken(DO)
	body, err := parseBlockItem(l)
	if err != nil {
		return nil, err
	}
	if err := expect(l, WHILE); err != nil {
		return nil, err
	}
	if err := expect(l, LPAREN); err != nil {
		return nil, err
	}
	test, err := parseExpression(l, 0)
	if err != nil {
		return nil, err
	}
	if err := expect(l, RPAREN); err != nil {
		return nil, err
	}
	if err := expect(l, SEMICOLON); err != nil {
		return nil, err
	}
	return &BlockItem{Kind: DoWhileItem, Test: test, Body: body}, nil
}

func parseFor(l *Lexer) (*BlockItem, error) {
	l.SkipToken(FOR)
	if err := expect(l, LPAREN); err != nil {
		return nil, err
	}

	// The init clause is always a block, possibly empty: a declaration, an
	// expression statement, or nothing.
	init := &Block{}
	switch {
	case l.CurrTokenType == SEMICOLON:
		l.SkipToken(SEMICOLON)
	case startsType(l):
		items, err := parseDeclaration(l)
		if err != nil {
			return nil, err
		}
		init.Items = items
	default:
		expr, err := parseExpression(l, 0)
		if err != nil {
			return nil, err
		}
		if err := expect(l, SEMICOLON); err != nil {
			return nil, err
		}
		init.Items = []*BlockItem{{Kind: ExprStmtItem, Expr: expr}}
	}

	var test *Expression
	if l.CurrTokenType != SEMICOLON {
		var err error
		test, err = parseExpression(l, 0)
		if err != nil {
			return nil, err
		}
	}
	if err := expect(l, SEMICOLON); err != nil {
		return nil, err
	}

	var after *Expression
	if l.CurrTokenType != RPAREN {
		var err error
		after, err = parseExpression(l, 0)
		if err != nil {
			return nil, err
		}
	}
	if err := expect(l, RPAREN); err != nil {
		return nil, err
	}

	body, err := parseBlockItem(l)
	if err != nil {
		return nil, err
	}
	return &BlockItem{Kind: ForItem, Block: init, Test: test, After: after, Body: body}, nil
}

func parseReturn(l *Lexer) (*BlockItem, error) {
	l.SkipToken(RETURN)
	item := &BlockItem{Kind: ReturnItem}
	if l.CurrTokenType != SEMICOLON {
		expr, err := parseExpression(l, 0)
		if err != nil {
			return nil, err
		}
		item.Expr = expr
	}
	if err := expect(l, SEMICOLON); err != nil {
		return nil, err
	}
	return item, nil
}

func parseCase(l *Lexer) (*BlockItem, error) {
	l.SkipToken(CASE)
	value, err := parseExpression(l, 0)
	if err != nil {
		return nil, err
	}
	if err := expect(l, COLON); err != nil {
		return nil, err
	}
	stmt, err := parseBlockItem(l)
	if err != nil {
		return nil, err
	}
	return &BlockItem{Kind: CaseItem, Expr: value, Stmt: stmt}, nil
}

func parseExprStatement(l *Lexer) (*BlockItem, error) {
	expr, err := parseExpression(l, 0)
	if err != nil {
		return nil, err
	}
	if err := expect(l, SEMICOLON); err != nil {
		return nil, err
	}
	return &BlockItem{Kind: ExprStmtItem, Expr: expr}, nil
}

// ===== DECLARATIONS =====

// parseTypeSpecifier parses the type part of a declaration. An inline
// structure definition is parsed into the specifier's Def block.
func parseTypeSpecifier(l *Lexer) (*TypeSpecifier, error) {
	switch l.CurrTokenType {
	case VOID:
		l.SkipToken(VOID)
		return newTypeSpec(SpecVoid), nil
	case INT_KW:
		l.SkipToken(INT_KW)
		return newTypeSpec(SpecInt), nil
	case FLOAT_KW:
		l.SkipToken(FLOAT_KW)
		return newTypeSpec(SpecFloat), nil
	case STRING_KW:
		l.SkipToken(STRING_KW)
		return newTypeSpec(SpecString), nil
	case STRUCT:
		l.SkipToken(STRUCT)
		ts := newTypeSpec(SpecStruct)
		if l.CurrTokenType == IDENT {
			ts.Name = l.CurrLiteral
			l.SkipToken(IDENT)
		}
		if l.CurrTokenType == LBRACE {
			def, err := parseCompound(l)
			if err != nil {
				return nil, err
			}
			ts.Def = def
		} else if ts.Name == "" {
			return nil, fmt.Errorf("error: expected struct name or body but got '%s'", l.CurrLiteral)
		}
		return ts, nil
	case ENUM:
		l.SkipToken(ENUM)
		ts := newTypeSpec(SpecEnum)
		if l.CurrTokenType == IDENT {
			ts.Name = l.CurrLiteral
			l.SkipToken(IDENT)
		}
		return ts, nil
	case IDENT:
		ts := newTypeSpec(SpecTypedef)
		ts.Name = l.CurrLiteral
		l.SkipToken(IDENT)
		return ts, nil
	}
	return nil, fmt.Errorf("error: expected type specifier but got '%s'", l.CurrLiteral)
}

// copyTypeSpecifier builds the specifier for the second and later names of
// a comma list. An inline definition belongs to the first name only; later
// names reference the structure by name.
func copyTypeSpecifier(ts *TypeSpecifier) *TypeSpecifier {
	out := newTypeSpec(ts.Kind)
	out.Name = ts.Name
	return out
}

// parseDeclaration parses one declaration statement, which may introduce
// several names. Function declarations never share a statement with other
// declarators.
func parseDeclaration(l *Lexer) ([]*BlockItem, error) {
	if l.CurrTokenType == TYPEDEF {
		return parseTypedef(l)
	}

	ts, err := parseTypeSpecifier(l)
	if err != nil {
		return nil, err
	}

	// Nameless declaration: a bare structure definition.
	if l.CurrTokenType == SEMICOLON {
		l.SkipToken(SEMICOLON)
		decl := newDeclaration("")
		decl.Type = ts
		return []*BlockItem{{Kind: DeclItem, Decl: decl}}, nil
	}

	if l.CurrTokenType != IDENT {
		return nil, fmt.Errorf("error: expected declaration name but got '%s'", l.CurrLiteral)
	}
	name := l.CurrLiteral
	l.SkipToken(IDENT)

	if l.CurrTokenType == LPAREN {
		return parseFunction(l, ts, name)
	}

	var items []*BlockItem
	declType := ts
	for {
		decl := newDeclaration(name)
		decl.Type = declType
		if l.CurrTokenType == ASSIGN {
			l.SkipToken(ASSIGN)
			init, err := parseExpression(l, 0)
			if err != nil {
				return nil, err
			}
			decl.Init = init
		}
		items = append(items, &BlockItem{Kind: DeclItem, Decl: decl})

		if l.CurrTokenType != COMMA {
			break
		}
		l.SkipToken(COMMA)
		if l.CurrTokenType != IDENT {
			return nil, fmt.Errorf("error: expected declaration name but got '%s'", l.CurrLiteral)
		}
		name = l.CurrLiteral
		l.SkipToken(IDENT)
		declType = copyTypeSpecifier(ts)
	}
	if err := expect(l, SEMICOLON); err != nil {
		return nil, err
	}
	return items, nil
}

func parseTypedef(l *Lexer) ([]*BlockItem, error) {
	l.SkipToken(TYPEDEF)
	ts, err := parseTypeSpecifier(l)
	if err != nil {
		return nil, err
	}
	if l.CurrTokenType != IDENT {
		return nil, fmt.Errorf("error: expected typedef name but got '%s'", l.CurrLiteral)
	}
	decl := newDeclaration(l.CurrLiteral)
	decl.Type = ts
	decl.Typedef = true
	l.SkipToken(IDENT)
	if err := expect(l, SEMICOLON); err != nil {
		return nil, err
	}
	return []*BlockItem{{Kind: DeclItem, Decl: decl}}, nil
}

func parseFunction(l *Lexer, returnType *TypeSpecifier, name string) ([]*BlockItem, error) {
	l.SkipToken(LPAREN)
	params := &Block{}
	if l.CurrTokenType == VOID && l.PeekToken() == RPAREN {
		l.SkipToken(VOID)
	}
	for l.CurrTokenType != RPAREN {
		ts, err := parseTypeSpecifier(l)
		if err != nil {
			return nil, err
		}
		if l.CurrTokenType != IDENT {
			return nil, fmt.Errorf("error: expected parameter name but got '%s'", l.CurrLiteral)
		}
		param := newDeclaration(l.CurrLiteral)
		param.Type = ts
		l.SkipToken(IDENT)
		params.Items = append(params.Items, &BlockItem{Kind: DeclItem, Decl: param})

		if l.CurrTokenType == COMMA {
			l.SkipToken(COMMA)
			if l.CurrTokenType == RPAREN {
				return nil, fmt.Errorf("error: expected parameter after ','")
			}
		} else if l.CurrTokenType != RPAREN {
			return nil, fmt.Errorf("error: expected ',' or ')' in parameter list but got '%s'", l.CurrLiteral)
		}
	}
	l.SkipToken(RPAREN)

	body, err := parseCompound(l)
	if err != nil {
		return nil, err
	}

	decl := newDeclaration(name)
	decl.Type = returnType
	decl.Params = params
	decl.Body = body
	return []*BlockItem{{Kind: FuncDeclItem, Decl: decl}}, nil
}

// ===== EXPRESSIONS =====

// precedence returns the binding strength of a binary, ternary or
// assignment operator token, or 0 for non-operators.
func precedence(tokenType TokenType) int {
	switch tokenType {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN, PERCENT_ASSIGN:
		return 1
	case QUESTION:
		return 2
	case OR:
		return 3
	case AND:
		return 4
	case BIT_OR:
		return 5
	case XOR:
		return 6
	case BIT_AND:
		return 7
	case EQ, NOT_EQ:
		return 8
	case LT, GT, LE, GE:
		return 9
	case SHL, SHR:
		return 10
	case PLUS, MINUS:
		return 11
	case ASTERISK, SLASH, PERCENT:
		return 12
	default:
		return 0
	}
}

func isAssignOp(tokenType TokenType) bool {
	switch tokenType {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN, PERCENT_ASSIGN:
		return true
	}
	return false
}

// parseExpression implements precedence climbing over the operator table.
func parseExpression(l *Lexer, minPrec int) (*Expression, error) {
	left, err := parseUnary(l)
	if err != nil {
		return nil, err
	}

	for {
		prec := precedence(l.CurrTokenType)
		if prec == 0 || prec < minPrec {
			return left, nil
		}

		op := l.CurrTokenType
		switch {
		case op == QUESTION:
			l.SkipToken(QUESTION)
			then, err := parseExpression(l, 0)
			if err != nil {
				return nil, err
			}
			if err := expect(l, COLON); err != nil {
				return nil, err
			}
			// right-associative
			alt, err := parseExpression(l, prec)
			if err != nil {
				return nil, err
			}
			node := newExpr(TernaryExpr)
			node.Cond = left
			node.Lhs = then
			node.Rhs = alt
			left = node
		case isAssignOp(op):
			l.NextToken()
			// right-associative
			right, err := parseExpression(l, prec)
			if err != nil {
				return nil, err
			}
			node := newExpr(AssignExpr)
			node.Op = op
			node.Lhs = left
			node.Rhs = right
			left = node
		default:
			l.NextToken()
			right, err := parseExpression(l, prec+1)
			if err != nil {
				return nil, err
			}
			node := newExpr(BinaryExpr)
			node.Op = op
			node.Lhs = left
			node.Rhs = right
			left = node
		}
	}
}

func parseUnary(l *Lexer) (*Expression, error) {
	switch l.CurrTokenType {
	case MINUS, BANG, TILDE:
		op := l.CurrTokenType
		l.NextToken()
		operand, err := parseUnary(l)
		if err != nil {
			return nil, err
		}
		node := newExpr(UnaryExpr)
		node.Op = op
		node.Lhs = operand
		return node, nil
	}
	return parsePostfix(l)
}

func parsePostfix(l *Lexer) (*Expression, error) {
	left, err := parsePrimary(l)
	if err != nil {
		return nil, err
	}
	for {
		switch l.CurrTokenType {
		case DOT:
			l.SkipToken(DOT)
			if l.CurrTokenType != IDENT {
				return nil, fmt.Errorf("error: expected member name after '.' but got '%s'", l.CurrLiteral)
			}
			node := newExpr(MemberExpr)
			node.Lhs = left
			node.Name = l.CurrLiteral
			l.SkipToken(IDENT)
			left = node
		case LPAREN:
			if left.Kind != IdentExpr {
				return nil, fmt.Errorf("error: called object is not a function name")
			}
			l.SkipToken(LPAREN)
			node := newExpr(CallExpr)
			node.Name = left.Name
			for l.CurrTokenType != RPAREN {
				arg, err := parseExpression(l, 0)
				if err != nil {
					return nil, err
				}
				node.Args = append(node.Args, arg)
				if l.CurrTokenType == COMMA {
					l.SkipToken(COMMA)
					if l.CurrTokenType == RPAREN {
						return nil, fmt.Errorf("error: expected argument after ','")
					}
				} else if l.CurrTokenType != RPAREN {
					return nil, fmt.Errorf("error: expected ',' or ')' in argument list but got '%s'", l.CurrLiteral)
				}
			}
			l.SkipToken(RPAREN)
			left = node
		default:
			return left, nil
		}
	}
}

func parsePrimary(l *Lexer) (*Expression, error) {
	switch l.CurrTokenType {
	case INT:
		node := newExpr(IntExpr)
		node.Int = l.CurrIntValue
		l.SkipToken(INT)
		return node, nil
	case FLOAT:
		node := newExpr(FloatExpr)
		node.Float = l.CurrFloatValue
		l.SkipToken(FLOAT)
		return node, nil
	case STRING:
		node := newExpr(StringExpr)
		node.Str = l.CurrLiteral
		l.SkipToken(STRING)
		return node, nil
	case IDENT:
		node := newExpr(IdentExpr)
		node.Name = l.CurrLiteral
		l.SkipToken(IDENT)
		return node, nil
	case LPAREN:
		l.SkipToken(LPAREN)
		expr, err := parseExpression(l, 0)
		if err != nil {
			return nil, err
		}
		if err := expect(l, RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, fmt.Errorf("error: unexpected token '%s' in expression", l.CurrLiteral)
}

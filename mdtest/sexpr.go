package mdtest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NodeType represents the type of a pattern Node.
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeNumber
	NodeEllipsis
	NodeList
)

// Node is one datum of the pattern language: an atom or a list. The
// dialect mirrors the compiler's s-expression dumps (symbols, quoted
// strings, integer and float numbers, parenthesized lists) plus "..."
// as a wildcard for eliding parts of a pattern.
type Node struct {
	Type  NodeType
	Text  string  // NodeSymbol, NodeString, NodeNumber
	Items []*Node // NodeList
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol:
		return n.Text
	case NodeString:
		return strconv.Quote(n.Text)
	case NodeNumber:
		return n.Text
	case NodeEllipsis:
		return "..."
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewNumber(text string) *Node {
	return &Node{Type: NodeNumber, Text: text}
}

func NewEllipsis() *Node {
	return &Node{Type: NodeEllipsis}
}

func NewList(items ...*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

// Match checks actual against pattern. Atoms compare by value (numbers
// numerically, so "2.50" matches "2.5"); lists compare item by item.
// An ellipsis matches any single value, or the entire remainder of a
// list when it is the final pattern item.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

func match(pattern, actual *Node, path string) error {
	if pattern.Type == NodeEllipsis {
		return nil
	}
	if actual == nil {
		return fmt.Errorf("at %s: expected %s but got nothing", path, pattern)
	}
	if pattern.Type != actual.Type {
		return fmt.Errorf("at %s: expected %s but got %s", path, pattern, actual)
	}
	switch pattern.Type {
	case NodeSymbol, NodeString:
		if pattern.Text != actual.Text {
			return fmt.Errorf("at %s: expected %s but got %s", path, pattern, actual)
		}
	case NodeNumber:
		if !numberEqual(pattern.Text, actual.Text) {
			return fmt.Errorf("at %s: expected %s but got %s", path, pattern, actual)
		}
	case NodeList:
		for i, item := range pattern.Items {
			if item.Type == NodeEllipsis {
				if i != len(pattern.Items)-1 {
					return fmt.Errorf("at %s: '...' must be the last item of a list pattern", path)
				}
				return nil
			}
			if i >= len(actual.Items) {
				return fmt.Errorf("at %s: expected %d items but got %d", path, len(pattern.Items), len(actual.Items))
			}
			if err := match(item, actual.Items[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		if len(actual.Items) > len(pattern.Items) {
			return fmt.Errorf("at %s: expected %d items but got %d", path, len(pattern.Items), len(actual.Items))
		}
	}
	return nil
}

func numberEqual(a, b string) bool {
	av, aerr := strconv.ParseFloat(a, 64)
	bv, berr := strconv.ParseFloat(b, 64)
	if aerr != nil || berr != nil {
		return a == b
	}
	return av == bv
}

type parser struct {
	lexer   *lexer
	current token
}

// Parse parses the input as a single datum.
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.next()

	result, err := p.parseDatum()
	if len(p.lexer.errors) > 0 {
		// Lexer errors take priority because they surface as confusing
		// parser errors otherwise.
		return nil, fmt.Errorf("%s", p.lexer.errors[0])
	}
	if err != nil {
		return nil, err
	}

	if p.current.Type != tokenEOF {
		return nil, fmt.Errorf("expected EOF but got %s", p.current.Type)
	}

	return result, nil
}

func (p *parser) next() {
	p.current = p.lexer.nextToken()
}

func (p *parser) parseDatum() (*Node, error) {
	switch p.current.Type {
	case tokenSymbol:
		node := NewSymbol(p.current.Value)
		p.next()
		return node, nil
	case tokenString:
		node := NewString(p.current.Value)
		p.next()
		return node, nil
	case tokenNumber:
		node := NewNumber(p.current.Value)
		p.next()
		return node, nil
	case tokenEllipsis:
		p.next()
		return NewEllipsis(), nil
	case tokenLParen:
		return p.parseList()
	default:
		return nil, fmt.Errorf("unexpected token: %s", p.current.Type)
	}
}

func (p *parser) parseList() (*Node, error) {
	var items []*Node
	p.next() // consume '('

	for p.current.Type != tokenRParen && p.current.Type != tokenEOF {
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if p.current.Type != tokenRParen {
		return nil, fmt.Errorf("expected ')' but got %s", p.current.Type)
	}
	p.next() // consume ')'

	return &Node{Type: NodeList, Items: items}, nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenNumber
	tokenEllipsis
	tokenLParen
	tokenRParen
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenNumber:
		return "number"
	case tokenEllipsis:
		return "ellipsis"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	Type     tokenType
	Value    string
	Position int
}

type lexer struct {
	input    string
	position int
	current  rune
	errors   []string
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.position >= len(l.input) {
		l.current = 0
	} else {
		l.current = rune(l.input[l.position])
	}
	l.position++
}

func (l *lexer) peekChar() rune {
	if l.position >= len(l.input) {
		return 0
	}
	return rune(l.input[l.position])
}

func (l *lexer) skipWhitespace() {
	for unicode.IsSpace(l.current) {
		l.readChar()
	}
}

func (l *lexer) skipComment() {
	for l.current != '\n' && l.current != '\r' && l.current != 0 {
		l.readChar()
	}
}

func (l *lexer) readSymbol() string {
	start := l.position - 1
	for isSymbolChar(l.current) {
		l.readChar()
	}
	return l.input[start : l.position-1]
}

func (l *lexer) readString() (string, error) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.current != '"' && l.current != 0 {
		if l.current == '\\' {
			l.readChar()
			switch l.current {
			case '"':
				result.WriteByte('"')
			case '\\':
				result.WriteByte('\\')
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			case 'r':
				result.WriteByte('\r')
			default:
				return "", fmt.Errorf("invalid escape sequence: \\%c", l.current)
			}
		} else {
			result.WriteByte(byte(l.current))
		}
		l.readChar()
	}

	if l.current != '"' {
		return "", fmt.Errorf("unterminated string")
	}
	l.readChar() // skip closing quote

	return result.String(), nil
}

func (l *lexer) readNumber() string {
	start := l.position - 1
	if l.current == '+' || l.current == '-' {
		l.readChar()
	}
	for unicode.IsDigit(l.current) {
		l.readChar()
	}
	if l.current == '.' && unicode.IsDigit(l.peekChar()) {
		l.readChar()
		for unicode.IsDigit(l.current) {
			l.readChar()
		}
	}
	if (l.current == 'e' || l.current == 'E') &&
		(unicode.IsDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar()
		if l.current == '+' || l.current == '-' {
			l.readChar()
		}
		for unicode.IsDigit(l.current) {
			l.readChar()
		}
	}
	return l.input[start : l.position-1]
}

func (l *lexer) nextToken() token {
	for {
		l.skipWhitespace()

		pos := l.position - 1

		switch l.current {
		case 0:
			return token{Type: tokenEOF, Position: pos}
		case ';':
			l.skipComment()
			continue
		case '(':
			l.readChar()
			return token{Type: tokenLParen, Value: "(", Position: pos}
		case ')':
			l.readChar()
			return token{Type: tokenRParen, Value: ")", Position: pos}
		case '"':
			str, err := l.readString()
			if err != nil {
				l.errors = append(l.errors, err.Error())
				return token{Type: tokenEOF, Position: pos}
			}
			return token{Type: tokenString, Value: str, Position: pos}
		case '.':
			if l.peekChar() == '.' {
				l.readChar()
				if l.peekChar() == '.' {
					l.readChar()
					l.readChar()
					return token{Type: tokenEllipsis, Value: "...", Position: pos}
				}
			}
			l.errors = append(l.errors, "unexpected character '.'")
			return token{Type: tokenEOF, Position: pos}
		default:
			if isSymbolStart(l.current) {
				symbol := l.readSymbol()
				return token{Type: tokenSymbol, Value: symbol, Position: pos}
			}
			if unicode.IsDigit(l.current) || l.current == '+' || l.current == '-' {
				number := l.readNumber()
				return token{Type: tokenNumber, Value: number, Position: pos}
			}
			l.errors = append(l.errors, fmt.Sprintf("unexpected character '%c'", l.current))
			return token{Type: tokenEOF, Position: pos}
		}
	}
}

// Bytes at or above utf8.RuneSelf count as symbol characters so that
// multi-byte identifiers pass through the byte-wise scan intact.
func isSymbolStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r >= utf8.RuneSelf
}

func isSymbolChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r >= utf8.RuneSelf
}

package main

import "strconv"

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers and literals
	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"

	// Operators
	ASSIGN         = "="
	PLUS           = "+"
	MINUS          = "-"
	BANG           = "!"
	TILDE          = "~"
	ASTERISK       = "*"
	SLASH          = "/"
	PERCENT        = "%"
	PLUS_ASSIGN    = "+="
	MINUS_ASSIGN   = "-="
	STAR_ASSIGN    = "*="
	SLASH_ASSIGN   = "/="
	PERCENT_ASSIGN = "%="

	EQ     = "=="
	NOT_EQ = "!="
	LT     = "<"
	GT     = ">"
	LE     = "<="
	GE     = ">="

	AND     = "&&"
	OR      = "||"
	BIT_AND = "&"
	BIT_OR  = "|"
	XOR     = "^"
	SHL     = "<<"
	SHR     = ">>"

	QUESTION = "?"

	// Delimiters
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"
	DOT       = "."

	// Keywords
	VOID      = "VOID"
	INT_KW    = "INT_KW"
	FLOAT_KW  = "FLOAT_KW"
	STRING_KW = "STRING_KW"
	STRUCT    = "STRUCT"
	ENUM      = "ENUM"
	TYPEDEF   = "TYPEDEF"
	IF        = "IF"
	ELSE      = "ELSE"
	SWITCH    = "SWITCH"
	CASE      = "CASE"
	DEFAULT   = "DEFAULT"
	WHILE     = "WHILE"
	DO        = "DO"
	FOR       = "FOR"
	RETURN    = "RETURN"
	GOTO      = "GOTO"
	CONTINUE  = "CONTINUE"
	BREAK     = "BREAK"
)

var keywords = map[string]TokenType{
	"void":     VOID,
	"int":      INT_KW,
	"float":    FLOAT_KW,
	"string":   STRING_KW,
	"struct":   STRUCT,
	"enum":     ENUM,
	"typedef":  TYPEDEF,
	"if":       IF,
	"else":     ELSE,
	"switch":   SWITCH,
	"case":     CASE,
	"default":  DEFAULT,
	"while":    WHILE,
	"do":       DO,
	"for":      FOR,
	"return":   RETURN,
	"goto":     GOTO,
	"continue": CONTINUE,
	"break":    BREAK,
}

// Lexer tokenizes saga source. The input must end with a null byte, which
// the lexer reports as EOF.
type Lexer struct {
	input []byte
	pos   int

	CurrTokenType  TokenType
	CurrLiteral    string
	CurrIntValue   int64
	CurrFloatValue float64
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) peekChar() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		ch := l.input[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			l.pos++
			continue
		}
		if ch == '/' && l.peekChar() == '/' {
			for l.input[l.pos] != '\n' && l.input[l.pos] != 0 {
				l.pos++
			}
			continue
		}
		if ch == '/' && l.peekChar() == '*' {
			l.pos += 2
			for l.input[l.pos] != 0 {
				if l.input[l.pos] == '*' && l.peekChar() == '/' {
					l.pos += 2
					break
				}
				l.pos++
			}
			if l.input[l.pos] == 0 {
				return
			}
			continue
		}
		return
	}
}

// Bytes at or above 0x80 count as letters so multi-byte identifiers
// survive the byte-wise scan intact.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= 0x80
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.input[l.pos]) || isDigit(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber() {
	start := l.pos
	for isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.input[l.pos] == '.' && isDigit(l.peekChar()) {
		l.pos++
		for isDigit(l.input[l.pos]) {
			l.pos++
		}
		l.CurrTokenType = FLOAT
		l.CurrLiteral = string(l.input[start:l.pos])
		l.CurrFloatValue, _ = strconv.ParseFloat(l.CurrLiteral, 64)
		return
	}
	l.CurrTokenType = INT
	l.CurrLiteral = string(l.input[start:l.pos])
	l.CurrIntValue, _ = strconv.ParseInt(l.CurrLiteral, 10, 64)
}

// readString consumes a double-quoted literal and stores the unescaped
// value. An unterminated literal produces an ILLEGAL token.
func (l *Lexer) readString() {
	l.pos++ // opening quote
	var out []byte
	for {
		ch := l.input[l.pos]
		if ch == '"' {
			l.pos++
			l.CurrTokenType = STRING
			l.CurrLiteral = string(out)
			return
		}
		if ch == 0 {
			l.CurrTokenType = ILLEGAL
			l.CurrLiteral = string(out)
			return
		}
		if ch == '\\' {
			l.pos++
			switch l.input[l.pos] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 0:
				l.CurrTokenType = ILLEGAL
				l.CurrLiteral = string(out)
				return
			default:
				out = append(out, l.input[l.pos])
			}
			l.pos++
			continue
		}
		out = append(out, ch)
		l.pos++
	}
}

// NextToken advances the lexer and fills the Curr* fields.
func (l *Lexer) NextToken() {
	l.skipWhitespaceAndComments()

	l.CurrIntValue = 0
	l.CurrFloatValue = 0

	ch := l.input[l.pos]
	switch {
	case ch == 0:
		l.CurrTokenType = EOF
		l.CurrLiteral = ""
	case isLetter(ch):
		ident := l.readIdentifier()
		if kw, ok := keywords[ident]; ok {
			l.CurrTokenType = kw
		} else {
			l.CurrTokenType = IDENT
		}
		l.CurrLiteral = ident
	case isDigit(ch):
		l.readNumber()
	case ch == '"':
		l.readString()
	default:
		l.readOperator()
	}
}

func (l *Lexer) readOperator() {
	ch := l.input[l.pos]
	two := string(ch) + string(l.peekChar())

	switch two {
	case "==", "!=", "<=", ">=", "&&", "||", "<<", ">>", "+=", "-=", "*=", "/=", "%=":
		l.CurrTokenType = TokenType(two)
		l.CurrLiteral = two
		l.pos += 2
		return
	}

	switch ch {
	case '=', '+', '-', '!', '~', '*', '/', '%', '<', '>', '&', '|', '^',
		'?', '(', ')', '{', '}', ',', ';', ':', '.':
		l.CurrTokenType = TokenType(ch)
		l.CurrLiteral = string(ch)
	default:
		l.CurrTokenType = ILLEGAL
		l.CurrLiteral = string(ch)
	}
	l.pos++
}

// PeekToken returns the type of the next token without consuming it.
func (l *Lexer) PeekToken() TokenType {
	savedPos := l.pos
	savedType := l.CurrTokenType
	savedLiteral := l.CurrLiteral
	savedInt := l.CurrIntValue
	savedFloat := l.CurrFloatValue

	l.NextToken()
	peeked := l.CurrTokenType

	l.pos = savedPos
	l.CurrTokenType = savedType
	l.CurrLiteral = savedLiteral
	l.CurrIntValue = savedInt
	l.CurrFloatValue = savedFloat
	return peeked
}

// SkipToken consumes the current token, which must be of the expected type.
// The parser verifies token types before calling this; a mismatch is a bug.
func (l *Lexer) SkipToken(expectedType TokenType) {
	if l.CurrTokenType != expectedType {
		panic("Expected token " + string(expectedType) + " but got " + string(l.CurrTokenType))
	}
	l.NextToken()
}

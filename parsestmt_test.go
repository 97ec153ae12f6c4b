package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func parseProgramString(t *testing.T, inputStr string) string {
	t.Helper()
	l := NewLexer([]byte(inputStr + "\x00"))
	l.NextToken()
	prog, err := ParseProgram(l)
	be.Err(t, err, nil)
	return ToSExpr(prog)
}

func parseProgramError(t *testing.T, inputStr string) error {
	t.Helper()
	l := NewLexer([]byte(inputStr + "\x00"))
	l.NextToken()
	_, err := ParseProgram(l)
	return err
}

func TestParseGlobalDeclarations(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"int x;", "(block (decl int x))"},
		{"int x = 1;", "(block (decl int x (integer 1)))"},
		{"float f;", "(block (decl float f))"},
		{"string s = \"hi\";", "(block (decl string s (string \"hi\")))"},
		{"int a, b = 2, c;", "(block (decl int a) (decl int b (integer 2)) (decl int c))"},
		// A name used as a type stays unresolved until analysis.
		{"Foo x;", "(block (decl (typename Foo) x))"},
		{"enum Color c;", "(block (decl (enum Color) c))"},
	}

	for _, test := range tests {
		be.Equal(t, parseProgramString(t, test.input), test.expected)
	}
}

func TestParseStructDeclarations(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"struct Foo { int a; };", "(block (decl (struct Foo (block (decl int a)))))"},
		{"struct Foo x;", "(block (decl (struct Foo) x))"},
		{"struct Foo { int a; } x;", "(block (decl (struct Foo (block (decl int a))) x))"},
		{
			"struct Foo { int a; } x, y;",
			"(block (decl (struct Foo (block (decl int a))) x) (decl (struct Foo) y))",
		},
		{"typedef struct Foo Bar;", "(block (typedef (struct Foo) Bar))"},
	}

	for _, test := range tests {
		be.Equal(t, parseProgramString(t, test.input), test.expected)
	}
}

func TestParseFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"void f() {}", "(block (func void f (params) (block)))"},
		{"void f(void) {}", "(block (func void f (params) (block)))"},
		{
			"int f(int a, float b) { return 0; }",
			"(block (func int f (params (decl int a) (decl float b)) (block (return (integer 0)))))",
		},
		{
			"void log(string msg) { print(msg); }",
			"(block (func void log (params (decl string msg)) (block (expr (call print (ident msg))))))",
		},
	}

	for _, test := range tests {
		be.Equal(t, parseProgramString(t, test.input), test.expected)
	}
}

func TestParseIfStatement(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"void f() { if (x) { } }",
			"(block (func void f (params) (block (if (ident x) (block)))))",
		},
		{
			"void f() { if (x) { } else { } }",
			"(block (func void f (params) (block (if (ident x) (block) (block)))))",
		},
		// Branches need not be compounds.
		{
			"void f() { if (x) return; }",
			"(block (func void f (params) (block (if (ident x) (return)))))",
		},
		{
			"void f() { if (x) { } else if (y) { } }",
			"(block (func void f (params) (block (if (ident x) (block) (if (ident y) (block))))))",
		},
	}

	for _, test := range tests {
		be.Equal(t, parseProgramString(t, test.input), test.expected)
	}
}

func TestParseLoops(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"void f() { while (x) { } }",
			"(block (func void f (params) (block (while (ident x) (block)))))",
		},
		{
			"void f() { do { } while (x); }",
			"(block (func void f (params) (block (do-while (ident x) (block)))))",
		},
		{
			"void f() { for (i = 0; i < 3; i = i + 1) { } }",
			"(block (func void f (params) (block (for (block (expr (assign \"=\" (ident i) (integer 0)))) (binary \"<\" (ident i) (integer 3)) (assign \"=\" (ident i) (binary \"+\" (ident i) (integer 1))) (block)))))",
		},
		{
			"void f() { for (int i = 0; i < 3; i = i + 1) { } }",
			"(block (func void f (params) (block (for (block (decl int i (integer 0))) (binary \"<\" (ident i) (integer 3)) (assign \"=\" (ident i) (binary \"+\" (ident i) (integer 1))) (block)))))",
		},
		{
			"void f() { for (;;) { } }",
			"(block (func void f (params) (block (for (block) () () (block)))))",
		},
		{
			"void f() { while (x) { break; continue; } }",
			"(block (func void f (params) (block (while (ident x) (block (break) (continue))))))",
		},
	}

	for _, test := range tests {
		be.Equal(t, parseProgramString(t, test.input), test.expected)
	}
}

func TestParseSwitch(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"void f() { switch (x) { case 1: return; default: return; } }",
			"(block (func void f (params) (block (switch (ident x) (block (case (integer 1) (return)) (default (return)))))))",
		},
		// A case labels exactly one statement; the rest are siblings.
		{
			"void f() { switch (x) { case 1: a = 1; a = 2; } }",
			"(block (func void f (params) (block (switch (ident x) (block (case (integer 1) (expr (assign \"=\" (ident a) (integer 1)))) (expr (assign \"=\" (ident a) (integer 2))))))))",
		},
	}

	for _, test := range tests {
		be.Equal(t, parseProgramString(t, test.input), test.expected)
	}
}

func TestParseLabelsAndGoto(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"void f() { done: return; }",
			"(block (func void f (params) (block (label done (return)))))",
		},
		{
			"void f() { goto done; done: return; }",
			"(block (func void f (params) (block (goto done) (label done (return)))))",
		},
	}

	for _, test := range tests {
		be.Equal(t, parseProgramString(t, test.input), test.expected)
	}
}

func TestParseMiscStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"void f() { ; }", "(block (func void f (params) (block (expr ()))))"},
		{"void f() { { } }", "(block (func void f (params) (block (block))))"},
		{"void f() { return; }", "(block (func void f (params) (block (return))))"},
		{"void f() { x; }", "(block (func void f (params) (block (expr (ident x)))))"},
		{
			"void f() { int x = 1; }",
			"(block (func void f (params) (block (decl int x (integer 1)))))",
		},
	}

	for _, test := range tests {
		be.Equal(t, parseProgramString(t, test.input), test.expected)
	}
}

func TestParseStatementErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"int x", "error: expected ';' but got ''"},
		{"int = 3;", "error: expected declaration name but got '='"},
		{"struct;", "error: expected struct name or body but got ';'"},
		{"typedef struct A;", "error: expected typedef name but got ';'"},
		{"int f(int) { return 0; }", "error: expected parameter name but got ')'"},
		{"int f(int a,) { return 0; }", "error: expected parameter after ','"},
		{"void f() { do { } until (x); }", "error: expected 'WHILE' but got 'until'"},
		{"void f() { if x { } }", "error: expected '(' but got 'x'"},
		{"void f() { goto; }", "error: expected label name after 'goto' but got ';'"},
		{"void f() {", "error: expected '}' but got end of input"},
	}

	for _, test := range tests {
		err := parseProgramError(t, test.input)
		be.Equal(t, err.Error(), test.wantErr)
	}
}

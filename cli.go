package main

import (
	"flag"
	"fmt"
	"os"
)

const defaultObjectVersion = 12

func showUsage() {
	fmt.Fprintf(os.Stderr, `Saga - a compiler front end for the Saga scripting language

Usage:
    saga <command> [arguments]

Commands:
    check <file>    Parse and analyze a .saga file
    ast <file>      Print the AST of a .saga file as an s-expression
    help            Show this help message

Examples:
    saga check scripts/title.saga
    saga check -v scripts/title.saga
    saga ast -analyzed scripts/title.saga

Use "saga <command> -h" for more information about a command.
`)
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	version := fs.Int("version", defaultObjectVersion, "Object format version to target")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: saga check [-v] [-version N] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse and analyze a .saga file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}

	input, err := readSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	obj := NewObject(*version)
	prog, err := compileProgram(obj, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)

	if *verbose {
		fmt.Printf("AST: %s\n", ToSExpr(prog))
		fmt.Printf("Object: %s\n", obj.ToSExpr())
	}
}

func astCommand(args []string) {
	fs := flag.NewFlagSet("ast", flag.ExitOnError)
	analyzed := fs.Bool("analyzed", false, "Analyze before printing; shows the resolved, folded tree")
	version := fs.Int("version", defaultObjectVersion, "Object format version to target")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: saga ast [-analyzed] [-version N] <file>\n")
		fmt.Fprintf(os.Stderr, "Print the AST of a .saga file as an s-expression\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)

	input, err := readSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	l := NewLexer(input)
	l.NextToken()
	prog, err := ParseProgram(l)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}

	if *analyzed {
		if _, err := AnalyzeProgram(NewObject(*version), prog); err != nil {
			fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println(ToSExpr(prog))
}

// readSource loads a source file and appends the null terminator the
// lexer scans for.
func readSource(filename string) ([]byte, error) {
	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return append(sourceBytes, '\x00'), nil
}

// compileProgram parses and analyzes one translation unit, filling obj
// with everything the code generator will need.
func compileProgram(obj *Object, input []byte) (*Block, error) {
	l := NewLexer(input)
	l.NextToken()
	prog, err := ParseProgram(l)
	if err != nil {
		return nil, err
	}
	return AnalyzeProgram(obj, prog)
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "check":
		checkCommand(args)
	case "ast":
		astCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/funvibe/braid/internal/config"
	"github.com/funvibe/braid/internal/evaluator"
	"github.com/funvibe/braid/internal/lexer"
	"github.com/funvibe/braid/internal/parser"
	"github.com/funvibe/braid/internal/repl"
)

// Run is the binary entry: with a file argument it evaluates the file,
// without one it starts the interactive session.
func Run(args []string) int {
	cfg, err := config.Load(config.RCPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "braid: %v\n", err)
		cfg = config.Default()
	}

	e := evaluator.New()

	if len(args) > 0 {
		switch args[0] {
		case "-v", "--version":
			fmt.Println("braid", config.Version)
			return 0
		case "-h", "--help":
			usage()
			return 0
		}
		return runFile(e, args[0])
	}

	r := repl.New(e, cfg, os.Stdout)
	fmt.Printf("braid %s — type forms, Ctrl-D exits\n", config.Version)
	if err := r.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "braid: %v\n", err)
		return 1
	}
	return 0
}

func runFile(e *evaluator.Evaluator, path string) int {
	path, src, err := readScript(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "braid: %v\n", err)
		return 1
	}

	forms, err := parser.New(lexer.NewFile(string(src), path), e.Runtime).ParseProgram()
	if err != nil {
		fmt.Fprintf(os.Stderr, "braid: %v\n", err)
		return 1
	}

	for _, form := range forms {
		result := e.Eval(form)
		if errObj, ok := result.(*evaluator.Error); ok {
			fmt.Fprintln(os.Stderr, errObj.Inspect())
			return 1
		}
	}
	return 0
}

// readScript loads a script argument. An argument without a recognized
// source extension that does not name a file on disk is retried with
// each recognized extension appended, so `braid examples/hello` finds
// `examples/hello.braid`.
func readScript(path string) (string, []byte, error) {
	src, err := os.ReadFile(path)
	if err == nil {
		return path, src, nil
	}
	if !os.IsNotExist(err) || config.HasSourceExt(path) {
		return path, nil, err
	}
	for _, ext := range config.SourceFileExtensions {
		if src, retryErr := os.ReadFile(path + ext); retryErr == nil {
			return path + ext, src, nil
		}
	}
	return path, nil, err
}

func usage() {
	fmt.Println(`usage: braid [file` + config.SourceFileExt + `]

Without a file, braid starts an interactive session. A file argument
without a recognized extension (` + strings.Join(config.SourceFileExtensions, ", ") + `)
is retried with each one appended. Options:
  -v, --version   print the version
  -h, --help      print this help`)
}

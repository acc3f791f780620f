package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/braid/internal/config"
	"github.com/funvibe/braid/internal/evaluator"
	"github.com/funvibe/braid/internal/history"
	"github.com/funvibe/braid/internal/lexer"
	"github.com/funvibe/braid/internal/parser"
)

// REPL drives the interactive session: the line editor in front, the
// evaluator behind, history in between.
type REPL struct {
	eval   *evaluator.Evaluator
	cfg    *config.Config
	editor *Editor
	store  *history.Store
	out    io.Writer
	color  bool
}

func New(e *evaluator.Evaluator, cfg *config.Config, out io.Writer) *REPL {
	tty := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	r := &REPL{eval: e, cfg: cfg, out: out}
	r.color = r.detectColor(tty)
	r.editor = NewEditor(out, tty, func(prefix string) []string {
		var matches []string
		for _, name := range e.Runtime.Symbols.Names() {
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
				matches = append(matches, name)
			}
		}
		return matches
	})

	if store, err := history.Open(cfg.HistoryFile, cfg.HistoryMax); err == nil {
		r.store = store
		if recent, err := store.Recent(cfg.HistoryMax); err == nil {
			r.editor.SeedHistory(recent)
		}
	} else {
		fmt.Fprintf(os.Stderr, "braid: history disabled: %v\n", err)
	}

	return r
}

func (r *REPL) detectColor(tty bool) bool {
	if enabled, ok := r.cfg.ColorEnabled(); ok {
		return enabled
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	if !tty || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func (r *REPL) Close() {
	if r.store != nil {
		r.store.Close()
	}
}

// Run loops until end of input. Forms spanning multiple lines keep
// reading under a continuation prompt while delimiters stay unbalanced.
func (r *REPL) Run() error {
	defer r.Close()
	if r.eval.Frame != nil {
		r.eval.Frame.IsInteractive = true
	}

	for {
		input, err := r.readForm()
		if err == io.EOF {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}

		r.editor.Remember(input)
		if r.store != nil {
			if err := r.store.Append(input); err != nil {
				fmt.Fprintf(os.Stderr, "braid: history: %v\n", err)
			}
		}

		r.evalAndPrint(input)
	}
}

// readForm reads one complete form, continuing across lines while the
// delimiter balance is positive.
func (r *REPL) readForm() (string, error) {
	line, err := r.editor.ReadLine(r.cfg.Prompt)
	if err != nil {
		return "", err
	}
	cont := "... "
	if pad := len(r.cfg.Prompt) - len(cont); pad > 0 {
		cont = strings.Repeat(" ", pad) + cont
	}
	input := line
	for lexer.Balance(input) > 0 {
		more, err := r.editor.ReadLine(cont)
		if err != nil {
			return input, err
		}
		input += "\n" + more
	}
	return input, nil
}

func (r *REPL) evalAndPrint(input string) {
	forms, err := parser.ParseString(input, r.eval.Runtime)
	if err != nil {
		r.printError(err.Error())
		return
	}
	for _, form := range forms {
		result := r.eval.Eval(form)
		if errObj, ok := result.(*evaluator.Error); ok {
			r.printError(errObj.Inspect())
			continue
		}
		if _, isNil := result.(*evaluator.Nil); isNil {
			continue
		}
		fmt.Fprintln(r.out, r.eval.StringOf(result))
	}
}

func (r *REPL) printError(msg string) {
	if r.color {
		fmt.Fprintf(r.out, "\x1b[31m%s\x1b[0m\n", msg)
		return
	}
	fmt.Fprintln(r.out, msg)
}

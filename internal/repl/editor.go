package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Completer proposes completions for the word before the cursor.
type Completer func(prefix string) []string

// Editor is the interactive line editor: raw-mode editing with cursor
// movement, kill-to-end, history recall and word completion. When stdin
// is not a terminal it degrades to buffered line reading.
type Editor struct {
	in       *bufio.Reader
	out      io.Writer
	isTTY    bool
	history  []string
	complete Completer
}

func NewEditor(out io.Writer, isTTY bool, complete Completer) *Editor {
	return &Editor{
		in:       bufio.NewReader(os.Stdin),
		out:      out,
		isTTY:    isTTY,
		complete: complete,
	}
}

// SeedHistory preloads recall entries, oldest first.
func (ed *Editor) SeedHistory(lines []string) {
	ed.history = append(ed.history, lines...)
}

// Remember appends a line to the in-memory recall list.
func (ed *Editor) Remember(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if n := len(ed.history); n > 0 && ed.history[n-1] == line {
		return
	}
	ed.history = append(ed.history, line)
}

// ReadLine reads one line under the given prompt. io.EOF reports
// end-of-input (Ctrl-D on an empty line, or closed stdin).
func (ed *Editor) ReadLine(prompt string) (string, error) {
	if !ed.isTTY {
		fmt.Fprint(ed.out, prompt)
		line, err := ed.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if err != nil && line != "" {
			return line, nil
		}
		if err != nil {
			return "", err
		}
		return line, nil
	}
	return ed.readRaw(prompt)
}

func (ed *Editor) readRaw(prompt string) (string, error) {
	state, err := enterRawMode()
	if err != nil {
		// Raw mode can fail under exotic terminals; degrade quietly.
		ed.isTTY = false
		return ed.ReadLine(prompt)
	}
	defer state.restore()

	var line []rune
	pos := 0
	histIdx := len(ed.history)
	saved := ""

	redraw := func() {
		fmt.Fprintf(ed.out, "\r\x1b[K%s%s", prompt, string(line))
		if tail := len(line) - pos; tail > 0 {
			fmt.Fprintf(ed.out, "\x1b[%dD", tail)
		}
	}
	redraw()

	for {
		b, err := ed.in.ReadByte()
		if err != nil {
			fmt.Fprintln(ed.out)
			return string(line), err
		}

		switch b {
		case '\r', '\n':
			fmt.Fprintln(ed.out, "\r")
			return string(line), nil

		case 0x03: // Ctrl-C
			fmt.Fprintln(ed.out, "^C\r")
			line = line[:0]
			pos = 0
			histIdx = len(ed.history)
			redraw()

		case 0x04: // Ctrl-D
			if len(line) == 0 {
				fmt.Fprintln(ed.out, "\r")
				return "", io.EOF
			}
			if pos < len(line) {
				line = append(line[:pos], line[pos+1:]...)
				redraw()
			}

		case 0x01: // Ctrl-A
			pos = 0
			redraw()

		case 0x05: // Ctrl-E
			pos = len(line)
			redraw()

		case 0x0b: // Ctrl-K: kill to end
			line = line[:pos]
			redraw()

		case 0x15: // Ctrl-U: kill to start
			line = append([]rune{}, line[pos:]...)
			pos = 0
			redraw()

		case 0x7f, 0x08: // backspace
			if pos > 0 {
				line = append(line[:pos-1], line[pos:]...)
				pos--
				redraw()
			}

		case '\t':
			if ed.complete == nil {
				break
			}
			line, pos = ed.completeWord(line, pos)
			redraw()

		case 0x1b: // escape sequence
			seq := ed.readEscape()
			switch seq {
			case "[A": // up
				if histIdx > 0 {
					if histIdx == len(ed.history) {
						saved = string(line)
					}
					histIdx--
					line = []rune(ed.history[histIdx])
					pos = len(line)
					redraw()
				}
			case "[B": // down
				if histIdx < len(ed.history) {
					histIdx++
					if histIdx == len(ed.history) {
						line = []rune(saved)
					} else {
						line = []rune(ed.history[histIdx])
					}
					pos = len(line)
					redraw()
				}
			case "[C": // right
				if pos < len(line) {
					pos++
					redraw()
				}
			case "[D": // left
				if pos > 0 {
					pos--
					redraw()
				}
			case "[H":
				pos = 0
				redraw()
			case "[F":
				pos = len(line)
				redraw()
			case "[3~": // delete
				if pos < len(line) {
					line = append(line[:pos], line[pos+1:]...)
					redraw()
				}
			}

		default:
			if b >= 0x20 {
				r := rune(b)
				if b >= 0x80 {
					// Re-join a UTF-8 sequence.
					ed.in.UnreadByte()
					r, _, _ = ed.in.ReadRune()
				}
				line = append(line[:pos], append([]rune{r}, line[pos:]...)...)
				pos++
				redraw()
			}
		}
	}
}

func (ed *Editor) readEscape() string {
	var seq strings.Builder
	b, err := ed.in.ReadByte()
	if err != nil || b != '[' {
		return ""
	}
	seq.WriteByte(b)
	for {
		b, err := ed.in.ReadByte()
		if err != nil {
			return seq.String()
		}
		seq.WriteByte(b)
		if b >= 0x40 && b <= 0x7e {
			return seq.String()
		}
	}
}

// completeWord completes the word ending at the cursor. A unique match
// is inserted; multiple matches extend to the common prefix.
func (ed *Editor) completeWord(line []rune, pos int) ([]rune, int) {
	start := pos
	for start > 0 && !isBreakRune(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return line, pos
	}

	matches := ed.complete(prefix)
	if len(matches) == 0 {
		return line, pos
	}
	sort.Strings(matches)

	common := matches[0]
	for _, m := range matches[1:] {
		common = commonPrefix(common, m)
	}
	if len(common) <= len(prefix) {
		return line, pos
	}

	replacement := []rune(common)
	newLine := append([]rune{}, line[:start]...)
	newLine = append(newLine, replacement...)
	newLine = append(newLine, line[pos:]...)
	return newLine, start + len(replacement)
}

func isBreakRune(r rune) bool {
	switch r {
	case ' ', '\t', '(', ')', '[', ']', '{', '}', '"':
		return true
	}
	return false
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

package repl

import (
	"bytes"
	"testing"
)

func TestCompleteWord(t *testing.T) {
	ed := NewEditor(&bytes.Buffer{}, false, func(prefix string) []string {
		all := []string{"println", "print", "printf"}
		var matches []string
		for _, name := range all {
			if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
				matches = append(matches, name)
			}
		}
		return matches
	})

	tests := []struct {
		name     string
		line     string
		pos      int
		wantLine string
		wantPos  int
	}{
		{"extends to common prefix", "(pri", 4, "(print", 6},
		{"no matches leaves line", "(zz", 3, "(zz", 3},
		{"empty prefix leaves line", "(", 1, "(", 1},
		{"completes mid line", "(pri x)", 4, "(print x)", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, pos := ed.completeWord([]rune(tt.line), tt.pos)
			if string(line) != tt.wantLine || pos != tt.wantPos {
				t.Errorf("got %q/%d, want %q/%d", string(line), pos, tt.wantLine, tt.wantPos)
			}
		})
	}
}

func TestCompleteWordUniqueMatch(t *testing.T) {
	ed := NewEditor(&bytes.Buffer{}, false, func(prefix string) []string {
		return []string{"gensym"}
	})
	line, pos := ed.completeWord([]rune("gen"), 3)
	if string(line) != "gensym" || pos != 6 {
		t.Errorf("got %q/%d, want gensym/6", string(line), pos)
	}
}

func TestRememberSkipsBlanksAndDuplicates(t *testing.T) {
	ed := NewEditor(&bytes.Buffer{}, false, nil)
	ed.Remember("(a)")
	ed.Remember("(a)")
	ed.Remember("   ")
	ed.Remember("(b)")
	if len(ed.history) != 2 {
		t.Errorf("history = %v, want 2 entries", ed.history)
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"print", "println", "print"},
		{"abc", "abd", "ab"},
		{"x", "y", ""},
		{"", "anything", ""},
	}
	for _, tt := range tests {
		if got := commonPrefix(tt.a, tt.b); got != tt.want {
			t.Errorf("commonPrefix(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

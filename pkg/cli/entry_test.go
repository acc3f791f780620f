package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadScriptExact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.braid")
	if err := os.WriteFile(path, []byte(`(println "hi")`), 0o644); err != nil {
		t.Fatal(err)
	}
	resolved, src, err := readScript(path)
	if err != nil {
		t.Fatalf("readScript: %v", err)
	}
	if resolved != path || len(src) == 0 {
		t.Errorf("resolved = %q, %d bytes", resolved, len(src))
	}
}

func TestReadScriptAppendsExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.braid")
	if err := os.WriteFile(path, []byte(`(println "hi")`), 0o644); err != nil {
		t.Fatal(err)
	}
	resolved, src, err := readScript(filepath.Join(dir, "hello"))
	if err != nil {
		t.Fatalf("readScript: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if len(src) == 0 {
		t.Error("script body must be read")
	}
}

func TestReadScriptMissing(t *testing.T) {
	if _, _, err := readScript(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("missing script must error")
	}
	// An explicit extension is not retried further.
	if _, _, err := readScript(filepath.Join(t.TempDir(), "nope.braid")); err == nil {
		t.Error("missing script with extension must error")
	}
}

func TestRunScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.braid")
	if err := os.WriteFile(path, []byte(`(let x (+ 1 2))`), 0o644); err != nil {
		t.Fatal(err)
	}
	if code := Run([]string{path}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunBadScriptFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.braid")
	if err := os.WriteFile(path, []byte(`(unbound-thing 1)`), 0o644); err != nil {
		t.Fatal(err)
	}
	if code := Run([]string{path}); code == 0 {
		t.Error("a failing script must exit nonzero")
	}
}

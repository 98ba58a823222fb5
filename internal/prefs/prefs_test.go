package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "prefs.json")
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(testPath(t))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if got := s.Get("stream", "visible_limit", "3"); got != "3" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestSetPersistsAcrossOpens(t *testing.T) {
	path := testPath(t)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("stream", "visible_limit", "5"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("ui", "theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Get("stream", "visible_limit", "3"); got != "5" {
		t.Errorf("expected 5, got %q", got)
	}
	if got := reopened.Get("ui", "theme", "light"); got != "dark" {
		t.Errorf("expected dark, got %q", got)
	}
}

func TestNamespacesIsolated(t *testing.T) {
	s, _ := Open(testPath(t))
	s.Set("a", "key", "one")
	s.Set("b", "key", "two")

	if got := s.Get("a", "key", ""); got != "one" {
		t.Errorf("namespace a: got %q", got)
	}
	if got := s.Get("b", "key", ""); got != "two" {
		t.Errorf("namespace b: got %q", got)
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := testPath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("corrupt file should not be fatal: %v", err)
	}
	if got := s.Get("any", "key", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}

	// The store stays writable after recovering.
	if err := s.Set("any", "key", "value"); err != nil {
		t.Errorf("set after recovery: %v", err)
	}
}

func TestNamespaceCopy(t *testing.T) {
	s, _ := Open(testPath(t))
	s.Set("ui", "theme", "dark")

	ns := s.Namespace("ui")
	ns["theme"] = "tampered"

	if got := s.Get("ui", "theme", ""); got != "dark" {
		t.Errorf("Namespace must return a copy, got %q", got)
	}
}

func TestCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "prefs.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("a", "b", "c"); err != nil {
		t.Fatalf("set should create parent directories: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("prefs file missing: %v", err)
	}
}

package device

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfiguredIDWins(t *testing.T) {
	m := NewIdentityManager()
	id, err := m.GetOrGenerateConsoleID("console-fixed")
	if err != nil || id != "console-fixed" {
		t.Fatalf("expected configured id, got %q err=%v", id, err)
	}
}

func TestMachineIDIsStableAndHashed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "machine-id")
	if err := os.WriteFile(path, []byte("abc123\n"), 0644); err != nil {
		t.Fatalf("write machine id: %v", err)
	}
	m := &IdentityManager{paths: []string{path}}

	first, err := m.GetOrGenerateConsoleID("")
	if err != nil {
		t.Fatalf("get id: %v", err)
	}
	second, _ := m.GetOrGenerateConsoleID("")
	if first != second {
		t.Fatalf("expected stable id, got %q and %q", first, second)
	}
	if strings.Contains(first, "abc123") {
		t.Fatalf("raw machine id leaked into %q", first)
	}
}

func TestFallsBackToHostnameThenUUID(t *testing.T) {
	m := &IdentityManager{
		paths:    []string{filepath.Join(t.TempDir(), "missing")},
		hostname: func() (string, error) { return "booth-3", nil },
	}
	id, _ := m.GetOrGenerateConsoleID("")
	if id != "console-booth-3" {
		t.Fatalf("expected hostname id, got %q", id)
	}

	m.hostname = func() (string, error) { return "", errors.New("no hostname") }
	id, _ = m.GetOrGenerateConsoleID("")
	if !strings.HasPrefix(id, "console-") || len(id) != len("console-")+36 {
		t.Fatalf("expected uuid fallback, got %q", id)
	}
}

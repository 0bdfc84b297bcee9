package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogFileCreatesAndPrunes(t *testing.T) {
	dir := t.TempDir()

	// Pre-seed old log files; lexically smallest are the oldest.
	for _, name := range []string{
		"ideaforge-20250101-000000.log",
		"ideaforge-20250102-000000.log",
		"ideaforge-20250103-000000.log",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("seed log file: %v", err)
		}
	}

	f, err := NewLogFile(dir, 2)
	if err != nil {
		t.Fatalf("NewLogFile() error = %v", err)
	}
	defer f.Close()

	matches, err := filepath.Glob(filepath.Join(dir, "ideaforge-*.log"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("log files after prune = %d, want 2", len(matches))
	}
	// The oldest two are gone; the newly created file survives.
	for _, m := range matches {
		if filepath.Base(m) == "ideaforge-20250101-000000.log" ||
			filepath.Base(m) == "ideaforge-20250102-000000.log" {
			t.Errorf("old log %s should have been pruned", m)
		}
	}
}

func TestNewLogFileCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	f, err := NewLogFile(dir, 5)
	if err != nil {
		t.Fatalf("NewLogFile() error = %v", err)
	}
	defer f.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log directory not created: %v", err)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// NewLogFile opens a timestamped log file under dir and prunes older files
// so at most keep remain. The returned handle is the caller's to close.
func NewLogFile(dir string, keep int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}

	name := filepath.Join(dir, "ideaforge-"+time.Now().Format("20060102-150405")+".log")
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	if err := pruneLogs(dir, keep); err != nil {
		// Pruning failure should not block startup; the new file is usable.
		fmt.Fprintf(os.Stderr, "prune old logs: %v\n", err)
	}

	return f, nil
}

// pruneLogs removes the oldest log files once more than keep exist.
// Timestamped names sort chronologically, so lexical order is age order.
func pruneLogs(dir string, keep int) error {
	matches, err := filepath.Glob(filepath.Join(dir, "ideaforge-*.log"))
	if err != nil {
		return err
	}
	if keep < 1 || len(matches) <= keep {
		return nil
	}

	sort.Strings(matches)
	for _, old := range matches[:len(matches)-keep] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}

package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const logFilePrefix = "reportdesk-"

// SetupLogFile opens a timestamped log file under dir and prunes older files
// beyond maxFiles. The caller closes the returned file.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(dir, logFilePrefix+time.Now().Format("2006-01-02T15-04-05")+".log")
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if err := pruneLogs(dir, maxFiles); err != nil {
		// logging still works with stale files around
		fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
	}
	return f, nil
}

// NewLogger builds the process logger: JSON on stdout, mirrored into w when
// w is non-nil. Debug level follows cfg.Debug.
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	if w != nil {
		out = io.MultiWriter(os.Stdout, w)
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}

func pruneLogs(dir string, maxFiles int) error {
	files, err := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	if err != nil {
		return err
	}
	if maxFiles < 1 || len(files) <= maxFiles {
		return nil
	}

	// timestamp names sort chronologically
	sort.Strings(files)
	for _, f := range files[:len(files)-maxFiles] {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("remove %s: %w", f, err)
		}
	}
	return nil
}

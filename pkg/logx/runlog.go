package logx

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunLogName returns the file name of the run log for runID started at t.
// The id keeps runs started within the same second in separate files.
func RunLogName(t time.Time, runID string) string {
	ts := t.Format("20060102_150405")
	if runID == "" {
		return fmt.Sprintf("email_log_%s.txt", ts)
	}
	return fmt.Sprintf("email_log_%s_%s.txt", ts, filepath.Base(runID))
}

// NewRunLog opens an append-only run log inside dir and returns a text
// logger writing to it along with the file path. Close the logger when the
// run ends.
func NewRunLog(dir string, startedAt time.Time, runID string) (*Logger, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create run log directory: %w", err)
	}

	path := filepath.Join(dir, RunLogName(startedAt, runID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open run log: %w", err)
	}

	logger := NewLogger(&Config{
		Level:           LevelInfo,
		Format:          FormatText,
		EnableTimestamp: true,
		TimeFormat:      textTimeFormat,
		Output:          f,
	})
	return logger, path, nil
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	return NewLogger(&Config{Level: LevelOff, Format: FormatText, Output: os.Stdout})
}

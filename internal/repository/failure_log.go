package repository

import (
	"fmt"
	"os"
	"sync"
	"time"

	"VakitApp/internal/domain/model"
)

// FileFailureLogger appends batch-fetch failures to a line-oriented log file,
// one line per district and reason.
type FileFailureLogger struct {
	mu   sync.Mutex
	path string
}

func NewFileFailureLogger(path string) *FileFailureLogger {
	return &FileFailureLogger{path: path}
}

func (l *FileFailureLogger) Record(runID string, district *model.District, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open failure log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s, %s - reason: %s (run %s)\n",
		time.Now().Format(time.RFC3339), district.DistrictName, district.CityName, reason, runID)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to failure log: %w", err)
	}
	return nil
}

// Truncate clears the log before a fresh batch run, matching the fetcher's
// behavior of starting every run with an empty failure list.
func (l *FileFailureLogger) Truncate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate failure log: %w", err)
	}
	return nil
}

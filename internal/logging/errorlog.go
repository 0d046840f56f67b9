package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrorLog appends one plain-text line per failed verse, e.g.
// "No content for this verse: 27 2:44". The file is append-only so
// successive runs accumulate a worklist for targeted regeneration.
type ErrorLog struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// OpenErrorLog opens (creating if needed) the error log at path.
func OpenErrorLog(path string) (*ErrorLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create error log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log %s: %w", path, err)
	}
	return &ErrorLog{path: path, file: f}, nil
}

// Path returns the file the log appends to.
func (e *ErrorLog) Path() string {
	return e.path
}

// Record appends line followed by a newline.
func (e *ErrorLog) Record(line string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return fmt.Errorf("error log %s is closed", e.path)
	}
	if _, err := fmt.Fprintln(e.file, line); err != nil {
		return fmt.Errorf("failed to append to error log: %w", err)
	}
	return nil
}

// Close closes the underlying file. Safe to call twice.
func (e *ErrorLog) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

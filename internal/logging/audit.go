package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AuditEventType names one outcome of a generation pass.
type AuditEventType string

const (
	AuditRunStart  AuditEventType = "run_start"
	AuditRunEnd    AuditEventType = "run_end"
	AuditGenerated AuditEventType = "verse_generated"
	AuditSkipped   AuditEventType = "verse_skipped"
	AuditFailed    AuditEventType = "verse_failed"
	AuditDryRun    AuditEventType = "verse_dry_run"
)

// AuditEvent is one JSON line of the run audit.
type AuditEvent struct {
	Timestamp  int64          `json:"ts"` // Unix milliseconds
	EventType  AuditEventType `json:"event"`
	RunID      string         `json:"run"`
	Target     string         `json:"target,omitempty"` // verse key "B C:V"
	Success    bool           `json:"success"`
	DurationMs int64          `json:"dur_ms,omitempty"`
	Error      string         `json:"error,omitempty"`
	Message    string         `json:"msg,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// AuditLogger appends AuditEvents to a JSON-lines file, one run id per logger.
// A nil *AuditLogger discards everything, so callers need not check.
type AuditLogger struct {
	mu    sync.Mutex
	runID string
	file  *os.File
	now   func() time.Time
}

// OpenAudit opens (creating if needed) the audit file at path.
func OpenAudit(path, runID string) (*AuditLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log %s: %w", path, err)
	}
	return &AuditLogger{runID: runID, file: f, now: time.Now}, nil
}

// Log writes an event, filling in the timestamp and run id.
func (a *AuditLogger) Log(event AuditEvent) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = a.now().UnixMilli()
	}
	if event.RunID == "" {
		event.RunID = a.runID
	}
	data, err := json.Marshal(event)
	if err != nil {
		Get(CategoryBatch).Warn("failed to encode audit event", zap.Error(err))
		return
	}
	if _, err := a.file.Write(append(data, '\n')); err != nil {
		Get(CategoryBatch).Warn("failed to write audit event", zap.Error(err))
	}
}

// Verse records the outcome for one verse.
func (a *AuditLogger) Verse(event AuditEventType, target string, dur time.Duration, err error) {
	e := AuditEvent{
		EventType:  event,
		Target:     target,
		Success:    err == nil && event != AuditFailed,
		DurationMs: dur.Milliseconds(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	a.Log(e)
}

// Run records the start or end of a pass with summary fields.
func (a *AuditLogger) Run(event AuditEventType, fields map[string]any) {
	a.Log(AuditEvent{EventType: event, Success: true, Fields: fields})
}

// Close closes the file. Safe on nil and safe to call twice.
func (a *AuditLogger) Close() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

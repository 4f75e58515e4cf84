// Package hooks provides production-ready Logger implementations.
package hooks

import (
	"log/slog"
	"sync"

	"github.com/Skryldev/texture-pipeline/core"
)

// ── Structured logger adapter ─────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) { s.log.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...interface{})  { s.log.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...interface{})  { s.log.Warn(msg, fields...) }
func (s *SlogLogger) Error(msg string, fields ...interface{}) { s.log.Error(msg, fields...) }

// ── Capture logger ────────────────────────────────────────────────────────────

// Record is one captured log call.
type Record struct {
	Level  string
	Msg    string
	Fields []interface{}
}

// CaptureLogger records log calls for inspection; used by tests and the
// batch driver's error summaries.
type CaptureLogger struct {
	mu      sync.Mutex
	records []Record
}

// NewCaptureLogger creates an empty CaptureLogger.
func NewCaptureLogger() *CaptureLogger { return &CaptureLogger{} }

func (c *CaptureLogger) add(level, msg string, fields []interface{}) {
	c.mu.Lock()
	c.records = append(c.records, Record{Level: level, Msg: msg, Fields: fields})
	c.mu.Unlock()
}

func (c *CaptureLogger) Debug(msg string, fields ...interface{}) { c.add("debug", msg, fields) }
func (c *CaptureLogger) Info(msg string, fields ...interface{})  { c.add("info", msg, fields) }
func (c *CaptureLogger) Warn(msg string, fields ...interface{})  { c.add("warn", msg, fields) }
func (c *CaptureLogger) Error(msg string, fields ...interface{}) { c.add("error", msg, fields) }

// Records returns a copy of the captured calls.
func (c *CaptureLogger) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Record(nil), c.records...)
}

// CountByMsg returns how many captured calls carry the given message.
func (c *CaptureLogger) CountByMsg(msg string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.records {
		if r.Msg == msg {
			n++
		}
	}
	return n
}

var (
	_ core.Logger = (*SlogLogger)(nil)
	_ core.Logger = (*CaptureLogger)(nil)
)

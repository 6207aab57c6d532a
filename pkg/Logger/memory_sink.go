package Logger

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// Entry is one captured log line, the shape the system log view renders.
type Entry struct {
	Time     time.Time `json:"time"`
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
}

// MemorySink is a zapcore.Core that keeps the most recent entries in memory.
// When the cap is reached the oldest entries are discarded.
type MemorySink struct {
	mu      sync.RWMutex
	entries []Entry
	cap     int
}

const defaultSinkCap = 500

func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = defaultSinkCap
	}
	return &MemorySink{cap: capacity}
}

// Enabled implements zapcore.Core.
func (s *MemorySink) Enabled(zapcore.Level) bool { return true }

// With implements zapcore.Core. Structured fields are dropped, the sink
// only feeds the human-readable log view.
func (s *MemorySink) With([]zapcore.Field) zapcore.Core { return s }

// Check implements zapcore.Core.
func (s *MemorySink) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, s)
}

// Write implements zapcore.Core.
func (s *MemorySink) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, Entry{
		Time:     ent.Time,
		Severity: ent.Level.String(),
		Message:  ent.Message,
	})
	if len(s.entries) > s.cap {
		s.entries = s.entries[len(s.entries)-s.cap:]
	}
	return nil
}

// Sync implements zapcore.Core.
func (s *MemorySink) Sync() error { return nil }

// Entries returns up to limit most recent entries, oldest first.
// limit <= 0 returns everything.
func (s *MemorySink) Entries(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if limit > 0 && len(s.entries) > limit {
		start = len(s.entries) - limit
	}
	out := make([]Entry, len(s.entries)-start)
	copy(out, s.entries[start:])
	return out
}

// Clear drops all captured entries.
func (s *MemorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

package world

import (
	"fmt"
	"log/slog"
)

// MaxLogEntries caps the world event log.
const MaxLogEntries = 200

// LogEntry is one line of the world event log (shown to players, persisted in saves).
type LogEntry struct {
	Minute float64 `json:"minute"`
	Text   string  `json:"text"`
}

// Logf appends a formatted entry stamped with the current clock and mirrors it to slog.
func (w *World) Logf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	w.appendLog(LogEntry{Minute: w.clock, Text: text})
	slog.Debug("world event", "minute", w.clock, "text", text)
}

func (w *World) appendLog(e LogEntry) {
	w.log = append(w.log, e)
	if over := len(w.log) - MaxLogEntries; over > 0 {
		w.log = append(w.log[:0], w.log[over:]...)
	}
}

// Log returns a copy of the event log, oldest first.
func (w *World) Log() []LogEntry {
	out := make([]LogEntry, len(w.log))
	copy(out, w.log)
	return out
}

// SetLog replaces the event log (used when loading a save).
func (w *World) SetLog(entries []LogEntry) {
	w.log = w.log[:0]
	for _, e := range entries {
		w.appendLog(e)
	}
}

package ai

import "sync/atomic"

// debugDecisions gates per-agent decision traces. Evaluating slog's level on
// every decision of every agent is measurable at population scale, so callers
// check this flag first. Set from main according to config.LogLevel.
var debugDecisions atomic.Bool

// EnableDebugLogging turns decision traces on or off.
func EnableDebugLogging(enabled bool) {
	debugDecisions.Store(enabled)
}

// IsDebugEnabled reports whether decision traces are on. Guard expensive log
// arguments with it:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("decision", "candidates", d.Candidates)
//	}
func IsDebugEnabled() bool {
	return debugDecisions.Load()
}

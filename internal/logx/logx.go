// Package logx is a thin wrapper over the standard log package giving every
// call site a consistent "[component] message" prefix, the same plain
// logging texture the rest of this codebase's lineage uses (no structured
// logging library is pulled in for a tool this size).
package logx

import "log"

// Warn logs a warning-level line for component.
func Warn(component, format string, args ...any) {
	log.Printf("[%s] warn: "+format, append([]any{component}, args...)...)
}

// Info logs an informational line for component.
func Info(component, format string, args ...any) {
	log.Printf("[%s] "+format, append([]any{component}, args...)...)
}

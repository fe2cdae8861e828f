// Package debug implements a trace facility for the decode hot path. Format
// is a no-op until Enable is called, so callers can sprinkle trace points
// through page and column decoding without paying for them by default.
package debug

import (
	"log"
	"sync/atomic"
)

var enabled atomic.Bool

// Format logs a trace message, or does nothing until Enable has been
// called. Safe to call concurrently, including from goroutines decoding
// different columns of the same row group.
func Format(format string, args ...any) {
	if enabled.Load() {
		log.Printf("parquet: "+format, args...)
	}
}

// Enable turns on trace logging for the remainder of the process lifetime.
func Enable() {
	enabled.Store(true)
}

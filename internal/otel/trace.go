package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is read on the UI goroutine and written by tests.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("CATALOG_TRACE") != "")
}

// TraceEnabled reports whether CATALOG_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// SetTraceEnabled overrides the CATALOG_TRACE setting.
func SetTraceEnabled(v bool) {
	traceEnabled.Store(v)
}

/*
Package telemetrylog
File: telemetrylog.go
Description:
    Centralizes structured logging for the telemetry core.

    Every component (journal tailer, sidecar watcher, event bus, projector,
    broadcast fabric) gets a component-scoped zerolog.Logger via Component,
    instead of calling the bare "log" package directly. Output defaults to a
    human-readable console writer; cmd/telemetryd can swap the global level
    or writer at process start.
*/
package telemetrylog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().
		Timestamp().
		Logger()
)

// Configure replaces the base logger's level and output writer. Intended to
// be called once, early, from cmd/telemetryd.
func Configure(level zerolog.Level, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	base = zerolog.New(w).With().Timestamp().Logger().Level(level)
}

// Component returns a logger tagged with the given subsystem name, e.g.
// telemetrylog.Component("journal-tailer").
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", name).Logger()
}

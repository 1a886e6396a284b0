// Package clog wraps github.com/ternarybob/arbor the same way
// ternarybob-iter's internal/logger does: a process-wide singleton with a
// console fallback, plus an explicit Init hook so a host CLI can supply its
// own configured logger instead. compiler.Compile and ir1.Build log at
// Debug via Phase when entering a phase; Diagnostic logs at Warn but no
// pass calls it.
package clog

import (
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

var (
	global arbor.ILogger
	mu     sync.RWMutex
)

// Get returns the global logger, falling back to an unconfigured console
// logger (with a warning) if Init hasn't been called yet.
func Get() arbor.ILogger {
	mu.RLock()
	if global != nil {
		defer mu.RUnlock()
		return global
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = arbor.NewLogger().WithConsoleWriter(models.WriterConfiguration{
			Type:       models.LogWriterTypeConsole,
			TimeFormat: "15:04:05.000",
			OutputType: models.OutputFormatLogfmt,
		})
		global.Warn().Msg("clog: using fallback console logger; Init was not called")
	}
	return global
}

// Init installs logger as the process-wide singleton, overriding any
// fallback console logger already handed out by Get.
func Init(logger arbor.ILogger) {
	mu.Lock()
	defer mu.Unlock()
	global = logger
}

// Phase logs entry into a compiler pass at Debug, with whatever key/value
// counters the caller wants to attach (statement counts, component name).
func Phase(name string, fields map[string]int) {
	ev := Get().Debug().Str("phase", name)
	for k, v := range fields {
		ev = ev.Int(k, v)
	}
	ev.Msg("entering phase")
}

// Diagnostic logs a pushed compiler diagnostic at Warn.
func Diagnostic(kind, message string) {
	Get().Warn().Str("kind", kind).Msg(message)
}

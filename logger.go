// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/mandelbrot/frame"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

var (
	sinksMu sync.RWMutex
	sinks   []LogSink
)

func init() {
	loggerPtr.Store(newNopLogger())
}

// LogSink is implemented by components that keep their own logger, such
// as the GPU renderer. Registered sinks receive every logger passed to
// SetLogger.
type LogSink interface {
	SetLogger(*slog.Logger)
}

// RegisterLogSink adds s to the set of components that follow SetLogger
// and hands it the current logger immediately.
func RegisterLogSink(s LogSink) {
	if s == nil {
		return
	}
	sinksMu.Lock()
	sinks = append(sinks, s)
	sinksMu.Unlock()
	s.SetLogger(Logger())
}

// SetLogger configures the logger for the visualizer and all of its
// sub-packages. By default nothing is logged.
//
// Pass nil to restore the default silent behavior.
//
// Log levels:
//   - [slog.LevelDebug]: pipeline state, buffer sizes, skipped frames
//   - [slog.LevelInfo]: lifecycle events (adapter selected, surface format)
//   - [slog.LevelWarn]: recoverable failures (allocation retry, lost surface)
//
// Example:
//
//	mandelbrot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	frame.SetLogger(l)

	sinksMu.RLock()
	defer sinksMu.RUnlock()
	for _, s := range sinks {
		s.SetLogger(l)
	}
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

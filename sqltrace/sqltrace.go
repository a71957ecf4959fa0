// Package sqltrace provides a process-wide on/off switch for logging SQL
// statements and driver-level warnings independently of the protocol
// package's debug trace.
package sqltrace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

var (
	logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	on     atomic.Bool
)

// SetLogger replaces the sql trace logger. A nil logger is ignored.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// On returns whether SQL tracing output is active.
func On() bool { return on.Load() }

// SetOn enables or disables SQL tracing output.
func SetOn(v bool) { on.Store(v) }

// Traceln logs v at info level if tracing is on.
func Traceln(v ...any) {
	if !on.Load() {
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelInfo, "sql trace", slog.Any("args", v))
}

// Tracef logs a formatted message at info level if tracing is on.
func Tracef(format string, v ...any) {
	if !on.Load() {
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelInfo, "sql trace", slog.String("msg", fmt.Sprintf(format, v...)))
}

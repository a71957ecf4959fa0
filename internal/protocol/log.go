// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"context"
	"log/slog"
	"os"
)

// logger is the package-level, swappable structured logger for wire
// protocol tracing. SetLogger overrides it; by default it writes records
// of level warn and above as text to stderr.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// SetLogger replaces the protocol package's logger. A nil logger is
// ignored.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

const (
	upStreamPrefix   = "→"
	downStreamPrefix = "←"
)

func streamPrefix(upStream bool) string {
	if upStream {
		return upStreamPrefix
	}
	return downStreamPrefix
}

// traceLogger renders a decoded/encoded wire structure to the debug log
// with the stream-direction prefix baked in at construction.
type traceLogger interface {
	Log(v any)
}

type traceLog struct {
	prefix string
}

func (l *traceLog) Log(v any) {
	var tag string
	switch v.(type) {
	case *initRequest, *initReply:
		tag = "INI"
	case *messageHeader:
		tag = "MSG"
	case *segmentHeader:
		tag = "SEG"
	case *partHeader:
		tag = "PAR"
	default:
		tag = "   "
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, l.prefix+tag,
		slog.String("value", toString(v)))
}

func toString(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

type noTraceLog struct{}

func (l *noTraceLog) Log(v any) {}

var noTrace = new(noTraceLog)

func newTraceLogger(upStream bool) traceLogger {
	if !traceEnabled() {
		return noTrace
	}
	return &traceLog{prefix: streamPrefix(upStream)}
}

func traceEnabled() bool {
	return logger.Enabled(context.Background(), slog.LevelDebug)
}

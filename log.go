// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"log/slog"

	p "github.com/hdbconnect-go/hdbconnect/internal/protocol"
)

// SetLogger replaces the package-wide structured logger used for protocol
// tracing. The default logger is silent (slog.LevelWarn on stderr); pass a
// logger built with a slog.LevelDebug handler to enable frame-by-frame
// wire tracing for every connection.
func SetLogger(logger *slog.Logger) { p.SetLogger(logger) }

// logDropError logs a failed best-effort cleanup round trip (statement or
// result set drop) rather than surfacing it to the caller, per spec §4.6
// "Statement cleanup ... failure is logged and ignored".
func logDropError(op string, id uint64, err error) {
	slog.Default().Warn("hdbconnect: cleanup failed", "op", op, "id", id, "error", err)
}

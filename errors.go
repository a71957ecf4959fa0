// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"errors"
	"fmt"
)

// hdbErrorLike matches internal/protocol's unexported hdbError type by its
// exported method set - the type itself can't be named from outside that
// package, but errors.As walks Unwrap() chains against interface targets
// just as well as concrete ones.
type hdbErrorLike interface {
	error
	Code() int
	SQLState() string
	IsWarning() bool
}

// ErrorKind classifies an Error by where in the driver it originated.
type ErrorKind int

// Error kind constants (spec §7 error taxonomy).
const (
	KindUnknown ErrorKind = iota
	KindConnParams
	KindIO
	KindTLS
	KindAuthentication
	KindProtocol
	KindUsage
	KindDbError
	KindSerialization
	KindDeserialization
	KindConnectionBroken
)

var errorKindText = map[ErrorKind]string{
	KindUnknown:          "unknown",
	KindConnParams:       "connection parameters",
	KindIO:               "io",
	KindTLS:              "tls",
	KindAuthentication:   "authentication",
	KindProtocol:         "protocol",
	KindUsage:            "usage",
	KindDbError:          "database",
	KindSerialization:    "serialization",
	KindDeserialization:  "deserialization",
	KindConnectionBroken: "connection broken",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindText[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinel errors for errors.Is against a specific kind, independent of
// the wrapped message or cause.
var (
	ErrConnParams           = &Error{kind: KindConnParams, msg: "invalid connection parameters"}
	ErrIO                   = &Error{kind: KindIO, msg: "i/o failure"}
	ErrTLS                  = &Error{kind: KindTLS, msg: "tls failure"}
	ErrAuthenticationFailed = &Error{kind: KindAuthentication, msg: "authentication failed"}
	ErrProtocol             = &Error{kind: KindProtocol, msg: "protocol error"}
	ErrUsage                = &Error{kind: KindUsage, msg: "invalid use of driver"}
	ErrConnectionBroken     = &Error{kind: KindConnectionBroken, msg: "connection is broken"}
)

// Error is the root error type returned by this package. Every error this
// driver returns (directly, or wrapped inside a *sql error from the
// database/sql layer) can be inspected via errors.As(err, new(*Error)).
type Error struct {
	kind  ErrorKind
	msg   string
	cause error
}

func newError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As, preserving the
// underlying I/O or TLS error per spec §7 "error chain must preserve the
// underlying cause".
func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error's taxonomy kind.
func (e *Error) Kind() ErrorKind { return e.kind }

// Is reports whether target is one of the kind sentinels above, comparing
// by kind rather than identity - so a wrapped *Error still matches
// errors.Is(err, hdbconnect.ErrIO) regardless of its specific message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind
}

// DbError wraps a server-reported SQL error or warning (spec §7 "DbError").
type DbError struct {
	*Error
	code     int
	sqlState string
	warning  bool
}

// Code returns the HANA SQL error code.
func (e *DbError) Code() int { return e.code }

// SQLState returns the five-character SQLSTATE code.
func (e *DbError) SQLState() string { return e.sqlState }

// IsWarning reports whether the server classified this as a warning
// rather than an error (spec §7 "severity <= warning ... does not abort").
func (e *DbError) IsWarning() bool { return e.warning }

// wrapDbError converts a wire-level server error/warning from
// internal/protocol into the public DbError/Error hierarchy, preserving
// the original as Unwrap's cause. The first hdbError reachable in cause's
// Unwrap tree supplies code/sqlState/warning; a multi-statement batch that
// reports several errors still surfaces the first one's detail here, with
// the full text preserved in Error().
func wrapDbError(cause error) error {
	var hdbErr hdbErrorLike
	if !errors.As(cause, &hdbErr) {
		return newError(KindDbError, cause.Error(), cause)
	}
	return &DbError{
		Error:    newError(KindDbError, cause.Error(), cause),
		code:     hdbErr.Code(),
		sqlState: hdbErr.SQLState(),
		warning:  hdbErr.IsWarning(),
	}
}

// wrapProtocolError classifies an error surfaced from internal/protocol
// into the public taxonomy: a decoded server error/warning list becomes
// DbError, everything else (framing, part decode, unexpected reply)
// becomes Protocol per spec §7 "Io and Protocol on a connection are
// terminal".
func wrapProtocolError(err error) error {
	if err == nil {
		return nil
	}
	var hdbErr hdbErrorLike
	if errors.As(err, &hdbErr) {
		return wrapDbError(err)
	}
	return newError(KindProtocol, "wire protocol error", err)
}

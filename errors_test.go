// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"errors"
	"testing"
)

// fakeHdbError stands in for internal/protocol's unexported hdbError type,
// satisfying hdbErrorLike so wrapDbError/wrapProtocolError can be tested
// without reaching into that package.
type fakeHdbError struct {
	code     int
	sqlState string
	warning  bool
}

func (e *fakeHdbError) Error() string    { return "fake hdb error" }
func (e *fakeHdbError) Code() int        { return e.code }
func (e *fakeHdbError) SQLState() string { return e.sqlState }
func (e *fakeHdbError) IsWarning() bool  { return e.warning }

func TestErrorIs(t *testing.T) {
	err := newError(KindIO, "read failed", errors.New("eof"))
	if !errors.Is(err, ErrIO) {
		t.Fatal("expected errors.Is to match ErrIO by kind")
	}
	if errors.Is(err, ErrProtocol) {
		t.Fatal("did not expect errors.Is to match a different kind")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := newError(KindConnectionBroken, "write failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected the wrapped cause to be reachable via errors.Is")
	}
}

func TestWrapDbError(t *testing.T) {
	cause := &fakeHdbError{code: 301, sqlState: "23000", warning: false}
	wrapped := wrapDbError(cause)

	var dbErr *DbError
	if !errors.As(wrapped, &dbErr) {
		t.Fatal("expected wrapDbError to produce a *DbError")
	}
	if dbErr.Code() != 301 || dbErr.SQLState() != "23000" || dbErr.IsWarning() {
		t.Fatalf("unexpected DbError fields: %+v", dbErr)
	}
	if dbErr.Kind() != KindDbError {
		t.Fatalf("expected KindDbError, got %s", dbErr.Kind())
	}
}

func TestWrapProtocolErrorNonDbError(t *testing.T) {
	wrapped := wrapProtocolError(errors.New("short read"))
	var appErr *Error
	if !errors.As(wrapped, &appErr) {
		t.Fatal("expected wrapProtocolError to produce an *Error")
	}
	if appErr.Kind() != KindProtocol {
		t.Fatalf("expected KindProtocol, got %s", appErr.Kind())
	}
}

func TestWrapProtocolErrorNil(t *testing.T) {
	if wrapProtocolError(nil) != nil {
		t.Fatal("expected nil in, nil out")
	}
}

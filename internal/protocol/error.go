// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/hdbconnect-go/hdbconnect/internal/protocol/encoding"
)

// ErrorLevel classifies a wire error part entry: warning, error or fatal.
type ErrorLevel int8

// Error level constants as delivered in the Error part's errorLevel field.
const (
	HdbWarning    ErrorLevel = 0
	HdbError      ErrorLevel = 1
	HdbFatalError ErrorLevel = 2
)

var errorLevelText = map[ErrorLevel]string{
	HdbWarning:    "warning",
	HdbError:      "error",
	HdbFatalError: "fatal error",
}

func (l ErrorLevel) String() string {
	if t, ok := errorLevelText[l]; ok {
		return t
	}
	return "unknown"
}

const sqlStateSize = 5

type sqlState [sqlStateSize]byte

// hdbError is a single error or warning entry of an Error part.
type hdbError struct {
	errorCode     int32
	errorPosition int32
	errorLevel    ErrorLevel
	sqlState      sqlState
	errorText     string
	stmtNo        int // index into the batch this error belongs to, -1 if none
}

func (e *hdbError) String() string {
	return fmt.Sprintf("code %d pos %d level %s sqlState %s text %q",
		e.errorCode, e.errorPosition, e.errorLevel, e.sqlState, e.errorText)
}

// Error implements the error interface.
func (e *hdbError) Error() string {
	return fmt.Sprintf("SQL %s %d (%s) - %s", e.errorLevel, e.errorCode, e.sqlState, e.errorText)
}

// Code returns the HANA SQL error code.
func (e *hdbError) Code() int { return int(e.errorCode) }

// Position returns the statement position the error refers to, or -1.
func (e *hdbError) Position() int { return int(e.errorPosition) }

// Level returns the error's severity.
func (e *hdbError) Level() ErrorLevel { return e.errorLevel }

// SQLState returns the five-character SQLSTATE code.
func (e *hdbError) SQLState() string { return string(e.sqlState[:]) }

// StmtNo returns the index of the batched statement this error belongs
// to, or -1 if the error is not tied to a specific statement.
func (e *hdbError) StmtNo() int { return e.stmtNo }

// IsWarning reports whether the entry is a warning rather than an error.
func (e *hdbError) IsWarning() bool { return e.errorLevel == HdbWarning }

const errorFieldCount = 5

// hdbErrors is the decoded payload of an Error part: a batch of errors or
// warnings, one per failed statement in a batch (spec §4.4, §7 error
// taxonomy).
type hdbErrors struct {
	errors []*hdbError
}

func (*hdbErrors) kind() partKind { return pkError }

func (e *hdbErrors) isWarnings() bool {
	for _, err := range e.errors {
		if !err.IsWarning() {
			return false
		}
	}
	return len(e.errors) > 0
}

// setStmtNo assigns the batch index i to the j-th error entry.
func (e *hdbErrors) setStmtNo(j, i int) {
	if j < len(e.errors) {
		e.errors[j].stmtNo = i
	}
}

func (e *hdbErrors) Error() string {
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}
	return fmt.Sprintf("%d errors, first: %s", len(e.errors), e.errors[0].Error())
}

// Unwrap exposes every individual error entry to errors.Is / errors.As,
// following Go 1.20's multi-error Unwrap() []error convention.
func (e *hdbErrors) Unwrap() []error {
	errs := make([]error, len(e.errors))
	for i, err := range e.errors {
		errs[i] = err
	}
	return errs
}

func (e *hdbErrors) decode(dec *encoding.Decoder, ph *partHeader) error {
	numArg := ph.numArg()
	e.errors = make([]*hdbError, numArg)

	for i := 0; i < numArg; i++ {
		hErr := &hdbError{stmtNo: -1}

		hErr.errorCode = dec.Int32()
		hErr.errorPosition = dec.Int32()
		errorTextLength := dec.Int32()
		hErr.errorLevel = ErrorLevel(dec.Int8())
		dec.Bytes(hErr.sqlState[:])

		// buffer length as delivered is one byte longer than the text
		// itself; the trailing byte is a filler, not part of the text.
		textBytes := make([]byte, errorTextLength)
		dec.Bytes(textBytes)
		hErr.errorText = string(textBytes)

		e.errors[i] = hErr
	}
	return dec.Error()
}

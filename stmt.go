// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"

	p "github.com/hdbconnect-go/hdbconnect/internal/protocol"
)

// Stmt wraps a prepared statement's internal/protocol.PrepareResult. Bulk
// batching and piecewise LOB writes are not reimplemented here - they're
// already handled inside Session.Exec/encodeLobs, so Stmt just forwards
// whatever args database/sql collected (spec §12 "Bulk/array insert
// batching").
type Stmt struct {
	conn *Conn
	qd   *p.QueryDescr
	pr   *p.PrepareResult

	closed bool
}

var (
	_ driver.Stmt              = (*Stmt)(nil)
	_ driver.StmtExecContext   = (*Stmt)(nil)
	_ driver.StmtQueryContext  = (*Stmt)(nil)
	_ driver.NamedValueChecker = (*Stmt)(nil)
)

// Close implements driver.Stmt. Statement destruction is best-effort per
// spec §4.6 "Statement cleanup" - failure is logged, not returned, so a
// leaked server-side handle never surfaces as a caller-visible error.
func (s *Stmt) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	globalStats.openStatements.Add(-1)
	if err := s.conn.sess.DropStatementID(s.pr.StmtID()); err != nil {
		logDropError("drop statement", s.pr.StmtID(), err)
	}
	return nil
}

// NumInput implements driver.Stmt.
func (s *Stmt) NumInput() int { return s.pr.NumInputField() }

// Exec implements driver.Stmt (legacy path; ExecContext is preferred).
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.ExecContext(context.Background(), namedValues(args))
}

// Query implements driver.Stmt (legacy path; QueryContext is preferred).
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.QueryContext(context.Background(), namedValues(args))
}

// ExecContext implements driver.StmtExecContext.
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	res, err := s.exec(args)
	if err == errStatementInvalidated {
		if rerr := s.reprepare(); rerr != nil {
			return nil, wrapProtocolError(rerr)
		}
		res, err = s.exec(args)
	}
	if err != nil {
		return nil, wrapProtocolError(err)
	}
	return res, nil
}

func (s *Stmt) exec(args []driver.NamedValue) (driver.Result, error) {
	var res driver.Result
	var err error
	start := time.Now()
	if s.pr.IsProcedureCall() {
		res, err = s.conn.sess.ExecCall(s.pr, args)
		globalStats.observeSQL("call", time.Since(start))
	} else {
		res, err = s.conn.sess.Exec(s.pr, args)
		globalStats.observeSQL("exec", time.Since(start))
	}
	return res, invalidatedOrErr(err)
}

// QueryContext implements driver.StmtQueryContext.
func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	rows, err := s.query(args)
	if err == errStatementInvalidated {
		if rerr := s.reprepare(); rerr != nil {
			return nil, wrapProtocolError(rerr)
		}
		rows, err = s.query(args)
	}
	if err != nil {
		return nil, wrapProtocolError(err)
	}
	return rows, nil
}

func (s *Stmt) query(args []driver.NamedValue) (driver.Rows, error) {
	var rows driver.Rows
	var err error
	start := time.Now()
	if s.pr.IsProcedureCall() {
		rows, err = s.conn.sess.QueryCall(s.pr, args)
		globalStats.observeSQL("call", time.Since(start))
	} else {
		rows, err = s.conn.sess.Query(s.pr, args)
		globalStats.observeSQL("query", time.Since(start))
	}
	return rows, invalidatedOrErr(err)
}

// invalidStatementIDCode is the HANA SQL error code reported when a
// prepared statement's server-side handle was invalidated by a concurrent
// DDL change (spec §12 "Statement re-preparation on invalidation").
const invalidStatementIDCode = 129

// invalidatedOrErr rewrites a server error carrying invalidStatementIDCode
// into the errStatementInvalidated sentinel so callers can retry once.
func invalidatedOrErr(err error) error {
	var hdbErr hdbErrorLike
	if errors.As(err, &hdbErr) && hdbErr.Code() == invalidStatementIDCode {
		return errStatementInvalidated
	}
	return err
}

// reprepare re-issues Prepare against the original query text, replacing
// pr in place - per spec §12 "Statement re-preparation on invalidation",
// mirroring the prepared-statement-core retry-once behavior in
// original_source/'s Rust implementation.
func (s *Stmt) reprepare() error {
	pr, err := s.conn.sess.Prepare(s.qd.Query())
	if err != nil {
		return err
	}
	if err := pr.Check(s.qd); err != nil {
		return err
	}
	s.pr = pr
	return nil
}

// CheckNamedValue implements driver.NamedValueChecker.
func (s *Stmt) CheckNamedValue(nv *driver.NamedValue) error { return checkNamedValue(nv) }

func namedValues(args []driver.Value) []driver.NamedValue {
	nvs := make([]driver.NamedValue, len(args))
	for i, v := range args {
		nvs[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return nvs
}

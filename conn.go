// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync/atomic"
	"time"

	p "github.com/hdbconnect-go/hdbconnect/internal/protocol"
	"github.com/hdbconnect-go/hdbconnect/internal/protocol/scanner"
)

// Conn is a single HANA connection, wrapping an internal/protocol.Session.
// Per spec §5 "Concurrency & resource model", the session serializes every
// round trip behind its own lock; Conn additionally tracks sql/driver
// bookkeeping (open statement/transaction counts for Stats) around it.
type Conn struct {
	connector *Connector
	sess      *p.Session
	scanner   scanner.Scanner

	metrics *connMetrics
}

var (
	_ driver.Conn               = (*Conn)(nil)
	_ driver.ConnPrepareContext = (*Conn)(nil)
	_ driver.ConnBeginTx        = (*Conn)(nil)
	_ driver.ExecerContext      = (*Conn)(nil)
	_ driver.QueryerContext     = (*Conn)(nil)
	_ driver.Pinger             = (*Conn)(nil)
	_ driver.SessionResetter    = (*Conn)(nil)
	_ driver.Validator          = (*Conn)(nil)
	_ driver.NamedValueChecker  = (*Conn)(nil)
)

func newConn(ctx context.Context, c *Connector) (*Conn, error) {
	start := time.Now()
	sess, err := p.NewSession(ctx, c)
	globalStats.authTime.observe(time.Since(start))
	if err != nil {
		return nil, wrapProtocolError(err)
	}
	conn := &Conn{connector: c, sess: sess, metrics: globalStats.newConn()}
	return conn, nil
}

// Prepare implements driver.Conn.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return c.prepare(context.Background(), query)
}

// PrepareContext implements driver.ConnPrepareContext.
func (c *Conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	return c.prepare(ctx, query)
}

func (c *Conn) prepare(_ context.Context, query string) (driver.Stmt, error) {
	qd, err := p.NewQueryDescr(query, &c.scanner)
	if err != nil {
		return nil, newError(KindUsage, "invalid query", err)
	}

	pr, err := c.sess.Prepare(qd.Query())
	if err != nil {
		return nil, wrapProtocolError(err)
	}
	if err := pr.Check(qd); err != nil {
		return nil, newError(KindUsage, "prepared statement does not match query kind", err)
	}

	globalStats.openStatements.Add(1)
	return &Stmt{conn: c, qd: qd, pr: pr}, nil
}

// Close implements driver.Conn.
func (c *Conn) Close() error {
	err := c.sess.Close()
	c.metrics.release()
	if err != nil {
		return wrapProtocolError(err)
	}
	return nil
}

// Begin implements driver.Conn.
func (c *Conn) Begin() (driver.Tx, error) { return c.BeginTx(context.Background(), driver.TxOptions{}) }

// BeginTx implements driver.ConnBeginTx. HANA has no isolation-level knob
// exposed through this wire protocol surface beyond autocommit, so a
// non-default isolation level is rejected per spec.md Non-goals.
func (c *Conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if opts.Isolation != driver.IsolationLevel(sql.LevelDefault) {
		return nil, newError(KindUsage, "isolation levels other than default are not supported", nil)
	}
	c.sess.SetInTx(true)
	globalStats.openTransactions.Add(1)
	return &tx{conn: c}, nil
}

// Ping implements driver.Pinger (spec §12 "Connection ping / liveness").
func (c *Conn) Ping(ctx context.Context) error {
	rows, err := c.sess.QueryDirect("SELECT 1 FROM DUMMY")
	if err != nil {
		return wrapProtocolError(err)
	}
	defer rows.Close()
	return nil
}

// ResetSession implements driver.SessionResetter.
func (c *Conn) ResetSession(ctx context.Context) error {
	if c.sess.IsBad() {
		return driver.ErrBadConn
	}
	c.sess.Reset()
	return nil
}

// IsValid implements driver.Validator.
func (c *Conn) IsValid() bool { return !c.sess.IsBad() }

// CheckNamedValue implements driver.NamedValueChecker, accepting any Go
// value database/sql hands us (including io.Reader for LOB input and
// Decimal/Lob wrapper types) without the default driver.DefaultParameterConverter
// rejecting them.
func (c *Conn) CheckNamedValue(nv *driver.NamedValue) error { return checkNamedValue(nv) }

// ExecContext implements driver.ExecerContext, bypassing Prepare for a
// one-shot statement per spec §4.2 "ExecuteDirect".
func (c *Conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if len(args) != 0 {
		return nil, driver.ErrSkip
	}
	start := time.Now()
	res, err := c.sess.ExecDirect(query)
	globalStats.observeSQL("exec_direct", time.Since(start))
	if err != nil {
		return nil, wrapProtocolError(err)
	}
	return res, nil
}

// QueryContext implements driver.QueryerContext, the ExecuteDirect read path.
func (c *Conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if len(args) != 0 {
		return nil, driver.ErrSkip
	}
	start := time.Now()
	rows, err := c.sess.QueryDirect(query)
	globalStats.observeSQL("query_direct", time.Since(start))
	if err != nil {
		return nil, wrapProtocolError(err)
	}
	return rows, nil
}

func (c *Conn) commit() error {
	err := c.sess.Commit()
	c.sess.SetInTx(false)
	globalStats.openTransactions.Add(-1)
	if err != nil {
		return wrapProtocolError(err)
	}
	return nil
}

func (c *Conn) rollback() error {
	err := c.sess.Rollback()
	c.sess.SetInTx(false)
	globalStats.openTransactions.Add(-1)
	if err != nil {
		return wrapProtocolError(err)
	}
	return nil
}

// tx implements driver.Tx over a Conn's Session - HANA transactions are
// implicit (started by the first statement after autocommit is turned
// off), so Begin just flags the session and Commit/Rollback end it.
type tx struct{ conn *Conn }

func (t *tx) Commit() error   { return t.conn.commit() }
func (t *tx) Rollback() error { return t.conn.rollback() }

// connMetrics guards against double-decrementing globalStats.openConnections
// if Close is called more than once (database/sql does this on error paths).
type connMetrics struct {
	released atomic.Bool
}

func (m *connMetrics) release() {
	if m.released.CompareAndSwap(false, true) {
		globalStats.openConnections.Add(-1)
	}
}

var errStatementInvalidated = fmt.Errorf("statement invalidated")

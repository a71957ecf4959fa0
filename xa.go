// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// XA branch-association flags, mirroring the X/Open XA TM_* constants
// (spec §4.7 "XA resource manager").
const (
	TMNoFlags    int32 = 0x00000000
	TMJoin       int32 = 0x00200000
	TMResume     int32 = 0x08000000
	TMSuccess    int32 = 0x04000000
	TMFail       int32 = 0x20000000
	TMOnePhase   int32 = 0x40000000
	TMStartRscan int32 = 0x01000000
	TMEndRscan   int32 = 0x00800000
)

// Xid is an X/Open XA transaction identifier - a format id plus a global
// transaction id and an optional branch qualifier.
type Xid struct {
	FormatID int32
	Gtrid    []byte
	Bqual    []byte
}

// NewXid builds an Xid with a freshly generated global transaction id
// (spec §11 domain stack: github.com/google/uuid, "generates the XA
// transaction id's global-transaction-id segment when the caller doesn't
// supply one"). bqual identifies this branch within the global transaction;
// it may be nil for a single-branch transaction.
func NewXid(bqual []byte) Xid {
	id := uuid.New()
	gtrid := make([]byte, len(id))
	copy(gtrid, id[:])
	return Xid{FormatID: 0, Gtrid: gtrid, Bqual: bqual}
}

func (x Xid) String() string {
	return fmt.Sprintf("%x:%x:%x", x.FormatID, x.Gtrid, x.Bqual)
}

// RMErrorKind classifies an XA control-call failure into the resource
// manager error taxonomy (spec §4.7: "HdbError maps into the RM error
// taxonomy {RmError, ProtocolError, RbError-subcodes, HeurHazard,
// HeurCommit, HeurRollback} by reply-code inspection").
type RMErrorKind int

const (
	RMErrorUnknown RMErrorKind = iota
	RMErrorRM
	RMErrorProtocol
	RMErrorRollback
	RMErrorHeuristicHazard
	RMErrorHeuristicCommit
	RMErrorHeuristicRollback
)

func (k RMErrorKind) String() string {
	switch k {
	case RMErrorRM:
		return "RM_ERROR"
	case RMErrorProtocol:
		return "PROTOCOL_ERROR"
	case RMErrorRollback:
		return "RB_ERROR"
	case RMErrorHeuristicHazard:
		return "HEUR_HAZARD"
	case RMErrorHeuristicCommit:
		return "HEUR_COMMIT"
	case RMErrorHeuristicRollback:
		return "HEUR_ROLLBACK"
	default:
		return "UNKNOWN"
	}
}

// RMError reports the outcome of a single XA control call.
type RMError struct {
	Kind  RMErrorKind
	Xid   Xid
	Op    string
	cause error
}

func (e *RMError) Error() string {
	return fmt.Sprintf("hdbconnect: xa %s failed for %s: %s [%s]", e.Op, e.Xid, e.cause, e.Kind)
}

func (e *RMError) Unwrap() error { return e.cause }

// classifyRMError inspects a DbError's SQLState to pick an RM taxonomy
// bucket. SQLSTATE class "40" (transaction rollback) is the one HANA
// subcode this driver distinguishes; everything else collapses to a
// generic RM error, and a non-DbError failure (timeouts, closed
// connection) is a protocol error - it never reached a server verdict.
func classifyRMError(err error) RMErrorKind {
	var hdbErr hdbErrorLike
	if !errors.As(err, &hdbErr) {
		return RMErrorProtocol
	}
	if strings.HasPrefix(hdbErr.SQLState(), "40") {
		return RMErrorRollback
	}
	return RMErrorRM
}

func wrapXAError(op string, xid Xid, err error) error {
	if err == nil {
		return nil
	}
	return &RMError{Kind: classifyRMError(err), Xid: xid, Op: op, cause: wrapProtocolError(err)}
}

// XAResource lets a Conn participate as a resource manager in a
// distributed transaction, implementing the standard RM verbs start, end,
// prepare, commit, rollback, recover and forget (spec §4.7).
type XAResource struct {
	conn *Conn
}

// XAResource returns the XA control surface for this connection. The
// connection must not be used for ordinary statement execution while a
// branch is associated with it (start...end bracket), matching the
// server-side session semantics the wire protocol enforces.
func (c *Conn) XAResource() *XAResource { return &XAResource{conn: c} }

// Start associates the connection with xid (verb "start").
func (r *XAResource) Start(xid Xid, flags int32) error {
	err := r.conn.sess.XAStart(xid.FormatID, xid.Gtrid, xid.Bqual, flags)
	return wrapXAError("start", xid, err)
}

// End disassociates the connection from xid (verb "end").
func (r *XAResource) End(xid Xid, flags int32) error {
	err := r.conn.sess.XAEnd(xid.FormatID, xid.Gtrid, xid.Bqual, flags)
	return wrapXAError("end", xid, err)
}

// Prepare asks the server to vote on xid (verb "prepare").
func (r *XAResource) Prepare(xid Xid) error {
	err := r.conn.sess.XAPrepare(xid.FormatID, xid.Gtrid, xid.Bqual)
	return wrapXAError("prepare", xid, err)
}

// Commit commits xid; onePhase skips the prior Prepare round trip
// (verb "commit").
func (r *XAResource) Commit(xid Xid, onePhase bool) error {
	err := r.conn.sess.XACommit(xid.FormatID, xid.Gtrid, xid.Bqual, onePhase)
	return wrapXAError("commit", xid, err)
}

// Rollback rolls back xid (verb "rollback").
func (r *XAResource) Rollback(xid Xid) error {
	err := r.conn.sess.XARollback(xid.FormatID, xid.Gtrid, xid.Bqual)
	return wrapXAError("rollback", xid, err)
}

// Forget releases bookkeeping for a heuristically completed xid
// (verb "forget").
func (r *XAResource) Forget(xid Xid) error {
	err := r.conn.sess.XAForget(xid.FormatID, xid.Gtrid, xid.Bqual)
	return wrapXAError("forget", xid, err)
}

// Recover lists the branches the server still holds in doubt (verb
// "recover"). Per spec.md's worked example, a subsequent Recover call
// after a branch has fully committed no longer includes its xid.
func (r *XAResource) Recover(flags int32) ([]Xid, error) {
	xids, err := r.conn.sess.XARecover(0, flags)
	if err != nil {
		return nil, wrapXAError("recover", Xid{}, err)
	}
	out := make([]Xid, len(xids))
	for i, x := range xids {
		out[i] = Xid{FormatID: x.FormatID, Gtrid: x.Gtrid, Bqual: x.Bqual}
	}
	return out, nil
}

// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"os"

	"github.com/hdbconnect-go/hdbconnect/cesu8"
	"github.com/hdbconnect-go/hdbconnect/internal/protocol/encoding"
)

// This file collects the smallest wire Parts - ones that are a single
// scalar or byte slice with no nested structure - plus the buffer sizing
// helpers they (and the larger Parts) share.

func sizeBuffer(b []byte, size int) []byte {
	if b == nil || size > cap(b) {
		return make([]byte, size)
	}
	return b[:size]
}

func resizeBuffer(b1 []byte, size int) []byte {
	if b1 == nil || cap(b1) < size {
		b2 := make([]byte, size)
		copy(b2, b1) // keep content
		return b2
	}
	return b1[:size]
}

// command is the CESU-8 encoded SQL text of a direct execute/prepare
// request (spec §4.4 "prepare"/"execute direct").
type command []byte

func (c command) String() string { return string(c) }
func (c command) size() int      { return cesu8.Size(c) }
func (c *command) decode(dec *encoding.Decoder, ph *partHeader) error {
	*c = command(dec.CESU8Bytes(int(ph.bufferLength), nil))
	return dec.Error()
}
func (c command) encode(enc *encoding.Encoder) error { enc.CESU8Bytes(string(c)); return nil }

// fetchsize is the number of rows the client asks the server to return
// per FetchNext round trip (spec §4.5 cursor fetching).
type fetchsize int32

func (s fetchsize) String() string { return fmt.Sprintf("fetchsize %d", s) }
func (s *fetchsize) decode(dec *encoding.Decoder, ph *partHeader) error {
	*s = fetchsize(dec.Int32())
	return dec.Error()
}
func (s fetchsize) encode(enc *encoding.Encoder) error { enc.Int32(int32(s)); return nil }

// rows affected sentinels, per spec §4.4 "execute" return codes.
const (
	raSuccessNoInfo   = -2
	raExecutionFailed = -3
)

// rowsAffected carries one int32 per executed statement in a batch.
type rowsAffected []int32

func (r rowsAffected) String() string { return fmt.Sprintf("%v", []int32(r)) }

func (r *rowsAffected) reset(numArg int) {
	if r == nil || numArg > cap(*r) {
		*r = make(rowsAffected, numArg)
	} else {
		*r = (*r)[:numArg]
	}
}

func (r *rowsAffected) decode(dec *encoding.Decoder, ph *partHeader) error {
	r.reset(ph.numArg())
	for i := 0; i < ph.numArg(); i++ {
		(*r)[i] = dec.Int32()
	}
	return dec.Error()
}

func (r rowsAffected) total() int64 {
	if r == nil {
		return 0
	}
	total := int64(0)
	for _, rows := range r {
		if rows > 0 {
			total += int64(rows)
		}
	}
	return total
}

// clientID identifies this driver process to the server during the
// Connect handshake - "<pid>@<hostname>", matching the shape HANA's own
// client libraries send. Sent once, in the Connect request that carries
// the client proof.
type clientID []byte

func newClientID() clientID {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return clientID(fmt.Sprintf("%d@%s", os.Getpid(), host))
}

func (c clientID) String() string { return string(c) }
func (c clientID) size() int      { return len(c) }
func (c clientID) encode(enc *encoding.Encoder) error {
	enc.Bytes(c)
	return nil
}
func (c *clientID) decode(dec *encoding.Decoder, ph *partHeader) error {
	*c = sizeBuffer(*c, int(ph.bufferLength))
	dec.Bytes(*c)
	return dec.Error()
}

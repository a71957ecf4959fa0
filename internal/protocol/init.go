// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/hdbconnect-go/hdbconnect/internal/protocol/encoding"
)

// version is a major.minor product or protocol version as exchanged in
// the initialization handshake.
type version struct {
	major int8
	minor int16
}

func (v version) String() string { return fmt.Sprintf("%d.%d", v.major, v.minor) }

// endianess is the byte order the client proposes for the connection.
// HANA's wire format is little-endian throughout; the option exists for
// historical compatibility and is always negotiated to littleEndian.
type endianess int8

const (
	littleEndian endianess = 1
	bigEndian    endianess = 2
)

func (e endianess) String() string {
	if e == littleEndian {
		return "little"
	}
	return "big"
}

const initRequestFillerSize = 4

var initRequestFiller = [initRequestFillerSize]byte{0xff, 0xff, 0xff, 0xff}

// initRequest is the fixed-format packet a client sends before any
// regular message to open a connection: the product and protocol
// versions it speaks, plus a single endianess option.
type initRequest struct {
	product    version
	protocol   version
	numOptions int8
	endianess  endianess
}

func (r *initRequest) String() string {
	return fmt.Sprintf("product version %s protocol version %s numOptions %d endianess %s",
		r.product, r.protocol, r.numOptions, r.endianess)
}

func (r *initRequest) encode(enc *encoding.Encoder) error {
	enc.Bytes(initRequestFiller[:])
	enc.Int8(r.product.major)
	enc.Int16(r.product.minor)
	enc.Int8(r.protocol.major)
	enc.Int16(r.protocol.minor)
	enc.Int8(r.numOptions)
	enc.Int8(int8(r.endianess))
	return enc.Error()
}

func (r *initRequest) decode(dec *encoding.Decoder) error {
	dec.Skip(initRequestFillerSize)
	r.product.major = dec.Int8()
	r.product.minor = dec.Int16()
	r.protocol.major = dec.Int8()
	r.protocol.minor = dec.Int16()
	r.numOptions = dec.Int8()
	r.endianess = endianess(dec.Int8())
	return dec.Error()
}

// initReply is the server's handshake response: the product and
// protocol versions it settled on for the connection.
type initReply struct {
	product  version
	protocol version
}

func (r *initReply) String() string {
	return fmt.Sprintf("product version %s protocol version %s", r.product, r.protocol)
}

func (r *initReply) decode(dec *encoding.Decoder) error {
	r.product.major = dec.Int8()
	r.product.minor = dec.Int16()
	r.protocol.major = dec.Int8()
	r.protocol.minor = dec.Int16()
	return dec.Error()
}

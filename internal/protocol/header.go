// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/hdbconnect-go/hdbconnect/internal/protocol/encoding"
)

const segmentHeaderSize = 24

// segment header
type segmentHeader struct {
	segmentLength   int32
	segmentOfs      int32
	noOfParts       int16
	segmentNo       int16
	segmentKind     segmentKind
	messageType     messageType
	commit          bool
	commandOptions  int8
	functionCode    functionCode
}

func (h *segmentHeader) String() string {
	return fmt.Sprintf("segmentLength %d segmentOfs %d noOfParts %d segmentNo %d segmentKind %s messageType %d functionCode %d",
		h.segmentLength,
		h.segmentOfs,
		h.noOfParts,
		h.segmentNo,
		h.segmentKind,
		h.messageType,
		h.functionCode,
	)
}

func (h *segmentHeader) encode(enc *encoding.Encoder) error {
	enc.Int32(h.segmentLength)
	enc.Int32(h.segmentOfs)
	enc.Int16(h.noOfParts)
	enc.Int16(h.segmentNo)
	enc.Int8(int8(h.segmentKind))

	switch h.segmentKind {
	case skRequest:
		enc.Int8(int8(h.messageType))
		enc.Bool(h.commit)
		enc.Int8(h.commandOptions)
		enc.Zeroes(8) //segmentHeaderSize - 16
	default:
		enc.Zeroes(11) //segmentHeaderSize - 13
	}
	return nil
}

func (h *segmentHeader) decode(dec *encoding.Decoder) error {
	h.segmentLength = dec.Int32()
	h.segmentOfs = dec.Int32()
	h.noOfParts = dec.Int16()
	h.segmentNo = dec.Int16()
	h.segmentKind = segmentKind(dec.Int8())

	switch h.segmentKind {
	case skRequest:
		h.messageType = messageType(dec.Int8())
		h.commit = dec.Bool()
		h.commandOptions = dec.Int8()
		dec.Skip(8)
	case skReply, skError:
		dec.Skip(1)
		h.functionCode = functionCode(dec.Int16())
		dec.Skip(8)
	default:
		dec.Skip(11)
	}
	return dec.Error()
}

// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"io"

	"github.com/hdbconnect-go/hdbconnect/internal/protocol/encoding"
)

// chunkReader feeds one input lob parameter's bytes to writeLobRequest in
// fixed size chunks (spec §4.4 "lob write" round trips).
type chunkReader interface {
	locatorID() locatorID
	eof() bool
	bytes() ([]byte, error)
	next() int
}

// streamChunkReader reads chunkSize bytes at a time off rd until it is
// exhausted, tracking the locatorID the server assigned this parameter
// on the preceding writeLobReply.
type streamChunkReader struct {
	isCharBased bool
	id          locatorID
	chunkSize   int
	rd          io.Reader
	done        bool
	err         error
}

func newChunkReader(isCharBased bool, id locatorID, chunkSize int, rd io.Reader) chunkReader {
	if chunkSize <= 0 {
		chunkSize = 1 << 14
	}
	return &streamChunkReader{isCharBased: isCharBased, id: id, chunkSize: chunkSize, rd: rd}
}

func (r *streamChunkReader) locatorID() locatorID { return r.id }
func (r *streamChunkReader) eof() bool            { return r.done }
func (r *streamChunkReader) next() int            { return r.chunkSize }

func (r *streamChunkReader) bytes() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	b := make([]byte, r.chunkSize)
	n, err := io.ReadFull(r.rd, b)
	switch err {
	case nil:
		return b, nil
	case io.EOF, io.ErrUnexpectedEOF:
		r.done = true
		return b[:n], nil
	default:
		r.err = err
		return nil, err
	}
}

// chunkWriter receives one output or result lob cell's bytes back from
// readLobReply in fixed size chunks, writing them through to the
// caller-supplied io.Writer as they arrive.
type chunkWriter interface {
	id() locatorID
	eof() bool
	readOfsLen() (int64, int32)
	write(dec *encoding.Decoder, chunkLen int, eof bool) error
}

// streamChunkWriter requests readLen bytes per round trip starting at the
// current offset, forwarding decoded bytes to w.
type streamChunkWriter struct {
	isCharBased bool
	lobID       locatorID
	w           io.Writer
	readLen     int32
	ofs         int64
	done        bool
	err         error
}

func newChunkWriter(isCharBased bool, id locatorID, readLen int32, w io.Writer) chunkWriter {
	if readLen <= 0 {
		readLen = 1 << 14
	}
	return &streamChunkWriter{isCharBased: isCharBased, lobID: id, readLen: readLen, w: w}
}

func (w *streamChunkWriter) id() locatorID              { return w.lobID }
func (w *streamChunkWriter) eof() bool                  { return w.done }
func (w *streamChunkWriter) readOfsLen() (int64, int32) { return w.ofs, w.readLen }

func (w *streamChunkWriter) write(dec *encoding.Decoder, chunkLen int, eof bool) error {
	b := make([]byte, chunkLen)
	dec.Bytes(b)
	if err := dec.Error(); err != nil {
		w.err = err
		return err
	}
	if chunkLen > 0 {
		if _, err := w.w.Write(b); err != nil {
			w.err = err
			return err
		}
	}
	w.ofs += int64(chunkLen)
	if eof {
		w.done = true
	}
	return nil
}

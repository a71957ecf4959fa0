package encoding

import (
	"bufio"
	"encoding/binary"
	"math"

	"github.com/hdbconnect-go/hdbconnect/cesu8"
)

// Encoder encodes HANA wire protocol primitives onto a *bufio.Writer.
type Encoder struct {
	wr  *bufio.Writer
	b   [8]byte
	err error
}

// NewEncoder returns an Encoder writing to wr.
func NewEncoder(wr *bufio.Writer) *Encoder { return &Encoder{wr: wr} }

// Error returns the first write error encountered, if any.
func (e *Encoder) Error() error { return e.err }

func (e *Encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.wr.Write(p)
}

// Byte writes a single byte.
func (e *Encoder) Byte(b byte) { e.write([]byte{b}) }

// Bytes writes p verbatim.
func (e *Encoder) Bytes(p []byte) { e.write(p) }

// Zeroes writes n zero bytes (part padding).
func (e *Encoder) Zeroes(n int) {
	if n <= 0 {
		return
	}
	var z [8]byte
	for n > 0 {
		c := n
		if c > len(z) {
			c = len(z)
		}
		e.write(z[:c])
		n -= c
	}
}

// Bool writes a boolean as a single byte.
func (e *Encoder) Bool(b bool) {
	if b {
		e.Byte(1)
	} else {
		e.Byte(0)
	}
}

// Int8 writes an int8.
func (e *Encoder) Int8(v int8) { e.Byte(byte(v)) }

// Int16 writes a little-endian int16.
func (e *Encoder) Int16(v int16) {
	binary.LittleEndian.PutUint16(e.b[:2], uint16(v))
	e.write(e.b[:2])
}

// Uint16 writes a little-endian uint16.
func (e *Encoder) Uint16(v uint16) {
	binary.LittleEndian.PutUint16(e.b[:2], v)
	e.write(e.b[:2])
}

// Uint16ByteOrder writes a uint16 in the given byte order.
func (e *Encoder) Uint16ByteOrder(v uint16, bo binary.ByteOrder) {
	bo.PutUint16(e.b[:2], v)
	e.write(e.b[:2])
}

// Int32 writes a little-endian int32.
func (e *Encoder) Int32(v int32) {
	binary.LittleEndian.PutUint32(e.b[:4], uint32(v))
	e.write(e.b[:4])
}

// Uint32 writes a little-endian uint32.
func (e *Encoder) Uint32(v uint32) {
	binary.LittleEndian.PutUint32(e.b[:4], v)
	e.write(e.b[:4])
}

// Uint32ByteOrder writes a uint32 in the given byte order.
func (e *Encoder) Uint32ByteOrder(v uint32, bo binary.ByteOrder) {
	bo.PutUint32(e.b[:4], v)
	e.write(e.b[:4])
}

// Int64 writes a little-endian int64.
func (e *Encoder) Int64(v int64) {
	binary.LittleEndian.PutUint64(e.b[:8], uint64(v))
	e.write(e.b[:8])
}

// Uint64 writes a little-endian uint64.
func (e *Encoder) Uint64(v uint64) {
	binary.LittleEndian.PutUint64(e.b[:8], v)
	e.write(e.b[:8])
}

// Float32 writes a little-endian float32.
func (e *Encoder) Float32(v float32) {
	binary.LittleEndian.PutUint32(e.b[:4], math.Float32bits(v))
	e.write(e.b[:4])
}

// Float64 writes a little-endian float64.
func (e *Encoder) Float64(v float64) {
	binary.LittleEndian.PutUint64(e.b[:8], math.Float64bits(v))
	e.write(e.b[:8])
}

// CESU8Bytes encodes s from UTF-8 to CESU-8 and writes the raw bytes
// (without any length prefix).
func (e *Encoder) CESU8Bytes(s string) { e.write(cesu8.EncodeString(s)) }

// VarBytes writes a one-byte length prefix followed by b.
func (e *Encoder) VarBytes(b []byte) {
	if b == nil {
		e.Byte(bytesNullValue)
		return
	}
	e.Byte(byte(len(b)))
	e.write(b)
}

// VarString writes a one-byte length prefix followed by s's bytes
// unchanged (Latin-1 / ASCII content).
func (e *Encoder) VarString(s string) { e.VarBytes([]byte(s)) }

// String writes s's bytes verbatim, without any length prefix (the
// caller has already written its own length field).
func (e *Encoder) String(s string) { e.write([]byte(s)) }

// Flush flushes the underlying bufio.Writer.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.wr.Flush()
}

// Package encoding implements the low level primitive readers and writers
// of the HANA wire protocol: little-endian integers, length-prefixed
// strings, padded byte blocks and the CESU-8 transcoding used for
// NCHAR/NVARCHAR data.
package encoding

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hdbconnect-go/hdbconnect/cesu8"
)

const readScratchSize = 4096

// Decoder decodes HANA wire protocol primitives from an io.Reader.
//
// Conversion does not fail: CESU8Bytes passes invalid CESU-8 through
// unchanged. Only fatal I/O errors are latched in Decoder and then
// returned by every subsequent call until ResetError is invoked.
type Decoder struct {
	rd  io.Reader
	err error
	b   []byte // scratch buffer, reused across reads

	cnt int // bytes read since the last ResetCnt

	dfv int // negotiated data format version, see SetDfv
}

// NewDecoder returns a Decoder reading from rd.
func NewDecoder(rd io.Reader) *Decoder {
	return &Decoder{rd: rd, b: make([]byte, readScratchSize)}
}

// SetDfv records the data format version negotiated for the connection
// this Decoder belongs to. Field types whose wire representation changed
// across HANA client protocol versions consult Dfv to pick the right
// decode path.
func (d *Decoder) SetDfv(dfv int) { d.dfv = dfv }

// Dfv returns the data format version last set via SetDfv, or 0 before
// the connection has negotiated one.
func (d *Decoder) Dfv() int { return d.dfv }

// ResetCnt resets the byte read counter.
func (d *Decoder) ResetCnt() { d.cnt = 0 }

// Cnt returns the number of bytes read since the last ResetCnt.
func (d *Decoder) Cnt() int { return d.cnt }

// Error returns the latched fatal read error, if any.
func (d *Decoder) Error() error { return d.err }

// ResetError returns and clears the latched read error.
func (d *Decoder) ResetError() error {
	err := d.err
	d.err = nil
	return err
}

func (d *Decoder) readFull(buf []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	n, err := io.ReadFull(d.rd, buf)
	d.cnt += n
	if err != nil {
		d.err = err
		return n, err
	}
	return n, nil
}

// Skip discards cnt bytes from the stream.
func (d *Decoder) Skip(cnt int) {
	n := 0
	for n < cnt {
		to := cnt - n
		if to > readScratchSize {
			to = readScratchSize
		}
		m, err := d.readFull(d.b[:to])
		n += m
		if err != nil {
			return
		}
	}
}

// Byte reads and returns a single byte.
func (d *Decoder) Byte() byte {
	if _, err := d.readFull(d.b[:1]); err != nil {
		return 0
	}
	return d.b[0]
}

// Bytes reads len(p) bytes into p.
func (d *Decoder) Bytes(p []byte) { d.readFull(p) }

// Bool reads and returns a boolean (any non-zero byte is true).
func (d *Decoder) Bool() bool { return d.Byte() != 0 }

// Int8 reads and returns an int8.
func (d *Decoder) Int8() int8 { return int8(d.Byte()) }

// Int16 reads and returns a little-endian int16.
func (d *Decoder) Int16() int16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(d.b[:2]))
}

// Uint16 reads and returns a little-endian uint16.
func (d *Decoder) Uint16() uint16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(d.b[:2])
}

// Uint16ByteOrder reads a uint16 in the given byte order (the initial
// handshake is big-endian; everything else is little-endian).
func (d *Decoder) Uint16ByteOrder(bo binary.ByteOrder) uint16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return bo.Uint16(d.b[:2])
}

// Int32 reads and returns a little-endian int32.
func (d *Decoder) Int32() int32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(d.b[:4]))
}

// Uint32 reads and returns a little-endian uint32.
func (d *Decoder) Uint32() uint32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(d.b[:4])
}

// Uint32ByteOrder reads a uint32 in the given byte order.
func (d *Decoder) Uint32ByteOrder(bo binary.ByteOrder) uint32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return bo.Uint32(d.b[:4])
}

// Int64 reads and returns a little-endian int64.
func (d *Decoder) Int64() int64 {
	if _, err := d.readFull(d.b[:8]); err != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(d.b[:8]))
}

// Uint64 reads and returns a little-endian uint64.
func (d *Decoder) Uint64() uint64 {
	if _, err := d.readFull(d.b[:8]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(d.b[:8])
}

// Float32 reads and returns a little-endian float32.
func (d *Decoder) Float32() float32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(d.b[:4]))
}

// Float64 reads and returns a little-endian float64.
func (d *Decoder) Float64() float64 {
	if _, err := d.readFull(d.b[:8]); err != nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(d.b[:8]))
}

// CESU8Bytes reads size raw bytes and decodes them from CESU-8 to UTF-8,
// prepending any carried-over residue from a previous chunk via res.
func (d *Decoder) CESU8Bytes(size int, res *Residue) []byte {
	buf := make([]byte, size)
	if _, err := d.readFull(buf); err != nil {
		return nil
	}
	if res != nil {
		buf = res.Prepend(buf)
	}
	out, left := cesu8.Decode(buf)
	if res != nil {
		res.Set(left)
	}
	return []byte(out)
}

// VarBytes reads a one-byte length prefix followed by that many bytes.
func (d *Decoder) VarBytes() ([]byte, error) {
	size := d.Byte()
	switch {
	case size == bytesNullValue:
		return nil, nil
	case size > bytesMaxSize1ByteLen:
		return nil, fmt.Errorf("encoding: invalid var bytes size indicator %d", size)
	}
	b := make([]byte, size)
	d.Bytes(b)
	return b, d.err
}

// VarString reads a one-byte length prefix followed by that many Latin-1
// bytes, returned as a Go string unchanged.
func (d *Decoder) VarString() (string, error) {
	b, err := d.VarBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

const (
	bytesNullValue       = 0xff
	bytesMaxSize1ByteLen = 245
)

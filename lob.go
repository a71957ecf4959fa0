// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"io"
	"reflect"

	p "github.com/hdbconnect-go/hdbconnect/internal/protocol"
)

func init() {
	p.RegisterScanType(p.DtDecimal, reflect.TypeOf((*Decimal)(nil)).Elem())
	p.RegisterScanType(p.DtLob, reflect.TypeOf((*Lob)(nil)).Elem())
}

// Decimal is a HANA DECIMAL/FIXEDn column value, carried as its raw
// 16-byte wire representation (internal/protocol decimalFieldSize) since
// this driver does not decode decimal128 into a Go numeric type.
type Decimal []byte

// Scan implements sql.Scanner.
func (d *Decimal) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return newError(KindUsage, fmt.Sprintf("cannot scan %T into Decimal", src), nil)
	}
	*d = append((*d)[:0], b...)
	return nil
}

// Value implements driver.Valuer.
func (d Decimal) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return []byte(d), nil
}

// NullDecimal is a nullable Decimal, analogous to sql.NullString.
type NullDecimal struct {
	Decimal Decimal
	Valid   bool
}

// Scan implements sql.Scanner.
func (d *NullDecimal) Scan(src interface{}) error {
	if src == nil {
		d.Decimal, d.Valid = nil, false
		return nil
	}
	d.Valid = true
	return d.Decimal.Scan(src)
}

// Value implements driver.Valuer.
func (d NullDecimal) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Decimal.Value()
}

// Lob scans a CLOB/NCLOB/BLOB result column into an in-memory byte slice,
// streaming in whatever content didn't arrive inline with the row via the
// internal/protocol.LobValue the driver hands back (see
// internal/protocol/lob.go). For large LOBs better streamed directly to a
// writer, scan into a plain io.Reader-accepting type instead and call
// WriteTo yourself against the protocol.LobValue.
type Lob struct {
	b []byte
}

// Scan implements sql.Scanner.
func (l *Lob) Scan(src interface{}) error {
	if src == nil {
		l.b = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		l.b = append([]byte(nil), v...)
		return nil
	case p.LobValue:
		return l.scanLobValue(v)
	default:
		return newError(KindUsage, fmt.Sprintf("cannot scan %T into Lob", src), nil)
	}
}

func (l *Lob) scanLobValue(v p.LobValue) error {
	var buf bytes.Buffer
	buf.Write(v.InlineBytes())
	if !v.Complete() {
		if err := v.WriteTo(&buf); err != nil {
			return newError(KindDeserialization, "lob streaming failed", err)
		}
	}
	l.b = buf.Bytes()
	return nil
}

// Bytes returns the LOB's full content.
func (l *Lob) Bytes() []byte { return l.b }

// Read implements io.Reader so a Lob can also be passed back in as an
// input parameter.
func (l *Lob) Read(p []byte) (int, error) {
	if len(l.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, l.b)
	l.b = l.b[n:]
	return n, nil
}

// NullLob is a nullable Lob.
type NullLob struct {
	Lob   Lob
	Valid bool
}

// Scan implements sql.Scanner.
func (l *NullLob) Scan(src interface{}) error {
	if src == nil {
		l.Lob.b, l.Valid = nil, false
		return nil
	}
	l.Valid = true
	return l.Lob.Scan(src)
}

// NullBytes is a nullable []byte, analogous to sql.NullString but for
// binary columns that already come back as []byte without needing the
// Lob streaming path.
type NullBytes struct {
	Bytes []byte
	Valid bool
}

// Scan implements sql.Scanner.
func (b *NullBytes) Scan(src interface{}) error {
	if src == nil {
		b.Bytes, b.Valid = nil, false
		return nil
	}
	v, ok := src.([]byte)
	if !ok {
		return newError(KindUsage, fmt.Sprintf("cannot scan %T into NullBytes", src), nil)
	}
	b.Bytes, b.Valid = append([]byte(nil), v...), true
	return nil
}

// Value implements driver.Valuer.
func (b NullBytes) Value() (driver.Value, error) {
	if !b.Valid {
		return nil, nil
	}
	return b.Bytes, nil
}

// checkNamedValue implements the relaxed parameter acceptance this driver
// needs beyond driver.DefaultParameterConverter: io.Reader (LOB input,
// spec §4.5 "streamed lob write"), Decimal/NullDecimal's raw byte form,
// and anything already a driver.Valuer or driver.Value passes through
// unchanged; everything else falls back to the default converter.
func checkNamedValue(nv *driver.NamedValue) error {
	switch v := nv.Value.(type) {
	case io.Reader:
		return nil
	case driver.Valuer:
		val, err := v.Value()
		if err != nil {
			return err
		}
		nv.Value = val
		return nil
	default:
		return driver.ErrSkip
	}
}

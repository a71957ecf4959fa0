// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "database/sql/driver"

// Field describes one column of a result set or one parameter of a
// prepared statement - whichever of resultField or parameterField
// backs a given rowsResult/PrepareResult entry (spec §4.3 metadata,
// §4.4 parameter metadata).
type Field interface {
	Converter() Converter
	TypeName() string
	ScanType() DataType
	TypeLength() (int64, bool)
	TypePrecisionScale() (int64, int64, bool)
	Nullable() bool
	In() bool
	Out() bool
	Name() string
}

// newFieldValues allocates a driver.Value slice sized for size scanned
// cells (rows * columns), shared by resultset and outputParameters decode.
func newFieldValues(size int) []driver.Value {
	return make([]driver.Value, size)
}

var (
	_ Field = (*resultField)(nil)
	_ Field = (*parameterField)(nil)
)

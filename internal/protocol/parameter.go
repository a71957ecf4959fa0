// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"database/sql/driver"
	"fmt"

	"github.com/hdbconnect-go/hdbconnect/internal/protocol/encoding"
)

type parameterOptions int8

const (
	poMandatory parameterOptions = 0x01
	poOptional  parameterOptions = 0x02
	poDefault   parameterOptions = 0x04
)

var parameterOptionsText = map[parameterOptions]string{
	poMandatory: "mandatory",
	poOptional:  "optional",
	poDefault:   "default",
}

func (k parameterOptions) String() string {
	t := make([]string, 0, len(parameterOptionsText))

	for option, text := range parameterOptionsText {
		if (k & option) != 0 {
			t = append(t, text)
		}
	}
	return fmt.Sprintf("%v", t)
}

type parameterMode int8

const (
	pmIn    parameterMode = 0x01
	pmInout parameterMode = 0x02
	pmOut   parameterMode = 0x04
)

var parameterModeText = map[parameterMode]string{
	pmIn:    "in",
	pmInout: "inout",
	pmOut:   "out",
}

func (k parameterMode) String() string {
	t := make([]string, 0, len(parameterModeText))

	for mode, text := range parameterModeText {
		if (k & mode) != 0 {
			t = append(t, text)
		}
	}
	return fmt.Sprintf("%v", t)
}

// parameterField describes one column of a prepared statement's input or
// output parameter list (spec §4.4 "parameter metadata"). Fields decoded
// off the wire resolve their Name lazily through the shared fieldNames
// block; fields synthesized locally (e.g. the table-ref/table-rows output
// columns a procedure call result appends) carry name directly.
type parameterField struct {
	name             string
	names            *fieldNames
	parameterOptions parameterOptions
	tc               typeCode
	mode             parameterMode
	fraction         int16
	length           int16
	offset           uint32
}

func (f *parameterField) String() string {
	return fmt.Sprintf("parameterOptions %s typeCode %s mode %s fraction %d length %d name %s",
		f.parameterOptions,
		f.tc,
		f.mode,
		f.fraction,
		f.length,
		f.Name(),
	)
}

func (f *parameterField) Converter() Converter { return f.tc.fieldType() }

// TypeName returns the type name of the field.
// see https://golang.org/pkg/database/sql/driver/#RowsColumnTypeDatabaseTypeName
func (f *parameterField) TypeName() string { return f.tc.typeName() }

// ScanType returns the scan type of the field.
// see https://golang.org/pkg/database/sql/driver/#RowsColumnTypeScanType
func (f *parameterField) ScanType() DataType { return f.tc.dataType() }

// TypeLength returns the type length of the field.
// see https://golang.org/pkg/database/sql/driver/#RowsColumnTypeLength
func (f *parameterField) TypeLength() (int64, bool) {
	if f.tc.isVariableLength() {
		return int64(f.length), true
	}
	return 0, false
}

// TypePrecisionScale returns the type precision and scale (decimal types) of the field.
// see https://golang.org/pkg/database/sql/driver/#RowsColumnTypePrecisionScale
func (f *parameterField) TypePrecisionScale() (int64, int64, bool) {
	if f.tc.isDecimalType() {
		return int64(f.length), int64(f.fraction), true
	}
	return 0, 0, false
}

// Nullable returns true if the field may be null, false otherwise.
// see https://golang.org/pkg/database/sql/driver/#RowsColumnTypeNullable
func (f *parameterField) Nullable() bool { return f.parameterOptions == poOptional }

func (f *parameterField) In() bool  { return f.mode == pmInout || f.mode == pmIn }
func (f *parameterField) Out() bool { return f.mode == pmInout || f.mode == pmOut }

// Name returns a synthesized field's literal name, or resolves a decoded
// field's name through the parameter metadata part's shared name block.
func (f *parameterField) Name() string {
	if f.name != "" || f.names == nil {
		return f.name
	}
	return f.names.name(f.offset)
}

func (f *parameterField) decode(dec *encoding.Decoder) {
	f.parameterOptions = parameterOptions(dec.Int8())
	f.tc = typeCode(dec.Int8())
	f.mode = parameterMode(dec.Int8())
	dec.Skip(1) // filler
	f.offset = dec.Uint32()
	f.length = dec.Int16()
	f.fraction = dec.Int16()
	dec.Skip(4) // filler
}

// parameterMetadata is the part describing a prepared statement's full
// parameter list (input and output, in declaration order).
type parameterMetadata struct {
	parameterFields []*parameterField
}

func (m *parameterMetadata) String() string {
	return fmt.Sprintf("parameter fields %v", m.parameterFields)
}

func (m *parameterMetadata) decode(dec *encoding.Decoder, ph *partHeader) error {
	m.parameterFields = make([]*parameterField, ph.numArg())

	names := &fieldNames{}

	for i := range m.parameterFields {
		f := new(parameterField)
		f.decode(dec)
		f.names = names
		names.insert(f.offset)
		m.parameterFields[i] = f
	}

	names.decode(dec)

	return dec.Error()
}

// inputParameters is the bulk of input parameter values for one Execute
// part (spec §4.4 "execute"). args holds numArg()*len(fields) values,
// fields repeating every len(fields) entries for batch/bulk execution.
type inputParameters struct {
	fields []*parameterField
	args   []driver.NamedValue
}

func newInputParameters(fields []*parameterField, args []driver.NamedValue) *inputParameters {
	return &inputParameters{fields: fields, args: args}
}

func (p *inputParameters) String() string {
	return fmt.Sprintf("fields %v len(args) %d", p.fields, len(p.args))
}

func (p *inputParameters) size() int {
	cnt := len(p.fields)
	size := len(p.args) // one type code byte per value
	if cnt == 0 {
		return size
	}
	for i, arg := range p.args {
		size += prmSize(p.fields[i%cnt].tc, arg)
	}
	return size
}

func (p *inputParameters) numArg() int {
	cnt := len(p.fields)
	if cnt == 0 { // e.g. prepare without parameters
		return 0
	}
	return len(p.args) / cnt
}

func (p *inputParameters) decode(dec *encoding.Decoder, ph *partHeader) error {
	panic("inputParameters decode not implemented - client never receives its own request back")
}

func (p *inputParameters) encode(enc *encoding.Encoder) error {
	cnt := len(p.fields)
	for i, arg := range p.args {
		field := p.fields[i%cnt]
		if err := encodePrm(enc, field.tc, arg); err != nil {
			return err
		}
	}
	return nil
}

// outputParameters is the output parameter values returned by a procedure
// call (spec §4.4 "call"). outputFields is set by the caller (protocolReader)
// before decode runs, since the wire part itself carries no field metadata.
type outputParameters struct {
	outputFields []*parameterField
	fieldValues  []driver.Value
}

func (r *outputParameters) String() string {
	return fmt.Sprintf("output fields %v field values %v", r.outputFields, r.fieldValues)
}

func (r *outputParameters) decode(dec *encoding.Decoder, ph *partHeader) error {
	numArg := ph.numArg()
	cols := len(r.outputFields)
	r.fieldValues = newFieldValues(numArg * cols)

	for i := 0; i < numArg; i++ {
		for j, field := range r.outputFields {
			var err error
			if r.fieldValues[i*cols+j], err = decodeRes(dec, field.tc); err != nil {
				return err
			}
		}
	}
	return dec.Error()
}

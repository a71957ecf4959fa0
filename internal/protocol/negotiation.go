// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/hdbconnect-go/hdbconnect/internal/protocol/encoding"
)

// This file groups the wire parts that negotiate session-wide state: the
// flat key/typed-value option bags HANA uses for ConnectOptions,
// StatementContext, TransactionFlags, ClientContext and TopologyInformation
// (spec §5 connection negotiation). Their entries share one wire shape -
// an (int8 key, typeCode-tagged value) pair - so a single optionMap codec
// encodes and decodes them; the flat bags carry one optionMap, while
// TopologyInformation carries one optionMap per reported node
// (multiLineOptions below).

// optionMap is the shared wire shape: key -> self-describing typed value.
type optionMap map[int8]interface{}

// option value wire types. Each is tagged by the typeCode its zero-arg
// conversion maps to, so encode can look the tag up again from the Go
// type alone (spec §5's options never mix types per key).
type (
	optBooleanType bool
	optTinyintType int8
	optIntType     int32
	optBigintType  int64
	optDoubleType  float64
	optStringType  string
	optBstringType []byte
)

func (o optionMap) size() int {
	size := 2 * len(o) // key + typeCode, per entry
	for _, v := range o {
		size += optValueSize(v)
	}
	return size
}

func optValueSize(v interface{}) int {
	switch v := v.(type) {
	case optBooleanType:
		return 1
	case optTinyintType:
		return 1
	case optIntType:
		return 4
	case optBigintType:
		return 8
	case optDoubleType:
		return 8
	case optStringType:
		return 2 + len(v) // 2-byte length prefix
	case optBstringType:
		return 2 + len(v)
	default:
		panic(fmt.Sprintf("optionMap: unsupported option value type %T", v))
	}
}

func optTypeCode(v interface{}) typeCode {
	switch v.(type) {
	case optBooleanType:
		return tcBoolean
	case optTinyintType:
		return tcTinyint
	case optIntType:
		return tcInteger
	case optBigintType:
		return tcBigint
	case optDoubleType:
		return tcDouble
	case optStringType:
		return tcString
	case optBstringType:
		return tcBstring
	default:
		panic(fmt.Sprintf("optionMap: unsupported option value type %T", v))
	}
}

func (o optionMap) encode(enc *encoding.Encoder) error {
	for k, v := range o {
		enc.Int8(k)
		enc.Int8(int8(optTypeCode(v)))
		switch v := v.(type) {
		case optBooleanType:
			enc.Bool(bool(v))
		case optTinyintType:
			enc.Int8(int8(v))
		case optIntType:
			enc.Int32(int32(v))
		case optBigintType:
			enc.Int64(int64(v))
		case optDoubleType:
			enc.Float64(float64(v))
		case optStringType:
			enc.Int16(int16(len(v)))
			enc.String(string(v))
		case optBstringType:
			enc.Int16(int16(len(v)))
			enc.Bytes(v)
		}
	}
	return enc.Error()
}

func (o optionMap) decode(dec *encoding.Decoder, numArg int) {
	for i := 0; i < numArg; i++ {
		k := dec.Int8()
		tc := typeCode(dec.Byte())
		switch tc {
		case tcBoolean:
			o[k] = optBooleanType(dec.Bool())
		case tcTinyint:
			o[k] = optTinyintType(dec.Int8())
		case tcInteger:
			o[k] = optIntType(dec.Int32())
		case tcBigint:
			o[k] = optBigintType(dec.Int64())
		case tcDouble:
			o[k] = optDoubleType(dec.Float64())
		case tcString:
			size := dec.Int16()
			b := make([]byte, size)
			dec.Bytes(b)
			o[k] = optStringType(b)
		case tcBstring:
			size := dec.Int16()
			b := make([]byte, size)
			dec.Bytes(b)
			o[k] = optBstringType(b)
		default:
			panic(fmt.Sprintf("optionMap: unsupported option typeCode %s", tc))
		}
	}
}

// --- ConnectOptions ---------------------------------------------------

// negKey is the key of a single ConnectOptions entry (spec §5 connection
// negotiation).
type negKey int8

const (
	negConnectionID                 negKey = 1
	negCompleteArrayExecution       negKey = 2
	negClientLocale                 negKey = 3
	negSupportsLargeBulkOperations  negKey = 4
	negDistributionEnabled          negKey = 5
	negDataFormatVersion            negKey = 6 // deprecated
	negSelectForUpdateSupported     negKey = 14
	negClientDistributionMode       negKey = 15
	negEngineDataFormatVersion      negKey = 16
	negDistributionProtocolVersion  negKey = 17
	negSplitBatchCommands           negKey = 18
	negUseTransactionFlagsOnly      negKey = 19
	negRowSlotImageParameter        negKey = 20
	negIgnoreUnknownParts           negKey = 21
	negDataFormatVersion2           negKey = 23
	negItabParameter                negKey = 24
	negDescribeTableOutputParameter negKey = 25
	negColumnarResultSet            negKey = 26
	negScrollableResultSet          negKey = 27
	negClientInfoNullValueSupported negKey = 28
	negImplicitLobStreaming         negKey = 31
)

var negKeyText = map[negKey]string{
	negConnectionID:                 "connectionID",
	negCompleteArrayExecution:       "completeArrayExecution",
	negClientLocale:                 "clientLocale",
	negSupportsLargeBulkOperations:  "supportsLargeBulkOperations",
	negDistributionEnabled:          "distributionEnabled",
	negDataFormatVersion:            "dataFormatVersion",
	negSelectForUpdateSupported:     "selectForUpdateSupported",
	negClientDistributionMode:       "clientDistributionMode",
	negEngineDataFormatVersion:      "engineDataFormatVersion",
	negDistributionProtocolVersion:  "distributionProtocolVersion",
	negSplitBatchCommands:           "splitBatchCommands",
	negUseTransactionFlagsOnly:      "useTransactionFlagsOnly",
	negRowSlotImageParameter:        "rowSlotImageParameter",
	negIgnoreUnknownParts:           "ignoreUnknownParts",
	negDataFormatVersion2:           "dataFormatVersion2",
	negItabParameter:                "itabParameter",
	negDescribeTableOutputParameter: "describeTableOutputParameter",
	negColumnarResultSet:            "columnarResultSet",
	negScrollableResultSet:          "scrollableResultSet",
	negClientInfoNullValueSupported: "clientInfoNullValueSupported",
	negImplicitLobStreaming:         "implicitLobStreaming",
}

func (k negKey) String() string {
	if t, ok := negKeyText[k]; ok {
		return t
	}
	return fmt.Sprintf("negKey(%d)", int8(k))
}

// client distribution mode
//
//nolint
const (
	cdmOff                 optIntType = 0
	cdmConnection          optIntType = 1
	cdmStatement           optIntType = 2
	cdmConnectionStatement optIntType = 3
)

// distribution protocol version
//
//nolint
const (
	dpvBaseline                       = 0
	dpvClientHandlesStatementSequence = 1
)

// connOptions is the ConnectOptions Part: what the client proposes and the
// server confirms during session negotiation (spec §5).
type connOptions optionMap

func (o connOptions) String() string {
	m := make(map[negKey]interface{})
	for k, v := range o {
		m[negKey(k)] = v
	}
	return fmt.Sprintf("connectOptions %s", m)
}

func (o connOptions) size() int   { return optionMap(o).size() }
func (o connOptions) numArg() int { return len(o) }

func (o connOptions) set(k negKey, v interface{}) { o[int8(k)] = v }

//linter:unused
func (o connOptions) get(k negKey) (interface{}, bool) {
	v, ok := o[int8(k)]
	return v, ok
}

func (o *connOptions) decode(dec *encoding.Decoder, ph *partHeader) error {
	*o = connOptions{} // no reuse of maps - create new one
	optionMap(*o).decode(dec, ph.numArg())
	return dec.Error()
}

func (o connOptions) encode(enc *encoding.Encoder) error {
	optionMap(o).encode(enc)
	return nil
}

// --- StatementContext ---------------------------------------------------

type stmtContextKey int8

const (
	scStatementSequenceInfo stmtContextKey = 1
	scServerExecutionTime   stmtContextKey = 2
)

var stmtContextKeyText = map[stmtContextKey]string{
	scStatementSequenceInfo: "statementSequenceInfo",
	scServerExecutionTime:   "serverExecutionTime",
}

func (k stmtContextKey) String() string {
	if s, ok := stmtContextKeyText[k]; ok {
		return s
	}
	return "unknown"
}

// stmtContext is the StatementContext Part the server attaches to replies
// carrying per-statement bookkeeping (sequence info, execution time).
type stmtContext optionMap

func (c stmtContext) String() string {
	m := make(map[stmtContextKey]interface{})
	for k, v := range c {
		m[stmtContextKey(k)] = v
	}
	return fmt.Sprintf("statementContext %s", m)
}

func (c *stmtContext) decode(dec *encoding.Decoder, ph *partHeader) error {
	*c = stmtContext{} // no reuse of maps - create new one
	optionMap(*c).decode(dec, ph.numArg())
	return dec.Error()
}

// --- TransactionFlags ---------------------------------------------------

type txFlagKey int8

const (
	tfRolledback                     txFlagKey = 0
	tfCommited                       txFlagKey = 1
	tfNewIsolationLevel              txFlagKey = 2
	tfDDLCommitmodeChanged           txFlagKey = 3
	tfWriteTransactionStarted        txFlagKey = 4
	tfNowriteTransactionStarted      txFlagKey = 5
	tfSessionClosingTransactionError txFlagKey = 6
	tfReadOnlyMode                   txFlagKey = 8
)

var txFlagKeyText = map[txFlagKey]string{
	tfRolledback:                     "rolledback",
	tfCommited:                       "commited",
	tfNewIsolationLevel:              "newIsolationLevel",
	tfDDLCommitmodeChanged:           "ddlCommitmodeChanged",
	tfWriteTransactionStarted:        "writeTransactionStarted",
	tfNowriteTransactionStarted:      "nowriteTransactionStarted",
	tfSessionClosingTransactionError: "sessionClosingTransactionError",
	tfReadOnlyMode:                   "readOnlyMode",
}

func (k txFlagKey) String() string {
	if s, ok := txFlagKeyText[k]; ok {
		return s
	}
	return "unknown"
}

// txFlags is the TransactionFlags Part the server sends after commit,
// rollback or isolation-level changes (spec §4.3 transaction state).
type txFlags optionMap

func (f txFlags) String() string {
	m := make(map[txFlagKey]interface{})
	for k, v := range f {
		m[txFlagKey(k)] = v
	}
	return fmt.Sprintf("transactionFlags %s", m)
}

func (f *txFlags) decode(dec *encoding.Decoder, ph *partHeader) error {
	*f = txFlags{} // no reuse of maps - create new one
	optionMap(*f).decode(dec, ph.numArg())
	return dec.Error()
}

// --- ClientContext ---------------------------------------------------

// clientCtxKey identifies a ClientContext entry the driver sends ahead of
// authentication to describe itself to the server.
type clientCtxKey int8

const (
	ccoClientVersion            clientCtxKey = 1
	ccoClientType               clientCtxKey = 2
	ccoClientApplicationProgram clientCtxKey = 3
)

// --- TopologyInformation ---------------------------------------------------

// topologyOption identifies a single attribute of a topology node (host,
// port, role...) reported in a TopologyInformation Part.
type topologyOption int8

const (
	toHostName       topologyOption = 1
	toHostPortNumber topologyOption = 2
	toLoadfactor     topologyOption = 3
	toVolumeID       topologyOption = 4
	toIsMaster       topologyOption = 5
	toIsCurrentSession topologyOption = 6
	toServiceType    topologyOption = 7
	toNetworkDomain  topologyOption = 8
	toIsStandby      topologyOption = 10
	toAllIPAddresses topologyOption = 11
)

// multiLineOptions is a TopologyInformation-shaped Part: a sequence of
// option rows, one per reported node, rather than the single flat bag the
// other option Parts carry.
type multiLineOptions []optionMap

func (o *multiLineOptions) decode(dec *encoding.Decoder, numArg int) {
	lines := make(multiLineOptions, numArg)
	for i := 0; i < numArg; i++ {
		m := optionMap{}
		numOpt := dec.Int16()
		m.decode(dec, int(numOpt))
		lines[i] = m
	}
	*o = lines
}

type topologyInfo multiLineOptions

func (o topologyInfo) String() string {
	m := make([]map[topologyOption]interface{}, len(o))
	for i, row := range o {
		typed := make(map[topologyOption]interface{})
		for k, v := range row {
			typed[topologyOption(k)] = v
		}
		m[i] = typed
	}
	return fmt.Sprintf("topologyInformation %s", m)
}

func (o *topologyInfo) decode(dec *encoding.Decoder, ph *partHeader) error {
	(*multiLineOptions)(o).decode(dec, ph.numArg())
	return dec.Error()
}

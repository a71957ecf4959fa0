// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

//go:generate stringer -type=partKind

// partKind identifies the payload format of a part (spec §4.1's "closed
// enum of ~40 values").
type partKind int8

//nolint
const (
	pkNil                       partKind = 0
	pkCommand                   partKind = 3
	pkResultset                 partKind = 5
	pkError                     partKind = 6
	pkStatementID               partKind = 10
	pkTransactionID             partKind = 11 // deprecated, kept for wire compat
	pkRowsAffected              partKind = 12
	pkResultsetID                partKind = 13
	pkTopologyInformation       partKind = 14
	pkTableLocation             partKind = 15
	pkReadLobRequest            partKind = 17
	pkReadLobReply              partKind = 18
	pkAbapIStream               partKind = 25
	pkAbapOStream               partKind = 26
	pkCommandInfo               partKind = 27
	pkWriteLobRequest           partKind = 28
	pkClientContext             partKind = 29
	pkWriteLobReply             partKind = 30
	pkParameters                partKind = 32
	pkAuthentication            partKind = 33
	pkSessionContext            partKind = 34
	pkClientID                  partKind = 35
	pkProfile                   partKind = 36
	pkStatementContext          partKind = 39
	pkPartitionInformation      partKind = 40
	pkOutputParameters          partKind = 41
	pkConnectOptions            partKind = 42
	pkCommitOptions             partKind = 43
	pkFetchOptions              partKind = 44
	pkFetchSize                 partKind = 45
	pkParameterMetadata         partKind = 47
	pkResultMetadata            partKind = 48
	pkFindLobRequest            partKind = 49
	pkFindLobReply              partKind = 50
	pkItabShm                   partKind = 51
	pkItabChunkMetadata         partKind = 52
	pkItabMetadata              partKind = 53
	pkItabResultChunk           partKind = 54
	pkClientInfo                partKind = 55
	pkStreamData                partKind = 56
	pkOStreamResult             partKind = 57
	pkFdaRequestMetadata        partKind = 58
	pkFdaReplyMetadata          partKind = 59
	pkBatchPrepare              partKind = 60
	pkBatchExecute              partKind = 61
	pkTransactionFlags          partKind = 64
	pkRowSlotImageParamMetadata partKind = 65
	pkRowSlotImageResultset     partKind = 66
	pkDBConnectInfo             partKind = 67
	pkLobFlags                  partKind = 68
	pkResultsetSignature        partKind = 69
	pkHintMetadata              partKind = 70
	pkXATransactionInfo         partKind = 75
)

var partKindText = map[partKind]string{
	pkNil:                       "nil",
	pkCommand:                   "command",
	pkResultset:                 "resultset",
	pkError:                     "error",
	pkStatementID:               "statementID",
	pkTransactionID:             "transactionID",
	pkRowsAffected:              "rowsAffected",
	pkResultsetID:               "resultsetID",
	pkTopologyInformation:       "topologyInfo",
	pkTableLocation:             "tableLocation",
	pkReadLobRequest:            "readLobRequest",
	pkReadLobReply:              "readLobReply",
	pkAbapIStream:               "abapIStream",
	pkAbapOStream:               "abapOStream",
	pkCommandInfo:               "commandInfo",
	pkWriteLobRequest:           "writeLobRequest",
	pkClientContext:             "clientContext",
	pkWriteLobReply:             "writeLobReply",
	pkParameters:                "parameters",
	pkAuthentication:            "authentication",
	pkSessionContext:            "sessionContext",
	pkClientID:                  "clientID",
	pkProfile:                   "profile",
	pkStatementContext:          "stmtContext",
	pkPartitionInformation:      "partitionInformation",
	pkOutputParameters:          "outputParameters",
	pkConnectOptions:            "connOptions",
	pkCommitOptions:             "commitOptions",
	pkFetchOptions:              "fetchOptions",
	pkFetchSize:                 "fetchSize",
	pkParameterMetadata:         "parameterMetadata",
	pkResultMetadata:            "resultMetadata",
	pkFindLobRequest:            "findLobRequest",
	pkFindLobReply:              "findLobReply",
	pkItabShm:                   "itabShm",
	pkItabChunkMetadata:         "itabChunkMetadata",
	pkItabMetadata:              "itabMetadata",
	pkItabResultChunk:           "itabResultChunk",
	pkClientInfo:                "clientInfo",
	pkStreamData:                "streamData",
	pkOStreamResult:             "oStreamResult",
	pkFdaRequestMetadata:        "fdaRequestMetadata",
	pkFdaReplyMetadata:          "fdaReplyMetadata",
	pkBatchPrepare:              "batchPrepare",
	pkBatchExecute:              "batchExecute",
	pkTransactionFlags:          "txFlags",
	pkRowSlotImageParamMetadata: "rowSlotImageParamMetadata",
	pkRowSlotImageResultset:     "rowSlotImageResultset",
	pkDBConnectInfo:             "dbConnectInfo",
	pkLobFlags:                  "lobFlags",
	pkResultsetSignature:        "resultsetSignature",
	pkHintMetadata:              "hintMetadata",
	pkXATransactionInfo:         "xaTransactionInfo",
}

func (k partKind) String() string {
	if t, ok := partKindText[k]; ok {
		return t
	}
	return "unknown"
}

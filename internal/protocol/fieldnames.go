// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"sort"

	"github.com/hdbconnect-go/hdbconnect/internal/protocol/encoding"
)

// noFieldName marks a field's name offset as absent (spec §4.3 metadata:
// table/schema name offsets are frequently unset for derived columns).
const noFieldName = 0xFFFFFFFF

// fieldNames resolves the byte offsets a ParameterMetadata or
// ResultMetadata part's field records carry into the name strings packed
// into the name block that follows those records on the wire. Offsets are
// shared across fields (e.g. two columns from the same table carry the
// same tableNameOffset), so names are resolved once per part, not once
// per field.
type fieldNames struct {
	offsets map[uint32]string
}

// insert registers offset for resolution. A noFieldName offset is ignored.
func (n *fieldNames) insert(offset uint32) {
	if offset == noFieldName {
		return
	}
	if n.offsets == nil {
		n.offsets = make(map[uint32]string)
	}
	n.offsets[offset] = ""
}

// name returns the resolved name for offset, or "" if never registered.
func (n *fieldNames) name(offset uint32) string {
	return n.offsets[offset]
}

func (n *fieldNames) sortedOffsets() []uint32 {
	offsets := make([]uint32, 0, len(n.offsets))
	for offset := range n.offsets {
		offsets = append(offsets, offset)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

// decode reads the name block: one byte-length-prefixed CESU-8 string per
// registered offset, in ascending offset order, each preceded by however
// many filler bytes separate it from the previous string's end.
func (n *fieldNames) decode(dec *encoding.Decoder) {
	pos := uint32(0)
	for _, offset := range n.sortedOffsets() {
		if diff := int(offset - pos); diff > 0 {
			dec.Skip(diff)
		}
		size := int(dec.Byte())
		b := dec.CESU8Bytes(size, nil)
		n.offsets[offset] = string(b)
		pos = offset + 1 + uint32(size)
	}
}

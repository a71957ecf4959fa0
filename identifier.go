// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"regexp"
	"strconv"
	"strings"
)

var reSimpleIdentifier = regexp.MustCompile("^[_A-Z][_#$A-Z0-9]*$")

// Identifier is a schema, table or column name in HANA SQL statements. Its
// String method quotes itself only when necessary, so it can be embedded
// directly into generated SQL text.
type Identifier string

// String implements fmt.Stringer, quoting the identifier only if it isn't a
// plain uppercase SQL name.
func (i Identifier) String() string {
	s := string(i)
	if reSimpleIdentifier.MatchString(s) {
		return s
	}
	return strconv.Quote(s)
}

// SplitIdentifier splits a dot-separated, possibly quoted identifier path
// (e.g. `"my.schema".mytable`) into its Identifier components.
func SplitIdentifier(s string) []Identifier {
	inQuotes := false
	f := func(c rune) bool {
		switch {
		case c == '"':
			inQuotes = !inQuotes
			return false
		case inQuotes:
			return false
		default:
			return c == '.'
		}
	}

	a := strings.FieldsFunc(s, f)
	ids := make([]Identifier, len(a))
	for i, s := range a {
		if t, err := strconv.Unquote(s); err != nil { // no quotes found
			ids[i] = Identifier(s)
		} else {
			ids[i] = Identifier(t)
		}
	}
	return ids
}

// JoinIdentifier joins Identifier components back into a dot-separated path.
func JoinIdentifier(a []Identifier) string {
	ids := make([]string, len(a))
	for i, id := range a {
		ids[i] = id.String()
	}
	return strings.Join(ids, ".")
}

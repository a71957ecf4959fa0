// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import "testing"

type testIdentifier struct {
	id Identifier
	s  string
}

var testIdentifierData = []*testIdentifier{
	{"_", "_"},
	{"_A", "_A"},
	{"A#$_", "A#$_"},
	{"1", `"1"`},
	{"a", `"a"`},
	{"$", `"$"`},
	{"日本語", `"日本語"`},
	{"testTransaction", `"testTransaction"`},
}

func TestIdentifierStringer(t *testing.T) {
	for i, d := range testIdentifierData {
		if d.id.String() != d.s {
			t.Fatalf("%d id %s - expected %s", i, d.id, d.s)
		}
	}
}

func TestSplitJoinIdentifier(t *testing.T) {
	testData := []struct {
		path string
		ids  []Identifier
	}{
		{"SCHEMA.TABLE", []Identifier{"SCHEMA", "TABLE"}},
		{`"my.schema".mytable`, []Identifier{"my.schema", "mytable"}},
		{"A", []Identifier{"A"}},
	}
	for i, d := range testData {
		ids := SplitIdentifier(d.path)
		if len(ids) != len(d.ids) {
			t.Fatalf("%d: got %v - expected %v", i, ids, d.ids)
		}
		for j := range ids {
			if ids[j] != d.ids[j] {
				t.Fatalf("%d: got %v - expected %v", i, ids, d.ids)
			}
		}
	}

	joined := JoinIdentifier([]Identifier{"SCHEMA", "TABLE"})
	if joined != "SCHEMA.TABLE" {
		t.Fatalf("got %s - expected %s", joined, "SCHEMA.TABLE")
	}

	joined = JoinIdentifier([]Identifier{"my.schema", "mytable"})
	if joined != `"my.schema"."mytable"` {
		t.Fatalf("got %s - expected %s", joined, `"my.schema"."mytable"`)
	}
}

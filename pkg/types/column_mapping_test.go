package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnMappingAccessors(t *testing.T) {
	m := NewColumnMapping(
		ColumnPair{From: "year", To: "fiscal_year"},
		ColumnPair{From: "region", To: "region_code"},
	)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"year", "region"}, m.Keys())
	assert.Equal(t, []string{"fiscal_year", "region_code"}, m.Values())

	got, ok := m.Get("region")
	assert.True(t, ok)
	assert.Equal(t, "region_code", got)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestColumnMappingClone(t *testing.T) {
	m := NewColumnMapping(ColumnPair{From: "id", To: "patient_id"})
	c := m.Clone()
	c[0].To = "pid"

	assert.Equal(t, "patient_id", m[0].To)

	var nilMapping ColumnMapping
	assert.NotNil(t, nilMapping.Clone())
}

func TestColumnMappingJSON(t *testing.T) {
	tests := []struct {
		name string
		in   ColumnMapping
		want string
	}{
		{
			name: "single pair",
			in:   ColumnMapping{{From: "id", To: "patient_id"}},
			want: `{"id":"patient_id"}`,
		},
		{
			name: "order follows pairs, not key sort",
			in:   ColumnMapping{{From: "z", To: "1"}, {From: "a", To: "2"}},
			want: `{"z":"1","a":"2"}`,
		},
		{
			name: "empty mapping",
			in:   ColumnMapping{},
			want: `{}`,
		},
		{
			name: "keys needing escapes",
			in:   ColumnMapping{{From: `we"ird`, To: "ok"}},
			want: `{"we\"ird":"ok"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
			assert.Equal(t, tt.want, string(data), "byte-exact order")

			var back ColumnMapping
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestColumnMappingUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "array instead of object", in: `["id"]`},
		{name: "non-string value", in: `{"id": 3}`},
		{name: "truncated", in: `{"id": "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m ColumnMapping
			assert.Error(t, json.Unmarshal([]byte(tt.in), &m))
		})
	}
}

func TestLinkJSONKeepsColumnOrder(t *testing.T) {
	l := NewLink("sales", "targets", LinkTypeKeyed, []ColumnMapping{
		{{From: "year", To: "fy"}, {From: "region", To: "rc"}},
	})

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"from_dataset":"sales","to_dataset":"targets","link_type":"keyed","link_columns":[{"year":"fy","region":"rc"}]}`,
		string(data))

	var back Link
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, l.Equal(&back))
}

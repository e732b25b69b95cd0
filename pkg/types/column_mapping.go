package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ColumnPair maps one column of the source dataset to one column of the
// target dataset.
type ColumnPair struct {
	From string
	To   string
}

// ColumnMapping is one set of corresponding columns between two datasets.
// Pairs keep their insertion order so composite keys read back in the order
// they were declared. A mapping with several pairs describes a composite key.
//
// The JSON form is an object whose key order follows the pair order:
//
//	{"visit_date":"date","patient_id":"pid"}
type ColumnMapping []ColumnPair

// NewColumnMapping returns a mapping holding a copy of pairs.
func NewColumnMapping(pairs ...ColumnPair) ColumnMapping {
	m := make(ColumnMapping, len(pairs))
	copy(m, pairs)
	return m
}

// Len returns the number of pairs in the mapping.
func (m ColumnMapping) Len() int {
	return len(m)
}

// Keys returns the source-side column names in order.
func (m ColumnMapping) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.From
	}
	return keys
}

// Values returns the target-side column names in order.
func (m ColumnMapping) Values() []string {
	values := make([]string, len(m))
	for i, p := range m {
		values[i] = p.To
	}
	return values
}

// Get returns the target column paired with from. When the key occurs more
// than once the first pair wins.
func (m ColumnMapping) Get(from string) (string, bool) {
	for _, p := range m {
		if p.From == from {
			return p.To, true
		}
	}
	return "", false
}

// Clone returns an independent copy of the mapping. A nil mapping clones to
// an empty, non-nil one.
func (m ColumnMapping) Clone() ColumnMapping {
	return NewColumnMapping(m...)
}

// renameKey replaces every source column equal to oldName, keeping each
// pair's position and target. Collisions with an existing key are not checked.
func (m ColumnMapping) renameKey(oldName, newName string) {
	for i := range m {
		if m[i].From == oldName {
			m[i].From = newName
		}
	}
}

// renameValue replaces every target column equal to oldName, keeping each
// pair's position and source.
func (m ColumnMapping) renameValue(oldName, newName string) {
	for i := range m {
		if m[i].To == oldName {
			m[i].To = newName
		}
	}
}

// MarshalJSON encodes the mapping as a JSON object in pair order.
func (m ColumnMapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.From)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.To)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, keeping the key order
// of the document. Repeated keys are kept as separate pairs. JSON null leaves
// the mapping unchanged.
func (m *ColumnMapping) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("column mapping: expected JSON object, got %v", tok)
	}

	pairs := ColumnMapping{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("column mapping: expected string key, got %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("column mapping: value for %q: %w", key, err)
		}
		pairs = append(pairs, ColumnPair{From: key, To: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = pairs
	return nil
}

package types

// Common link type tags. Link does not interpret LinkType; these only name the
// values the CLI offers by default.
const (
	LinkTypeKeyed    = "keyed"
	LinkTypeOneToOne = "one_to_one"
	LinkTypeLookup   = "lookup"
)

// Link describes a relationship between two tabular datasets.
//
// LinkColumns holds one ColumnMapping per alternative set of linking columns.
// Keys of each mapping name columns in FromDataset, values name columns in
// ToDataset. Link owns its mappings; NewLink and Clone copy them.
//
// Link performs no validation and no locking. Callers that share a Link
// across goroutines must serialize access to it.
type Link struct {
	FromDataset string          `json:"from_dataset"`
	ToDataset   string          `json:"to_dataset"`
	LinkType    string          `json:"link_type"`
	LinkColumns []ColumnMapping `json:"link_columns"`
}

// NewLink returns a Link holding the supplied values. The mappings are
// deep-copied; a nil slice becomes an empty one.
func NewLink(fromDataset, toDataset, linkType string, linkColumns []ColumnMapping) *Link {
	return &Link{
		FromDataset: fromDataset,
		ToDataset:   toDataset,
		LinkType:    linkType,
		LinkColumns: cloneMappings(linkColumns),
	}
}

// Clone returns a deep copy of l. Mutating either link afterwards does not
// affect the other.
func (l *Link) Clone() *Link {
	return NewLink(l.FromDataset, l.ToDataset, l.LinkType, l.LinkColumns)
}

// RenameDataset replaces oldName with newName on either end of the link. Both
// ends are checked, so a self-link is renamed on both sides. A name matching
// neither end leaves the link unchanged.
func (l *Link) RenameDataset(oldName, newName string) {
	if l.FromDataset == oldName {
		l.FromDataset = newName
	}
	if l.ToDataset == oldName {
		l.ToDataset = newName
	}
}

// RenameColumn renames a column of datasetName inside every mapping.
//
// When datasetName is the source dataset, matching keys are renamed and their
// values kept. When it is the target dataset, matching values are renamed and
// their keys kept. A self-link gets both. Anything that does not match is left
// as is.
func (l *Link) RenameColumn(datasetName, oldColumnName, newColumnName string) {
	if l.FromDataset == datasetName {
		for _, m := range l.LinkColumns {
			m.renameKey(oldColumnName, newColumnName)
		}
	}
	if l.ToDataset == datasetName {
		for _, m := range l.LinkColumns {
			m.renameValue(oldColumnName, newColumnName)
		}
	}
}

// References reports whether datasetName is either end of the link.
func (l *Link) References(datasetName string) bool {
	return l.FromDataset == datasetName || l.ToDataset == datasetName
}

// Equal reports whether l and other hold the same values, including mapping
// order.
func (l *Link) Equal(other *Link) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.FromDataset != other.FromDataset || l.ToDataset != other.ToDataset || l.LinkType != other.LinkType {
		return false
	}
	if len(l.LinkColumns) != len(other.LinkColumns) {
		return false
	}
	for i, m := range l.LinkColumns {
		o := other.LinkColumns[i]
		if len(m) != len(o) {
			return false
		}
		for j := range m {
			if m[j] != o[j] {
				return false
			}
		}
	}
	return true
}

func cloneMappings(in []ColumnMapping) []ColumnMapping {
	out := make([]ColumnMapping, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

package sqlite

import "encoding/json"

// linksFile is the JSONL file that holds every stored link. It is the source
// of truth; the SQLite database is rebuilt from it on Attach.
const linksFile = "links.jsonl"

// linkJSON represents a link in links.jsonl. LinkColumns is kept raw so the
// column order written by types.ColumnMapping survives the round trip.
type linkJSON struct {
	LinkID      string          `json:"link_id"`
	FromDataset string          `json:"from_dataset"`
	ToDataset   string          `json:"to_dataset"`
	LinkType    string          `json:"link_type"`
	LinkColumns json.RawMessage `json:"link_columns"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

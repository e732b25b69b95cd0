// Startup loading of links.jsonl into SQLite.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mesh-intelligence/datalinks/pkg/types"
)

// loadLinks reads links.jsonl and inserts every usable record into the links
// table inside one transaction: all records load or the table stays empty.
// Malformed lines, records without an ID or a parseable created_at, records
// whose link_columns do not decode, and duplicate IDs are skipped. A missing
// or unparseable updated_at falls back to created_at. Timestamps are stored
// in timeFormat. Unknown fields are ignored.
func loadLinks(db *sql.DB, path string) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO links (" + linkColumnsSQL + ") VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing link insert: %w", err)
	}
	defer stmt.Close()

	loaded := 0
	for _, rec := range records {
		var lj linkJSON
		if err := json.Unmarshal(rec, &lj); err != nil || lj.LinkID == "" {
			log.Debug().Err(err).Msg("skipping malformed link record")
			continue
		}

		cols, err := normalizeLinkColumns(lj.LinkColumns)
		if err != nil {
			log.Debug().Str("link_id", lj.LinkID).Err(err).Msg("skipping link with bad link_columns")
			continue
		}

		created, err := parseTime(lj.CreatedAt)
		if err != nil {
			log.Debug().Str("link_id", lj.LinkID).Err(err).Msg("skipping link with bad created_at")
			continue
		}
		updated, err := parseTime(lj.UpdatedAt)
		if err != nil {
			updated = created
		}

		if _, err := stmt.Exec(
			lj.LinkID, lj.FromDataset, lj.ToDataset, lj.LinkType,
			cols, formatTime(created), formatTime(updated),
		); err != nil {
			log.Debug().Str("link_id", lj.LinkID).Err(err).Msg("skipping link that violates constraints")
			continue
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, nil
}

// normalizeLinkColumns checks that raw decodes as a list of column mappings
// and returns it in canonical form. Absent or null columns become "[]".
func normalizeLinkColumns(raw json.RawMessage) (string, error) {
	var cols []types.ColumnMapping
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cols); err != nil {
			return "", err
		}
	}
	return encodeLinkColumns(cols)
}

// encodeLinkColumns renders mappings as the JSON text stored in SQLite.
func encodeLinkColumns(cols []types.ColumnMapping) (string, error) {
	if cols == nil {
		cols = []types.ColumnMapping{}
	}
	data, err := json.Marshal(cols)
	if err != nil {
		return "", fmt.Errorf("encoding link_columns: %w", err)
	}
	return string(data), nil
}

// decodeLinkColumns parses the JSON text stored in SQLite.
func decodeLinkColumns(s string) ([]types.ColumnMapping, error) {
	cols := []types.ColumnMapping{}
	if err := json.Unmarshal([]byte(s), &cols); err != nil {
		return nil, fmt.Errorf("decoding link_columns: %w", err)
	}
	return cols, nil
}

// Links table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/datalinks/pkg/types"
)

// timeFormat is fixed-width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

var _ types.LinkTable = (*linksTable)(nil)

type linksTable struct {
	backend *Backend
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Get retrieves a link by ID.
func (lt *linksTable) Get(id string) (*types.StoredLink, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	b := lt.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrCatalogDetached
	}

	row := b.db.QueryRow("SELECT "+linkColumnsSQL+" FROM links WHERE link_id = ?", id)
	link, err := hydrateLink(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting link %s: %w", id, err)
	}
	return link, nil
}

// Set persists a link. If id is empty, generates a UUID v7 and creates the
// link. If id names an existing link it is replaced, keeping its created_at;
// otherwise a new link is stored under id. Both dataset names are required.
// The row is committed before links.jsonl is rewritten; if that write fails
// the error is returned and the file catches up on the next successful write.
func (lt *linksTable) Set(id string, link *types.Link) (string, error) {
	if link == nil {
		return "", types.ErrInvalidData
	}
	if link.FromDataset == "" || link.ToDataset == "" {
		return "", types.ErrInvalidData
	}

	cols, err := encodeLinkColumns(link.LinkColumns)
	if err != nil {
		return "", err
	}

	b := lt.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrCatalogDetached
	}

	if id == "" {
		id, err = generateUUID()
		if err != nil {
			return "", err
		}
	}
	now := formatTime(time.Now())

	tx, err := b.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var createdAt string
	err = tx.QueryRow("SELECT created_at FROM links WHERE link_id = ?", id).Scan(&createdAt)
	switch {
	case err == nil:
		_, err = tx.Exec(
			"UPDATE links SET from_dataset = ?, to_dataset = ?, link_type = ?, link_columns = ?, updated_at = ? WHERE link_id = ?",
			link.FromDataset, link.ToDataset, link.LinkType, cols, now, id,
		)
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.Exec(
			"INSERT INTO links ("+linkColumnsSQL+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			id, link.FromDataset, link.ToDataset, link.LinkType, cols, now, now,
		)
	default:
		return "", fmt.Errorf("checking link existence: %w", err)
	}
	if err != nil {
		return "", fmt.Errorf("persisting link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing link: %w", err)
	}

	if err := b.persistLinksJSONL(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", linksFile, err)
	}
	return id, nil
}

// Delete removes a link by ID.
func (lt *linksTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	b := lt.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrCatalogDetached
	}

	res, err := b.db.Exec("DELETE FROM links WHERE link_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := b.persistLinksJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", linksFile, err)
	}
	return nil
}

// Fetch queries links matching the filter, oldest first.
// Supported filter keys: from_dataset, to_dataset, dataset, link_type (string
// values) and limit, offset (int values).
func (lt *linksTable) Fetch(filter types.Filter) ([]*types.StoredLink, error) {
	query, args, err := buildFetchQuery(filter)
	if err != nil {
		return nil, err
	}

	b := lt.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrCatalogDetached
	}

	return queryLinks(b.db, query, args...)
}

// buildFetchQuery turns a filter into a SELECT statement and its arguments.
func buildFetchQuery(filter types.Filter) (string, []any, error) {
	var conditions []string
	var args []any

	stringFilters := []struct {
		key  string
		cond string
		n    int
	}{
		{"from_dataset", "from_dataset = ?", 1},
		{"to_dataset", "to_dataset = ?", 1},
		{"dataset", "(from_dataset = ? OR to_dataset = ?)", 2},
		{"link_type", "link_type = ?", 1},
	}
	for _, f := range stringFilters {
		v, ok := filter[f.key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, f.cond)
		for i := 0; i < f.n; i++ {
			args = append(args, s)
		}
	}

	query := "SELECT " + linkColumnsSQL + " FROM links"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, link_id"

	limit, err := intFilter(filter, "limit")
	if err != nil {
		return "", nil, err
	}
	offset, err := intFilter(filter, "offset")
	if err != nil {
		return "", nil, err
	}
	switch {
	case limit > 0:
		query += fmt.Sprintf(" LIMIT %d", limit)
	case offset > 0:
		// SQLite only accepts OFFSET after a LIMIT.
		query += " LIMIT -1"
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", offset)
	}

	return query, args, nil
}

func intFilter(filter types.Filter, key string) (int, error) {
	v, ok := filter[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.(int)
	if !ok {
		return 0, types.ErrInvalidFilter
	}
	return n, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// queryLinks runs a links SELECT and hydrates every row. The result is never
// nil.
func queryLinks(q queryer, query string, args ...any) ([]*types.StoredLink, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching links: %w", err)
	}
	defer rows.Close()

	results := []*types.StoredLink{}
	for rows.Next() {
		link, err := hydrateLink(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating link: %w", err)
		}
		results = append(results, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return results, nil
}

// hydrateLink converts a single SQLite row into a *types.StoredLink.
func hydrateLink(row rowScanner) (*types.StoredLink, error) {
	var sl types.StoredLink
	var cols, createdAt, updatedAt string
	if err := row.Scan(&sl.LinkID, &sl.FromDataset, &sl.ToDataset, &sl.LinkType, &cols, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if sl.LinkColumns, err = decodeLinkColumns(cols); err != nil {
		return nil, err
	}
	if sl.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if sl.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &sl, nil
}

// parseTime accepts the fixed-width stored format and plain RFC 3339, which
// hand-edited JSONL files tend to use.
// formatTime renders t in UTC using timeFormat.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// persistLinksJSONL rewrites links.jsonl from the links table.
// The caller must hold b.mu write lock.
func (b *Backend) persistLinksJSONL() error {
	links, err := queryLinks(b.db, "SELECT "+linkColumnsSQL+" FROM links ORDER BY created_at, link_id")
	if err != nil {
		return err
	}

	records := make([]json.RawMessage, 0, len(links))
	for _, l := range links {
		cols, err := encodeLinkColumns(l.LinkColumns)
		if err != nil {
			return err
		}
		data, err := json.Marshal(linkJSON{
			LinkID:      l.LinkID,
			FromDataset: l.FromDataset,
			ToDataset:   l.ToDataset,
			LinkType:    l.LinkType,
			LinkColumns: json.RawMessage(cols),
			CreatedAt:   formatTime(l.CreatedAt),
			UpdatedAt:   formatTime(l.UpdatedAt),
		})
		if err != nil {
			return fmt.Errorf("marshaling link %s: %w", l.LinkID, err)
		}
		records = append(records, data)
	}

	return writeJSONL(b.jsonlPath(), records)
}

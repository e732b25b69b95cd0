// Rename propagation across stored links.
package sqlite

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mesh-intelligence/datalinks/pkg/types"
)

// RenameDataset renames a dataset on every stored link that references it
// and returns how many links changed. newName must not be empty.
func (b *Backend) RenameDataset(oldName, newName string) (int, error) {
	if newName == "" {
		return 0, types.ErrInvalidName
	}
	n, err := b.propagate(oldName, func(l *types.Link) {
		l.RenameDataset(oldName, newName)
	})
	if err != nil {
		return 0, fmt.Errorf("rename dataset %q: %w", oldName, err)
	}

	log.Debug().
		Str("old", oldName).
		Str("new", newName).
		Int("links", n).
		Msg("dataset rename propagated")
	return n, nil
}

// RenameColumn renames a column of datasetName on every stored link that
// references the dataset and returns how many links changed. newColumnName
// must not be empty.
func (b *Backend) RenameColumn(datasetName, oldColumnName, newColumnName string) (int, error) {
	if newColumnName == "" {
		return 0, types.ErrInvalidName
	}
	n, err := b.propagate(datasetName, func(l *types.Link) {
		l.RenameColumn(datasetName, oldColumnName, newColumnName)
	})
	if err != nil {
		return 0, fmt.Errorf("rename column %s.%s: %w", datasetName, oldColumnName, err)
	}

	log.Debug().
		Str("dataset", datasetName).
		Str("old", oldColumnName).
		Str("new", newColumnName).
		Int("links", n).
		Msg("column rename propagated")
	return n, nil
}

// propagate applies rename to a copy of every link that references dataset
// and writes back the ones that changed, in one transaction. links.jsonl is
// rewritten only when something changed, after the commit; a failed file
// write is returned but the committed rows stand.
func (b *Backend) propagate(dataset string, rename func(*types.Link)) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return 0, types.ErrCatalogDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	candidates, err := queryLinks(tx,
		"SELECT "+linkColumnsSQL+" FROM links WHERE from_dataset = ? OR to_dataset = ? ORDER BY created_at, link_id",
		dataset, dataset,
	)
	if err != nil {
		return 0, err
	}

	now := formatTime(time.Now())
	changed := 0
	for _, sl := range candidates {
		updated := sl.Link.Clone()
		rename(updated)
		if updated.Equal(&sl.Link) {
			continue
		}

		cols, err := encodeLinkColumns(updated.LinkColumns)
		if err != nil {
			return 0, err
		}
		if _, err := tx.Exec(
			"UPDATE links SET from_dataset = ?, to_dataset = ?, link_columns = ?, updated_at = ? WHERE link_id = ?",
			updated.FromDataset, updated.ToDataset, cols, now, sl.LinkID,
		); err != nil {
			return 0, fmt.Errorf("updating link %s: %w", sl.LinkID, err)
		}
		changed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rename: %w", err)
	}

	if changed > 0 {
		if err := b.persistLinksJSONL(); err != nil {
			return 0, fmt.Errorf("persisting %s: %w", linksFile, err)
		}
	}
	return changed, nil
}

// Package sqlite implements the SQLite link catalog. links.jsonl in DataDir is
// the source of truth; SQLite is the query engine, rebuilt on every Attach.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/datalinks/pkg/types"
)

// dbFileName is the SQLite database created inside DataDir.
const dbFileName = "datalinks.db"

var _ types.Catalog = (*Backend)(nil)

// Backend implements types.Catalog using SQLite as the query engine and a
// JSONL file as the source of truth. It is safe for concurrent use.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	links    *linksTable
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, builds a fresh SQLite schema and
// loads links.jsonl into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	if config.DataDir == "" {
		config.DataDir = "."
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is derived state; start from an empty file.
	dbPath := filepath.Join(config.DataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbFileName, err)
	}
	// One connection serializes writers; every statement inside a transaction
	// must go through the *sql.Tx.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	jsonlPath := filepath.Join(config.DataDir, linksFile)
	if err := ensureJSONLFile(jsonlPath); err != nil {
		db.Close()
		return err
	}

	loaded, err := loadLinks(db, jsonlPath)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.links = &linksTable{backend: b}
	b.attached = true

	log.Debug().
		Str("data_dir", config.DataDir).
		Int("links", loaded).
		Msg("catalog attached")
	return nil
}

// Detach releases all resources held by the backend. After Detach, all
// operations return ErrCatalogDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.attached = false
	b.links = nil

	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		if err != nil {
			return err
		}
	}
	return nil
}

// Links returns the links table.
// Returns ErrCatalogDetached if the backend is not attached.
func (b *Backend) Links() (types.LinkTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrCatalogDetached
	}
	return b.links, nil
}

// DataDir returns the directory the backend is attached to, or "" when
// detached.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return ""
	}
	return b.config.DataDir
}

// jsonlPath returns the path of links.jsonl. The caller must hold b.mu.
func (b *Backend) jsonlPath() string {
	return filepath.Join(b.config.DataDir, linksFile)
}

// generateUUID generates a new UUID v7 for link IDs.
func generateUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}

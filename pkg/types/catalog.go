package types

import (
	"errors"
	"time"
)

// StoredLink is a Link as kept by a Catalog.
type StoredLink struct {
	// LinkID is a UUID v7, generated on creation.
	LinkID string `json:"link_id"`

	Link

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter selects links in LinkTable.Fetch. Recognized keys are from_dataset,
// to_dataset, dataset (either end), link_type, limit and offset.
type Filter map[string]any

// LinkTable provides CRUD operations over stored links.
type LinkTable interface {
	// Get retrieves the link with the given ID.
	// Returns ErrNotFound if no link exists with that ID.
	Get(id string) (*StoredLink, error)

	// Set creates or updates a link. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, link *Link) (string, error)

	// Delete removes the link with the given ID.
	// Returns ErrNotFound if no link exists with that ID.
	Delete(id string) error

	// Fetch returns all links matching the filter, oldest first. An empty
	// filter returns every link.
	Fetch(filter Filter) ([]*StoredLink, error)
}

// Catalog owns the set of known links between datasets and propagates
// dataset and column renames to them.
type Catalog interface {
	// Attach connects the Catalog to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	Detach() error

	// Links returns the table of stored links.
	Links() (LinkTable, error)

	// RenameDataset applies Link.RenameDataset to every stored link and
	// returns how many links changed.
	RenameDataset(oldName, newName string) (int, error)

	// RenameColumn applies Link.RenameColumn to every stored link and
	// returns how many links changed.
	RenameColumn(datasetName, oldColumnName, newColumnName string) (int, error)
}

// Catalog lifecycle errors.
var (
	ErrCatalogDetached = errors.New("catalog is detached")
	ErrAlreadyAttached = errors.New("catalog is already attached")
)

// Table operation errors.
var (
	ErrNotFound      = errors.New("link not found")
	ErrInvalidID     = errors.New("invalid link ID")
	ErrInvalidData   = errors.New("invalid link data")
	ErrInvalidFilter = errors.New("invalid filter value type")
	ErrInvalidName   = errors.New("invalid name")
)

// Package sqlite provides the public API for the SQLite link catalog.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/datalinks/internal/sqlite"
	"github.com/mesh-intelligence/datalinks/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	catalog := sqlite.NewBackend()
//	err := catalog.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".datalinks-db",
//	})
//	defer catalog.Detach()
//	n, err := catalog.RenameDataset("patients", "people")
func NewBackend() types.Catalog {
	return sqlite.NewBackend()
}

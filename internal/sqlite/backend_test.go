package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/datalinks/pkg/types"
)

// attachTemp attaches a fresh backend to a temporary directory and detaches
// it when the test ends.
func attachTemp(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { _ = b.Detach() })
	return b, dir
}

func linksOf(t *testing.T, b *Backend) types.LinkTable {
	t.Helper()
	lt, err := b.Links()
	require.NoError(t, err)
	return lt
}

func TestBackend_Attach(t *testing.T) {
	b, dir := attachTemp(t)

	_, err := os.Stat(filepath.Join(dir, dbFileName))
	assert.NoError(t, err, "database file should exist")

	info, err := os.Stat(filepath.Join(dir, linksFile))
	require.NoError(t, err, "links.jsonl should be created")
	assert.Zero(t, info.Size())

	assert.Equal(t, dir, b.DataDir())

	err = b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr error
	}{
		{
			name:    "empty backend",
			config:  types.Config{DataDir: t.TempDir()},
			wantErr: types.ErrBackendEmpty,
		},
		{
			name:    "unknown backend",
			config:  types.Config{Backend: "duckdb", DataDir: t.TempDir()},
			wantErr: types.ErrBackendUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend()
			assert.ErrorIs(t, b.Attach(tt.config), tt.wantErr)

			_, err := b.Links()
			assert.ErrorIs(t, err, types.ErrCatalogDetached)
		})
	}
}

func TestBackend_AttachCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	assert.DirExists(t, dir)
}

func TestBackend_Detach(t *testing.T) {
	b, _ := attachTemp(t)
	lt := linksOf(t, b)

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "detach is idempotent")

	_, err := b.Links()
	assert.ErrorIs(t, err, types.ErrCatalogDetached)

	_, err = lt.Get("anything")
	assert.ErrorIs(t, err, types.ErrCatalogDetached)
	_, err = lt.Set("", types.NewLink("a", "b", types.LinkTypeKeyed, nil))
	assert.ErrorIs(t, err, types.ErrCatalogDetached)
	_, err = lt.Fetch(nil)
	assert.ErrorIs(t, err, types.ErrCatalogDetached)
	_, err = b.RenameDataset("a", "c")
	assert.ErrorIs(t, err, types.ErrCatalogDetached)

	assert.Empty(t, b.DataDir())
}

func TestBackend_ReattachReloadsLinks(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	lt := linksOf(t, b)

	id, err := lt.Set("", types.NewLink("patients", "visits", types.LinkTypeKeyed, []types.ColumnMapping{
		{{From: "region", To: "region_code"}, {From: "id", To: "patient_id"}},
	}))
	require.NoError(t, err)
	_, err = b.RenameColumn("visits", "patient_id", "pid")
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(cfg))
	defer b2.Detach()

	got, err := linksOf(t, b2).Get(id)
	require.NoError(t, err)
	assert.Equal(t, "patients", got.FromDataset)
	assert.Equal(t, "visits", got.ToDataset)
	assert.Equal(t, []types.ColumnMapping{
		{{From: "region", To: "region_code"}, {From: "id", To: "pid"}},
	}, got.LinkColumns, "column order survives the JSONL round trip")
}

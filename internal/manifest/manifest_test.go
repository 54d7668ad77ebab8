package manifest

import (
	"path/filepath"
	"testing"

	"github.com/arunaengine/rocrate-indexer/internal/models"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	m := models.NewManifest()
	m.Add(models.CrateEntry{CrateID: "crate-1", FullPath: []string{"crate-1"}, Name: "Weather Data"})
	m.Add(models.CrateEntry{CrateID: "crate-1/sub", FullPath: []string{"crate-1", "crate-1/sub"}, Name: "Subcrate"})

	require.NoError(t, Save(path, m))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())

	entry, ok := loaded.Get("crate-1/sub")
	require.True(t, ok)
	require.Equal(t, "crate-1", entry.ParentID())
	require.False(t, entry.IsRoot())
}

func TestSave_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	m1 := models.NewManifest()
	m1.Add(models.CrateEntry{CrateID: "crate-1", FullPath: []string{"crate-1"}})
	require.NoError(t, Save(path, m1))

	m2 := models.NewManifest()
	m2.Add(models.CrateEntry{CrateID: "crate-2", FullPath: []string{"crate-2"}})
	require.NoError(t, Save(path, m2))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	require.False(t, loaded.Contains("crate-1"))
	require.True(t, loaded.Contains("crate-2"))
}

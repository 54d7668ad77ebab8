package store

import (
	"testing"

	"github.com/arunaengine/rocrate-indexer/internal/models"
	"github.com/stretchr/testify/require"
)

func TestStore_InsertGetContains(t *testing.T) {
	s := New()
	require.False(t, s.Contains("crate-1"))

	graph := []models.Entity{{"@id": "./", "@type": "Dataset"}}
	s.Insert("crate-1", graph)

	require.True(t, s.Contains("crate-1"))
	got, ok := s.Get("crate-1")
	require.True(t, ok)
	require.Equal(t, graph, got)
	require.Equal(t, 1, s.Len())
}

func TestStore_InsertReplaces(t *testing.T) {
	s := New()
	s.Insert("crate-1", []models.Entity{{"@id": "./", "@type": "Dataset"}})
	s.Insert("crate-1", []models.Entity{{"@id": "./", "@type": "Dataset", "name": "v2"}})

	got, ok := s.Get("crate-1")
	require.True(t, ok)
	require.Equal(t, "v2", got[0]["name"])
	require.Equal(t, 1, s.Len())
}

func TestStore_Remove(t *testing.T) {
	s := New()
	s.Insert("crate-1", []models.Entity{{"@id": "./"}})
	s.Remove("crate-1")

	require.False(t, s.Contains("crate-1"))
	require.Equal(t, 0, s.Len())

	s.Remove("never-existed") // no-op
}

func TestStore_Each(t *testing.T) {
	s := New()
	s.Insert("crate-1", []models.Entity{{"@id": "./"}})
	s.Insert("crate-2", []models.Entity{{"@id": "./"}})

	seen := make(map[string]bool)
	s.Each(func(id string, graph []models.Entity) {
		seen[id] = true
	})
	require.Len(t, seen, 2)
	require.True(t, seen["crate-1"])
	require.True(t, seen["crate-2"])
}

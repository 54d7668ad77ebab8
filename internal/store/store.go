// Package store holds the in-memory mapping from crate id to its parsed
// entity graph, kept alive for the process lifetime until the crate is
// removed.
package store

import (
	"sync"

	"github.com/arunaengine/rocrate-indexer/internal/models"
)

// Store is a concurrency-safe crate id -> entity graph cache.
type Store struct {
	mu     sync.RWMutex
	graphs map[string][]models.Entity
}

// New returns an empty Store.
func New() *Store {
	return &Store{graphs: make(map[string][]models.Entity)}
}

// Insert replaces the graph stored for id.
func (s *Store) Insert(id string, graph []models.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[id] = graph
}

// Remove drops the graph stored for id, if present.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, id)
}

// Contains reports whether id has a stored graph.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.graphs[id]
	return ok
}

// Get returns the graph stored for id.
func (s *Store) Get(id string) ([]models.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[id]
	return g, ok
}

// Len returns the number of crates currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.graphs)
}

// Each calls fn once per stored (id, graph) pair. fn must not call back into
// the Store: Each holds the read lock for its duration.
func (s *Store) Each(fn func(id string, graph []models.Entity)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, g := range s.graphs {
		fn(id, g)
	}
}

package models

import "sort"

// CrateEntry is one manifest record.
type CrateEntry struct {
	CrateID     string   `json:"crate_id"`
	FullPath    []string `json:"full_path"` // [ancestor_ids..., crate_id]
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
}

// IsRoot reports whether this entry has no ancestors.
func (e CrateEntry) IsRoot() bool {
	return len(e.FullPath) == 1
}

// ParentID returns the direct parent's crate id, or "" if this is a root.
func (e CrateEntry) ParentID() string {
	if len(e.FullPath) < 2 {
		return ""
	}
	return e.FullPath[len(e.FullPath)-2]
}

// Manifest is the persistent catalog mapping crate id -> CrateEntry.
type Manifest struct {
	Crates map[string]CrateEntry `json:"crates"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{Crates: make(map[string]CrateEntry)}
}

// Add inserts or replaces the entry for entry.CrateID.
func (m *Manifest) Add(entry CrateEntry) {
	if m.Crates == nil {
		m.Crates = make(map[string]CrateEntry)
	}
	m.Crates[entry.CrateID] = entry
}

// Remove deletes the entry for id, if present.
func (m *Manifest) Remove(id string) {
	delete(m.Crates, id)
}

// Contains reports whether id is already catalogued.
func (m *Manifest) Contains(id string) bool {
	_, ok := m.Crates[id]
	return ok
}

// Get returns the entry for id.
func (m *Manifest) Get(id string) (CrateEntry, bool) {
	e, ok := m.Crates[id]
	return e, ok
}

// List returns all entries sorted by crate id for deterministic ordering.
func (m *Manifest) List() []CrateEntry {
	out := make([]CrateEntry, 0, len(m.Crates))
	for _, e := range m.Crates {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CrateID < out[j].CrateID })
	return out
}

// Len returns the number of catalogued crates.
func (m *Manifest) Len() int {
	return len(m.Crates)
}

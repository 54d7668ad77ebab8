// Package manifest persists the crate catalog (models.Manifest) to disk as
// pretty-printed JSON.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arunaengine/rocrate-indexer/internal/models"
)

// Load reads the manifest at path. A missing file yields an empty manifest,
// not an error.
func Load(path string) (*models.Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return models.NewManifest(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m models.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if m.Crates == nil {
		m.Crates = make(map[string]models.CrateEntry)
	}
	return &m, nil
}

// Save writes m to path as pretty-printed JSON, overwriting any prior content.
func Save(path string, m *models.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration for the indexing engine.
type Config struct {
	Index   IndexConfig   `toml:"index"`
	HTTP    HTTPConfig    `toml:"http"`
	Logging LoggingConfig `toml:"logging"`
}

// IndexConfig controls where the on-disk index lives and its writer budget.
type IndexConfig struct {
	// BaseDir is the root directory for manifest.json, metadata/, and index/.
	BaseDir string `toml:"base_dir"`
	// WriterHeapMB documents the FTS writer heap budget. It is loaded and
	// defaulted here but not read by SearchIndex, which writes each crate's
	// entities in one transaction regardless of this value.
	WriterHeapMB int `toml:"writer_heap_mb"`
}

// HTTPConfig controls the blocking HTTP client the Loader uses for URL and
// UrlSubcrate sources.
type HTTPConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// LoggingConfig controls the arbor logger.
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Output   []string `toml:"output"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns the configuration used when no file is supplied.
func NewDefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			BaseDir:      "./.rocrate-index",
			WriterHeapMB: 50,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"console"},
		},
	}
}

// LoadFromFile loads configuration starting from defaults, overlaying a TOML
// file (if path is non-empty), then environment variables.
func LoadFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Index.BaseDir == "" {
		cfg.Index.BaseDir = "./.rocrate-index"
	}
	if cfg.Index.WriterHeapMB <= 0 {
		cfg.Index.WriterHeapMB = 50
	}
	if cfg.HTTP.TimeoutSeconds <= 0 {
		cfg.HTTP.TimeoutSeconds = 30
	}

	return cfg, nil
}

// applyEnvOverrides overlays RO_CRATE_* environment variables onto cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RO_CRATE_BASE_DIR"); v != "" {
		cfg.Index.BaseDir = v
	}
	if v := os.Getenv("RO_CRATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RO_CRATE_WRITER_HEAP_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.WriterHeapMB = n
		}
	}
	if v := os.Getenv("RO_CRATE_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.TimeoutSeconds = n
		}
	}
}

// MetadataDir returns <base>/metadata.
func (c *Config) MetadataDir() string {
	return filepath.Join(c.Index.BaseDir, "metadata")
}

// IndexDir returns <base>/index.
func (c *Config) IndexDir() string {
	return filepath.Join(c.Index.BaseDir, "index")
}

// ManifestPath returns <base>/manifest.json.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Index.BaseDir, "manifest.json")
}

// MetadataPathForCrate returns the path to the raw metadata file for
// crateID: <base>/metadata/<hash16>.json.
func (c *Config) MetadataPathForCrate(crateID string) string {
	return filepath.Join(c.MetadataDir(), CrateHash16(crateID)+".json")
}

// EnsureDirs creates the base, metadata, and index directories if absent.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Index.BaseDir, c.MetadataDir(), c.IndexDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

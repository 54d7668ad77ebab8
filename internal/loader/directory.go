package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arunaengine/rocrate-indexer/internal/common"
)

const metadataFileName = "ro-crate-metadata.json"

// loadDirectory locates ro-crate-metadata.json in dir (or the first entry
// matching *-ro-crate-metadata.json), parses it, and returns the result.
func (l *Loader) loadDirectory(dir string) (*Result, error) {
	path, err := findMetadataFile(dir)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
	}

	return parseRaw(raw)
}

// findMetadataFile returns the path to dir's metadata file, trying the
// canonical name first and falling back to the first "*-ro-crate-metadata.json"
// directory entry.
func findMetadataFile(dir string) (string, error) {
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidPath, dir)
	}

	canonical := filepath.Join(dir, metadataFileName)
	if _, err := os.Stat(canonical); err == nil {
		return canonical, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), "-"+metadataFileName) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("%w: no %s found in %s", common.ErrLoadFailed, metadataFileName, dir)
}

// IsDirectoryCrate reports whether dir is a directory containing a metadata
// file. Used by the façade's directory-modality subcrate discovery: recurse
// only if the candidate path is a directory and contains a metadata file.
func IsDirectoryCrate(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = findMetadataFile(dir)
	return err == nil
}

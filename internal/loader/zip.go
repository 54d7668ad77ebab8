package loader

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/arunaengine/rocrate-indexer/internal/common"
)

// loadZipRoot finds the metadata entry at the archive root — either a
// top-level file, or a file two segments deep under a single top-level
// directory (common when a folder was zipped) — and parses it.
func (l *Loader) loadZipRoot(zipPath string) (*Result, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
	}
	defer r.Close()

	entry, err := findRootMetadataEntry(r.File)
	if err != nil {
		return nil, err
	}

	raw, err := readZipEntry(entry)
	if err != nil {
		return nil, err
	}
	return parseRaw(raw)
}

// loadZipEntry reads the named entry by exact path and parses it.
func (l *Loader) loadZipEntry(zipPath, subpath string) (*Result, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == subpath {
			raw, err := readZipEntry(f)
			if err != nil {
				return nil, err
			}
			return parseRaw(raw)
		}
	}
	return nil, fmt.Errorf("%w: entry %s not found in %s", common.ErrLoadFailed, subpath, zipPath)
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
	}
	return raw, nil
}

// findRootMetadataEntry implements the root-only lookup rule described above.
func findRootMetadataEntry(files []*zip.File) (*zip.File, error) {
	isMetadataName := func(name string) bool {
		base := path.Base(name)
		return base == metadataFileName || strings.HasSuffix(base, "-"+metadataFileName)
	}

	// Top-level file (1 path segment).
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.Count(f.Name, "/") == 0 && isMetadataName(f.Name) {
			return f, nil
		}
	}

	// Single top-level directory, file two segments deep.
	topDir, ok := singleTopLevelDir(files)
	if ok {
		for _, f := range files {
			if f.FileInfo().IsDir() {
				continue
			}
			segments := strings.Split(f.Name, "/")
			if len(segments) == 2 && segments[0] == topDir && isMetadataName(segments[1]) {
				return f, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: no root metadata file found in zip", common.ErrLoadFailed)
}

// singleTopLevelDir reports whether every entry in files shares the same
// first path segment, returning that segment if so.
func singleTopLevelDir(files []*zip.File) (string, bool) {
	var topDir string
	for _, f := range files {
		idx := strings.Index(f.Name, "/")
		if idx < 0 {
			return "", false // a top-level file exists; no single top dir
		}
		seg := f.Name[:idx]
		if topDir == "" {
			topDir = seg
		} else if topDir != seg {
			return "", false
		}
	}
	if topDir == "" {
		return "", false
	}
	return topDir, true
}

// SubcrateZipEntry pairs an entity id with the zip-internal path to its
// metadata file.
type SubcrateZipEntry struct {
	EntityID string
	ZipEntry string
}

// FindSubcrateMetadataInZip scans zipPath once, collects every entry ending
// in ro-crate-metadata.json, then for each requested entity id (normalized
// by stripping a leading "./" and trailing "/") returns the first archive
// entry whose containing directory equals the normalized id or
// suffix-matches "/<id>".
func FindSubcrateMetadataInZip(zipPath string, entityIDs []string) ([]SubcrateZipEntry, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
	}
	defer r.Close()

	var metadataEntries []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && strings.HasSuffix(f.Name, metadataFileName) {
			metadataEntries = append(metadataEntries, f.Name)
		}
	}

	var out []SubcrateZipEntry
	for _, rawID := range entityIDs {
		normalized := strings.TrimSuffix(strings.TrimPrefix(rawID, "./"), "/")

		for _, entry := range metadataEntries {
			dir := strings.TrimSuffix(entry, "/"+path.Base(entry))
			if dir == normalized || strings.HasSuffix(dir, "/"+normalized) {
				out = append(out, SubcrateZipEntry{EntityID: rawID, ZipEntry: entry})
				break
			}
		}
	}

	return out, nil
}

package crateindex

import (
	"archive/zip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arunaengine/rocrate-indexer/internal/common"
	"github.com/arunaengine/rocrate-indexer/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *CrateIndex {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Index.BaseDir = t.TempDir()
	ci, err := OpenOrCreate(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ci.Close() })
	return ci
}

func writeMetadataFile(t *testing.T, dir string, graph []map[string]interface{}) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	doc := map[string]interface{}{
		"@context": "https://w3id.org/ro/crate/1.1/context",
		"@graph":   graph,
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ro-crate-metadata.json"), data, 0o644))
}

func rootEntity(name, description string) map[string]interface{} {
	return map[string]interface{}{
		"@id": "./", "@type": "Dataset",
		"name": name, "description": description,
		"conformsTo": map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.1/"},
	}
}

func subcrateRefEntity(subID string) map[string]interface{} {
	return map[string]interface{}{
		"@id": subID, "@type": "Dataset",
		"conformsTo": map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.1/"},
	}
}

func fileEntity(id, name string) map[string]interface{} {
	return map[string]interface{}{"@id": id, "@type": "File", "name": name}
}

func TestAddFromSource_Directory_SimpleIngest(t *testing.T) {
	ci := newTestIndex(t)
	dir := filepath.Join(t.TempDir(), "crate")
	writeMetadataFile(t, dir, []map[string]interface{}{
		rootEntity("Weather Observations", "Hourly sensor readings"),
		fileEntity("./sensor-1.csv", "sensor-1.csv"),
	})

	result, err := ci.AddFromSource(models.NewDirectorySource(dir))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(result.CrateID, "/crate"), "crate id %q should be a fresh token joined with the basename", result.CrateID)
	require.Equal(t, 2, result.EntityCount)
	require.Equal(t, 1, ci.CrateCount())

	hits, err := ci.Search("sensor readings", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
}

func TestAddFromSource_RootIDResolvesToCrateID(t *testing.T) {
	ci := newTestIndex(t)
	dir := filepath.Join(t.TempDir(), "crate")
	writeMetadataFile(t, dir, []map[string]interface{}{
		rootEntity("Root Dataset", "desc"),
	})

	result, err := ci.AddFromSource(models.NewDirectorySource(dir))
	require.NoError(t, err)

	hits, err := ci.SearchByID(result.CrateID)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}

func TestAddFromSource_DirectorySubcrate_Recursion(t *testing.T) {
	ci := newTestIndex(t)
	root := filepath.Join(t.TempDir(), "crate")
	writeMetadataFile(t, root, []map[string]interface{}{
		rootEntity("Parent", "desc"),
		subcrateRefEntity("./sub"),
	})
	writeMetadataFile(t, filepath.Join(root, "sub"), []map[string]interface{}{
		rootEntity("Child", "nested"),
		fileEntity("./data.csv", "data.csv"),
	})

	result, err := ci.AddFromSource(models.NewDirectorySource(root))
	require.NoError(t, err)
	require.Len(t, result.Subcrates, 1)
	require.Equal(t, result.CrateID+"/sub", result.Subcrates[0].CrateID)
	require.Equal(t, 2, ci.CrateCount())

	entry, ok := ci.manifest.Get(result.CrateID + "/sub")
	require.True(t, ok)
	require.False(t, entry.IsRoot())
	require.Equal(t, result.CrateID, entry.ParentID())
}

func TestAddFromSource_ZipNestedSubcrate(t *testing.T) {
	ci := newTestIndex(t)

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)

	writeZipEntry(t, zw, "ro-crate-metadata.json", map[string]interface{}{
		"@graph": []map[string]interface{}{
			rootEntity("Parent", "desc"),
			subcrateRefEntity("./sub"),
		},
	})
	writeZipEntry(t, zw, "sub/ro-crate-metadata.json", map[string]interface{}{
		"@graph": []map[string]interface{}{
			rootEntity("Child", "nested"),
		},
	})
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	result, err := ci.AddFromSource(models.NewZipFileSource(zipPath))
	require.NoError(t, err)
	require.Len(t, result.Subcrates, 1)
	require.Equal(t, result.CrateID+"/sub", result.Subcrates[0].CrateID)
	require.Equal(t, 2, ci.CrateCount())
}

func writeZipEntry(t *testing.T, zw *zip.Writer, name string, doc interface{}) {
	t.Helper()
	w, err := zw.Create(name)
	require.NoError(t, err)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
}

func TestAddFromSource_URLSubcrate(t *testing.T) {
	var mux http.ServeMux
	mux.HandleFunc("/ro-crate-metadata.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"@graph": []map[string]interface{}{
				rootEntity("Parent", "desc"),
				subcrateRefEntity("./sub"),
			},
		})
	})
	mux.HandleFunc("/sub/ro-crate-metadata.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"@graph": []map[string]interface{}{
				rootEntity("Child", "nested"),
			},
		})
	})
	server := httptest.NewServer(&mux)
	defer server.Close()

	ci := newTestIndex(t)
	result, err := ci.AddFromSource(models.NewURLSource(server.URL))
	require.NoError(t, err)
	require.Len(t, result.Subcrates, 1)
	require.Equal(t, 2, ci.CrateCount())
}

func TestAddFromSource_URLSubcrate_viaSubjectOf(t *testing.T) {
	var mux http.ServeMux
	mux.HandleFunc("/ro-crate-metadata.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		server := "http://" + r.Host
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"@graph": []map[string]interface{}{
				rootEntity("Parent", "desc"),
				{
					"@id": server + "/sub/", "@type": "Dataset",
					"conformsTo": map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.2"},
					"subjectOf":  map[string]interface{}{"@id": server + "/sub/ro-crate-metadata.json"},
				},
			},
		})
	})
	mux.HandleFunc("/sub/ro-crate-metadata.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"@graph": []map[string]interface{}{
				rootEntity("Child", "nested"),
			},
		})
	})
	server := httptest.NewServer(&mux)
	defer server.Close()

	ci := newTestIndex(t)
	result, err := ci.AddFromSource(models.NewURLSource(server.URL))
	require.NoError(t, err)
	require.Len(t, result.Subcrates, 1)
	require.Equal(t, server.URL+"/sub", result.Subcrates[0].CrateID)
}

// TestAddFromSource_CycleShortCircuit exercises the one modality whose id is
// deterministic rather than fresh-unique: re-adding the same URL must
// collapse to the already-catalogued id and short-circuit, since URL
// normalization is the sole cycle-prevention mechanism the façade relies on.
func TestAddFromSource_CycleShortCircuit(t *testing.T) {
	var mux http.ServeMux
	mux.HandleFunc("/ro-crate-metadata.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"@graph": []map[string]interface{}{
				rootEntity("Root", "desc"),
			},
		})
	})
	server := httptest.NewServer(&mux)
	defer server.Close()

	ci := newTestIndex(t)

	first, err := ci.AddFromSource(models.NewURLSource(server.URL))
	require.NoError(t, err)
	require.Equal(t, 1, first.EntityCount)

	second, err := ci.AddFromSource(models.NewURLSource(server.URL))
	require.NoError(t, err)
	require.Equal(t, 0, second.EntityCount)
	require.Equal(t, first.CrateID, second.CrateID)
	require.Equal(t, 1, ci.CrateCount())
}

func TestRemove_ExactRemoval(t *testing.T) {
	ci := newTestIndex(t)
	dir := filepath.Join(t.TempDir(), "crate")
	writeMetadataFile(t, dir, []map[string]interface{}{
		rootEntity("Root", "desc"),
	})

	result, err := ci.AddFromSource(models.NewDirectorySource(dir))
	require.NoError(t, err)
	require.Equal(t, 1, ci.CrateCount())

	require.NoError(t, ci.Remove(result.CrateID))
	require.Equal(t, 0, ci.CrateCount())

	_, ok, err := ci.GetCrateJSON(result.CrateID)
	require.NoError(t, err)
	require.False(t, ok)

	hits, err := ci.Search("Root", 10)
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestRemove_UnknownReturnsNotFound(t *testing.T) {
	ci := newTestIndex(t)
	require.ErrorIs(t, ci.Remove("does-not-exist"), common.ErrCrateNotFound)
}

func TestOpenOrCreate_RehydratesStore(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Index.BaseDir = t.TempDir()

	ci, err := OpenOrCreate(cfg, nil)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "crate")
	writeMetadataFile(t, dir, []map[string]interface{}{
		rootEntity("Root", "desc"),
	})
	_, err = ci.AddFromSource(models.NewDirectorySource(dir))
	require.NoError(t, err)
	require.NoError(t, ci.Close())

	reopened, err := OpenOrCreate(cfg, nil)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, 1, reopened.CrateCount())
	hits, err := reopened.Search("Root", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
}

package extract

import (
	"testing"

	"github.com/arunaengine/rocrate-indexer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_OrderStable(t *testing.T) {
	a := models.Entity{
		"name":        "My Data",
		"description": "d",
		"author":      map[string]interface{}{"name": "Ada Lovelace"},
	}
	b := models.Entity{
		"author":      map[string]interface{}{"name": "Ada Lovelace"},
		"description": "d",
		"name":        "My Data",
	}

	assert.Equal(t, tokenSet(Text(a)), tokenSet(Text(b)))
}

func TestText_ArraysAndPersonFields(t *testing.T) {
	e := models.Entity{
		"keywords": []interface{}{"bio", "genomics"},
		"creator": []interface{}{
			map[string]interface{}{"name": "Alice"},
			map[string]interface{}{"name": "Bob"},
		},
	}
	text := Text(e)
	assert.Contains(t, text, "bio")
	assert.Contains(t, text, "genomics")
	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "Bob")
}

func TestTypes(t *testing.T) {
	assert.Equal(t, []string{"Dataset"}, Types(models.Entity{"@type": "Dataset"}))
	assert.Equal(t, []string{"Dataset", "File"}, Types(models.Entity{"@type": []interface{}{"Dataset", "File"}}))
	assert.Nil(t, Types(models.Entity{}))
}

func TestResolveID(t *testing.T) {
	base := "https://example.org/c"
	assert.Equal(t, "https://example.org/c", ResolveID("./", base))
	assert.Equal(t, "https://example.org/c/data.csv", ResolveID("./data.csv", base))
	assert.Equal(t, "https://example.org/c#p1", ResolveID("#p1", base))
	assert.Equal(t, "https://example.org/c/bare", ResolveID("bare", base))
	assert.Equal(t, "https://other.org/x", ResolveID("https://other.org/x", base))
}

func TestResolveID_Idempotent(t *testing.T) {
	base := "https://example.org/c"
	for _, raw := range []string{"./", "./data.csv", "#p1", "bare", "https://x/y"} {
		once := ResolveID(raw, base)
		twice := ResolveID(once, base)
		assert.Equal(t, once, twice, "not idempotent for %q", raw)
	}
}

func TestConformsToROCrate(t *testing.T) {
	assert.True(t, ConformsToROCrate(models.Entity{
		"conformsTo": map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.1"},
	}))
	assert.True(t, ConformsToROCrate(models.Entity{
		"conformsTo": []interface{}{map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.2"}},
	}))
	assert.True(t, ConformsToROCrate(models.Entity{"conformsTo": "https://w3id.org/ro/crate/1.1"}))
	assert.False(t, ConformsToROCrate(models.Entity{"conformsTo": "https://w3id.org/ro/crate"}))
	assert.False(t, ConformsToROCrate(models.Entity{}))
}

func TestFindRootEntity_ExplicitRoot(t *testing.T) {
	entities := []models.Entity{
		{"@id": "./", "@type": "Dataset", "name": "My Data",
			"conformsTo": map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.1"}},
		{"@id": "./file.csv", "@type": "File", "name": "file.csv"},
	}
	root, ok := FindRootEntity(entities)
	require.True(t, ok)
	assert.Equal(t, "./", root.ID())
}

func TestFindRootEntity_FallbackSkipsSubcrateReference(t *testing.T) {
	entities := []models.Entity{
		{
			"@id": "https://ex/sub/", "@type": "Dataset",
			"conformsTo": map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.2"},
			"subjectOf":  map[string]interface{}{"@id": "https://ex/sub/ro-crate-metadata.json"},
		},
		{
			"@id": "https://ex/crate/", "@type": "Dataset",
			"conformsTo": map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.1"},
		},
	}
	root, ok := FindRootEntity(entities)
	require.True(t, ok)
	assert.Equal(t, "https://ex/crate/", root.ID())
}

func TestExtractRootMetadata(t *testing.T) {
	root := models.Entity{"name": "  ./My Data  ", "description": "d"}
	meta := ExtractRootMetadata(root)
	assert.Equal(t, "My Data", meta.Name)
	assert.Equal(t, "d", meta.Description)
}

func TestFindPotentialSubcrates(t *testing.T) {
	entities := []models.Entity{
		{"@id": "./", "@type": "Dataset", "conformsTo": map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.1"}},
		{"@id": "./experiments/", "@type": "Dataset", "conformsTo": map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.2"}},
		{"@id": "./file.csv", "@type": "File"},
	}
	assert.Equal(t, []string{"./experiments/"}, FindPotentialSubcrates(entities))
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://ex.org/a/b", ResolveURL("./b", "https://ex.org/a"))
	assert.Equal(t, "https://ex.org/b", ResolveURL("/b", "https://ex.org/a/nested"))
	assert.Equal(t, "https://ex.org/a/b", ResolveURL("b", "https://ex.org/a"))
	assert.Equal(t, "https://other/x", ResolveURL("https://other/x", "https://ex.org/a"))
	assert.Equal(t, "rel", ResolveURL("rel", ""))
}

func TestDetectSubcratesFromURL(t *testing.T) {
	entities := []models.Entity{
		{
			"@id": "https://ex/sub/", "@type": "Dataset",
			"conformsTo": map[string]interface{}{"@id": "https://w3id.org/ro/crate/1.2"},
			"subjectOf":  map[string]interface{}{"@id": "https://ex/sub/ro-crate-metadata.json"},
		},
	}
	infos := DetectSubcratesFromURL(entities, "https://ex")
	require.Len(t, infos, 1)
	assert.Equal(t, "https://ex/sub/ro-crate-metadata.json", infos[0].MetadataURL)
	assert.False(t, infos[0].IsRelative)
}

func TestFlattenProperties(t *testing.T) {
	e := models.Entity{
		"@id":  "./",
		"name": "My Data",
		"author": map[string]interface{}{
			"name": "Smith",
		},
		"keywords": []interface{}{"bio", "genomics"},
	}
	flat := FlattenProperties(e)
	assert.Contains(t, flat, "author name Smith")
	assert.Contains(t, flat, "name My Data")
	assert.Contains(t, flat, "keywords bio")
	assert.Contains(t, flat, "keywords genomics")
}

func tokenSet(s string) map[string]int {
	m := map[string]int{}
	word := ""
	flush := func() {
		if word != "" {
			m[word]++
			word = ""
		}
	}
	for _, r := range s {
		if r == ' ' {
			flush()
			continue
		}
		word += string(r)
	}
	flush()
	return m
}

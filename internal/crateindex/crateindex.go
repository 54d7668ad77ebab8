// Package crateindex is the composition root that wires the Loader,
// Extractor, SearchIndex, Store, and Manifest into one crate catalog.
//
// CrateIndex's methods are synchronous and it makes no promise of thread
// safety to its callers (its own subcrate fan-out is internal; see
// CrateIndex). Callers that need concurrent access must
// wrap a CrateIndex in their own sync.RWMutex, many readers (Search, List,
// Get*) against a single writer (AddFrom*, Remove).
package crateindex

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/arunaengine/rocrate-indexer/internal/common"
	"github.com/arunaengine/rocrate-indexer/internal/extract"
	"github.com/arunaengine/rocrate-indexer/internal/loader"
	"github.com/arunaengine/rocrate-indexer/internal/manifest"
	"github.com/arunaengine/rocrate-indexer/internal/models"
	"github.com/arunaengine/rocrate-indexer/internal/rocrate"
	"github.com/arunaengine/rocrate-indexer/internal/searchindex"
	"github.com/arunaengine/rocrate-indexer/internal/store"
	"github.com/ternarybob/arbor"
)

// CrateIndex owns the Manifest, Store, SearchIndex, and Config for one
// <base> directory.
//
// Subcrate discovery fans out concurrently (golang.org/x/sync/errgroup), so
// writeMu serializes the manifest/store/index mutation each discovered
// subcrate performs; the blocking Load I/O that precedes it runs unlocked.
// This is an internal correctness detail, not a public concurrency
// guarantee: see the package doc for the caller-owned locking contract.
type CrateIndex struct {
	cfg      *common.Config
	manifest *models.Manifest
	idx      *searchindex.SearchIndex
	store    *store.Store
	loader   *loader.Loader
	logger   arbor.ILogger
	writeMu  sync.Mutex
}

// OpenOrCreate builds the on-disk layout under cfg.Index.BaseDir (creating it
// if absent), loads the manifest, opens the search index, and rehydrates the
// Store from the persisted raw metadata of every manifest entry. A manifest
// entry whose metadata file is missing is logged and skipped, not fatal.
func OpenOrCreate(cfg *common.Config, logger arbor.ILogger) (*CrateIndex, error) {
	if logger == nil {
		logger = common.GetLogger()
	}

	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	m, err := manifest.Load(cfg.ManifestPath())
	if err != nil {
		return nil, err
	}

	idx, err := searchindex.OpenOrCreate(cfg.IndexDir())
	if err != nil {
		return nil, err
	}

	ci := &CrateIndex{
		cfg:      cfg,
		manifest: m,
		idx:      idx,
		store:    store.New(),
		loader:   loader.New(time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second, logger),
		logger:   logger,
	}

	for _, entry := range m.List() {
		if err := ci.rehydrate(entry.CrateID); err != nil {
			logger.Warn().Err(err).Str("crate_id", entry.CrateID).Msg("failed to rehydrate crate; skipping")
		}
	}

	return ci, nil
}

func (ci *CrateIndex) rehydrate(crateID string) error {
	raw, err := os.ReadFile(ci.cfg.MetadataPathForCrate(crateID))
	if err != nil {
		return err
	}
	doc, err := rocrate.Parse(raw)
	if err != nil {
		return err
	}
	entities, err := rocrate.GraphToJSON(doc)
	if err != nil {
		return err
	}
	ci.store.Insert(crateID, entities)
	return nil
}

// Close releases the underlying search index resources.
func (ci *CrateIndex) Close() error {
	return ci.idx.Close()
}

// AddFromSource loads, indexes, and catalogs source, then recurses into any
// subcrates it discovers. Returns the tree of crates added.
func (ci *CrateIndex) AddFromSource(source models.CrateSource) (*models.AddResult, error) {
	return ci.addCrate(source, nil)
}

// addCrate ingests source as the child of ancestry (the full chain of
// ancestor crate ids, root first), recursing into discovered subcrates.
// Already-catalogued ids short-circuit discovery entirely, which is what
// stops an id cycle reached via two different subcrate paths.
func (ci *CrateIndex) addCrate(source models.CrateSource, ancestry []string) (*models.AddResult, error) {
	id := deriveCrateID(source)

	ci.writeMu.Lock()
	already := ci.manifest.Contains(id)
	ci.writeMu.Unlock()
	if already {
		return &models.AddResult{CrateID: id, EntityCount: 0}, nil
	}

	res, err := ci.loader.Load(source)
	if err != nil {
		return nil, err
	}

	entities, err := rocrate.GraphToJSON(res.Doc)
	if err != nil {
		return nil, err
	}

	count, fullPath, err := ci.commitCrate(id, ancestry, res.Raw, entities)
	if err != nil {
		return nil, err
	}

	result := &models.AddResult{CrateID: id, EntityCount: count}
	result.Subcrates = ci.discover(source, id, fullPath, entities)

	return result, nil
}

// commitCrate persists raw, indexes entities, and records the manifest entry
// for id under a single lock, so concurrent subcrate discovery never
// interleaves two crates' writes.
func (ci *CrateIndex) commitCrate(id string, ancestry []string, raw []byte, entities []models.Entity) (int, []string, error) {
	ci.writeMu.Lock()
	defer ci.writeMu.Unlock()

	if err := os.WriteFile(ci.cfg.MetadataPathForCrate(id), raw, 0o644); err != nil {
		return 0, nil, err
	}

	if ci.store.Contains(id) {
		if err := ci.idx.RemoveCrate(id); err != nil {
			return 0, nil, err
		}
	}

	count, err := ci.idx.IndexEntities(id, entities)
	if err != nil {
		return 0, nil, err
	}
	ci.store.Insert(id, entities)

	fullPath := append(append([]string{}, ancestry...), id)
	entry := models.CrateEntry{CrateID: id, FullPath: fullPath}
	if root, ok := extract.FindRootEntity(entities); ok {
		meta := extract.ExtractRootMetadata(root)
		entry.Name = meta.Name
		entry.Description = meta.Description
	}
	ci.manifest.Add(entry)
	if err := manifest.Save(ci.cfg.ManifestPath(), ci.manifest); err != nil {
		return 0, nil, err
	}

	return count, fullPath, nil
}

// AddFromJSON ingests a crate directly from raw bytes with no source
// location: the crate id is synthesized as a time-ordered token joined with
// a name hint (or "upload"). Subcrate discovery is restricted to absolute
// URL references, since there is no local scope to resolve relative ones
// against.
func (ci *CrateIndex) AddFromJSON(raw []byte, nameHint string) (*models.AddResult, error) {
	doc, err := rocrate.Parse(raw)
	if err != nil {
		return nil, err
	}
	entities, err := rocrate.GraphToJSON(doc)
	if err != nil {
		return nil, err
	}

	hint := nameHint
	if hint == "" {
		hint = "upload"
	}
	id := common.NewCrateToken() + "/" + hint

	count, fullPath, err := ci.commitCrate(id, nil, raw, entities)
	if err != nil {
		return nil, err
	}

	result := &models.AddResult{CrateID: id, EntityCount: count}
	result.Subcrates = ci.discoverAbsoluteURLSubcrates(entities, fullPath)

	return result, nil
}

// Remove deletes crateID's postings, cached graph, raw metadata, and
// manifest entry. Removing an id absent from the manifest returns
// common.ErrCrateNotFound without touching the index or store.
func (ci *CrateIndex) Remove(crateID string) error {
	if !ci.manifest.Contains(crateID) {
		return common.ErrCrateNotFound
	}
	if err := ci.idx.RemoveCrate(crateID); err != nil {
		return err
	}
	ci.store.Remove(crateID)
	_ = os.Remove(ci.cfg.MetadataPathForCrate(crateID))
	ci.manifest.Remove(crateID)
	return manifest.Save(ci.cfg.ManifestPath(), ci.manifest)
}

// Search runs a free-text query, returning up to limit hits.
func (ci *CrateIndex) Search(q string, limit int) ([]models.SearchHit, error) {
	return ci.idx.Search(q, limit)
}

// SearchByType returns every document whose entity_type includes t.
func (ci *CrateIndex) SearchByType(t string, limit int) ([]models.SearchHit, error) {
	return ci.idx.SearchByType(t, limit)
}

// SearchByID returns every document whose resolved id equals id.
func (ci *CrateIndex) SearchByID(id string) ([]models.SearchHit, error) {
	return ci.idx.SearchByID(id)
}

// SearchByPropertyPath resolves a dotted-path property query, e.g.
// SearchByPropertyPath("author.name", "Smith", 10) for entities whose
// flattened properties contain the token phrase "author name Smith"
// (see SearchIndex.SearchByPropertyPath).
func (ci *CrateIndex) SearchByPropertyPath(path, value string, limit int) ([]models.SearchHit, error) {
	return ci.idx.SearchByPropertyPath(path, value, limit)
}

// SearchTypedContent is the boolean AND of an entity-type filter and a
// content query.
func (ci *CrateIndex) SearchTypedContent(t, contentQuery string, limit int) ([]models.SearchHit, error) {
	return ci.idx.SearchTypedContent(t, contentQuery, limit)
}

// FindCrates returns the distinct crate ids matching q.
func (ci *CrateIndex) FindCrates(q string) ([]string, error) {
	return ci.idx.FindCrates(q)
}

// FindCratesByEntity returns the distinct crate ids containing entity id.
func (ci *CrateIndex) FindCratesByEntity(id string) ([]string, error) {
	return ci.idx.FindCratesByEntity(id)
}

// GetCrateJSON returns the raw persisted metadata for crateID, or
// (nil, false) if crateID is not in the manifest.
func (ci *CrateIndex) GetCrateJSON(crateID string) ([]byte, bool, error) {
	if !ci.manifest.Contains(crateID) {
		return nil, false, nil
	}
	raw, err := os.ReadFile(ci.cfg.MetadataPathForCrate(crateID))
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// ListCrates returns every catalogued crate id.
func (ci *CrateIndex) ListCrates() []string {
	entries := ci.manifest.List()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.CrateID
	}
	return ids
}

// CrateCount returns the number of catalogued crates.
func (ci *CrateIndex) CrateCount() int {
	return ci.manifest.Len()
}

// ListCrateEntries returns every catalogued CrateEntry, sorted by crate id.
func (ci *CrateIndex) ListCrateEntries() []models.CrateEntry {
	return ci.manifest.List()
}

// deriveCrateID computes the crate id for source, per modality. Local
// directory/zip sources are fresh-unique: each gets a new time-ordered
// token joined with its basename, so re-adding the same path catalogs a
// second, distinct crate rather than being mistaken for a cycle. URL-shaped
// ids are deterministic and normalized so that a trailing slash or trailing
// ro-crate-metadata.json collapses to the same id as the bare form — that
// determinism is what makes URL re-adds the one legitimate cycle case.
// Zip and directory subcrate variants carry their own ParentID and bypass
// both of the above, synthesizing a hierarchical id from the already-assigned
// parent id. URL subcrates are normalized from their metadata URL like URL
// sources, so their ids do not embed the parent id.
func deriveCrateID(source models.CrateSource) string {
	switch source.Kind {
	case models.SourceDirectory:
		return common.NewCrateToken() + "/" + filepath.Base(source.Path)
	case models.SourceZipFile:
		return common.NewCrateToken() + "/" + filepath.Base(source.Path)
	case models.SourceURL:
		return normalizeMetadataLocation(source.Path)
	case models.SourceZipSubcrate:
		return source.ParentID + "/" + zipSubcrateIDSuffix(source.Subpath)
	case models.SourceURLSubcrate:
		return normalizeMetadataLocation(source.MetadataURL)
	case models.SourceDirectorySubcrate:
		return source.ParentID + "/" + source.NormalizedID
	default:
		return source.Path
	}
}

// normalizeMetadataLocation strips a trailing ro-crate-metadata.json entry
// and any trailing slash, so the three equivalent forms of a crate's
// location collapse to one id.
func normalizeMetadataLocation(loc string) string {
	trimmed := strings.TrimSuffix(loc, "ro-crate-metadata.json")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return loc
	}
	return trimmed
}

// zipSubcrateIDSuffix derives the id suffix for a ZipSubcrate from its
// archive-internal metadata path, e.g. "root/experiments/ro-crate-metadata.json"
// -> "experiments".
func zipSubcrateIDSuffix(subpath string) string {
	dir := strings.TrimSuffix(subpath, "/ro-crate-metadata.json")
	if idx := strings.LastIndex(dir, "/"); idx >= 0 {
		return dir[idx+1:]
	}
	return dir
}

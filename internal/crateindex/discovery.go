package crateindex

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arunaengine/rocrate-indexer/internal/extract"
	"github.com/arunaengine/rocrate-indexer/internal/loader"
	"github.com/arunaengine/rocrate-indexer/internal/models"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentSubcrateLoads bounds how many subcrate Load calls run at
// once per discover() fan-out, so a crate with hundreds of subjectOf
// entries doesn't open hundreds of sockets or file handles simultaneously.
const maxConcurrentSubcrateLoads = 4

// discover dispatches to the modality-specific subcrate scan for source and
// recurses into whatever it finds, each subcrate becoming a child of
// ancestry in the returned tree.
func (ci *CrateIndex) discover(source models.CrateSource, id string, ancestry []string, entities []models.Entity) []*models.AddResult {
	switch source.Kind {
	case models.SourceDirectory:
		return ci.discoverDirectorySubcrates(source.Path, id, ancestry, entities)
	case models.SourceDirectorySubcrate:
		return ci.discoverDirectorySubcrates(source.Path, id, ancestry, entities)
	case models.SourceZipFile:
		return ci.discoverZipSubcrates(source.Path, id, ancestry, entities)
	case models.SourceZipSubcrate:
		return ci.discoverZipSubcrates(source.ZipPath, id, ancestry, entities)
	case models.SourceURL:
		return ci.discoverURLSubcrates(source.Path, id, ancestry, entities)
	case models.SourceURLSubcrate:
		return ci.discoverURLSubcrates(source.MetadataURL, id, ancestry, entities)
	default:
		return nil
	}
}

// discoverDirectorySubcrates treats every potential-subcrate entity id as a
// candidate subdirectory of dirPath, recursing into those that actually
// contain a metadata file. The subcrate id is synthesized hierarchically
// from parentID rather than minted fresh, so directory hierarchies yield
// hierarchical ids instead of unrelated fresh tokens at every level.
func (ci *CrateIndex) discoverDirectorySubcrates(dirPath, parentID string, ancestry []string, entities []models.Entity) []*models.AddResult {
	var candidates []models.CrateSource
	for _, entityID := range extract.FindPotentialSubcrates(entities) {
		normalizedID := strings.TrimSuffix(strings.TrimPrefix(entityID, "./"), "/")
		sub := filepath.Join(dirPath, normalizedID)
		if loader.IsDirectoryCrate(sub) {
			candidates = append(candidates, models.NewDirectorySubcrateSource(parentID, sub, normalizedID))
		}
	}
	return ci.addSubcratesConcurrently(candidates, ancestry)
}

// discoverZipSubcrates recurses into both (a) subcrates referenced by an
// absolute subjectOf URL elsewhere on the web, and (b) nested
// ro-crate-metadata.json entries inside zipPath matching the crate's
// potential-subcrate entity ids.
func (ci *CrateIndex) discoverZipSubcrates(zipPath, parentID string, ancestry []string, entities []models.Entity) []*models.AddResult {
	var candidates []models.CrateSource

	for _, info := range extract.DetectSubcratesFromURL(entities, "") {
		if !info.IsRelative {
			candidates = append(candidates, models.NewURLSubcrateSource(parentID, info.MetadataURL))
		}
	}

	matches, err := loader.FindSubcrateMetadataInZip(zipPath, extract.FindPotentialSubcrates(entities))
	if err != nil {
		ci.logger.Warn().Err(err).Str("crate_id", parentID).Msg("failed to scan zip for subcrates")
	} else {
		for _, m := range matches {
			candidates = append(candidates, models.NewZipSubcrateSource(parentID, zipPath, m.ZipEntry))
		}
	}

	return ci.addSubcratesConcurrently(candidates, ancestry)
}

// discoverURLSubcrates resolves each potential-subcrate entity's metadata
// URL against baseURL and recurses into it.
func (ci *CrateIndex) discoverURLSubcrates(baseURL, parentID string, ancestry []string, entities []models.Entity) []*models.AddResult {
	infos := extract.DetectSubcratesFromURL(entities, baseURL)

	candidates := make([]models.CrateSource, 0, len(infos))
	for _, info := range infos {
		candidates = append(candidates, models.NewURLSubcrateSource(parentID, info.MetadataURL))
	}
	return ci.addSubcratesConcurrently(candidates, ancestry)
}

// discoverAbsoluteURLSubcrates is discoverURLSubcrates restricted to
// subcrates whose metadata reference is already an absolute URL: used by
// AddFromJSON, which has no local or base-URL scope to resolve a relative
// reference against.
func (ci *CrateIndex) discoverAbsoluteURLSubcrates(entities []models.Entity, ancestry []string) []*models.AddResult {
	parentID := ancestry[len(ancestry)-1]
	infos := extract.DetectSubcratesFromURL(entities, "")

	candidates := make([]models.CrateSource, 0, len(infos))
	for _, info := range infos {
		if info.IsRelative {
			continue
		}
		candidates = append(candidates, models.NewURLSubcrateSource(parentID, info.MetadataURL))
	}
	return ci.addSubcratesConcurrently(candidates, ancestry)
}

// addSubcratesConcurrently runs addCrate for every candidate, bounded by
// maxConcurrentSubcrateLoads concurrent goroutines. A subcrate that fails to
// load is logged and omitted from the result, never aborting its siblings.
func (ci *CrateIndex) addSubcratesConcurrently(candidates []models.CrateSource, ancestry []string) []*models.AddResult {
	if len(candidates) == 0 {
		return nil
	}

	results := make([]*models.AddResult, len(candidates))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(maxConcurrentSubcrateLoads)

	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			res, err := ci.addCrate(candidate, ancestry)
			if err != nil {
				ci.logger.Warn().Err(err).Str("crate_source", candidate.Kind.String()).Msg("failed to add subcrate; skipping")
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*models.AddResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

package extract

import (
	"net/url"
	"strings"

	"github.com/arunaengine/rocrate-indexer/internal/models"
)

// ResolveURL resolves a possibly-relative URL against a base:
//   - absolute urls pass through unchanged
//   - otherwise, with base trimmed of a trailing "/": "./x" -> base/x;
//     "/x" -> <origin-of-base>/x; else -> base/x
//   - if base is absent (""), the url is returned unchanged
func ResolveURL(rawURL, base string) string {
	if isAbsoluteURL(rawURL) {
		return rawURL
	}
	if base == "" {
		return rawURL
	}

	trimmedBase := strings.TrimSuffix(base, "/")

	if strings.HasPrefix(rawURL, "/") && !strings.HasPrefix(rawURL, "//") {
		if origin := originOf(trimmedBase); origin != "" {
			return origin + rawURL
		}
		return trimmedBase + rawURL
	}

	rel := strings.TrimPrefix(rawURL, "./")
	return trimmedBase + "/" + rel
}

func isAbsoluteURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// originOf returns scheme://authority for base, or "" if base doesn't parse.
func originOf(base string) string {
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// SubcrateURLInfo is one entry produced by DetectSubcratesFromURL.
type SubcrateURLInfo struct {
	EntityID    string
	MetadataURL string
	IsRelative  bool
}

// DetectSubcratesFromURL locates the metadata URL for each potential
// subcrate entity: for each entity returned by FindPotentialSubcrates,
// compute the metadata URL — from subjectOf.@id if
// present (preferring an entry containing "ro-crate-metadata" or ending
// ".json" when subjectOf is an array), else defaulting to
// "<entity_id>/ro-crate-metadata.json". Resolve against base_url when
// relative.
func DetectSubcratesFromURL(entities []models.Entity, baseURL string) []SubcrateURLInfo {
	var out []SubcrateURLInfo

	byID := make(map[string]models.Entity, len(entities))
	for _, e := range entities {
		if id, ok := ID(e); ok {
			byID[id] = e
		}
	}

	for _, entityID := range FindPotentialSubcrates(entities) {
		e := byID[entityID]

		metadataURL := pickSubjectOfURL(e["subjectOf"])
		if metadataURL == "" {
			metadataURL = strings.TrimSuffix(entityID, "/") + "/ro-crate-metadata.json"
		}

		resolved := ResolveURL(metadataURL, baseURL)
		out = append(out, SubcrateURLInfo{
			EntityID:    entityID,
			MetadataURL: resolved,
			IsRelative:  !isAbsoluteURL(resolved),
		})
	}

	return out
}

// pickSubjectOfURL extracts a candidate metadata URL from a subjectOf value.
// When subjectOf is an array, an entry containing "ro-crate-metadata" or
// ending in ".json" is preferred over the first entry.
func pickSubjectOfURL(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}:
		if id, ok := val["@id"].(string); ok {
			return id
		}
		return ""
	case []interface{}:
		candidates := subjectOfURLs(val)
		for _, c := range candidates {
			if strings.Contains(c, "ro-crate-metadata") || strings.HasSuffix(c, ".json") {
				return c
			}
		}
		if len(candidates) > 0 {
			return candidates[0]
		}
		return ""
	default:
		return ""
	}
}

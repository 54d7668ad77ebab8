// Package extract holds the pure functions that turn a parsed entity graph
// into searchable text, type lists, resolved ids, and subcrate descriptors.
// None of these functions perform I/O.
package extract

import (
	"sort"
	"strings"

	"github.com/arunaengine/rocrate-indexer/internal/models"
)

// Text concatenates (space-separated) every string value found under the
// text fields and the "name" subfield of any object under the person-valued
// fields. Arrays are walked recursively collecting strings/names; other
// types are ignored. Order-stable: callers that insert the same fields in a
// different order get the same token multiset, because every field is
// visited independently in the same fixed order
// (models.TextFields then models.PersonFields) rather than iterating the
// entity's own (unordered) map.
func Text(e models.Entity) string {
	var parts []string

	for _, field := range models.TextFields {
		parts = append(parts, collectStrings(e[field])...)
	}
	for _, field := range models.PersonFields {
		parts = append(parts, collectNames(e[field])...)
	}

	return strings.Join(parts, " ")
}

// collectStrings recursively collects every string found in v, walking
// arrays but not descending into objects (the text fields are strings or
// arrays of strings).
func collectStrings(v interface{}) []string {
	switch val := v.(type) {
	case string:
		if val != "" {
			return []string{val}
		}
	case []interface{}:
		var out []string
		for _, item := range val {
			out = append(out, collectStrings(item)...)
		}
		return out
	}
	return nil
}

// collectNames recursively collects the "name" subfield of every object
// found in v, walking arrays of objects.
func collectNames(v interface{}) []string {
	switch val := v.(type) {
	case map[string]interface{}:
		if name, ok := val["name"].(string); ok && name != "" {
			return []string{name}
		}
	case []interface{}:
		var out []string
		for _, item := range val {
			out = append(out, collectNames(item)...)
		}
		return out
	}
	return nil
}

// Types returns @type as a flat list of strings: a single string becomes a
// one-element list, an array of strings is filtered to strings, and an
// absent/unrecognized value yields an empty list.
func Types(e models.Entity) []string {
	switch v := e["@type"].(type) {
	case string:
		return []string{v}
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// ID returns the entity's @id, or ("", false) if absent or not a string.
func ID(e models.Entity) (string, bool) {
	v, ok := e["@id"].(string)
	return v, ok && v != ""
}

// ResolveID computes the absolute resolved @id form for an entity id against
// a crate base:
//   - already absolute (http://, https://): unchanged
//   - "./" -> the crate base
//   - "./x" -> <base>/x
//   - "#frag" -> <base>#frag (no trailing-slash trim on base for fragments)
//   - bare "x" -> <base>/x
//
// Idempotent: ResolveID(ResolveID(x, base), base) == ResolveID(x, base),
// since an already-resolved id is always absolute once base itself is
// absolute, and the first branch below passes absolute ids through
// unchanged.
func ResolveID(entityID, base string) string {
	if strings.HasPrefix(entityID, "http://") || strings.HasPrefix(entityID, "https://") {
		return entityID
	}

	trimmedBase := strings.TrimSuffix(base, "/")

	if entityID == "./" {
		return trimmedBase
	}
	if strings.HasPrefix(entityID, "./") {
		return trimmedBase + "/" + strings.TrimPrefix(entityID, "./")
	}
	if strings.HasPrefix(entityID, "#") {
		return base + entityID
	}
	return trimmedBase + "/" + entityID
}

// roCrateProfilePrefix is the profile URL prefix ConformsToROCrate checks
// for; note the required trailing slash: ".../ro/crate" alone does not
// match.
const roCrateProfilePrefix = "https://w3id.org/ro/crate/"

// ConformsToROCrate reports whether any conformsTo value (object, array of
// objects, or bare string) carries an @id (or is itself a string) whose
// value starts with roCrateProfilePrefix.
func ConformsToROCrate(e models.Entity) bool {
	return conformsToAny(e["conformsTo"])
}

func conformsToAny(v interface{}) bool {
	switch val := v.(type) {
	case string:
		return strings.HasPrefix(val, roCrateProfilePrefix)
	case map[string]interface{}:
		if id, ok := val["@id"].(string); ok {
			return strings.HasPrefix(id, roCrateProfilePrefix)
		}
		return false
	case []interface{}:
		for _, item := range val {
			if conformsToAny(item) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// isDatasetType reports whether types includes "Dataset".
func isDatasetType(types []string) bool {
	for _, t := range types {
		if t == "Dataset" {
			return true
		}
	}
	return false
}

// FindRootEntity returns the crate's root entity: the first Dataset with
// @id == "./"; failing that, the first Dataset that conforms to the RO-Crate
// profile and is not itself a subcrate reference (no subjectOf, or a
// subjectOf that targets a local metadata file rather than an absolute URL).
// Returns (nil, false) if no candidate exists. This heuristic can
// misidentify a subcrate as root on malformed input; that is accepted as
// undefined behavior, not guarded against here.
func FindRootEntity(entities []models.Entity) (models.Entity, bool) {
	for _, e := range entities {
		if id, ok := ID(e); ok && id == "./" && isDatasetType(Types(e)) {
			return e, true
		}
	}

	for _, e := range entities {
		if !isDatasetType(Types(e)) || !ConformsToROCrate(e) {
			continue
		}
		if id, ok := ID(e); ok && id == "./" {
			continue // already tried above
		}
		if !hasRemoteSubjectOf(e) {
			return e, true
		}
	}

	return nil, false
}

// hasRemoteSubjectOf reports whether e's subjectOf targets an absolute URL
// (i.e. e looks like a reference to a subcrate rather than the root itself).
func hasRemoteSubjectOf(e models.Entity) bool {
	subjectOf, ok := e["subjectOf"]
	if !ok {
		return false
	}
	urls := subjectOfURLs(subjectOf)
	for _, u := range urls {
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			return true
		}
	}
	return false
}

func subjectOfURLs(v interface{}) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case map[string]interface{}:
		if id, ok := val["@id"].(string); ok {
			return []string{id}
		}
	case []interface{}:
		var out []string
		for _, item := range val {
			out = append(out, subjectOfURLs(item)...)
		}
		return out
	}
	return nil
}

// RootMetadata is the name/description extracted from the root entity.
type RootMetadata struct {
	Name        string
	Description string
}

// ExtractRootMetadata extracts name (trimmed, with any leading "./"
// stripped) and description from the root entity.
func ExtractRootMetadata(root models.Entity) RootMetadata {
	name, _ := root["name"].(string)
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "./")

	desc, _ := root["description"].(string)

	return RootMetadata{Name: name, Description: desc}
}

// FindPotentialSubcrates returns the entity id of every Dataset that
// conforms to the RO-Crate profile and whose @id is not "./".
func FindPotentialSubcrates(entities []models.Entity) []string {
	var out []string
	for _, e := range entities {
		if !isDatasetType(Types(e)) || !ConformsToROCrate(e) {
			continue
		}
		id, ok := ID(e)
		if !ok || id == "./" {
			continue
		}
		out = append(out, id)
	}
	return out
}

// FlattenProperties walks e's fields recursively and returns one line per
// non-empty string leaf, "<path tokens> <value>" with path segments dot-split
// into separate words. Object keys become path segments; array items share
// the array's own path (no index segment). Numbers, booleans and nulls are
// not emitted.
// This is the flatten-at-index-time strategy for path-prefixed property
// queries (e.g. "author.name:Smith") in an FTS engine with no hierarchical
// JSON field type: searchindex stores the result in a companion FTS column
// and resolves a dotted-path query as a phrase match against it.
func FlattenProperties(e models.Entity) string {
	var lines []string
	for _, key := range sortedKeys(e) {
		flattenValue(key, e[key], &lines)
	}
	return strings.Join(lines, "\n")
}

func sortedKeys(e models.Entity) []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func flattenValue(path string, v interface{}, lines *[]string) {
	switch val := v.(type) {
	case string:
		if val != "" {
			*lines = append(*lines, pathTokens(path)+" "+val)
		}
	case map[string]interface{}:
		for _, key := range sortedMapKeys(val) {
			flattenValue(path+"."+key, val[key], lines)
		}
	case []interface{}:
		for _, item := range val {
			flattenValue(path, item, lines)
		}
	}
}

func sortedMapKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// pathTokens turns a dotted property path into the space-joined token
// sequence it is indexed as, e.g. "author.name" -> "author name".
func pathTokens(path string) string {
	return strings.ReplaceAll(path, ".", " ")
}

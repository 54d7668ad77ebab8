// Package searchindex is the persistent inverted index: one row per indexed
// entity, searchable by free-text content, by entity type, and by exact id,
// backed by SQLite FTS5 (modernc.org/sqlite).
package searchindex

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/arunaengine/rocrate-indexer/internal/common"
	"github.com/arunaengine/rocrate-indexer/internal/extract"
	"github.com/arunaengine/rocrate-indexer/internal/models"
	_ "modernc.org/sqlite"
)

// dbFileName is the on-disk database file created under a SearchIndex's
// directory by OpenOrCreate.
const dbFileName = "entries.db"

// SearchIndex is the FTS5-backed inverted index. Every write is serialized
// through mu to avoid SQLITE_BUSY errors against the single underlying
// connection.
type SearchIndex struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenOrCreate opens (creating if absent) the index database under dir.
func OpenOrCreate(dir string) (*SearchIndex, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	si := &SearchIndex{db: db}
	if err := si.init(); err != nil {
		db.Close()
		return nil, err
	}
	return si, nil
}

// NewInMemory opens an index with the same schema with no persistence, for tests.
func NewInMemory() (*SearchIndex, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory index: %w", err)
	}
	db.SetMaxOpenConns(1)

	si := &SearchIndex{db: db}
	if err := si.init(); err != nil {
		db.Close()
		return nil, err
	}
	return si, nil
}

func (si *SearchIndex) init() error {
	if _, err := si.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to set pragmas: %w", err)
	}
	if _, err := si.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (si *SearchIndex) Close() error {
	return si.db.Close()
}

// IndexEntities emits one document per entity having an @id, resolved
// against crateID as the base, and returns the number of documents emitted.
// Entities lacking an @id are skipped silently. Runs as a single transaction;
// callers see the new documents as soon as this returns.
func (si *SearchIndex) IndexEntities(crateID string, entities []models.Entity) (int, error) {
	si.mu.Lock()
	defer si.mu.Unlock()

	tx, err := si.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO entries (id, occurs_in, entity_type, properties, property_paths, content)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, e := range entities {
		rawID, ok := extract.ID(e)
		if !ok {
			continue
		}
		resolvedID := extract.ResolveID(rawID, crateID)
		entityType := strings.Join(extract.Types(e), " ")

		propsJSON, err := json.Marshal(e)
		if err != nil {
			return count, fmt.Errorf("failed to marshal entity %s: %w", resolvedID, err)
		}
		propertyPaths := extract.FlattenProperties(e)
		content := extract.Text(e)

		if _, err := stmt.Exec(resolvedID, crateID, entityType, string(propsJSON), propertyPaths, content); err != nil {
			return count, fmt.Errorf("failed to index entity %s: %w", resolvedID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit index transaction: %w", err)
	}
	return count, nil
}

// RemoveCrate deletes every document whose occurs_in equals crateID. This is
// the single source of truth for crate removal in the index: it guarantees
// no residual documents, whether called for an actual removal or to clear
// stale postings before a re-ingest.
func (si *SearchIndex) RemoveCrate(crateID string) error {
	si.mu.Lock()
	defer si.mu.Unlock()

	tx, err := si.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries WHERE occurs_in = ?`, crateID); err != nil {
		return fmt.Errorf("failed to remove crate %s: %w", crateID, err)
	}
	return tx.Commit()
}

// Search runs a free-text query against the content and properties fields,
// returning up to limit hits ordered by descending relevance. A query of the
// form "<dotted.path>:<value>" (e.g. "author.name:Smith") is instead resolved
// as a path-prefixed property query; see SearchByPropertyPath.
func (si *SearchIndex) Search(q string, limit int) ([]models.SearchHit, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("%w: empty query", common.ErrQueryParse)
	}
	if path, value, ok := parsePropertyPathQuery(q); ok {
		return si.SearchByPropertyPath(path, value, limit)
	}
	ftsQuery := fmt.Sprintf("{content properties} : (%s)", q)
	return si.queryFTS(ftsQuery, limit)
}

// propertyPathPattern matches a dotted-path property query such as
// "author.name:Smith": at least two segments of word characters joined by
// dots, a colon, then the value.
var propertyPathPattern = regexp.MustCompile(`^([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)+):(.+)$`)

func parsePropertyPathQuery(q string) (path, value string, ok bool) {
	m := propertyPathPattern.FindStringSubmatch(strings.TrimSpace(q))
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// SearchByPropertyPath resolves a dotted-path query like "author.name:Smith"
// against the property_paths field flattened at index time (see
// extract.FlattenProperties). properties itself is stored as opaque JSON
// text, not a hierarchical field type FTS5 can traverse, so nested-path
// queries are served from this flattened companion field as a phrase match
// instead: "author.name" becomes the two adjacent tokens "author name",
// followed by the value's own tokens.
func (si *SearchIndex) SearchByPropertyPath(path, value string, limit int) ([]models.SearchHit, error) {
	phrase := pathTokens(path) + " " + value
	ftsQuery := fmt.Sprintf(`property_paths : %s`, quoteFTSPhrase(phrase))
	return si.queryFTS(ftsQuery, limit)
}

func pathTokens(path string) string {
	return strings.ReplaceAll(path, ".", " ")
}

// SearchByType runs an exact term query against the entity_type field.
func (si *SearchIndex) SearchByType(entityType string, limit int) ([]models.SearchHit, error) {
	ftsQuery := fmt.Sprintf(`entity_type : %s`, quoteFTSTerm(entityType))
	return si.queryFTS(ftsQuery, limit)
}

// SearchByID returns every document whose resolved id exactly matches id,
// across all crates. Goes straight to the base table: id is an opaque,
// often URL-shaped string unsuited to FTS5 tokenization.
func (si *SearchIndex) SearchByID(id string) ([]models.SearchHit, error) {
	rows, err := si.db.Query(`SELECT id, occurs_in FROM entries WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to search by id: %w", err)
	}
	defer rows.Close()

	var hits []models.SearchHit
	for rows.Next() {
		var entityID, occursIn string
		if err := rows.Scan(&entityID, &occursIn); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		hits = append(hits, models.SearchHit{EntityID: entityID, CrateID: occursIn, Score: 1})
	}
	return hits, rows.Err()
}

// SearchTypedContent is the boolean AND of an exact entity_type term and a
// free-text content query.
func (si *SearchIndex) SearchTypedContent(entityType, contentQuery string, limit int) ([]models.SearchHit, error) {
	ftsQuery := fmt.Sprintf(`entity_type : %s AND content : (%s)`, quoteFTSTerm(entityType), contentQuery)
	return si.queryFTS(ftsQuery, limit)
}

// FindCrates runs Search(q, 10000) and collects the distinct crate ids, in
// order of first appearance.
func (si *SearchIndex) FindCrates(q string) ([]string, error) {
	hits, err := si.Search(q, 10000)
	if err != nil {
		return nil, err
	}
	return distinctCrateIDs(hits), nil
}

// FindCratesByEntity runs SearchByID(id) and collects the distinct crate ids.
func (si *SearchIndex) FindCratesByEntity(id string) ([]string, error) {
	hits, err := si.SearchByID(id)
	if err != nil {
		return nil, err
	}
	return distinctCrateIDs(hits), nil
}

func distinctCrateIDs(hits []models.SearchHit) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range hits {
		if !seen[h.CrateID] {
			seen[h.CrateID] = true
			out = append(out, h.CrateID)
		}
	}
	return out
}

func (si *SearchIndex) queryFTS(ftsQuery string, limit int) ([]models.SearchHit, error) {
	rows, err := si.db.Query(`
		SELECT e.id, e.occurs_in, rank
		FROM entries_fts fts
		JOIN entries e ON e.rowid = fts.rowid
		WHERE entries_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrQueryParse, err)
	}
	defer rows.Close()

	var hits []models.SearchHit
	for rows.Next() {
		var id, occursIn string
		var rank float64
		if err := rows.Scan(&id, &occursIn, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		hits = append(hits, models.SearchHit{EntityID: id, CrateID: occursIn, Score: -rank})
	}
	return hits, rows.Err()
}

// quoteFTSTerm wraps term in double quotes for use as an FTS5 string
// literal, escaping any embedded quote.
func quoteFTSTerm(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}

// quoteFTSPhrase wraps phrase in double quotes for use as an FTS5 phrase
// query, escaping any embedded quote.
func quoteFTSPhrase(phrase string) string {
	return `"` + strings.ReplaceAll(phrase, `"`, `""`) + `"`
}

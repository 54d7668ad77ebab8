package searchindex

// schemaSQL creates the base entries table plus a content-synced FTS5
// virtual table over entity_type, content, properties, and property_paths.
// id/occurs_in exact lookups go straight to the base table; entity_type and
// content queries go through entries_fts. properties itself is indexed only
// as opaque whole-blob text (FTS5 has no hierarchical JSON field type);
// property_paths carries the flattened "path tokens value" lines produced by
// extract.FlattenProperties, which is what path-prefixed queries like
// "author.name:Smith" actually match against. Triggers keep the FTS index in
// sync with the base table the same way the FTS5 index for markdown content
// is kept in sync in the sqlite storage layer this package is modeled on.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id TEXT NOT NULL,
	occurs_in TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	properties TEXT NOT NULL,
	property_paths TEXT NOT NULL,
	content TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_occurs_in ON entries(occurs_in);
CREATE INDEX IF NOT EXISTS idx_entries_id ON entries(id);

CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
	entity_type,
	content,
	properties,
	property_paths,
	content=entries,
	content_rowid=rowid
);

CREATE TRIGGER IF NOT EXISTS entries_fts_insert AFTER INSERT ON entries BEGIN
	INSERT INTO entries_fts(rowid, entity_type, content, properties, property_paths)
	VALUES (new.rowid, new.entity_type, new.content, new.properties, new.property_paths);
END;

CREATE TRIGGER IF NOT EXISTS entries_fts_update AFTER UPDATE ON entries BEGIN
	INSERT INTO entries_fts(entries_fts, rowid, entity_type, content, properties, property_paths)
	VALUES ('delete', old.rowid, old.entity_type, old.content, old.properties, old.property_paths);
	INSERT INTO entries_fts(rowid, entity_type, content, properties, property_paths)
	VALUES (new.rowid, new.entity_type, new.content, new.properties, new.property_paths);
END;

CREATE TRIGGER IF NOT EXISTS entries_fts_delete AFTER DELETE ON entries BEGIN
	INSERT INTO entries_fts(entries_fts, rowid, entity_type, content, properties, property_paths)
	VALUES ('delete', old.rowid, old.entity_type, old.content, old.properties, old.property_paths);
END;
`

package models

// Document is one FTS unit, emitted once per indexed entity.
type Document struct {
	// ID is the resolved @id, stored and indexed untokenized (exact match).
	ID string

	// OccursIn is the crate id, stored and indexed untokenized. This is the
	// deletion key: SearchIndex.RemoveCrate deletes every Document whose
	// OccursIn equals the removed crate id.
	OccursIn string

	// EntityTypes is one posting per @type value, indexed untokenized.
	EntityTypes []string

	// Content is the concatenated, tokenized text extracted from the text
	// and person-name fields. SearchIndex stores it in its base table as
	// well as indexing it.
	Content string

	// Properties is the full entity JSON. SearchIndex indexes it as opaque
	// text; path-prefixed queries (e.g. "author.name:Smith") are served from
	// a separate flattened field (see extract.FlattenProperties).
	Properties Entity
}

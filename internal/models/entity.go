package models

// Entity is a single JSON object from a crate's @graph array. It is kept as
// a loosely-typed map rather than a struct because RO-Crate entities are
// heterogeneous (Datasets, Files, Persons, Organizations, ...) and the
// engine only ever needs a handful of well-known fields out of any of them.
type Entity map[string]interface{}

// ID returns the entity's "@id" value, or "" if absent/not a string.
func (e Entity) ID() string {
	v, _ := e["@id"].(string)
	return v
}

// TextFields are the entity fields extract.Text concatenates.
var TextFields = []string{
	"name", "description", "alternateName", "keywords", "abstract", "text", "headline", "about",
}

// PersonFields are the entity fields whose object values' "name" subfield
// extract.Text also concatenates.
var PersonFields = []string{
	"author", "creator", "contributor", "publisher",
}

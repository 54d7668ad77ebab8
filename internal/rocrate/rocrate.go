// Package rocrate is a minimal RO-Crate / JSON-LD document reader: it parses
// a document with a validated @graph array without attempting full RO-Crate
// profile conformance checking (see DESIGN.md).
package rocrate

import (
	"encoding/json"
	"fmt"

	"github.com/arunaengine/rocrate-indexer/internal/common"
	"github.com/arunaengine/rocrate-indexer/internal/models"
)

// Document is a parsed ro-crate-metadata.json document.
type Document struct {
	Context interface{}     `json:"@context"`
	Graph   []models.Entity `json:"@graph"`
	raw     json.RawMessage
}

// Parse parses raw ro-crate-metadata.json bytes into a Document.
//
// Unlike a conformance-checking RO-Crate parser, Parse only requires valid
// JSON with a top-level "@graph" key whose value is an array; it does not
// validate RO-Crate profile conformance beyond that structural rule.
func Parse(raw []byte) (*Document, error) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
	}

	graphRaw, ok := generic["@graph"]
	if !ok {
		return nil, fmt.Errorf("%w", common.ErrInvalidCrateFormat)
	}

	var graphAny interface{}
	if err := json.Unmarshal(graphRaw, &graphAny); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidCrateFormat, err)
	}
	if _, isArray := graphAny.([]interface{}); !isArray {
		return nil, fmt.Errorf("%w", common.ErrInvalidCrateFormat)
	}

	var entities []models.Entity
	if err := json.Unmarshal(graphRaw, &entities); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidCrateFormat, err)
	}

	doc := &Document{Graph: entities, raw: raw}
	if ctxRaw, ok := generic["@context"]; ok {
		_ = json.Unmarshal(ctxRaw, &doc.Context)
	}
	return doc, nil
}

// GraphToJSON returns the parsed @graph as a slice of entities.
func GraphToJSON(doc *Document) ([]models.Entity, error) {
	if doc.Graph == nil {
		return nil, fmt.Errorf("%w", common.ErrInvalidCrateFormat)
	}
	return doc.Graph, nil
}

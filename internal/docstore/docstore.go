// Package docstore defines the document store adapter the record store is built on.
// Drivers live under internal/docstore/<driver>/ (memory, sqlite, postgres).
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// IDField is the key under which documents returned by a Store carry their id.
const IDField = "id"

// OpEqual is the only filter operator drivers are required to support.
const OpEqual = "=="

var (
	ErrNotFound      = errors.New("document not found")
	ErrUnsupportedOp = errors.New("unsupported filter operator")
)

// Document is a loosely typed JSON object.
type Document map[string]any

// Filter restricts a query to documents whose top-level Field compares to Value.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter { return Filter{Field: field, Op: OpEqual, Value: value} }

// Store is a collection/id keyed document store.
type Store interface {
	// Create inserts doc under a generated id and returns the id.
	Create(ctx context.Context, collection string, doc Document) (string, error)
	// Put inserts or replaces the document stored under id.
	Put(ctx context.Context, collection, id string, doc Document) error
	// Get returns the document with IDField set, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Update merges partial into the top-level fields of an existing document, or returns ErrNotFound.
	Update(ctx context.Context, collection, id string, partial Document) error
	// Delete removes a document; deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Query returns all documents of collection matching every filter, in no particular order.
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Close() error
}

var fieldRx = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateFilters rejects operators other than equality and field names that are not plain identifiers.
func ValidateFilters(filters []Filter) error {
	for _, f := range filters {
		if f.Op != OpEqual {
			return fmt.Errorf("%w: %q", ErrUnsupportedOp, f.Op)
		}
		if !fieldRx.MatchString(f.Field) {
			return fmt.Errorf("invalid filter field %q", f.Field)
		}
	}
	return nil
}

// Normalize round-trips v through JSON so every driver sees the same value types
// (float64 numbers, []any arrays, map[string]any objects).
func Normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode marshals doc without its IDField.
func Encode(doc Document) ([]byte, error) {
	body := make(Document, len(doc))
	for k, v := range doc {
		if k == IDField {
			continue
		}
		body[k] = v
	}
	return json.Marshal(body)
}

// Decode unmarshals a stored body and stamps it with id.
func Decode(id string, body []byte) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	doc[IDField] = id
	return doc, nil
}

// Merge applies partial onto doc at the top level, ignoring IDField.
func Merge(doc, partial Document) Document {
	out := make(Document, len(doc)+len(partial))
	for k, v := range doc {
		out[k] = v
	}
	for k, v := range partial {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

// Matches reports whether doc satisfies every equality filter. Values are compared after Normalize.
func Matches(doc Document, filters []Filter) (bool, error) {
	for _, f := range filters {
		want, err := Normalize(f.Value)
		if err != nil {
			return false, err
		}
		got, ok := doc[f.Field]
		if !ok {
			return false, nil
		}
		if !equalJSON(got, want) {
			return false, nil
		}
	}
	return true, nil
}

func equalJSON(a, b any) bool {
	switch av := a.(type) {
	case string, float64, bool, nil:
		return a == b
	default:
		ab, err1 := json.Marshal(av)
		bb, err2 := json.Marshal(b)
		return err1 == nil && err2 == nil && string(ab) == string(bb)
	}
}

// Package docstoretest holds the compliance suite every docstore driver must pass.
package docstoretest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/michela/coach/internal/docstore"
)

// Run exercises a docstore.Store implementation. makeStore must return a usable store;
// collections are suffixed with a random id so drivers may share a database.
func Run(t *testing.T, makeStore func(t *testing.T) docstore.Store) {
	t.Helper()

	s := makeStore(t)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()
	coll := "meal_records_" + uuid.New().String()[:8]

	// Create / Get
	id, err := s.Create(ctx, coll, docstore.Document{
		"customer_id": "c1",
		"date":        "2024-05-01",
		"foods":       []any{map[string]any{"name": "rice", "calories": 200.0}},
		"total":       200.5,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatalf("Create: empty id")
	}
	got, err := s.Get(ctx, coll, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got[docstore.IDField] != id || got["customer_id"] != "c1" || got["total"] != 200.5 {
		t.Fatalf("Get: unexpected document %v", got)
	}
	if foods, ok := got["foods"].([]any); !ok || len(foods) != 1 {
		t.Fatalf("Get: nested array not preserved: %v", got["foods"])
	}

	if _, err := s.Get(ctx, coll, "missing"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("Get missing: want ErrNotFound, got %v", err)
	}

	// Update merges top-level fields
	if err := s.Update(ctx, coll, id, docstore.Document{"notes": "post workout", "total": 300.0}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = s.Get(ctx, coll, id)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got["notes"] != "post workout" || got["total"] != 300.0 || got["date"] != "2024-05-01" {
		t.Fatalf("Update: merge not applied: %v", got)
	}
	if err := s.Update(ctx, coll, "missing", docstore.Document{"x": 1}); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("Update missing: want ErrNotFound, got %v", err)
	}

	// Put inserts then replaces
	if err := s.Put(ctx, coll, "goal-c1", docstore.Document{"customer_id": "c1", "target_calories": 1800.0}); err != nil {
		t.Fatalf("Put insert: %v", err)
	}
	if err := s.Put(ctx, coll, "goal-c1", docstore.Document{"customer_id": "c1", "target_protein": 140.0}); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	got, err = s.Get(ctx, coll, "goal-c1")
	if err != nil {
		t.Fatalf("Get put doc: %v", err)
	}
	if _, ok := got["target_calories"]; ok {
		t.Fatalf("Put must replace the whole document: %v", got)
	}
	if got["target_protein"] != 140.0 {
		t.Fatalf("Put: unexpected document %v", got)
	}

	// Query
	if _, err := s.Create(ctx, coll, docstore.Document{"customer_id": "c1", "date": "2024-05-02"}); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if _, err := s.Create(ctx, coll, docstore.Document{"customer_id": "c2", "date": "2024-05-01"}); err != nil {
		t.Fatalf("Create third: %v", err)
	}

	docs, err := s.Query(ctx, coll, docstore.Eq("customer_id", "c1"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("Query customer_id=c1: want 3 docs, got %d", len(docs))
	}
	for _, d := range docs {
		if d[docstore.IDField] == "" {
			t.Fatalf("Query: document without id: %v", d)
		}
	}

	docs, err = s.Query(ctx, coll, docstore.Eq("customer_id", "c1"), docstore.Eq("date", "2024-05-01"))
	if err != nil {
		t.Fatalf("Query two filters: %v", err)
	}
	if len(docs) != 1 || docs[0][docstore.IDField] != id {
		t.Fatalf("Query two filters: unexpected result %v", docs)
	}

	docs, err = s.Query(ctx, coll, docstore.Eq("target_protein", 140))
	if err != nil {
		t.Fatalf("Query number: %v", err)
	}
	if len(docs) != 1 || docs[0][docstore.IDField] != "goal-c1" {
		t.Fatalf("Query number: unexpected result %v", docs)
	}

	docs, err = s.Query(ctx, coll, docstore.Eq("customer_id", "nobody"))
	if err != nil {
		t.Fatalf("Query empty: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Fatalf("Query empty: want empty non-nil slice, got %#v", docs)
	}

	all, err := s.Query(ctx, coll)
	if err != nil {
		t.Fatalf("Query all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Query all: want 4 docs, got %d", len(all))
	}

	if _, err := s.Query(ctx, coll, docstore.Filter{Field: "date", Op: ">=", Value: "2024"}); !errors.Is(err, docstore.ErrUnsupportedOp) {
		t.Fatalf("Query with range op: want ErrUnsupportedOp, got %v", err)
	}

	// Collections are isolated
	other, err := s.Query(ctx, coll+"_other")
	if err != nil || len(other) != 0 {
		t.Fatalf("Query other collection: n=%d err=%v", len(other), err)
	}

	// Delete is idempotent
	if err := s.Delete(ctx, coll, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, coll, id); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	if _, err := s.Get(ctx, coll, id); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("Get deleted: want ErrNotFound, got %v", err)
	}

	ids := make([]string, 0)
	all, err = s.Query(ctx, coll)
	if err != nil {
		t.Fatalf("Query after delete: %v", err)
	}
	for _, d := range all {
		ids = append(ids, d[docstore.IDField].(string))
	}
	for _, x := range ids {
		if x == id {
			t.Fatalf("deleted document still listed")
		}
	}
	if len(ids) != 3 {
		t.Fatalf("Query after delete: want 3 docs, got %d", len(ids))
	}
}

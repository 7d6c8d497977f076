// Package memory is an in-process docstore driver used for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/michela/coach/internal/docstore"
)

// Store keeps JSON-encoded documents per collection.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// New returns an empty store.
func New() *Store { return &Store{data: map[string]map[string][]byte{}} }

func (s *Store) Create(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	id := uuid.New().String()
	if err := s.Put(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Put(ctx context.Context, collection, id string, doc docstore.Document) error {
	body, err := docstore.Encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.data[collection]
	if !ok {
		coll = map[string][]byte{}
		s.data[collection] = coll
	}
	coll[id] = body
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	s.mu.RLock()
	body, ok := s.data[collection][id]
	s.mu.RUnlock()
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return docstore.Decode(id, body)
}

func (s *Store) Update(ctx context.Context, collection, id string, partial docstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.data[collection][id]
	if !ok {
		return docstore.ErrNotFound
	}
	doc, err := docstore.Decode(id, body)
	if err != nil {
		return err
	}
	merged, err := docstore.Encode(docstore.Merge(doc, partial))
	if err != nil {
		return err
	}
	s.data[collection][id] = merged
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[collection], id)
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, filters ...docstore.Filter) ([]docstore.Document, error) {
	if err := docstore.ValidateFilters(filters); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]docstore.Document, 0, len(s.data[collection]))
	for id, body := range s.data[collection] {
		doc, err := docstore.Decode(id, body)
		if err != nil {
			return nil, err
		}
		ok, err := docstore.Matches(doc, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

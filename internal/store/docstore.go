package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/michela/coach/internal/docstore"
	"github.com/michela/coach/internal/model"
)

// New builds a Store over a document store.
func New(docs docstore.Store) Store { return &docStore{docs: docs} }

type docStore struct{ docs docstore.Store }

func (s *docStore) Customers() Customers { return &customers{docs: s.docs} }
func (s *docStore) Weights() Weights     { return &weights{docs: s.docs} }
func (s *docStore) Trainings() Trainings { return &trainings{docs: s.docs} }
func (s *docStore) Meals() Meals         { return &meals{docs: s.docs} }
func (s *docStore) Goals() Goals         { return &goals{docs: s.docs} }

// HealthPing forwards to the document store when it supports pinging.
func (s *docStore) HealthPing(ctx context.Context) error {
	type pinger interface {
		HealthPing(ctx context.Context) error
	}
	if p, ok := s.docs.(pinger); ok {
		return p.HealthPing(ctx)
	}
	return nil
}

// toDocument converts a model struct into a document body without its id.
func toDocument(v any) (docstore.Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := docstore.Document{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	delete(doc, docstore.IDField)
	return doc, nil
}

func fromDocument(doc docstore.Document, out any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// storeErr maps driver errors onto the model error taxonomy.
func storeErr(kind, id string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return model.NewNotFoundError(kind, id)
	}
	return model.NewUpstreamError("store", fmt.Errorf("%s %s: %w", kind, id, err))
}

func create[T any](ctx context.Context, docs docstore.Store, coll string, v *T, setID func(*T, string)) (*T, error) {
	doc, err := toDocument(v)
	if err != nil {
		return nil, err
	}
	id, err := docs.Create(ctx, coll, doc)
	if err != nil {
		return nil, storeErr(coll, "", err)
	}
	out := *v
	setID(&out, id)
	return &out, nil
}

func get[T any](ctx context.Context, docs docstore.Store, coll, kind, id string) (*T, error) {
	doc, err := docs.Get(ctx, coll, id)
	if err != nil {
		return nil, storeErr(kind, id, err)
	}
	var out T
	if err := fromDocument(doc, &out); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", kind, id, err)
	}
	return &out, nil
}

func query[T any](ctx context.Context, docs docstore.Store, coll string, filters ...docstore.Filter) ([]*T, error) {
	rows, err := docs.Query(ctx, coll, filters...)
	if err != nil {
		return nil, model.NewUpstreamError("store", fmt.Errorf("query %s: %w", coll, err))
	}
	out := make([]*T, 0, len(rows))
	for _, doc := range rows {
		var v T
		if err := fromDocument(doc, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", coll, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// replace overwrites the whole document of an existing id, so fields left empty
// (and omitted when encoded) do not survive from the stored version.
func replace[T any](ctx context.Context, docs docstore.Store, coll, kind, id string, v *T) (*T, error) {
	if _, err := docs.Get(ctx, coll, id); err != nil {
		return nil, storeErr(kind, id, err)
	}
	doc, err := toDocument(v)
	if err != nil {
		return nil, err
	}
	if err := docs.Put(ctx, coll, id, doc); err != nil {
		return nil, storeErr(kind, id, err)
	}
	out := *v
	return &out, nil
}

// newestFirst orders by date then created_at, both descending, and truncates to limit.
func newestFirst[T any](items []*T, key func(*T) (date, createdAt string), limit int) []*T {
	sort.SliceStable(items, func(i, j int) bool {
		di, ci := key(items[i])
		dj, cj := key(items[j])
		if di != dj {
			return di > dj
		}
		return ci > cj
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// --- Customers ---
type customers struct{ docs docstore.Store }

func (c *customers) Create(ctx context.Context, m *model.Customer) (*model.Customer, error) {
	return create(ctx, c.docs, CollCustomers, m, func(v *model.Customer, id string) { v.ID = id })
}

func (c *customers) Get(ctx context.Context, customerID string) (*model.Customer, error) {
	out, err := get[model.Customer](ctx, c.docs, CollCustomers, "customer", customerID)
	if err != nil {
		return nil, err
	}
	out.ID = customerID
	return out, nil
}

func (c *customers) List(ctx context.Context) ([]*model.Customer, error) {
	out, err := query[model.Customer](ctx, c.docs, CollCustomers)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *customers) Update(ctx context.Context, customerID string, p model.CustomerPatch) (*model.Customer, error) {
	partial, err := toDocument(p)
	if err != nil {
		return nil, err
	}
	if len(partial) > 0 {
		if err := c.docs.Update(ctx, CollCustomers, customerID, partial); err != nil {
			return nil, storeErr("customer", customerID, err)
		}
	}
	return c.Get(ctx, customerID)
}

func (c *customers) Delete(ctx context.Context, customerID string) error {
	if err := c.docs.Delete(ctx, CollCustomers, customerID); err != nil {
		return storeErr("customer", customerID, err)
	}
	return nil
}

// --- Weights ---
type weights struct{ docs docstore.Store }

func (w *weights) Add(ctx context.Context, m *model.WeightRecord) (*model.WeightRecord, error) {
	return create(ctx, w.docs, CollWeights, m, func(v *model.WeightRecord, id string) { v.ID = id })
}

func (w *weights) History(ctx context.Context, customerID string, limit int) ([]*model.WeightRecord, error) {
	out, err := query[model.WeightRecord](ctx, w.docs, CollWeights, docstore.Eq("customer_id", customerID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt > out[j].RecordedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- Trainings ---
type trainings struct{ docs docstore.Store }

func (t *trainings) Create(ctx context.Context, m *model.TrainingSession) (*model.TrainingSession, error) {
	return create(ctx, t.docs, CollTrainings, m, func(v *model.TrainingSession, id string) { v.ID = id })
}

func (t *trainings) Get(ctx context.Context, sessionID string) (*model.TrainingSession, error) {
	out, err := get[model.TrainingSession](ctx, t.docs, CollTrainings, "training session", sessionID)
	if err != nil {
		return nil, err
	}
	out.ID = sessionID
	return out, nil
}

func (t *trainings) Replace(ctx context.Context, m *model.TrainingSession) (*model.TrainingSession, error) {
	return replace(ctx, t.docs, CollTrainings, "training session", m.ID, m)
}

func (t *trainings) Delete(ctx context.Context, sessionID string) error {
	if err := t.docs.Delete(ctx, CollTrainings, sessionID); err != nil {
		return storeErr("training session", sessionID, err)
	}
	return nil
}

func (t *trainings) Recent(ctx context.Context, customerID string, limit int) ([]*model.TrainingSession, error) {
	out, err := query[model.TrainingSession](ctx, t.docs, CollTrainings, docstore.Eq("customer_id", customerID))
	if err != nil {
		return nil, err
	}
	return newestFirst(out, func(s *model.TrainingSession) (string, string) { return s.Date, s.CreatedAt }, limit), nil
}

// --- Meals ---
type meals struct{ docs docstore.Store }

func (m *meals) Create(ctx context.Context, r *model.MealRecord) (*model.MealRecord, error) {
	return create(ctx, m.docs, CollMeals, r, func(v *model.MealRecord, id string) { v.ID = id })
}

func (m *meals) Get(ctx context.Context, mealID string) (*model.MealRecord, error) {
	out, err := get[model.MealRecord](ctx, m.docs, CollMeals, "meal record", mealID)
	if err != nil {
		return nil, err
	}
	out.ID = mealID
	return out, nil
}

func (m *meals) Replace(ctx context.Context, r *model.MealRecord) (*model.MealRecord, error) {
	return replace(ctx, m.docs, CollMeals, "meal record", r.ID, r)
}

func (m *meals) Delete(ctx context.Context, mealID string) error {
	if err := m.docs.Delete(ctx, CollMeals, mealID); err != nil {
		return storeErr("meal record", mealID, err)
	}
	return nil
}

func (m *meals) Recent(ctx context.Context, customerID string, limit int) ([]*model.MealRecord, error) {
	out, err := query[model.MealRecord](ctx, m.docs, CollMeals, docstore.Eq("customer_id", customerID))
	if err != nil {
		return nil, err
	}
	return newestFirst(out, func(r *model.MealRecord) (string, string) { return r.Date, r.CreatedAt }, limit), nil
}

func (m *meals) ByDate(ctx context.Context, customerID, date string) ([]*model.MealRecord, error) {
	out, err := query[model.MealRecord](ctx, m.docs, CollMeals,
		docstore.Eq("customer_id", customerID), docstore.Eq("date", date))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

// --- Goals ---
type goals struct{ docs docstore.Store }

// Goals are keyed by customer id, so Put is an upsert.
func (g *goals) Get(ctx context.Context, customerID string) (*model.NutritionGoal, error) {
	out, err := get[model.NutritionGoal](ctx, g.docs, CollGoals, "nutrition goal", customerID)
	if err != nil {
		return nil, err
	}
	out.CustomerID = customerID
	return out, nil
}

func (g *goals) Put(ctx context.Context, m *model.NutritionGoal) (*model.NutritionGoal, error) {
	doc, err := toDocument(m)
	if err != nil {
		return nil, err
	}
	if err := g.docs.Put(ctx, CollGoals, m.CustomerID, doc); err != nil {
		return nil, storeErr("nutrition goal", m.CustomerID, err)
	}
	out := *m
	return &out, nil
}

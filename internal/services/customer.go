package services

import (
	"context"
	"strings"
	"time"

	"github.com/michela/coach/internal/model"
	"github.com/michela/coach/internal/store"
)

// Notes stamped on weight records written as side effects of customer changes.
const (
	NoteInitialRegistration = "初回登録"
	NoteWeightUpdate        = "体重更新"
)

const defaultWeightHistoryLimit = 10

// CustomerService manages customers and their append-only weight history.
type CustomerService struct {
	store store.Store
	now   func() time.Time
}

func NewCustomerService(s store.Store) *CustomerService {
	return &CustomerService{store: s, now: time.Now}
}

// RegisterCustomer creates a customer and records the initial weight.
func (s *CustomerService) RegisterCustomer(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if err := validateCustomer(c); err != nil {
		return nil, err
	}
	created, err := s.store.Customers().Create(ctx, c)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Weights().Add(ctx, &model.WeightRecord{
		CustomerID: created.ID,
		Weight:     created.Weight,
		RecordedAt: model.FormatTimestamp(s.now()),
		Note:       NoteInitialRegistration,
	}); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	return s.store.Customers().List(ctx)
}

func (s *CustomerService) GetCustomer(ctx context.Context, customerID string) (*model.Customer, error) {
	return s.store.Customers().Get(ctx, customerID)
}

// UpdateCustomer applies a partial update. A weight change appends a weight record.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID string, p model.CustomerPatch) (*model.Customer, error) {
	if err := validateCustomerPatch(p); err != nil {
		return nil, err
	}
	updated, err := s.store.Customers().Update(ctx, customerID, p)
	if err != nil {
		return nil, err
	}
	if p.Weight != nil {
		if _, err := s.store.Weights().Add(ctx, &model.WeightRecord{
			CustomerID: customerID,
			Weight:     *p.Weight,
			RecordedAt: model.FormatTimestamp(s.now()),
			Note:       NoteWeightUpdate,
		}); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, customerID string) error {
	if _, err := s.store.Customers().Get(ctx, customerID); err != nil {
		return err
	}
	return s.store.Customers().Delete(ctx, customerID)
}

// WeightHistory returns the newest weight records first.
func (s *CustomerService) WeightHistory(ctx context.Context, customerID string, limit int) ([]*model.WeightRecord, error) {
	if limit <= 0 {
		limit = defaultWeightHistoryLimit
	}
	return s.store.Weights().History(ctx, customerID, limit)
}

// AddWeight appends a weight record and makes it the customer's current weight.
// An empty recordedAt means now.
func (s *CustomerService) AddWeight(ctx context.Context, customerID string, weight float64, recordedAt, note string) (*model.WeightRecord, error) {
	if weight <= 0 {
		return nil, model.NewValidationError("weight", "must be positive")
	}
	at := s.now()
	if recordedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			if t, err = time.Parse(model.DateLayout, recordedAt); err != nil {
				return nil, model.NewValidationError("recorded_at", "must be an RFC 3339 timestamp or YYYY-MM-DD date")
			}
		}
		at = t
	}
	// stored in TimestampLayout so History's string order is chronological
	recordedAt = model.FormatTimestamp(at)
	if _, err := s.store.Customers().Get(ctx, customerID); err != nil {
		return nil, err
	}
	rec, err := s.store.Weights().Add(ctx, &model.WeightRecord{
		CustomerID: customerID,
		Weight:     weight,
		RecordedAt: recordedAt,
		Note:       note,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Customers().Update(ctx, customerID, model.CustomerPatch{Weight: &weight}); err != nil {
		return nil, err
	}
	return rec, nil
}

func validateCustomer(c *model.Customer) error {
	if c == nil {
		return model.NewValidationError("customer", "is required")
	}
	switch {
	case strings.TrimSpace(c.Name) == "":
		return model.NewValidationError("name", "is required")
	case c.Age <= 0:
		return model.NewValidationError("age", "must be positive")
	case c.Height <= 0:
		return model.NewValidationError("height", "must be positive")
	case c.Weight <= 0:
		return model.NewValidationError("weight", "must be positive")
	case strings.TrimSpace(c.FavoriteFood) == "":
		return model.NewValidationError("favorite_food", "is required")
	case strings.TrimSpace(c.CompletionDate) == "":
		return model.NewValidationError("completion_date", "is required")
	}
	return nil
}

func validateCustomerPatch(p model.CustomerPatch) error {
	switch {
	case p.Name != nil && strings.TrimSpace(*p.Name) == "":
		return model.NewValidationError("name", "must not be empty")
	case p.Age != nil && *p.Age <= 0:
		return model.NewValidationError("age", "must be positive")
	case p.Height != nil && *p.Height <= 0:
		return model.NewValidationError("height", "must be positive")
	case p.Weight != nil && *p.Weight <= 0:
		return model.NewValidationError("weight", "must be positive")
	}
	return nil
}

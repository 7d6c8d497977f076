package store

import (
	"context"

	"github.com/michela/coach/internal/model"
)

// Collection names used in the document store.
const (
	CollCustomers = "customers"
	CollWeights   = "weight_records"
	CollTrainings = "training_sessions"
	CollMeals     = "meal_records"
	CollGoals     = "nutrition_goals"
)

// Collections lists every collection owned by the store, in restore order.
var Collections = []string{CollCustomers, CollWeights, CollTrainings, CollMeals, CollGoals}

// Store exposes persistence operations required by services.
// It is implemented over a docstore.Store by New.
type Store interface {
	Customers() Customers
	Weights() Weights
	Trainings() Trainings
	Meals() Meals
	Goals() Goals
}

type Customers interface {
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Get(ctx context.Context, customerID string) (*model.Customer, error)
	List(ctx context.Context) ([]*model.Customer, error)
	Update(ctx context.Context, customerID string, p model.CustomerPatch) (*model.Customer, error)
	Delete(ctx context.Context, customerID string) error
}

type Weights interface {
	Add(ctx context.Context, w *model.WeightRecord) (*model.WeightRecord, error)
	// History returns records newest-first by recorded_at; limit <= 0 returns all.
	History(ctx context.Context, customerID string, limit int) ([]*model.WeightRecord, error)
}

type Trainings interface {
	Create(ctx context.Context, ts *model.TrainingSession) (*model.TrainingSession, error)
	Get(ctx context.Context, sessionID string) (*model.TrainingSession, error)
	Replace(ctx context.Context, ts *model.TrainingSession) (*model.TrainingSession, error)
	Delete(ctx context.Context, sessionID string) error
	// Recent returns sessions newest-first by date then created_at; limit <= 0 returns all.
	Recent(ctx context.Context, customerID string, limit int) ([]*model.TrainingSession, error)
}

type Meals interface {
	Create(ctx context.Context, m *model.MealRecord) (*model.MealRecord, error)
	Get(ctx context.Context, mealID string) (*model.MealRecord, error)
	Replace(ctx context.Context, m *model.MealRecord) (*model.MealRecord, error)
	Delete(ctx context.Context, mealID string) error
	// Recent returns records newest-first by date then created_at; limit <= 0 returns all.
	Recent(ctx context.Context, customerID string, limit int) ([]*model.MealRecord, error)
	ByDate(ctx context.Context, customerID, date string) ([]*model.MealRecord, error)
}

type Goals interface {
	// Get returns a NotFoundError when the customer has no stored goal.
	Get(ctx context.Context, customerID string) (*model.NutritionGoal, error)
	Put(ctx context.Context, g *model.NutritionGoal) (*model.NutritionGoal, error)
}

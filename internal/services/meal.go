package services

import (
	"context"
	"strings"
	"time"

	"github.com/michela/coach/internal/aggregate"
	"github.com/michela/coach/internal/model"
	"github.com/michela/coach/internal/store"
)

const defaultMealListLimit = 30

var foodPresets = []model.FoodPreset{
	{ID: "chicken_breast", Name: "鶏むね肉(100g)", Calories: 108, Protein: 22.3, Fat: 1.5, Carbs: 0},
	{ID: "chicken_thigh", Name: "鶏もも肉(100g)", Calories: 200, Protein: 16.2, Fat: 14.0, Carbs: 0},
	{ID: "beef", Name: "牛肉(100g)", Calories: 250, Protein: 17.1, Fat: 19.5, Carbs: 0.5},
	{ID: "pork", Name: "豚肉(100g)", Calories: 263, Protein: 17.1, Fat: 21.1, Carbs: 0.2},
	{ID: "salmon", Name: "サーモン(100g)", Calories: 133, Protein: 20.0, Fat: 5.5, Carbs: 0.1},
	{ID: "tuna", Name: "マグロ(100g)", Calories: 125, Protein: 26.4, Fat: 1.4, Carbs: 0.1},
	{ID: "egg", Name: "卵1個(60g)", Calories: 91, Protein: 7.4, Fat: 6.2, Carbs: 0.2},
	{ID: "tofu", Name: "豆腐(100g)", Calories: 72, Protein: 6.6, Fat: 4.2, Carbs: 1.6},
	{ID: "natto", Name: "納豆1パック(50g)", Calories: 100, Protein: 8.3, Fat: 5.0, Carbs: 6.1},
	{ID: "white_rice", Name: "白米1膳(150g)", Calories: 252, Protein: 3.8, Fat: 0.5, Carbs: 55.7},
	{ID: "brown_rice", Name: "玄米1膳(150g)", Calories: 248, Protein: 4.2, Fat: 1.5, Carbs: 51.3},
	{ID: "oatmeal", Name: "オートミール(50g)", Calories: 190, Protein: 6.9, Fat: 2.8, Carbs: 34.6},
	{ID: "bread", Name: "食パン1枚(60g)", Calories: 158, Protein: 5.6, Fat: 2.6, Carbs: 28.0},
	{ID: "pasta", Name: "パスタ(100g茹で)", Calories: 150, Protein: 5.2, Fat: 0.9, Carbs: 31.3},
	{ID: "sweet_potato", Name: "さつまいも(100g)", Calories: 132, Protein: 1.2, Fat: 0.2, Carbs: 31.5},
	{ID: "banana", Name: "バナナ1本(100g)", Calories: 86, Protein: 1.1, Fat: 0.2, Carbs: 22.5},
	{ID: "broccoli", Name: "ブロッコリー(100g)", Calories: 33, Protein: 4.3, Fat: 0.5, Carbs: 5.2},
	{ID: "spinach", Name: "ほうれん草(100g)", Calories: 20, Protein: 2.2, Fat: 0.4, Carbs: 3.1},
	{ID: "tomato", Name: "トマト1個(150g)", Calories: 29, Protein: 1.1, Fat: 0.2, Carbs: 5.6},
	{ID: "avocado", Name: "アボカド1/2個(60g)", Calories: 112, Protein: 1.5, Fat: 11.2, Carbs: 3.8},
	{ID: "olive_oil", Name: "オリーブオイル(大さじ1)", Calories: 111, Protein: 0, Fat: 12.6, Carbs: 0},
	{ID: "nuts", Name: "ミックスナッツ(30g)", Calories: 182, Protein: 5.4, Fat: 16.2, Carbs: 5.7},
	{ID: "protein_powder", Name: "プロテイン1杯(30g)", Calories: 116, Protein: 24.0, Fat: 1.2, Carbs: 3.6},
}

// MealService manages meal records and nutrition goals.
type MealService struct {
	store store.Store
	now   func() time.Time
}

func NewMealService(s store.Store) *MealService {
	return &MealService{store: s, now: time.Now}
}

// FoodPresets returns the selectable foods.
func (s *MealService) FoodPresets() []model.FoodPreset {
	out := make([]model.FoodPreset, len(foodPresets))
	copy(out, foodPresets)
	return out
}

// CreateMeal stores a meal with totals derived from its foods.
func (s *MealService) CreateMeal(ctx context.Context, m *model.MealRecord) (*model.MealRecord, error) {
	if err := validateMeal(m); err != nil {
		return nil, err
	}
	in := *m
	aggregate.ApplyTotals(&in)
	in.CreatedAt = model.FormatTimestamp(s.now())
	return s.store.Meals().Create(ctx, &in)
}

// ListMeals returns a customer's meals newest first, optionally bounded by an inclusive date range.
func (s *MealService) ListMeals(ctx context.Context, customerID, startDate, endDate string, limit int) ([]*model.MealRecord, error) {
	for field, v := range map[string]string{"start_date": startDate, "end_date": endDate} {
		if v != "" {
			if err := validateDate(field, v); err != nil {
				return nil, err
			}
		}
	}
	if limit <= 0 {
		limit = defaultMealListLimit
	}
	all, err := s.store.Meals().Recent(ctx, customerID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]*model.MealRecord, 0, len(all))
	for _, m := range all {
		if startDate != "" && m.Date < startDate {
			continue
		}
		if endDate != "" && m.Date > endDate {
			continue
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MealService) GetMeal(ctx context.Context, mealID string) (*model.MealRecord, error) {
	return s.store.Meals().Get(ctx, mealID)
}

// UpdateMeal applies a partial update; totals are recomputed whenever foods change.
func (s *MealService) UpdateMeal(ctx context.Context, mealID string, p model.MealPatch) (*model.MealRecord, error) {
	m, err := s.store.Meals().Get(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.MealType != nil {
		m.MealType = *p.MealType
	}
	if p.Foods != nil {
		m.Foods = p.Foods
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
	if p.PhotoURL != nil {
		m.PhotoURL = *p.PhotoURL
	}
	if err := validateMeal(m); err != nil {
		return nil, err
	}
	aggregate.ApplyTotals(m)
	return s.store.Meals().Replace(ctx, m)
}

func (s *MealService) DeleteMeal(ctx context.Context, mealID string) error {
	if _, err := s.store.Meals().Get(ctx, mealID); err != nil {
		return err
	}
	return s.store.Meals().Delete(ctx, mealID)
}

// DailyNutrition totals a customer's meals for one date. No meals yields zeros.
func (s *MealService) DailyNutrition(ctx context.Context, customerID, date string) (model.DailyNutrition, error) {
	if err := validateDate("date", date); err != nil {
		return model.DailyNutrition{}, err
	}
	meals, err := s.store.Meals().ByDate(ctx, customerID, date)
	if err != nil {
		return model.DailyNutrition{}, err
	}
	return aggregate.DailySummary(date, meals), nil
}

// NutritionGoal returns the stored goal or the default one, which is not persisted.
func (s *MealService) NutritionGoal(ctx context.Context, customerID string) (*model.NutritionGoal, error) {
	g, err := s.store.Goals().Get(ctx, customerID)
	if model.IsNotFoundError(err) {
		def := model.DefaultNutritionGoal(customerID)
		return &def, nil
	}
	return g, err
}

// SetNutritionGoal upserts a customer's goal; omitted targets take the default value.
func (s *MealService) SetNutritionGoal(ctx context.Context, customerID string, in model.NutritionGoalInput) (*model.NutritionGoal, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, model.NewValidationError("customer_id", "is required")
	}
	g := model.DefaultNutritionGoal(customerID)
	for _, t := range []struct {
		field string
		in    *float64
		out   *float64
	}{
		{"target_calories", in.TargetCalories, &g.TargetCalories},
		{"target_protein", in.TargetProtein, &g.TargetProtein},
		{"target_fat", in.TargetFat, &g.TargetFat},
		{"target_carbs", in.TargetCarbs, &g.TargetCarbs},
	} {
		if t.in == nil {
			continue
		}
		if *t.in < 0 {
			return nil, model.NewValidationError(t.field, "must not be negative")
		}
		*t.out = *t.in
	}
	g.UpdatedAt = model.FormatTimestamp(s.now())
	return s.store.Goals().Put(ctx, &g)
}

func validateMeal(m *model.MealRecord) error {
	if m == nil {
		return model.NewValidationError("meal", "is required")
	}
	if strings.TrimSpace(m.CustomerID) == "" {
		return model.NewValidationError("customer_id", "is required")
	}
	if err := validateDate("date", m.Date); err != nil {
		return err
	}
	if !m.MealType.Valid() {
		return model.NewValidationError("meal_type", "must be one of breakfast, lunch, dinner, snack")
	}
	if m.Foods == nil {
		return model.NewValidationError("foods", "is required")
	}
	for _, f := range m.Foods {
		if f.Quantity < 0 || f.Calories < 0 || f.Protein < 0 || f.Fat < 0 || f.Carbs < 0 {
			return model.NewValidationError("foods", "quantity and macros must not be negative")
		}
	}
	return nil
}

package model

import "time"

// TimestampLayout is the fixed-width layout used for stored timestamps so that
// lexicographic order matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// DateLayout is the ISO calendar date used by training and meal records.
const DateLayout = "2006-01-02"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string { return t.UTC().Format(TimestampLayout) }

// Customer is a coached person.
type Customer struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	Height         float64 `json:"height"`
	Weight         float64 `json:"weight"`
	FavoriteFood   string  `json:"favorite_food"`
	CompletionDate string  `json:"completion_date"`
}

// CustomerPatch carries the fields of a partial customer update. Nil fields are left untouched.
type CustomerPatch struct {
	Name           *string  `json:"name,omitempty"`
	Age            *int     `json:"age,omitempty"`
	Height         *float64 `json:"height,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	FavoriteFood   *string  `json:"favorite_food,omitempty"`
	CompletionDate *string  `json:"completion_date,omitempty"`
}

// WeightRecord is an append-only body weight measurement.
type WeightRecord struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	Weight     float64 `json:"weight"`
	RecordedAt string  `json:"recorded_at"`
	Note       string  `json:"note"`
}

// Set is one set of an exercise.
type Set struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// Exercise is an exercise performed in a session; Sets keep display order.
type Exercise struct {
	ExerciseID   string `json:"exercise_id"`
	ExerciseName string `json:"exercise_name"`
	Sets         []Set  `json:"sets"`
}

// TrainingSession is one workout of a customer.
type TrainingSession struct {
	ID              string     `json:"id"`
	CustomerID      string     `json:"customer_id"`
	Date            string     `json:"date"`
	Exercises       []Exercise `json:"exercises"`
	Notes           string     `json:"notes"`
	DurationMinutes int        `json:"duration_minutes"`
	CreatedAt       string     `json:"created_at"`
}

// ExerciseHistoryItem is one occurrence of an exercise across sessions.
type ExerciseHistoryItem struct {
	SessionID string   `json:"session_id"`
	Date      string   `json:"date"`
	Exercise  Exercise `json:"exercise"`
}

// MealType enumerates meals of a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// Valid reports whether t is a known meal type.
func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Food is one food item of a meal. Macros are per unit of Quantity.
type Food struct {
	FoodID   string  `json:"food_id,omitempty"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount,omitempty"`
	Unit     string  `json:"unit,omitempty"`
	Quantity float64 `json:"quantity,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Multiplier returns the quantity a food's macros are scaled by; an unset quantity counts as one.
func (f Food) Multiplier() float64 {
	if f.Quantity == 0 {
		return 1
	}
	return f.Quantity
}

// MealRecord is a logged meal. Totals are derived from Foods and recomputed whenever Foods change.
type MealRecord struct {
	ID            string   `json:"id"`
	CustomerID    string   `json:"customer_id"`
	Date          string   `json:"date"`
	MealType      MealType `json:"meal_type"`
	Foods         []Food   `json:"foods"`
	TotalCalories float64  `json:"total_calories"`
	TotalProtein  float64  `json:"total_protein"`
	TotalFat      float64  `json:"total_fat"`
	TotalCarbs    float64  `json:"total_carbs"`
	Notes         string   `json:"notes"`
	PhotoURL      string   `json:"photo_url,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

// MealPatch carries the fields of a partial meal update.
type MealPatch struct {
	Date     *string   `json:"date,omitempty"`
	MealType *MealType `json:"meal_type,omitempty"`
	Foods    []Food    `json:"foods,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
	PhotoURL *string   `json:"photo_url,omitempty"`
}

// NutritionGoal holds the daily targets of one customer.
type NutritionGoal struct {
	CustomerID     string  `json:"customer_id"`
	TargetCalories float64 `json:"target_calories"`
	TargetProtein  float64 `json:"target_protein"`
	TargetFat      float64 `json:"target_fat"`
	TargetCarbs    float64 `json:"target_carbs"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

// DefaultNutritionGoal is returned, never persisted, for customers without a goal.
func DefaultNutritionGoal(customerID string) NutritionGoal {
	return NutritionGoal{
		CustomerID:     customerID,
		TargetCalories: 2000,
		TargetProtein:  150,
		TargetFat:      60,
		TargetCarbs:    200,
	}
}

// NutritionGoalInput carries the targets of a goal update; nil targets take the default value.
type NutritionGoalInput struct {
	TargetCalories *float64 `json:"target_calories,omitempty"`
	TargetProtein  *float64 `json:"target_protein,omitempty"`
	TargetFat      *float64 `json:"target_fat,omitempty"`
	TargetCarbs    *float64 `json:"target_carbs,omitempty"`
}

// DailyNutrition is the macro total of one customer's meals on one date.
type DailyNutrition struct {
	Date          string  `json:"date"`
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalFat      float64 `json:"total_fat"`
	TotalCarbs    float64 `json:"total_carbs"`
	MealCount     int     `json:"meal_count"`
}

// ExercisePreset is a selectable exercise.
type ExercisePreset struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}

// FoodPreset is a selectable food with macros per serving.
type FoodPreset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Advice is the response of the advice and chat endpoints.
type Advice struct {
	Advice      string     `json:"advice"`
	IsCached    bool       `json:"is_cached"`
	CachedUntil *time.Time `json:"cached_until,omitempty"`
}

// ResearchArticle is one row of a research search page.
type ResearchArticle struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Date    string `json:"date"`
	URL     string `json:"url"`
}

// ResearchSearchResult is one page of research search results.
type ResearchSearchResult struct {
	Results         []ResearchArticle `json:"results"`
	TranslatedQuery string            `json:"translated_query"`
	SearchQuery     string            `json:"search_query"`
	Count           int               `json:"count"`
	Offset          int               `json:"offset"`
	DisplayedCount  int               `json:"displayed_count"`
}

// LatestResearch is the cached "latest research" listing.
type LatestResearch struct {
	Articles []ResearchArticle `json:"articles"`
	CachedAt time.Time         `json:"cached_at"`
}

// ResearchSummary is an AI summary of one article.
type ResearchSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

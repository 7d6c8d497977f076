package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindsSurviveWrapping(t *testing.T) {
	cause := errors.New("deadline exceeded")
	cases := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"validation", NewValidationError("date", "required"), IsValidationError},
		{"not found", NewNotFoundError("customer", "c1"), IsNotFoundError},
		{"upstream", NewUpstreamError("llm", cause), IsUpstreamError},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("handler: %w", tc.err)
		if !tc.is(wrapped) {
			t.Fatalf("%s: wrapped error not recognised", tc.name)
		}
	}
	if IsNotFoundError(NewValidationError("x", "y")) {
		t.Fatalf("validation error must not be a not-found error")
	}
	if !errors.Is(NewUpstreamError("llm", cause), cause) {
		t.Fatalf("upstream error must unwrap to its cause")
	}
}

func TestDefaultNutritionGoal(t *testing.T) {
	g := DefaultNutritionGoal("c1")
	if g.CustomerID != "c1" || g.TargetCalories != 2000 || g.TargetProtein != 150 || g.TargetFat != 60 || g.TargetCarbs != 200 {
		t.Fatalf("unexpected default goal: %+v", g)
	}
}

func TestMealTypeValid(t *testing.T) {
	for _, mt := range []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack} {
		if !mt.Valid() {
			t.Fatalf("%s should be valid", mt)
		}
	}
	if MealType("brunch").Valid() {
		t.Fatalf("brunch should be invalid")
	}
}

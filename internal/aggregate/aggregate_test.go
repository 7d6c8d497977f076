package aggregate

import (
	"math"
	"testing"

	"github.com/michela/coach/internal/model"
)

func TestOneRepMax(t *testing.T) {
	if got := OneRepMax(100, 1); got != 100 {
		t.Fatalf("OneRepMax(100,1) = %v, want 100", got)
	}
	if got := OneRepMax(100, 10); math.Abs(got-133.333333) > 0.001 {
		t.Fatalf("OneRepMax(100,10) = %v, want ~133.33", got)
	}
	ex := model.Exercise{Sets: []model.Set{{Reps: 1, Weight: 120}, {Reps: 10, Weight: 100}}}
	if got := BestOneRepMax(ex); math.Abs(got-133.333333) > 0.001 {
		t.Fatalf("BestOneRepMax = %v", got)
	}
}

func TestMealTotalsUsesQuantity(t *testing.T) {
	foods := []model.Food{
		{Name: "egg", Calories: 80, Protein: 6, Fat: 5, Carbs: 1, Quantity: 2},
		{Name: "toast", Calories: 120, Protein: 4, Fat: 2, Carbs: 22},
	}
	got := MealTotals(foods)
	if got.Calories != 280 || got.Protein != 16 || got.Fat != 12 || got.Carbs != 24 {
		t.Fatalf("unexpected totals: %+v", got)
	}

	m := &model.MealRecord{Foods: foods, TotalCalories: 1}
	ApplyTotals(m)
	if m.TotalCalories != 280 || m.TotalCarbs != 24 {
		t.Fatalf("ApplyTotals did not recompute: %+v", m)
	}
}

func TestDailyRollupAndAverage(t *testing.T) {
	if got := DailyRollup(nil); len(got) != 0 {
		t.Fatalf("empty rollup must be empty, got %v", got)
	}
	if avg := Average(map[string]Totals{}, 7); avg != (Totals{}) {
		t.Fatalf("average of nothing must be zero, got %+v", avg)
	}

	meals := []*model.MealRecord{
		{Date: "2024-05-01", TotalCalories: 500, TotalProtein: 30},
		{Date: "2024-05-01", TotalCalories: 700, TotalProtein: 40},
		{Date: "2024-05-02", TotalCalories: 1800, TotalProtein: 100},
		{Date: "2024-04-30", TotalCalories: 9999, TotalProtein: 999},
	}
	roll := DailyRollup(meals)
	if roll["2024-05-01"].Calories != 1200 || roll["2024-05-01"].MealCount != 2 {
		t.Fatalf("unexpected rollup: %+v", roll["2024-05-01"])
	}

	dates := RecentDates(roll, 2)
	if len(dates) != 2 || dates[0] != "2024-05-02" || dates[1] != "2024-05-01" {
		t.Fatalf("unexpected recent dates: %v", dates)
	}
	avg := Average(roll, 2)
	if avg.Calories != 1500 || avg.Protein != 85 {
		t.Fatalf("unexpected average: %+v", avg)
	}
	if all := Average(roll, 7); all.MealCount != 4 {
		t.Fatalf("average over fewer dates than n should use all dates: %+v", all)
	}
}

func TestDailySummary(t *testing.T) {
	empty := DailySummary("2024-05-01", nil)
	want := model.DailyNutrition{Date: "2024-05-01"}
	if empty != want {
		t.Fatalf("empty summary = %+v, want zeros", empty)
	}

	got := DailySummary("2024-05-01", []*model.MealRecord{
		{Date: "2024-05-01", TotalCalories: 100.04, TotalProtein: 10.26},
		{Date: "2024-05-01", TotalCalories: 200.02},
		{Date: "2024-05-02", TotalCalories: 999},
	})
	if got.TotalCalories != 300.1 || got.TotalProtein != 10.3 || got.MealCount != 2 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestSummarizeSession(t *testing.T) {
	ts := &model.TrainingSession{Exercises: []model.Exercise{
		{ExerciseID: "squat", ExerciseName: "Squat", Sets: []model.Set{{Reps: 5, Weight: 100}, {Reps: 3, Weight: 110}, {Reps: 8, Weight: 90}}},
		{ExerciseID: "plank", ExerciseName: "Plank"},
	}}
	got := SummarizeSession(ts)
	if len(got) != 2 {
		t.Fatalf("want 2 stats, got %d", len(got))
	}
	if got[0].MaxWeight != 110 || got[0].SetCount != 3 {
		t.Fatalf("unexpected squat stat: %+v", got[0])
	}
	if got[1].MaxWeight != 0 || got[1].SetCount != 0 {
		t.Fatalf("unexpected plank stat: %+v", got[1])
	}
}

func TestWholeRoundsHalfToEven(t *testing.T) {
	cases := map[float64]float64{0.5: 0, 1.5: 2, 2.5: 2, 2.6: 3}
	for in, want := range cases {
		if got := Whole(in); got != want {
			t.Fatalf("Whole(%v) = %v, want %v", in, got, want)
		}
	}
}

// Package aggregate folds raw training and meal records into compact summaries.
// Every function is pure.
package aggregate

import (
	"math"
	"sort"

	"github.com/michela/coach/internal/model"
)

// Totals are the macro sums of a set of meals.
type Totals struct {
	Calories  float64
	Protein   float64
	Fat       float64
	Carbs     float64
	MealCount int
}

// MealTotals sums macro×quantity across foods.
func MealTotals(foods []model.Food) Totals {
	var t Totals
	for _, f := range foods {
		q := f.Multiplier()
		t.Calories += f.Calories * q
		t.Protein += f.Protein * q
		t.Fat += f.Fat * q
		t.Carbs += f.Carbs * q
	}
	return t
}

// ApplyTotals recomputes the derived totals of m from its foods.
func ApplyTotals(m *model.MealRecord) {
	t := MealTotals(m.Foods)
	m.TotalCalories = t.Calories
	m.TotalProtein = t.Protein
	m.TotalFat = t.Fat
	m.TotalCarbs = t.Carbs
}

// DailyRollup groups meals by date. Zero meals yield an empty map.
func DailyRollup(meals []*model.MealRecord) map[string]Totals {
	out := make(map[string]Totals)
	for _, m := range meals {
		t := out[m.Date]
		t.Calories += m.TotalCalories
		t.Protein += m.TotalProtein
		t.Fat += m.TotalFat
		t.Carbs += m.TotalCarbs
		t.MealCount++
		out[m.Date] = t
	}
	return out
}

// RecentDates returns up to n dates of rollup, newest first. ISO dates sort as strings.
func RecentDates(rollup map[string]Totals, n int) []string {
	dates := make([]string, 0, len(rollup))
	for d := range rollup {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if n >= 0 && len(dates) > n {
		dates = dates[:n]
	}
	return dates
}

// Average is the per-day mean of the n most recent dates of rollup; all zero when empty.
func Average(rollup map[string]Totals, n int) Totals {
	dates := RecentDates(rollup, n)
	if len(dates) == 0 {
		return Totals{}
	}
	var sum Totals
	for _, d := range dates {
		t := rollup[d]
		sum.Calories += t.Calories
		sum.Protein += t.Protein
		sum.Fat += t.Fat
		sum.Carbs += t.Carbs
		sum.MealCount += t.MealCount
	}
	k := float64(len(dates))
	return Totals{
		Calories:  sum.Calories / k,
		Protein:   sum.Protein / k,
		Fat:       sum.Fat / k,
		Carbs:     sum.Carbs / k,
		MealCount: sum.MealCount,
	}
}

// DailySummary totals the meals of one date, rounded to one decimal.
func DailySummary(date string, meals []*model.MealRecord) model.DailyNutrition {
	out := model.DailyNutrition{Date: date}
	for _, m := range meals {
		if m.Date != date {
			continue
		}
		out.TotalCalories += m.TotalCalories
		out.TotalProtein += m.TotalProtein
		out.TotalFat += m.TotalFat
		out.TotalCarbs += m.TotalCarbs
		out.MealCount++
	}
	out.TotalCalories = round1(out.TotalCalories)
	out.TotalProtein = round1(out.TotalProtein)
	out.TotalFat = round1(out.TotalFat)
	out.TotalCarbs = round1(out.TotalCarbs)
	return out
}

// Whole rounds half to even at zero decimals, the rounding used in prompt text.
func Whole(v float64) float64 { return math.RoundToEven(v) }

func round1(v float64) float64 { return math.RoundToEven(v*10) / 10 }

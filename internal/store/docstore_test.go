package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michela/coach/internal/docstore/memory"
	"github.com/michela/coach/internal/model"
)

func TestTrainingsRecent_NewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New())

	sessions := []model.TrainingSession{
		{CustomerID: "c1", Date: "2024-05-01", CreatedAt: "2024-05-01T08:00:00.000000Z"},
		{CustomerID: "c1", Date: "2024-05-03", CreatedAt: "2024-05-03T08:00:00.000000Z"},
		{CustomerID: "c1", Date: "2024-05-03", CreatedAt: "2024-05-03T19:00:00.000000Z"},
		{CustomerID: "c1", Date: "2024-05-02", CreatedAt: "2024-05-02T08:00:00.000000Z"},
		{CustomerID: "c2", Date: "2024-06-01", CreatedAt: "2024-06-01T08:00:00.000000Z"},
	}
	for i := range sessions {
		_, err := s.Trainings().Create(ctx, &sessions[i])
		require.NoError(t, err)
	}

	got, err := s.Trainings().Recent(ctx, "c1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-05-03T19:00:00.000000Z", got[0].CreatedAt)
	assert.Equal(t, "2024-05-03T08:00:00.000000Z", got[1].CreatedAt)
	assert.Equal(t, "2024-05-02", got[2].Date)
	for _, ts := range got {
		assert.Equal(t, "c1", ts.CustomerID)
		assert.NotEmpty(t, ts.ID)
	}

	all, err := s.Trainings().Recent(ctx, "c1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := s.Trainings().Recent(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTrainingsReplaceKeepsExerciseOrder(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New())

	created, err := s.Trainings().Create(ctx, &model.TrainingSession{
		CustomerID: "c1",
		Date:       "2024-05-01",
		Exercises: []model.Exercise{
			{ExerciseID: "squat", ExerciseName: "Squat", Sets: []model.Set{{Reps: 5, Weight: 100}, {Reps: 5, Weight: 105}}},
		},
	})
	require.NoError(t, err)

	created.Exercises = append(created.Exercises, model.Exercise{ExerciseID: "bench", ExerciseName: "Bench", Sets: []model.Set{{Reps: 8, Weight: 60}}})
	_, err = s.Trainings().Replace(ctx, created)
	require.NoError(t, err)

	got, err := s.Trainings().Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Exercises, 2)
	assert.Equal(t, "squat", got.Exercises[0].ExerciseID)
	assert.Equal(t, 105.0, got.Exercises[0].Sets[1].Weight)
	assert.Equal(t, "bench", got.Exercises[1].ExerciseID)

	_, err = s.Trainings().Replace(ctx, &model.TrainingSession{ID: "missing"})
	assert.True(t, model.IsNotFoundError(err))
}

func TestCustomersUpdateAppliesPatch(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New())

	c, err := s.Customers().Create(ctx, &model.Customer{Name: "Aki", Age: 30, Height: 170, Weight: 65})
	require.NoError(t, err)

	w := 63.5
	got, err := s.Customers().Update(ctx, c.ID, model.CustomerPatch{Weight: &w})
	require.NoError(t, err)
	assert.Equal(t, 63.5, got.Weight)
	assert.Equal(t, "Aki", got.Name)
	assert.Equal(t, 30, got.Age)

	_, err = s.Customers().Get(ctx, "missing")
	assert.True(t, model.IsNotFoundError(err))
	_, err = s.Customers().Update(ctx, "missing", model.CustomerPatch{Weight: &w})
	assert.True(t, model.IsNotFoundError(err))
}

func TestWeightsHistorySortedInProcess(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New())

	for _, r := range []model.WeightRecord{
		{CustomerID: "c1", Weight: 70, RecordedAt: "2024-01-01T00:00:00.000000Z"},
		{CustomerID: "c1", Weight: 68, RecordedAt: "2024-03-01T00:00:00.000000Z"},
		{CustomerID: "c1", Weight: 69, RecordedAt: "2024-02-01T00:00:00.000000Z"},
	} {
		_, err := s.Weights().Add(ctx, &r)
		require.NoError(t, err)
	}

	got, err := s.Weights().History(ctx, "c1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 68.0, got[0].Weight)
	assert.Equal(t, 69.0, got[1].Weight)
}

func TestMealsByDateAndGoals(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New())

	for _, m := range []model.MealRecord{
		{CustomerID: "c1", Date: "2024-05-01", MealType: model.MealLunch, CreatedAt: "2024-05-01T12:00:00.000000Z"},
		{CustomerID: "c1", Date: "2024-05-01", MealType: model.MealBreakfast, CreatedAt: "2024-05-01T07:00:00.000000Z"},
		{CustomerID: "c1", Date: "2024-05-02", MealType: model.MealDinner},
	} {
		_, err := s.Meals().Create(ctx, &m)
		require.NoError(t, err)
	}
	got, err := s.Meals().ByDate(ctx, "c1", "2024-05-01")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.MealBreakfast, got[0].MealType)

	_, err = s.Goals().Get(ctx, "c1")
	assert.True(t, model.IsNotFoundError(err))

	_, err = s.Goals().Put(ctx, &model.NutritionGoal{CustomerID: "c1", TargetCalories: 1800})
	require.NoError(t, err)
	_, err = s.Goals().Put(ctx, &model.NutritionGoal{CustomerID: "c1", TargetCalories: 2100, TargetProtein: 160})
	require.NoError(t, err)
	goal, err := s.Goals().Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2100.0, goal.TargetCalories)
	assert.Equal(t, 160.0, goal.TargetProtein)
}

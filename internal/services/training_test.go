package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michela/coach/internal/model"
)

func benchSession(customerID, date string, weights ...float64) *model.TrainingSession {
	sets := make([]model.Set, 0, len(weights))
	for _, w := range weights {
		sets = append(sets, model.Set{Reps: 8, Weight: w})
	}
	return &model.TrainingSession{
		CustomerID:      customerID,
		Date:            date,
		DurationMinutes: 45,
		Exercises: []model.Exercise{
			{ExerciseID: "bench_press", ExerciseName: "ベンチプレス", Sets: sets},
		},
	}
}

func TestTrainingSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewTrainingService(newStore())
	svc.now = newClock().Now

	created, err := svc.CreateSession(ctx, benchSession("c1", "2024-05-01", 60, 62.5))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "2024-05-01T12:00:00.000000Z", created.CreatedAt)

	repl := benchSession("", "2024-05-02", 70)
	repl.Notes = "heavy day"
	updated, err := svc.UpdateSession(ctx, created.ID, repl)
	require.NoError(t, err)
	assert.Equal(t, "c1", updated.CustomerID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "2024-05-02", updated.Date)

	got, err := svc.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "heavy day", got.Notes)
	require.Len(t, got.Exercises[0].Sets, 1)

	require.NoError(t, svc.DeleteSession(ctx, created.ID))
	_, err = svc.GetSession(ctx, created.ID)
	assert.True(t, model.IsNotFoundError(err))
	assert.True(t, model.IsNotFoundError(svc.DeleteSession(ctx, created.ID)))

	_, err = svc.UpdateSession(ctx, created.ID, nil)
	assert.True(t, model.IsValidationError(err))
}

func TestCreateSessionValidation(t *testing.T) {
	svc := NewTrainingService(newStore())
	_, err := svc.CreateSession(context.Background(), benchSession("c1", "May 1", 60))
	assert.True(t, model.IsValidationError(err))

	bad := benchSession("c1", "2024-05-01", -5)
	_, err = svc.CreateSession(context.Background(), bad)
	assert.True(t, model.IsValidationError(err))
}

func TestExerciseHistory(t *testing.T) {
	ctx := context.Background()
	svc := NewTrainingService(newStore())
	for _, d := range []string{"2024-05-01", "2024-05-03", "2024-05-05"} {
		_, err := svc.CreateSession(ctx, benchSession("c1", d, 60))
		require.NoError(t, err)
	}
	_, err := svc.CreateSession(ctx, &model.TrainingSession{
		CustomerID: "c1",
		Date:       "2024-05-04",
		Exercises:  []model.Exercise{{ExerciseID: "squat", Sets: []model.Set{{Reps: 5, Weight: 100}}}},
	})
	require.NoError(t, err)

	hist, err := svc.ExerciseHistory(ctx, "c1", "bench_press", 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "2024-05-05", hist[0].Date)
	assert.Equal(t, "2024-05-03", hist[1].Date)
	assert.Equal(t, "bench_press", hist[0].Exercise.ExerciseID)

	none, err := svc.ExerciseHistory(ctx, "c1", "deadlift", 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.ExerciseHistory(ctx, "c1", "", 0)
	assert.True(t, model.IsValidationError(err))
}

func TestListSessionsDefaultLimit(t *testing.T) {
	ctx := context.Background()
	svc := NewTrainingService(newStore())
	for i := 1; i <= 25; i++ {
		d := "2024-05-" + twoDigits(i)
		_, err := svc.CreateSession(ctx, benchSession("c1", d, 60))
		require.NoError(t, err)
	}
	got, err := svc.ListSessions(ctx, "c1", 0)
	require.NoError(t, err)
	require.Len(t, got, 20)
	assert.Equal(t, "2024-05-25", got[0].Date)
}

func twoDigits(i int) string {
	return string([]byte{byte('0' + i/10), byte('0' + i%10)})
}

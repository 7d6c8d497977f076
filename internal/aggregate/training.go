package aggregate

import "github.com/michela/coach/internal/model"

// ExerciseStat is the heaviest set and set count of one exercise in a session.
type ExerciseStat struct {
	ExerciseID   string
	ExerciseName string
	MaxWeight    float64
	SetCount     int
}

// SummarizeSession returns one stat per exercise, in session order.
func SummarizeSession(ts *model.TrainingSession) []ExerciseStat {
	out := make([]ExerciseStat, 0, len(ts.Exercises))
	for _, ex := range ts.Exercises {
		st := ExerciseStat{ExerciseID: ex.ExerciseID, ExerciseName: ex.ExerciseName, SetCount: len(ex.Sets)}
		for i, s := range ex.Sets {
			if i == 0 || s.Weight > st.MaxWeight {
				st.MaxWeight = s.Weight
			}
		}
		out = append(out, st)
	}
	return out
}

// OneRepMax estimates a one-repetition maximum with the Epley formula.
func OneRepMax(weight float64, reps int) float64 {
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}

// BestOneRepMax is the highest Epley estimate across the sets of an exercise.
func BestOneRepMax(ex model.Exercise) float64 {
	best := 0.0
	for _, s := range ex.Sets {
		if v := OneRepMax(s.Weight, s.Reps); v > best {
			best = v
		}
	}
	return best
}

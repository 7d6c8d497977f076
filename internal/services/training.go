package services

import (
	"context"
	"strings"
	"time"

	"github.com/michela/coach/internal/model"
	"github.com/michela/coach/internal/store"
)

const (
	defaultSessionListLimit     = 20
	defaultExerciseHistoryLimit = 10
)

var exercisePresets = []model.ExercisePreset{
	{ID: "bench_press", Name: "ベンチプレス", Category: "chest", Unit: "kg"},
	{ID: "squat", Name: "スクワット", Category: "legs", Unit: "kg"},
	{ID: "deadlift", Name: "デッドリフト", Category: "back", Unit: "kg"},
	{ID: "shoulder_press", Name: "ショルダープレス", Category: "shoulders", Unit: "kg"},
	{ID: "barbell_row", Name: "バーベルロウ", Category: "back", Unit: "kg"},
	{ID: "pull_up", Name: "懸垂", Category: "back", Unit: "回"},
	{ID: "dip", Name: "ディップス", Category: "chest", Unit: "回"},
	{ID: "lat_pulldown", Name: "ラットプルダウン", Category: "back", Unit: "kg"},
	{ID: "leg_press", Name: "レッグプレス", Category: "legs", Unit: "kg"},
	{ID: "leg_extension", Name: "レッグエクステンション", Category: "legs", Unit: "kg"},
	{ID: "leg_curl", Name: "レッグカール", Category: "legs", Unit: "kg"},
	{ID: "bicep_curl", Name: "バイセプスカール", Category: "arms", Unit: "kg"},
	{ID: "tricep_extension", Name: "トライセプスエクステンション", Category: "arms", Unit: "kg"},
	{ID: "cable_fly", Name: "ケーブルフライ", Category: "chest", Unit: "kg"},
	{ID: "side_raise", Name: "サイドレイズ", Category: "shoulders", Unit: "kg"},
}

// TrainingService manages training sessions.
type TrainingService struct {
	store store.Store
	now   func() time.Time
}

func NewTrainingService(s store.Store) *TrainingService {
	return &TrainingService{store: s, now: time.Now}
}

// ExercisePresets returns the selectable exercises.
func (s *TrainingService) ExercisePresets() []model.ExercisePreset {
	out := make([]model.ExercisePreset, len(exercisePresets))
	copy(out, exercisePresets)
	return out
}

func (s *TrainingService) CreateSession(ctx context.Context, ts *model.TrainingSession) (*model.TrainingSession, error) {
	if err := validateSession(ts); err != nil {
		return nil, err
	}
	in := *ts
	in.CreatedAt = model.FormatTimestamp(s.now())
	return s.store.Trainings().Create(ctx, &in)
}

// ListSessions returns the newest sessions first; limit <= 0 uses the default page size.
func (s *TrainingService) ListSessions(ctx context.Context, customerID string, limit int) ([]*model.TrainingSession, error) {
	if limit <= 0 {
		limit = defaultSessionListLimit
	}
	return s.store.Trainings().Recent(ctx, customerID, limit)
}

func (s *TrainingService) GetSession(ctx context.Context, sessionID string) (*model.TrainingSession, error) {
	return s.store.Trainings().Get(ctx, sessionID)
}

// UpdateSession replaces the whole session. Owner and creation time are kept when omitted.
func (s *TrainingService) UpdateSession(ctx context.Context, sessionID string, ts *model.TrainingSession) (*model.TrainingSession, error) {
	if ts == nil {
		return nil, model.NewValidationError("session", "is required")
	}
	existing, err := s.store.Trainings().Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	in := *ts
	in.ID = sessionID
	if in.CustomerID == "" {
		in.CustomerID = existing.CustomerID
	}
	if in.CreatedAt == "" {
		in.CreatedAt = existing.CreatedAt
	}
	if err := validateSession(&in); err != nil {
		return nil, err
	}
	return s.store.Trainings().Replace(ctx, &in)
}

func (s *TrainingService) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.store.Trainings().Get(ctx, sessionID); err != nil {
		return err
	}
	return s.store.Trainings().Delete(ctx, sessionID)
}

// ExerciseHistory returns the occurrences of one exercise across a customer's sessions, newest first.
func (s *TrainingService) ExerciseHistory(ctx context.Context, customerID, exerciseID string, limit int) ([]model.ExerciseHistoryItem, error) {
	if exerciseID == "" {
		return nil, model.NewValidationError("exercise_id", "is required")
	}
	if limit <= 0 {
		limit = defaultExerciseHistoryLimit
	}
	sessions, err := s.store.Trainings().Recent(ctx, customerID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]model.ExerciseHistoryItem, 0)
	for _, ts := range sessions {
		for _, ex := range ts.Exercises {
			if ex.ExerciseID != exerciseID {
				continue
			}
			out = append(out, model.ExerciseHistoryItem{SessionID: ts.ID, Date: ts.Date, Exercise: ex})
			break
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func validateSession(ts *model.TrainingSession) error {
	if ts == nil {
		return model.NewValidationError("session", "is required")
	}
	if strings.TrimSpace(ts.CustomerID) == "" {
		return model.NewValidationError("customer_id", "is required")
	}
	if err := validateDate("date", ts.Date); err != nil {
		return err
	}
	if ts.Exercises == nil {
		return model.NewValidationError("exercises", "is required")
	}
	for _, ex := range ts.Exercises {
		if ex.ExerciseID == "" && ex.ExerciseName == "" {
			return model.NewValidationError("exercises", "each exercise needs an exercise_id or exercise_name")
		}
		for _, set := range ex.Sets {
			if set.Reps < 0 || set.Weight < 0 {
				return model.NewValidationError("sets", "reps and weight must not be negative")
			}
		}
	}
	return nil
}

func validateDate(field, v string) error {
	if v == "" {
		return model.NewValidationError(field, "is required")
	}
	if _, err := time.Parse(model.DateLayout, v); err != nil {
		return model.NewValidationError(field, "must be a YYYY-MM-DD date")
	}
	return nil
}

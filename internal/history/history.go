// Package history reads completed workouts back out of the record store and
// summarizes them.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/catalog"
	"github.com/claude/pushpull/internal/models"
)

// Store is the subset of the record store used for history.
type Store interface {
	ListCompletedWorkouts(ctx context.Context) ([]models.Workout, error)
	GetLastWorkoutByType(ctx context.Context, wt models.WorkoutType) (*models.Workout, error)
	GetWorkout(ctx context.Context, id string) (*models.Workout, error)
	GetWorkoutSets(ctx context.Context, workoutID string) ([]models.WorkoutSet, error)
	DeleteWorkout(ctx context.Context, id string) error
}

// ExerciseSummary is the sets and volume of one exercise in a workout.
type ExerciseSummary struct {
	ExerciseID string              `json:"exercise_id"`
	Name       string              `json:"name"`
	Sets       []models.WorkoutSet `json:"sets"`
	Volume     float64             `json:"volume"`
}

// Summary groups a workout's sets by exercise.
type Summary struct {
	Exercises   []ExerciseSummary `json:"exercises"`
	TotalSets   int               `json:"total_sets"`
	TotalVolume float64           `json:"total_volume"`
}

// Detail is a workout with its summarized sets.
type Detail struct {
	Workout models.Workout `json:"workout"`
	Summary
}

// LastDates holds the date of the most recent completed workout per type.
type LastDates struct {
	Push *time.Time `json:"push,omitempty"`
	Pull *time.Time `json:"pull,omitempty"`
}

// Summarize groups sets by exercise in order of first completion, sorts each
// group by set number and totals volume (weight × reps).
func Summarize(sets []models.WorkoutSet) Summary {
	ordered := append([]models.WorkoutSet(nil), sets...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CompletedAt.Before(ordered[j].CompletedAt)
	})

	sum := Summary{Exercises: []ExerciseSummary{}, TotalSets: len(sets)}
	index := make(map[string]int)
	for _, s := range ordered {
		i, ok := index[s.ExerciseID]
		if !ok {
			name := s.ExerciseID
			if tmpl, found := catalog.Lookup(s.ExerciseID); found {
				name = tmpl.Name
			}
			i = len(sum.Exercises)
			index[s.ExerciseID] = i
			sum.Exercises = append(sum.Exercises, ExerciseSummary{ExerciseID: s.ExerciseID, Name: name})
		}
		sum.Exercises[i].Sets = append(sum.Exercises[i].Sets, s)
		sum.Exercises[i].Volume += s.Volume()
		sum.TotalVolume += s.Volume()
	}
	for i := range sum.Exercises {
		sets := sum.Exercises[i].Sets
		sort.SliceStable(sets, func(a, b int) bool {
			return sets[a].SetNumber < sets[b].SetNumber
		})
	}
	return sum
}

// Service answers history queries.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService creates a history service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, log: logger}
}

// List returns every completed workout, newest first.
func (s *Service) List(ctx context.Context) ([]models.Workout, error) {
	workouts, err := s.store.ListCompletedWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return workouts, nil
}

// LastByType returns the most recent completed workout of a type.
func (s *Service) LastByType(ctx context.Context, wt models.WorkoutType) (*models.Workout, error) {
	return s.store.GetLastWorkoutByType(ctx, wt)
}

// LastDates returns the date of the most recent push and pull workouts.
// A type with no completed workout is left nil.
func (s *Service) LastDates(ctx context.Context) (*LastDates, error) {
	var out LastDates
	for _, wt := range models.WorkoutTypes {
		w, err := s.store.GetLastWorkoutByType(ctx, wt)
		if errors.Is(err, apperr.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("last %s workout: %w", wt, err)
		}
		d := w.Date
		switch wt {
		case models.Push:
			out.Push = &d
		case models.Pull:
			out.Pull = &d
		}
	}
	return &out, nil
}

// Detail returns a workout with its sets grouped by exercise.
func (s *Service) Detail(ctx context.Context, id string) (*Detail, error) {
	w, err := s.store.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	sets, err := s.store.GetWorkoutSets(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading sets for %s: %w", id, err)
	}
	return &Detail{Workout: *w, Summary: Summarize(sets)}, nil
}

// Delete removes a workout and its sets.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteWorkout(ctx, id); err != nil {
		return err
	}
	s.log.Info("workout deleted", "workout_id", id)
	return nil
}

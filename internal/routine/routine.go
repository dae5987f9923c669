// Package routine manages the per-workout-type exercise list: the catalog
// defaults, or a saved customization of them.
package routine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/catalog"
	"github.com/claude/pushpull/internal/models"
)

// Parameter bounds enforced by the routine editor.
const (
	MinSets        = 1
	MaxSets        = 10
	MinRPE         = 5.0
	MaxRPE         = 10.0
	MinRestSeconds = 0
	MaxRestSeconds = 600
)

// Store is the subset of the record store used for routines.
type Store interface {
	GetCustomWorkout(ctx context.Context, wt models.WorkoutType) (*models.CustomWorkout, error)
	SaveCustomWorkout(ctx context.Context, wt models.WorkoutType, exercises []models.CustomExercise) (*models.CustomWorkout, error)
	ResetWorkoutToDefault(ctx context.Context, wt models.WorkoutType) error
}

// Routine is the effective exercise list for a workout type.
type Routine struct {
	Type         models.WorkoutType `json:"type"`
	IsCustomized bool               `json:"is_customized"`
	Exercises    []models.Exercise  `json:"exercises"`
	TotalSets    int                `json:"total_sets"`
}

// Patch holds optional updates for one routine entry. Nil fields are left
// unchanged.
type Patch struct {
	Sets        *int     `json:"sets,omitempty"`
	TargetReps  *string  `json:"target_reps,omitempty"`
	RPE         *float64 `json:"rpe,omitempty"`
	RestSeconds *int     `json:"rest_seconds,omitempty"`
}

// Service reads and edits routines.
type Service struct {
	store Store
	log   *slog.Logger

	// mu serializes read-modify-write edits.
	mu sync.Mutex
}

// NewService creates a routine service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, log: logger}
}

// Exercises returns the effective routine for wt. A saved customization with
// at least one resolvable exercise wins; otherwise the catalog defaults apply.
// Saved entries whose exercise id is no longer in the catalog are dropped.
func (s *Service) Exercises(ctx context.Context, wt models.WorkoutType) (*Routine, error) {
	cw, err := s.store.GetCustomWorkout(ctx, wt)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("loading %s routine: %w", wt, err)
	}

	if cw != nil && len(cw.Exercises) > 0 {
		exercises := make([]models.Exercise, 0, len(cw.Exercises))
		for _, c := range cw.Exercises {
			tmpl, ok := catalog.Lookup(c.ExerciseID)
			if !ok {
				s.log.Warn("dropping unknown exercise from routine", "type", wt, "exercise_id", c.ExerciseID)
				continue
			}
			exercises = append(exercises, models.ExerciseFromCustom(tmpl, c))
		}
		if len(exercises) > 0 {
			return newRoutine(wt, true, exercises), nil
		}
		s.log.Warn("saved routine has no known exercises, using defaults", "type", wt)
	}
	return newRoutine(wt, false, catalog.Defaults(wt)), nil
}

// Save replaces the routine with exercises in the given order. Every id must
// exist in the catalog; numeric parameters are clamped to the editor bounds.
func (s *Service) Save(ctx context.Context, wt models.WorkoutType, exercises []models.Exercise) (*Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, wt, exercises)
}

func (s *Service) save(ctx context.Context, wt models.WorkoutType, exercises []models.Exercise) (*Routine, error) {
	custom := make([]models.CustomExercise, len(exercises))
	resolved := make([]models.Exercise, len(exercises))
	for i, e := range exercises {
		tmpl, ok := catalog.Lookup(e.ID)
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("unknown exercise %q", e.ID))
		}
		c := models.CustomExercise{
			ExerciseID:  e.ID,
			Sets:        ClampSets(e.Sets),
			TargetReps:  e.TargetReps,
			RPE:         ClampRPE(e.RPE),
			RestSeconds: ClampRest(e.RestSeconds),
			Order:       i,
		}
		if c.TargetReps == "" {
			c.TargetReps = tmpl.DefaultReps
		}
		custom[i] = c
		resolved[i] = models.ExerciseFromCustom(tmpl, c)
	}

	if _, err := s.store.SaveCustomWorkout(ctx, wt, custom); err != nil {
		return nil, fmt.Errorf("saving %s routine: %w", wt, err)
	}
	s.log.Info("routine saved", "type", wt, "exercises", len(custom))
	return newRoutine(wt, true, resolved), nil
}

// Reset discards the customization so the catalog defaults apply again.
func (s *Service) Reset(ctx context.Context, wt models.WorkoutType) (*Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ResetWorkoutToDefault(ctx, wt); err != nil {
		return nil, fmt.Errorf("resetting %s routine: %w", wt, err)
	}
	s.log.Info("routine reset to default", "type", wt)
	return newRoutine(wt, false, catalog.Defaults(wt)), nil
}

// Add inserts a catalog exercise with its default parameters after the given
// index. A negative or out-of-range index appends.
func (s *Service) Add(ctx context.Context, wt models.WorkoutType, exerciseID string, after int) (*Routine, error) {
	tmpl, ok := catalog.Lookup(exerciseID)
	if !ok {
		return nil, apperr.NotFound("exercise", exerciseID)
	}
	return s.edit(ctx, wt, func(list []models.Exercise) ([]models.Exercise, error) {
		ex := models.ExerciseFromTemplate(tmpl)
		if after < 0 || after >= len(list) {
			return append(list, ex), nil
		}
		out := make([]models.Exercise, 0, len(list)+1)
		out = append(out, list[:after+1]...)
		out = append(out, ex)
		return append(out, list[after+1:]...), nil
	})
}

// Remove deletes the exercise at index.
func (s *Service) Remove(ctx context.Context, wt models.WorkoutType, index int) (*Routine, error) {
	return s.edit(ctx, wt, func(list []models.Exercise) ([]models.Exercise, error) {
		if err := checkIndex(index, len(list)); err != nil {
			return nil, err
		}
		out := make([]models.Exercise, 0, len(list)-1)
		out = append(out, list[:index]...)
		return append(out, list[index+1:]...), nil
	})
}

// Update applies a patch to the exercise at index.
func (s *Service) Update(ctx context.Context, wt models.WorkoutType, index int, p Patch) (*Routine, error) {
	return s.edit(ctx, wt, func(list []models.Exercise) ([]models.Exercise, error) {
		if err := checkIndex(index, len(list)); err != nil {
			return nil, err
		}
		ex := &list[index]
		if p.Sets != nil {
			ex.Sets = *p.Sets
		}
		if p.TargetReps != nil {
			ex.TargetReps = *p.TargetReps
		}
		if p.RPE != nil {
			ex.RPE = *p.RPE
		}
		if p.RestSeconds != nil {
			ex.RestSeconds = *p.RestSeconds
		}
		return list, nil
	})
}

// Move relocates the exercise at from so that it ends up at index to.
func (s *Service) Move(ctx context.Context, wt models.WorkoutType, from, to int) (*Routine, error) {
	return s.edit(ctx, wt, func(list []models.Exercise) ([]models.Exercise, error) {
		if err := checkIndex(from, len(list)); err != nil {
			return nil, err
		}
		if err := checkIndex(to, len(list)); err != nil {
			return nil, err
		}
		moved := list[from]
		list = append(list[:from], list[from+1:]...)
		list = append(list[:to], append([]models.Exercise{moved}, list[to:]...)...)
		return list, nil
	})
}

func (s *Service) edit(ctx context.Context, wt models.WorkoutType, fn func([]models.Exercise) ([]models.Exercise, error)) (*Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Exercises(ctx, wt)
	if err != nil {
		return nil, err
	}
	list := make([]models.Exercise, len(current.Exercises))
	copy(list, current.Exercises)

	list, err = fn(list)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, wt, list)
}

func newRoutine(wt models.WorkoutType, customized bool, exercises []models.Exercise) *Routine {
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	return &Routine{
		Type:         wt,
		IsCustomized: customized,
		Exercises:    exercises,
		TotalSets:    catalog.TotalSets(exercises),
	}
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return apperr.Validation(fmt.Sprintf("index %d out of range [0,%d)", i, n))
	}
	return nil
}

// ClampSets bounds a set count to [MinSets, MaxSets].
func ClampSets(n int) int {
	return min(max(n, MinSets), MaxSets)
}

// ClampRPE bounds an RPE to [MinRPE, MaxRPE] and snaps it to half steps.
func ClampRPE(v float64) float64 {
	if math.IsNaN(v) {
		return MinRPE
	}
	v = math.Round(v*2) / 2
	return math.Min(math.Max(v, MinRPE), MaxRPE)
}

// ClampRest bounds rest seconds to [MinRestSeconds, MaxRestSeconds].
func ClampRest(n int) int {
	return min(max(n, MinRestSeconds), MaxRestSeconds)
}

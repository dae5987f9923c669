package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/models"
)

const setColumns = `id, workout_id, exercise_id, set_number, weight, reps, completed_at`

// AddSet appends a completed working set to a workout and returns its row ID.
// CompletedAt is stamped by the store when zero.
func (db *DB) AddSet(ctx context.Context, s models.WorkoutSet) (int64, error) {
	if s.CompletedAt.IsZero() {
		s.CompletedAt = db.now().UTC()
	}
	var id int64
	err := db.conn.QueryRowContext(ctx, db.rebind(
		`INSERT INTO workout_sets (workout_id, exercise_id, set_number, weight, reps, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		s.WorkoutID, s.ExerciseID, s.SetNumber, s.Weight, s.Reps, s.CompletedAt,
	).Scan(&id)
	if err != nil {
		return 0, apperr.Storage(fmt.Errorf("inserting set for workout %s: %w", s.WorkoutID, err))
	}
	return id, nil
}

// GetWorkoutSets returns all sets of a workout in insertion order.
func (db *DB) GetWorkoutSets(ctx context.Context, workoutID string) ([]models.WorkoutSet, error) {
	if !validID(workoutID) {
		return nil, nil
	}
	rows, err := db.conn.QueryContext(ctx, db.rebind(
		`SELECT `+setColumns+` FROM workout_sets WHERE workout_id = ? ORDER BY id`), workoutID)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("querying sets: %w", err))
	}
	defer rows.Close()

	var sets []models.WorkoutSet
	for rows.Next() {
		var s models.WorkoutSet
		if err := rows.Scan(&s.ID, &s.WorkoutID, &s.ExerciseID, &s.SetNumber, &s.Weight, &s.Reps, &s.CompletedAt); err != nil {
			return nil, apperr.Storage(fmt.Errorf("scanning set: %w", err))
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return sets, nil
}

// GetLastSetForExercise returns the highest-numbered set of an exercise from
// the most recent completed workout, other than excludeWorkoutID, that
// contains it. Returns a NotFound error when no such workout exists.
func (db *DB) GetLastSetForExercise(ctx context.Context, exerciseID, excludeWorkoutID string) (*models.WorkoutSet, error) {
	workouts, err := db.ListCompletedWorkouts(ctx)
	if err != nil {
		return nil, err
	}

	for _, w := range workouts {
		if w.ID == excludeWorkoutID {
			continue
		}
		sets, err := db.setsForExercise(ctx, w.ID, exerciseID)
		if err != nil {
			return nil, err
		}
		if len(sets) == 0 {
			continue
		}
		sort.SliceStable(sets, func(i, j int) bool {
			return sets[i].SetNumber > sets[j].SetNumber
		})
		return &sets[0], nil
	}
	return nil, apperr.NotFound("last set for exercise", exerciseID)
}

func (db *DB) setsForExercise(ctx context.Context, workoutID, exerciseID string) ([]models.WorkoutSet, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(
		`SELECT `+setColumns+` FROM workout_sets WHERE workout_id = ? AND exercise_id = ?`),
		workoutID, exerciseID)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("querying sets for exercise: %w", err))
	}
	defer rows.Close()

	var sets []models.WorkoutSet
	for rows.Next() {
		var s models.WorkoutSet
		if err := rows.Scan(&s.ID, &s.WorkoutID, &s.ExerciseID, &s.SetNumber, &s.Weight, &s.Reps, &s.CompletedAt); err != nil {
			return nil, apperr.Storage(fmt.Errorf("scanning set: %w", err))
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return sets, nil
}

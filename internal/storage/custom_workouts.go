package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/models"
)

// GetCustomWorkout returns the saved routine for a workout type with exercises
// sorted by order. Returns a NotFound error when no routine has been saved.
func (db *DB) GetCustomWorkout(ctx context.Context, wt models.WorkoutType) (*models.CustomWorkout, error) {
	var (
		raw string
		cw  = models.CustomWorkout{Type: wt}
	)
	err := db.conn.QueryRowContext(ctx, db.rebind(
		`SELECT exercises, updated_at FROM custom_workouts WHERE type = ?`), string(wt),
	).Scan(&raw, &cw.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("custom workout", string(wt))
	}
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("querying custom workout: %w", err))
	}
	if err := json.Unmarshal([]byte(raw), &cw.Exercises); err != nil {
		return nil, apperr.Storage(fmt.Errorf("decoding custom workout %s: %w", wt, err))
	}
	sort.SliceStable(cw.Exercises, func(i, j int) bool {
		return cw.Exercises[i].Order < cw.Exercises[j].Order
	})
	return &cw, nil
}

// SaveCustomWorkout replaces the routine for a workout type. Order fields are
// rewritten to 0..n-1 following the slice order.
func (db *DB) SaveCustomWorkout(ctx context.Context, wt models.WorkoutType, exercises []models.CustomExercise) (*models.CustomWorkout, error) {
	normalized := make([]models.CustomExercise, len(exercises))
	for i, e := range exercises {
		e.Order = i
		normalized[i] = e
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("encoding custom workout: %w", err))
	}

	cw := &models.CustomWorkout{Type: wt, Exercises: normalized, UpdatedAt: db.now().UTC()}
	_, err = db.conn.ExecContext(ctx, db.rebind(
		`INSERT INTO custom_workouts (type, exercises, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (type) DO UPDATE SET exercises = excluded.exercises, updated_at = excluded.updated_at`),
		string(wt), string(raw), cw.UpdatedAt)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("saving custom workout %s: %w", wt, err))
	}
	return cw, nil
}

// ResetWorkoutToDefault deletes the saved routine so the catalog defaults apply.
func (db *DB) ResetWorkoutToDefault(ctx context.Context, wt models.WorkoutType) error {
	if _, err := db.conn.ExecContext(ctx, db.rebind(`DELETE FROM custom_workouts WHERE type = ?`), string(wt)); err != nil {
		return apperr.Storage(fmt.Errorf("resetting custom workout %s: %w", wt, err))
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/models"
	"github.com/google/uuid"
)

const workoutColumns = `id, type, date, start_time, end_time, duration_min, completed`

// CreateWorkout inserts a new, not yet completed workout starting now.
func (db *DB) CreateWorkout(ctx context.Context, wt models.WorkoutType) (*models.Workout, error) {
	now := db.now().UTC()
	w := &models.Workout{
		ID:        uuid.NewString(),
		Type:      wt,
		Date:      now,
		StartTime: now,
	}
	_, err := db.conn.ExecContext(ctx, db.rebind(
		`INSERT INTO workouts (id, type, date, start_time, completed) VALUES (?, ?, ?, ?, ?)`),
		w.ID, string(w.Type), w.Date, w.StartTime, false)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("inserting workout: %w", err))
	}
	return w, nil
}

// GetWorkout retrieves a single workout by ID.
func (db *DB) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	if !validID(id) {
		return nil, apperr.NotFound("workout", id)
	}
	row := db.conn.QueryRowContext(ctx, db.rebind(
		`SELECT `+workoutColumns+` FROM workouts WHERE id = ?`), id)
	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("workout", id)
	}
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("querying workout: %w", err))
	}
	return w, nil
}

// CompleteWorkout stamps the end time and rounded duration in minutes and
// marks the workout completed. Calling it on an already completed workout is
// a no-op.
func (db *DB) CompleteWorkout(ctx context.Context, id string) error {
	w, err := db.GetWorkout(ctx, id)
	if err != nil {
		return err
	}
	if w.Completed {
		return nil
	}

	end := db.now().UTC()
	duration := DurationMinutes(w.StartTime, end)
	_, err = db.conn.ExecContext(ctx, db.rebind(
		`UPDATE workouts SET end_time = ?, duration_min = ?, completed = ?
		 WHERE id = ? AND completed = ?`),
		end, duration, true, id, false)
	if err != nil {
		return apperr.Storage(fmt.Errorf("completing workout %s: %w", id, err))
	}
	return nil
}

// DurationMinutes returns round((end-start)/1min), halves rounding up.
func DurationMinutes(start, end time.Time) int {
	return int(math.Floor(end.Sub(start).Minutes() + 0.5))
}

// ListCompletedWorkouts returns every completed workout, newest first.
func (db *DB) ListCompletedWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(
		`SELECT `+workoutColumns+` FROM workouts WHERE completed = ?`), true)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("querying workouts: %w", err))
	}
	defer rows.Close()

	workouts, err := scanWorkoutRows(rows)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	sortNewestFirst(workouts)
	return workouts, nil
}

// GetLastWorkoutByType returns the most recent completed workout of a type.
func (db *DB) GetLastWorkoutByType(ctx context.Context, wt models.WorkoutType) (*models.Workout, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(
		`SELECT `+workoutColumns+` FROM workouts WHERE type = ? AND completed = ?`), string(wt), true)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("querying workouts by type: %w", err))
	}
	defer rows.Close()

	workouts, err := scanWorkoutRows(rows)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if len(workouts) == 0 {
		return nil, apperr.NotFound("last workout of type", string(wt))
	}
	sortNewestFirst(workouts)
	return &workouts[0], nil
}

// DeleteWorkout removes a workout's sets and then the workout itself.
// Sets go first so an interrupted delete never leaves orphaned sets.
func (db *DB) DeleteWorkout(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := db.conn.ExecContext(ctx, db.rebind(`DELETE FROM workout_sets WHERE workout_id = ?`), id); err != nil {
		return apperr.Storage(fmt.Errorf("deleting sets for workout %s: %w", id, err))
	}
	if _, err := db.conn.ExecContext(ctx, db.rebind(`DELETE FROM workouts WHERE id = ?`), id); err != nil {
		return apperr.Storage(fmt.Errorf("deleting workout %s: %w", id, err))
	}
	return nil
}

// validID reports whether id is a UUID. Workout IDs are UUIDs on every
// backend and postgres rejects anything else at the type level.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func sortNewestFirst(workouts []models.Workout) {
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (*models.Workout, error) {
	var (
		w        models.Workout
		wt       string
		endTime  sql.NullTime
		duration sql.NullInt64
	)
	if err := row.Scan(&w.ID, &wt, &w.Date, &w.StartTime, &endTime, &duration, &w.Completed); err != nil {
		return nil, err
	}
	w.Type = models.WorkoutType(wt)
	if endTime.Valid {
		t := endTime.Time
		w.EndTime = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		w.Duration = &d
	}
	return &w, nil
}

func scanWorkoutRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.Workout, error) {
	var result []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

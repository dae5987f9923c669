package models

import (
	"fmt"
	"time"
)

// WorkoutType is the routine a workout follows.
type WorkoutType string

const (
	Push WorkoutType = "push"
	Pull WorkoutType = "pull"
)

// WorkoutTypes lists every supported workout type.
var WorkoutTypes = []WorkoutType{Push, Pull}

// ParseWorkoutType validates a workout type string.
func ParseWorkoutType(s string) (WorkoutType, error) {
	switch WorkoutType(s) {
	case Push, Pull:
		return WorkoutType(s), nil
	}
	return "", fmt.Errorf("unknown workout type %q", s)
}

// Workout is a workout header row. Created when a session starts and
// mutated once, on completion.
type Workout struct {
	ID        string      `json:"id"`
	Type      WorkoutType `json:"type"`
	Date      time.Time   `json:"date"`
	StartTime time.Time   `json:"start_time"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	Duration  *int        `json:"duration_min,omitempty"`
	Completed bool        `json:"completed"`
}

// WorkoutSet is one completed working set. Append-only.
type WorkoutSet struct {
	ID          int64     `json:"id"`
	WorkoutID   string    `json:"workout_id"`
	ExerciseID  string    `json:"exercise_id"`
	SetNumber   int       `json:"set_number"`
	Weight      float64   `json:"weight"`
	Reps        int       `json:"reps"`
	CompletedAt time.Time `json:"completed_at"`
}

// Volume returns weight × reps for the set.
func (s WorkoutSet) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// CustomExercise overrides the catalog defaults for one exercise in a routine.
type CustomExercise struct {
	ExerciseID  string  `json:"exercise_id"`
	Sets        int     `json:"sets"`
	TargetReps  string  `json:"target_reps"`
	RPE         float64 `json:"rpe"`
	RestSeconds int     `json:"rest_seconds"`
	Order       int     `json:"order"`
}

// CustomWorkout is the saved routine for one workout type.
type CustomWorkout struct {
	Type      WorkoutType      `json:"type"`
	Exercises []CustomExercise `json:"exercises"`
	UpdatedAt time.Time        `json:"updated_at"`
}

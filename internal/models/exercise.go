package models

import (
	"strconv"
	"strings"
)

// Category drives the warm-up scheme of an exercise.
type Category string

const (
	Primary   Category = "primary"
	Secondary Category = "secondary"
	Isolation Category = "isolation"
)

// MuscleGroup is a trained muscle group.
type MuscleGroup string

const (
	Chest     MuscleGroup = "chest"
	Shoulders MuscleGroup = "shoulders"
	Triceps   MuscleGroup = "triceps"
	Back      MuscleGroup = "back"
	Biceps    MuscleGroup = "biceps"
	RearDelts MuscleGroup = "rear-delts"
)

// Label returns the display label for a muscle group.
func (m MuscleGroup) Label() string {
	switch m {
	case RearDelts:
		return "Rear Delts"
	case "":
		return ""
	}
	s := string(m)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ExerciseTemplate is an immutable catalog entry.
type ExerciseTemplate struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Category     Category      `json:"category"`
	MuscleGroups []MuscleGroup `json:"muscle_groups"`
	WorkoutType  WorkoutType   `json:"workout_type"`
	DefaultSets  int           `json:"default_sets"`
	DefaultReps  string        `json:"default_reps"`
	DefaultRPE   float64       `json:"default_rpe"`
	DefaultRest  int           `json:"default_rest_seconds"`
}

// Exercise is an exercise as it appears in a routine or session: catalog
// identity plus the effective set/rep/RPE/rest parameters.
type Exercise struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Sets        int      `json:"sets"`
	TargetReps  string   `json:"target_reps"`
	RPE         float64  `json:"rpe"`
	RestSeconds int      `json:"rest_seconds"`
	Category    Category `json:"category"`
}

// ExerciseFromTemplate builds an Exercise using the template defaults.
func ExerciseFromTemplate(t ExerciseTemplate) Exercise {
	return Exercise{
		ID:          t.ID,
		Name:        t.Name,
		Sets:        t.DefaultSets,
		TargetReps:  t.DefaultReps,
		RPE:         t.DefaultRPE,
		RestSeconds: t.DefaultRest,
		Category:    t.Category,
	}
}

// ExerciseFromCustom builds an Exercise from a template and a routine override.
func ExerciseFromCustom(t ExerciseTemplate, c CustomExercise) Exercise {
	return Exercise{
		ID:          t.ID,
		Name:        t.Name,
		Sets:        c.Sets,
		TargetReps:  c.TargetReps,
		RPE:         c.RPE,
		RestSeconds: c.RestSeconds,
		Category:    t.Category,
	}
}

// DefaultReps is used when the lower bound of a rep range cannot be parsed.
const DefaultReps = 8

// MinTargetReps returns the lower bound of a rep range such as "6-8".
// Falls back to DefaultReps when unparsable or not positive.
func MinTargetReps(targetReps string) int {
	lo, _, _ := strings.Cut(targetReps, "-")
	n, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil || n <= 0 {
		return DefaultReps
	}
	return n
}

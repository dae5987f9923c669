// Package catalog holds the static exercise library and the default push and
// pull routines.
package catalog

import "github.com/claude/pushpull/internal/models"

// Library is every exercise the app knows about. Read-only.
var Library = []models.ExerciseTemplate{
	// Push Exercises
	// Chest - Primary
	{ID: "incline-barbell-press", Name: "Incline Barbell Press", Category: models.Primary, MuscleGroups: []models.MuscleGroup{models.Chest, models.Shoulders, models.Triceps}, WorkoutType: models.Push, DefaultSets: 4, DefaultReps: "6-8", DefaultRPE: 8, DefaultRest: 210},
	{ID: "flat-barbell-bench", Name: "Flat Barbell Bench Press", Category: models.Primary, MuscleGroups: []models.MuscleGroup{models.Chest, models.Shoulders, models.Triceps}, WorkoutType: models.Push, DefaultSets: 4, DefaultReps: "6-8", DefaultRPE: 8, DefaultRest: 210},
	{ID: "incline-dumbbell-press", Name: "Incline Dumbbell Press", Category: models.Primary, MuscleGroups: []models.MuscleGroup{models.Chest, models.Shoulders, models.Triceps}, WorkoutType: models.Push, DefaultSets: 4, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 180},
	{ID: "flat-dumbbell-press", Name: "Flat Dumbbell Press", Category: models.Primary, MuscleGroups: []models.MuscleGroup{models.Chest, models.Shoulders, models.Triceps}, WorkoutType: models.Push, DefaultSets: 4, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 180},
	// Chest - Secondary
	{ID: "dips", Name: "Dips", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Chest, models.Triceps}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 180},
	{ID: "machine-chest-press", Name: "Machine Chest Press", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Chest, models.Triceps}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 120},
	{ID: "push-ups", Name: "Push-ups", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Chest, models.Triceps}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "12-15", DefaultRPE: 8, DefaultRest: 90},
	// Chest - Isolation
	{ID: "cable-fly", Name: "Cable Fly", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Chest}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 9, DefaultRest: 105},
	{ID: "pec-deck", Name: "Pec Deck", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Chest}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "12-15", DefaultRPE: 9, DefaultRest: 90},
	{ID: "incline-cable-fly", Name: "Incline Cable Fly", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Chest}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "12-15", DefaultRPE: 9, DefaultRest: 90},
	// Shoulders - Primary/Secondary
	{ID: "overhead-press", Name: "Overhead Press", Category: models.Primary, MuscleGroups: []models.MuscleGroup{models.Shoulders, models.Triceps}, WorkoutType: models.Push, DefaultSets: 4, DefaultReps: "6-8", DefaultRPE: 8, DefaultRest: 180},
	{ID: "seated-dumbbell-press", Name: "Seated Dumbbell Press", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Shoulders, models.Triceps}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 150},
	{ID: "machine-shoulder-press", Name: "Machine Shoulder Press", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Shoulders, models.Triceps}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 120},
	// Shoulders - Isolation
	{ID: "lateral-raise", Name: "Lateral Raise", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Shoulders}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "12-15", DefaultRPE: 9, DefaultRest: 90},
	{ID: "cable-lateral-raise", Name: "Cable Lateral Raise", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Shoulders}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "12-15", DefaultRPE: 9, DefaultRest: 90},
	{ID: "front-raise", Name: "Front Raise", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Shoulders}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "12-15", DefaultRPE: 8, DefaultRest: 90},
	// Triceps - Isolation
	{ID: "overhead-tricep-extension", Name: "Overhead Tricep Extension", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Triceps}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 105},
	{ID: "tricep-pushdown", Name: "Tricep Pushdown", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Triceps}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 90},
	{ID: "skull-crushers", Name: "Skull Crushers", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Triceps}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 105},
	{ID: "close-grip-bench", Name: "Close Grip Bench Press", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Triceps, models.Chest}, WorkoutType: models.Push, DefaultSets: 3, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 150},

	// Pull Exercises
	// Back - Primary
	{ID: "lat-pulldown", Name: "Lat Pulldown", Category: models.Primary, MuscleGroups: []models.MuscleGroup{models.Back, models.Biceps}, WorkoutType: models.Pull, DefaultSets: 4, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 180},
	{ID: "pull-ups", Name: "Pull-ups", Category: models.Primary, MuscleGroups: []models.MuscleGroup{models.Back, models.Biceps}, WorkoutType: models.Pull, DefaultSets: 4, DefaultReps: "6-10", DefaultRPE: 8, DefaultRest: 180},
	{ID: "chin-ups", Name: "Chin-ups", Category: models.Primary, MuscleGroups: []models.MuscleGroup{models.Back, models.Biceps}, WorkoutType: models.Pull, DefaultSets: 4, DefaultReps: "6-10", DefaultRPE: 8, DefaultRest: 180},
	{ID: "barbell-row", Name: "Barbell Row", Category: models.Primary, MuscleGroups: []models.MuscleGroup{models.Back, models.Biceps}, WorkoutType: models.Pull, DefaultSets: 4, DefaultReps: "6-8", DefaultRPE: 8, DefaultRest: 180},
	// Back - Secondary
	{ID: "cable-row", Name: "Cable Row", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Back, models.Biceps}, WorkoutType: models.Pull, DefaultSets: 4, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 165},
	{ID: "dumbbell-row", Name: "Dumbbell Row", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Back, models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 120},
	{ID: "t-bar-row", Name: "T-Bar Row", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Back, models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 150},
	{ID: "machine-row", Name: "Machine Row", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Back, models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 120},
	{ID: "close-grip-pulldown", Name: "Close Grip Pulldown", Category: models.Secondary, MuscleGroups: []models.MuscleGroup{models.Back, models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 120},
	// Rear Delts - Isolation
	{ID: "face-pull", Name: "Face Pull", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.RearDelts, models.Back}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "12-15", DefaultRPE: 8, DefaultRest: 90},
	{ID: "rear-delt-fly", Name: "Rear Delt Fly", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.RearDelts}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "12-15", DefaultRPE: 9, DefaultRest: 90},
	{ID: "reverse-pec-deck", Name: "Reverse Pec Deck", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.RearDelts}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "12-15", DefaultRPE: 9, DefaultRest: 90},
	// Biceps - Isolation
	{ID: "bayesian-curl", Name: "Bayesian Curl", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 105},
	{ID: "barbell-curl", Name: "Barbell Curl", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 105},
	{ID: "dumbbell-curl", Name: "Dumbbell Curl", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 90},
	{ID: "hammer-curl", Name: "Hammer Curl", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 90},
	{ID: "preacher-curl", Name: "Preacher Curl", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 90},
	{ID: "incline-dumbbell-curl", Name: "Incline Dumbbell Curl", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 90},
	{ID: "cable-curl", Name: "Cable Curl", Category: models.Isolation, MuscleGroups: []models.MuscleGroup{models.Biceps}, WorkoutType: models.Pull, DefaultSets: 3, DefaultReps: "10-12", DefaultRPE: 8, DefaultRest: 90},
}

// Default routine exercise ids, in order.
var (
	DefaultPush = []string{
		"incline-barbell-press",
		"dips",
		"cable-fly",
		"lateral-raise",
		"overhead-tricep-extension",
	}
	DefaultPull = []string{
		"lat-pulldown",
		"cable-row",
		"face-pull",
		"bayesian-curl",
	}
)

var byID = func() map[string]models.ExerciseTemplate {
	m := make(map[string]models.ExerciseTemplate, len(Library))
	for _, t := range Library {
		m[t.ID] = t
	}
	return m
}()

// Lookup returns the template with the given id.
func Lookup(id string) (models.ExerciseTemplate, bool) {
	t, ok := byID[id]
	return t, ok
}

// ByType returns every template for a workout type in library order.
func ByType(wt models.WorkoutType) []models.ExerciseTemplate {
	var out []models.ExerciseTemplate
	for _, t := range Library {
		if t.WorkoutType == wt {
			out = append(out, t)
		}
	}
	return out
}

// MuscleGroupExercises is one picker section: the templates whose first
// muscle group is Group.
type MuscleGroupExercises struct {
	Group     models.MuscleGroup        `json:"group"`
	Label     string                    `json:"label"`
	Exercises []models.ExerciseTemplate `json:"exercises"`
}

// GroupedByMuscle groups a workout type's templates by primary muscle group,
// keeping groups in order of first appearance.
func GroupedByMuscle(wt models.WorkoutType) []MuscleGroupExercises {
	var groups []MuscleGroupExercises
	index := make(map[models.MuscleGroup]int)
	for _, t := range ByType(wt) {
		if len(t.MuscleGroups) == 0 {
			continue
		}
		g := t.MuscleGroups[0]
		i, ok := index[g]
		if !ok {
			i = len(groups)
			index[g] = i
			groups = append(groups, MuscleGroupExercises{Group: g, Label: g.Label()})
		}
		groups[i].Exercises = append(groups[i].Exercises, t)
	}
	return groups
}

// DefaultIDs returns the default routine ids for a workout type.
func DefaultIDs(wt models.WorkoutType) []string {
	if wt == models.Pull {
		return DefaultPull
	}
	return DefaultPush
}

// Defaults returns the default routine for a workout type with catalog
// parameters.
func Defaults(wt models.WorkoutType) []models.Exercise {
	ids := DefaultIDs(wt)
	out := make([]models.Exercise, 0, len(ids))
	for _, id := range ids {
		if t, ok := Lookup(id); ok {
			out = append(out, models.ExerciseFromTemplate(t))
		}
	}
	return out
}

// TotalSets sums the configured set counts of exercises.
func TotalSets(exercises []models.Exercise) int {
	total := 0
	for _, ex := range exercises {
		total += ex.Sets
	}
	return total
}

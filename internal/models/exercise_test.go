package models

import "testing"

// TestMinTargetReps verifies the lower bound parsing of rep ranges and the
// fallback used when the range is not numeric.
func TestMinTargetReps(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"6-8", 6},
		{"10-12", 10},
		{"5", 5},
		{" 12 - 15", 12},
		{"AMRAP", DefaultReps},
		{"", DefaultReps},
		{"0-3", DefaultReps},
	}
	for _, tt := range tests {
		if got := MinTargetReps(tt.in); got != tt.want {
			t.Errorf("MinTargetReps(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestMuscleGroupLabel verifies display labels, including the hyphenated group.
func TestMuscleGroupLabel(t *testing.T) {
	if got := Chest.Label(); got != "Chest" {
		t.Errorf("Chest.Label() = %q", got)
	}
	if got := RearDelts.Label(); got != "Rear Delts" {
		t.Errorf("RearDelts.Label() = %q", got)
	}
}

// TestParseWorkoutType verifies that only push and pull are accepted.
func TestParseWorkoutType(t *testing.T) {
	if wt, err := ParseWorkoutType("pull"); err != nil || wt != Pull {
		t.Errorf("ParseWorkoutType(pull) = %q, %v", wt, err)
	}
	if _, err := ParseWorkoutType("legs"); err == nil {
		t.Error("expected error for legs")
	}
}

// TestExerciseFromCustom verifies that overrides replace the defaults while
// identity and category come from the template.
func TestExerciseFromCustom(t *testing.T) {
	tmpl := ExerciseTemplate{ID: "dips", Name: "Dips", Category: Secondary, DefaultSets: 3, DefaultReps: "8-10", DefaultRPE: 8, DefaultRest: 180}
	ex := ExerciseFromCustom(tmpl, CustomExercise{ExerciseID: "dips", Sets: 5, TargetReps: "5-6", RPE: 9.5, RestSeconds: 240})

	if ex.Name != "Dips" || ex.Category != Secondary {
		t.Errorf("identity = %q/%q", ex.Name, ex.Category)
	}
	if ex.Sets != 5 || ex.TargetReps != "5-6" || ex.RPE != 9.5 || ex.RestSeconds != 240 {
		t.Errorf("overrides not applied: %+v", ex)
	}
}

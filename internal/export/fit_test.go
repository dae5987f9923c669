package export

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"

	"github.com/claude/pushpull/internal/models"
)

// TestEncodeFIT verifies the file decodes with one Set message per working
// set and the expected summary messages.
func TestEncodeFIT(t *testing.T) {
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	end := start.Add(52 * time.Minute)
	dur := 52
	w := models.Workout{
		ID: "5f3a2c1e-8d7b-4e6f-9a0b-1c2d3e4f5a6b", Type: models.Push,
		Date: start, StartTime: start, EndTime: &end, Duration: &dur, Completed: true,
	}
	sets := []models.WorkoutSet{
		{ExerciseID: "incline-barbell-press", SetNumber: 2, Weight: 135, Reps: 7, CompletedAt: start.Add(9 * time.Minute)},
		{ExerciseID: "incline-barbell-press", SetNumber: 1, Weight: 135, Reps: 8, CompletedAt: start.Add(5 * time.Minute)},
		{ExerciseID: "cable-fly", SetNumber: 1, Weight: 20, Reps: 12, CompletedAt: start.Add(20 * time.Minute)},
	}

	data, err := EncodeFIT(w, sets, UnitLbs)
	if err != nil {
		t.Fatalf("EncodeFIT: %v", err)
	}

	fitData, err := decoder.New(bytes.NewReader(data)).Decode()
	if err != nil {
		t.Fatalf("decoding generated FIT file: %v", err)
	}

	var setMsgs []*mesgdef.Set
	var sessionCount, activityCount, lapCount int
	for i := range fitData.Messages {
		switch fitData.Messages[i].Num {
		case typedef.MesgNumSet:
			setMsgs = append(setMsgs, mesgdef.NewSet(&fitData.Messages[i]))
		case typedef.MesgNumSession:
			sessionCount++
		case typedef.MesgNumActivity:
			activityCount++
		case typedef.MesgNumLap:
			lapCount++
		}
	}

	if len(setMsgs) != 3 {
		t.Fatalf("Set messages = %d, want 3", len(setMsgs))
	}
	if sessionCount != 1 || activityCount != 1 || lapCount != 1 {
		t.Errorf("session/activity/lap = %d/%d/%d, want 1/1/1", sessionCount, activityCount, lapCount)
	}

	// Sets come out in completion order.
	first := setMsgs[0]
	if first.Repetitions != 8 {
		t.Errorf("first set reps = %d, want 8", first.Repetitions)
	}
	if got, want := first.WeightScaled(), 135*KgPerLb; math.Abs(got-want) > 0.1 {
		t.Errorf("first set weight = %.2f kg, want %.2f", got, want)
	}
	if len(setMsgs[2].Category) != 1 || setMsgs[2].Category[0] != typedef.ExerciseCategoryFlye {
		t.Errorf("cable fly category = %v, want flye", setMsgs[2].Category)
	}
}

// TestEncodeFITRejectsUnknownUnit verifies unit validation.
func TestEncodeFITRejectsUnknownUnit(t *testing.T) {
	w := models.Workout{ID: "x", StartTime: time.Now()}
	if _, err := EncodeFIT(w, nil, "stone"); err == nil {
		t.Error("expected error for unknown unit")
	}
}

// TestCategoryFor verifies catalog ids map to sensible FIT categories.
func TestCategoryFor(t *testing.T) {
	tests := []struct {
		id   string
		want typedef.ExerciseCategory
	}{
		{"incline-barbell-press", typedef.ExerciseCategoryBenchPress},
		{"close-grip-bench", typedef.ExerciseCategoryBenchPress},
		{"overhead-press", typedef.ExerciseCategoryShoulderPress},
		{"dips", typedef.ExerciseCategoryTricepsExtension},
		{"overhead-tricep-extension", typedef.ExerciseCategoryTricepsExtension},
		{"lat-pulldown", typedef.ExerciseCategoryPullUp},
		{"face-pull", typedef.ExerciseCategoryRow},
		{"cable-row", typedef.ExerciseCategoryRow},
		{"bayesian-curl", typedef.ExerciseCategoryCurl},
		{"lateral-raise", typedef.ExerciseCategoryLateralRaise},
		{"pec-deck", typedef.ExerciseCategoryFlye},
		{"push-ups", typedef.ExerciseCategoryPushUp},
		{"mystery", typedef.ExerciseCategoryUnknown},
	}
	for _, tt := range tests {
		if got := CategoryFor(tt.id); got != tt.want {
			t.Errorf("CategoryFor(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

// TestToKg verifies unit conversion.
func TestToKg(t *testing.T) {
	if got := ToKg(100, UnitKg); got != 100 {
		t.Errorf("kg passthrough = %v", got)
	}
	if got := ToKg(100, UnitLbs); math.Abs(got-45.359237) > 1e-9 {
		t.Errorf("100 lbs = %v kg", got)
	}
}

// TestFileName verifies the export file name.
func TestFileName(t *testing.T) {
	w := models.Workout{ID: "5f3a2c1e-8d7b", Type: models.Pull, StartTime: time.Date(2026, 3, 4, 7, 0, 0, 0, time.UTC)}
	if got, want := FileName(w), "pushpull-pull-2026-03-04-5f3a2c1e.fit"; got != want {
		t.Errorf("FileName = %q, want %q", got, want)
	}
}

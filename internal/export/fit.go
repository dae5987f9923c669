// Package export writes workouts in the Garmin FIT activity format so they
// can be imported into other training logs.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/claude/pushpull/internal/models"
)

// KgPerLb converts pounds to kilograms.
const KgPerLb = 0.45359237

// Unit labels accepted by EncodeFIT.
const (
	UnitLbs = "lbs"
	UnitKg  = "kg"
)

// categoryRules maps exercise id fragments to FIT exercise categories. The
// first matching rule wins.
var categoryRules = []struct {
	fragments []string
	category  typedef.ExerciseCategory
}{
	{[]string{"tricep", "skull", "dips"}, typedef.ExerciseCategoryTricepsExtension},
	{[]string{"curl"}, typedef.ExerciseCategoryCurl},
	{[]string{"face-pull", "rear-delt", "reverse-pec", "row"}, typedef.ExerciseCategoryRow},
	{[]string{"pulldown", "pull-up", "chin-up"}, typedef.ExerciseCategoryPullUp},
	{[]string{"fly", "pec-deck"}, typedef.ExerciseCategoryFlye},
	{[]string{"raise"}, typedef.ExerciseCategoryLateralRaise},
	{[]string{"push-up"}, typedef.ExerciseCategoryPushUp},
	{[]string{"overhead-press", "shoulder-press", "seated-dumbbell-press"}, typedef.ExerciseCategoryShoulderPress},
	{[]string{"press", "bench"}, typedef.ExerciseCategoryBenchPress},
}

// CategoryFor returns the FIT exercise category for a catalog exercise id.
func CategoryFor(exerciseID string) typedef.ExerciseCategory {
	for _, r := range categoryRules {
		for _, f := range r.fragments {
			if strings.Contains(exerciseID, f) {
				return r.category
			}
		}
	}
	return typedef.ExerciseCategoryUnknown
}

// ToKg converts a weight in the given unit to kilograms.
func ToKg(weight float64, unit string) float64 {
	if unit == UnitLbs {
		return weight * KgPerLb
	}
	return weight
}

// FileName returns a stable file name for a workout export.
func FileName(w models.Workout) string {
	return fmt.Sprintf("pushpull-%s-%s-%s.fit", w.Type, w.StartTime.UTC().Format("2006-01-02"), shortID(w.ID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// EncodeFIT builds a FIT activity file for a workout: FileId, one Set
// message per working set, then Lap, Session and Activity summaries.
// Weights are recorded in kilograms.
func EncodeFIT(w models.Workout, sets []models.WorkoutSet, unit string) ([]byte, error) {
	if w.ID == "" {
		return nil, errors.New("workout has no id")
	}
	if unit != UnitLbs && unit != UnitKg {
		return nil, fmt.Errorf("unsupported weight unit %q", unit)
	}

	ordered := append([]models.WorkoutSet(nil), sets...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CompletedAt.Before(ordered[j].CompletedAt)
	})

	start := w.StartTime.UTC()
	end := start
	if w.EndTime != nil {
		end = w.EndTime.UTC()
	} else if n := len(ordered); n > 0 {
		end = ordered[n-1].CompletedAt.UTC()
	}
	elapsedMs := uint32(max(end.Sub(start), 0) / time.Millisecond)

	fit := &proto.FIT{Messages: []proto.Message{}}

	fileID := mesgdef.NewFileId(nil).
		SetType(typedef.FileActivity).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(1).
		SetTimeCreated(start)
	fit.Messages = append(fit.Messages, fileID.ToMesg(nil))

	prev := start
	for i, s := range ordered {
		done := s.CompletedAt.UTC()
		setMsg := mesgdef.NewSet(nil).
			SetTimestamp(done).
			SetStartTime(prev).
			SetCategory([]typedef.ExerciseCategory{CategoryFor(s.ExerciseID)}).
			SetSetType(typedef.SetTypeActive).
			SetMessageIndex(typedef.MessageIndex(i))
		if s.Reps > 0 {
			setMsg.SetRepetitions(uint16(s.Reps))
		}
		if s.Weight > 0 {
			setMsg.SetWeightScaled(ToKg(s.Weight, unit))
		}
		if d := done.Sub(prev); d > 0 {
			setMsg.SetDuration(uint32(d / time.Millisecond))
		}
		fit.Messages = append(fit.Messages, setMsg.ToMesg(nil))
		prev = done
	}

	lap := mesgdef.NewLap(nil).
		SetTimestamp(end).
		SetStartTime(start).
		SetSport(typedef.SportTraining).
		SetMessageIndex(0).
		SetTotalElapsedTime(elapsedMs).
		SetTotalTimerTime(elapsedMs)
	fit.Messages = append(fit.Messages, lap.ToMesg(nil))

	session := mesgdef.NewSession(nil).
		SetTimestamp(end).
		SetStartTime(start).
		SetSport(typedef.SportTraining).
		SetSubSport(typedef.SubSportStrengthTraining).
		SetTotalElapsedTime(elapsedMs).
		SetTotalTimerTime(elapsedMs)
	fit.Messages = append(fit.Messages, session.ToMesg(nil))

	activity := mesgdef.NewActivity(nil).
		SetTimestamp(end).
		SetType(typedef.ActivityManual).
		SetNumSessions(1).
		SetTotalTimerTime(elapsedMs)
	fit.Messages = append(fit.Messages, activity.ToMesg(nil))

	var buf bytes.Buffer
	if err := encoder.New(&buf).Encode(fit); err != nil {
		return nil, fmt.Errorf("encoding FIT file: %w", err)
	}
	return buf.Bytes(), nil
}

package routine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/catalog"
	"github.com/claude/pushpull/internal/models"
)

type memStore struct {
	saved   map[models.WorkoutType][]models.CustomExercise
	failErr error
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[models.WorkoutType][]models.CustomExercise)}
}

func (m *memStore) GetCustomWorkout(_ context.Context, wt models.WorkoutType) (*models.CustomWorkout, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	ex, ok := m.saved[wt]
	if !ok {
		return nil, apperr.NotFound("custom workout", string(wt))
	}
	return &models.CustomWorkout{Type: wt, Exercises: append([]models.CustomExercise(nil), ex...)}, nil
}

func (m *memStore) SaveCustomWorkout(_ context.Context, wt models.WorkoutType, ex []models.CustomExercise) (*models.CustomWorkout, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	m.saved[wt] = append([]models.CustomExercise(nil), ex...)
	return &models.CustomWorkout{Type: wt, Exercises: ex}, nil
}

func (m *memStore) ResetWorkoutToDefault(_ context.Context, wt models.WorkoutType) error {
	delete(m.saved, wt)
	return nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func ids(r *Routine) []string {
	out := make([]string, len(r.Exercises))
	for i, e := range r.Exercises {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestExercisesDefaults verifies an unsaved routine resolves to the catalog
// defaults and is not flagged as customized.
func TestExercisesDefaults(t *testing.T) {
	svc, _ := newTestService()
	r, err := svc.Exercises(context.Background(), models.Pull)
	if err != nil {
		t.Fatalf("Exercises: %v", err)
	}
	if r.IsCustomized {
		t.Error("defaults flagged as customized")
	}
	if !equalIDs(ids(r), catalog.DefaultIDs(models.Pull)) {
		t.Errorf("ids = %v, want %v", ids(r), catalog.DefaultIDs(models.Pull))
	}
	if r.TotalSets != 14 {
		t.Errorf("total sets = %d, want 14", r.TotalSets)
	}
}

// TestExercisesDropsUnknown verifies saved ids missing from the catalog are
// skipped rather than failing the whole routine.
func TestExercisesDropsUnknown(t *testing.T) {
	svc, store := newTestService()
	store.saved[models.Push] = []models.CustomExercise{
		{ExerciseID: "dips", Sets: 4, TargetReps: "6-8", RPE: 8, RestSeconds: 150},
		{ExerciseID: "retired-machine", Sets: 3, TargetReps: "10", RPE: 8, RestSeconds: 60, Order: 1},
	}
	r, err := svc.Exercises(context.Background(), models.Push)
	if err != nil {
		t.Fatalf("Exercises: %v", err)
	}
	if !r.IsCustomized || !equalIDs(ids(r), []string{"dips"}) {
		t.Errorf("routine = %+v", r)
	}
	if r.Exercises[0].Sets != 4 || r.Exercises[0].RestSeconds != 150 {
		t.Errorf("override not applied: %+v", r.Exercises[0])
	}
}

// TestExercisesAllUnknownFallsBack verifies a saved routine with no
// resolvable exercise falls back to the catalog defaults.
func TestExercisesAllUnknownFallsBack(t *testing.T) {
	svc, store := newTestService()
	store.saved[models.Push] = []models.CustomExercise{
		{ExerciseID: "retired-machine", Sets: 3, TargetReps: "10", RPE: 8, RestSeconds: 60},
	}
	r, err := svc.Exercises(context.Background(), models.Push)
	if err != nil {
		t.Fatalf("Exercises: %v", err)
	}
	if r.IsCustomized {
		t.Error("IsCustomized = true, want false")
	}
	if !equalIDs(ids(r), catalog.DefaultPush) {
		t.Errorf("exercises = %v, want defaults %v", ids(r), catalog.DefaultPush)
	}
	if r.TotalSets != catalog.TotalSets(catalog.Defaults(models.Push)) {
		t.Errorf("total sets = %d", r.TotalSets)
	}
}

// TestExercisesStorageError verifies store failures other than NotFound are
// surfaced.
func TestExercisesStorageError(t *testing.T) {
	svc, store := newTestService()
	store.failErr = apperr.Storage(errors.New("disk full"))
	if _, err := svc.Exercises(context.Background(), models.Push); !errors.Is(err, apperr.ErrStorage) {
		t.Errorf("err = %v, want ErrStorage", err)
	}
}

// TestAddRemoveMove verifies list edits persist with dense order.
func TestAddRemoveMove(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	r, err := svc.Add(ctx, models.Pull, "barbell-row", 0)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	want := []string{"lat-pulldown", "barbell-row", "cable-row", "face-pull", "bayesian-curl"}
	if !equalIDs(ids(r), want) {
		t.Fatalf("after add = %v, want %v", ids(r), want)
	}

	r, err = svc.Move(ctx, models.Pull, 4, 0)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	want = []string{"bayesian-curl", "lat-pulldown", "barbell-row", "cable-row", "face-pull"}
	if !equalIDs(ids(r), want) {
		t.Fatalf("after move = %v, want %v", ids(r), want)
	}

	r, err = svc.Remove(ctx, models.Pull, 2)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	want = []string{"bayesian-curl", "lat-pulldown", "cable-row", "face-pull"}
	if !equalIDs(ids(r), want) {
		t.Fatalf("after remove = %v, want %v", ids(r), want)
	}

	for i, c := range store.saved[models.Pull] {
		if c.Order != i {
			t.Errorf("saved[%d].Order = %d", i, c.Order)
		}
	}
}

// TestAddAppends verifies a negative index appends to the end.
func TestAddAppends(t *testing.T) {
	svc, _ := newTestService()
	r, err := svc.Add(context.Background(), models.Push, "skull-crushers", -1)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := r.Exercises[len(r.Exercises)-1].ID; got != "skull-crushers" {
		t.Errorf("last = %q, want skull-crushers", got)
	}
}

// TestAddUnknown verifies adding an id outside the catalog is NotFound.
func TestAddUnknown(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Add(context.Background(), models.Push, "leg-press", -1); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want NotFound", err)
	}
}

// TestUpdateClamps verifies patched values are clamped to editor bounds.
func TestUpdateClamps(t *testing.T) {
	svc, _ := newTestService()
	sets, rpe, rest, reps := 14, 7.3, 900, "5-6"
	r, err := svc.Update(context.Background(), models.Push, 1, Patch{
		Sets: &sets, RPE: &rpe, RestSeconds: &rest, TargetReps: &reps,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	ex := r.Exercises[1]
	if ex.Sets != MaxSets || ex.RPE != 7.5 || ex.RestSeconds != MaxRestSeconds || ex.TargetReps != "5-6" {
		t.Errorf("updated exercise = %+v", ex)
	}
	if !r.IsCustomized {
		t.Error("update did not mark routine customized")
	}
}

// TestIndexOutOfRange verifies bad indexes are validation errors.
func TestIndexOutOfRange(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Remove(ctx, models.Push, 9); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Remove: err = %v, want ErrValidation", err)
	}
	if _, err := svc.Move(ctx, models.Push, 0, -1); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Move: err = %v, want ErrValidation", err)
	}
}

// TestReset verifies reset restores defaults.
func TestReset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Remove(ctx, models.Push, 0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	r, err := svc.Reset(ctx, models.Push)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if r.IsCustomized || !equalIDs(ids(r), catalog.DefaultIDs(models.Push)) {
		t.Errorf("after reset = %+v", r)
	}
	again, _ := svc.Exercises(ctx, models.Push)
	if again.IsCustomized {
		t.Error("reset not persisted")
	}
}

// TestSaveRejectsUnknown verifies Save validates ids against the catalog.
func TestSaveRejectsUnknown(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Save(context.Background(), models.Push, []models.Exercise{{ID: "nope", Sets: 3}})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

// TestClampRPE verifies half-step snapping and bounds.
func TestClampRPE(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{8, 8},
		{8.2, 8},
		{8.3, 8.5},
		{3, MinRPE},
		{11, MaxRPE},
	}
	for _, tt := range tests {
		if got := ClampRPE(tt.in); got != tt.want {
			t.Errorf("ClampRPE(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

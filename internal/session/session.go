// Package session runs an in-progress workout: an explicit
// Warmup/Working/Rest/Complete state machine over a snapshotted exercise list.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/claude/pushpull/internal/alert"
	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/catalog"
	"github.com/claude/pushpull/internal/history"
	"github.com/claude/pushpull/internal/models"
	"github.com/claude/pushpull/internal/timer"
)

// Phase is the state of a session.
type Phase string

const (
	PhaseWarmup   Phase = "warmup"
	PhaseWorking  Phase = "working"
	PhaseRest     Phase = "rest"
	PhaseComplete Phase = "complete"
)

// Input bounds for the working set.
const (
	MaxWeight = 999.0
	MaxReps   = 50
)

// Store is the subset of the record store a session writes to.
type Store interface {
	CreateWorkout(ctx context.Context, wt models.WorkoutType) (*models.Workout, error)
	AddSet(ctx context.Context, s models.WorkoutSet) (int64, error)
	GetLastSetForExercise(ctx context.Context, exerciseID, excludeWorkoutID string) (*models.WorkoutSet, error)
	CompleteWorkout(ctx context.Context, id string) error
}

// LastSet is the reference weight and reps from the previous session.
type LastSet struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// Option configures a Session.
type Option func(*options)

type options struct {
	now          func() time.Time
	tickInterval time.Duration
	alerter      alert.Alerter
	unit         string
}

// WithClock overrides the time source for the session and its rest timer.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTickInterval sets the rest timer's background tick cadence.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) { o.tickInterval = d }
}

// WithAlerter sets the alerter fired when rest ends.
func WithAlerter(a alert.Alerter) Option {
	return func(o *options) { o.alerter = a }
}

// WithUnit sets the weight unit label used in warm-up display strings.
func WithUnit(unit string) Option {
	return func(o *options) { o.unit = unit }
}

// Session is one in-progress workout. All methods are safe for concurrent
// use; mutations are serialized and a mutation issued while another is
// awaiting the store fails with apperr.ErrBusy.
type Session struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
	unit  string
	timer *timer.Timer

	mu             sync.Mutex
	busy           bool
	abandoned      bool
	awaitingFinish bool
	workout        models.Workout
	exercises      []models.Exercise
	totalSets      int
	phase          Phase
	exerciseIndex  int
	setNumber      int
	weight         float64
	reps           int
	last           *LastSet
	warmups        []catalog.WarmupSet
	warmupIndex    int
	completedSets  int
	sets           []models.WorkoutSet
	finishedAt     time.Time
}

// Start creates a workout record and a session over a copy of exercises.
// Later edits to the routine do not affect the returned session.
func Start(ctx context.Context, store Store, logger *slog.Logger, wt models.WorkoutType, exercises []models.Exercise, opts ...Option) (*Session, error) {
	if len(exercises) == 0 {
		return nil, apperr.Validation(fmt.Sprintf("%s routine has no exercises", wt))
	}

	o := options{now: time.Now, tickInterval: timer.DefaultTickInterval, unit: "lbs"}
	for _, opt := range opts {
		opt(&o)
	}

	w, err := store.CreateWorkout(ctx, wt)
	if err != nil {
		return nil, fmt.Errorf("starting %s workout: %w", wt, err)
	}

	s := &Session{
		store:     store,
		log:       logger.With("workout_id", w.ID),
		now:       o.now,
		unit:      o.unit,
		workout:   *w,
		exercises: append([]models.Exercise(nil), exercises...),
		totalSets: catalog.TotalSets(exercises),
		setNumber: 1,
	}
	timerOpts := []timer.Option{timer.WithClock(o.now), timer.WithTickInterval(o.tickInterval)}
	if o.alerter != nil {
		timerOpts = append(timerOpts, timer.WithAlerter(o.alerter))
	}
	s.timer = timer.New(logger, s.onRestComplete, timerOpts...)

	last := s.fetchLastSet(ctx, s.exercises[0].ID)
	s.beginExercise(last)
	s.enterSetPhase()

	s.log.Info("workout started", "type", wt, "exercises", len(s.exercises), "total_sets", s.totalSets)
	return s, nil
}

// WorkoutID returns the ID of the underlying workout record.
func (s *Session) WorkoutID() string {
	return s.workout.ID
}

// NextWarmup advances to the next warm-up set, or to the working set after
// the last one.
func (s *Session) NextWarmup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMutableLocked(PhaseWarmup); err != nil {
		return err
	}
	if s.warmupIndex < len(s.warmups)-1 {
		s.warmupIndex++
		return nil
	}
	s.phase = PhaseWorking
	return nil
}

// SkipWarmup jumps straight to the working set.
func (s *Session) SkipWarmup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMutableLocked(PhaseWarmup); err != nil {
		return err
	}
	s.phase = PhaseWorking
	return nil
}

// SetWeight sets the working weight, clamped to [0, MaxWeight].
func (s *Session) SetWeight(w float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMutableLocked(); err != nil {
		return err
	}
	if math.IsNaN(w) {
		w = 0
	}
	s.weight = math.Min(math.Max(w, 0), MaxWeight)
	return nil
}

// SetReps sets the working reps, clamped to [0, MaxReps].
func (s *Session) SetReps(r int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMutableLocked(); err != nil {
		return err
	}
	s.reps = min(max(r, 0), MaxReps)
	return nil
}

// CompleteSet persists the current working set and advances the session.
// On a store failure the session is left as it was and the call can be
// retried. The final set completes the workout instead of starting a rest.
func (s *Session) CompleteSet(ctx context.Context) error {
	s.mu.Lock()
	if err := s.checkMutableLocked(PhaseWorking); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.awaitingFinish {
		s.busy = true
		s.mu.Unlock()
		return s.finish(ctx)
	}
	if s.weight <= 0 {
		s.mu.Unlock()
		return apperr.Validation("weight must be greater than zero")
	}

	ex := s.exercises[s.exerciseIndex]
	set := models.WorkoutSet{
		WorkoutID:   s.workout.ID,
		ExerciseID:  ex.ID,
		SetNumber:   s.setNumber,
		Weight:      s.weight,
		Reps:        s.reps,
		CompletedAt: s.now().UTC(),
	}
	curIndex := s.exerciseIndex
	nextIndex := curIndex
	if s.setNumber >= ex.Sets {
		nextIndex++
	}
	s.busy = true
	s.mu.Unlock()

	id, err := s.store.AddSet(ctx, set)
	if err != nil {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		s.log.Error("saving set failed", "exercise_id", ex.ID, "set", set.SetNumber, "error", err)
		return fmt.Errorf("completing set %d of %s: %w", set.SetNumber, ex.ID, err)
	}
	set.ID = id
	s.log.Info("set completed", "exercise_id", ex.ID, "set", set.SetNumber, "weight", set.Weight, "reps", set.Reps)

	if nextIndex >= len(s.exercises) {
		s.mu.Lock()
		s.recordSetLocked(set)
		s.mu.Unlock()
		return s.finish(ctx)
	}

	var last *LastSet
	if nextIndex != curIndex {
		last = s.fetchLastSet(ctx, s.exercises[nextIndex].ID)
	}

	s.mu.Lock()
	s.recordSetLocked(set)
	if nextIndex != curIndex {
		s.exerciseIndex = nextIndex
		s.setNumber = 1
		s.beginExercise(last)
	} else {
		s.setNumber++
	}
	s.phase = PhaseRest
	s.mu.Unlock()

	// The rest belongs to the exercise just completed. The session stays busy
	// until the timer runs so a skip cannot land on a stopped timer.
	s.timer.Start(ex.RestSeconds)

	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	return nil
}

// finish marks the workout complete in the store. Called with busy set.
func (s *Session) finish(ctx context.Context) error {
	err := s.store.CompleteWorkout(ctx, s.workout.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.awaitingFinish = true
		s.log.Error("completing workout failed", "error", err)
		return fmt.Errorf("completing workout: %w", err)
	}
	s.awaitingFinish = false
	s.phase = PhaseComplete
	s.finishedAt = s.now()
	s.log.Info("workout complete", "sets", s.completedSets, "elapsed", s.finishedAt.Sub(s.workout.StartTime).Round(time.Second))
	return nil
}

// SkipRest ends the rest early.
func (s *Session) SkipRest() error {
	s.mu.Lock()
	err := s.checkMutableLocked(PhaseRest)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.timer.Skip()
	return nil
}

// Resync re-evaluates the rest timer against the wall clock, completing the
// rest if its end time has passed. Safe to call at any time.
func (s *Session) Resync() {
	s.timer.Resync()
}

// Abandon stops the session. Sets already saved stay in the store and the
// workout remains incomplete.
func (s *Session) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return apperr.ErrBusy
	}
	if s.abandoned {
		return nil
	}
	s.abandoned = true
	s.timer.Stop()
	s.log.Info("workout abandoned", "phase", s.phase, "sets", s.completedSets)
	return nil
}

// Close releases the rest timer.
func (s *Session) Close() {
	s.timer.Close()
}

// onRestComplete is the rest timer's completion callback.
func (s *Session) onRestComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseRest || s.abandoned {
		return
	}
	s.enterSetPhase()
}

// enterSetPhase picks Warmup or Working for the current set. Warm-up only
// precedes the first set of an exercise that has a computable warm-up.
func (s *Session) enterSetPhase() {
	s.warmupIndex = 0
	if s.setNumber == 1 && len(s.warmups) > 0 {
		s.phase = PhaseWarmup
		return
	}
	s.phase = PhaseWorking
}

// beginExercise resets per-exercise state for set 1 of the current exercise.
func (s *Session) beginExercise(last *LastSet) {
	ex := s.exercises[s.exerciseIndex]
	s.last = last
	s.warmups = nil
	if last != nil {
		s.weight = last.Weight
		s.reps = last.Reps
		s.warmups = catalog.CalculateWarmupWeights(last.Weight, ex.Category)
	} else {
		s.weight = 0
		s.reps = models.MinTargetReps(ex.TargetReps)
	}
}

func (s *Session) recordSetLocked(set models.WorkoutSet) {
	s.sets = append(s.sets, set)
	s.completedSets++
}

// fetchLastSet loads the previous session's values for an exercise. A store
// failure is logged and treated as no history.
func (s *Session) fetchLastSet(ctx context.Context, exerciseID string) *LastSet {
	ws, err := s.store.GetLastSetForExercise(ctx, exerciseID, s.workout.ID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.log.Warn("loading last session failed", "exercise_id", exerciseID, "error", err)
		}
		return nil
	}
	return &LastSet{Weight: ws.Weight, Reps: ws.Reps}
}

// checkMutableLocked rejects mutations on a busy, abandoned or finished
// session, and optionally requires one of the given phases.
func (s *Session) checkMutableLocked(phases ...Phase) error {
	if s.busy {
		return apperr.ErrBusy
	}
	if s.abandoned {
		return apperr.InvalidState("workout was abandoned")
	}
	if s.phase == PhaseComplete {
		return apperr.InvalidState("workout is complete")
	}
	if len(phases) == 0 {
		return nil
	}
	for _, p := range phases {
		if s.phase == p {
			return nil
		}
	}
	return apperr.InvalidState(fmt.Sprintf("not allowed during %s", s.phase))
}

// State is a snapshot of a session.
type State struct {
	WorkoutID      string              `json:"workout_id"`
	Type           models.WorkoutType  `json:"type"`
	Phase          Phase               `json:"phase"`
	Abandoned      bool                `json:"abandoned,omitempty"`
	PendingFinish  bool                `json:"pending_finish,omitempty"`
	StartedAt      time.Time           `json:"started_at"`
	ElapsedSeconds int                 `json:"elapsed_seconds"`
	Elapsed        string              `json:"elapsed"`
	ExerciseIndex  int                 `json:"exercise_index"`
	ExerciseCount  int                 `json:"exercise_count"`
	Exercise       *models.Exercise    `json:"exercise,omitempty"`
	SetNumber      int                 `json:"set_number"`
	Weight         float64             `json:"weight"`
	Reps           int                 `json:"reps"`
	LastSession    *LastSet            `json:"last_session,omitempty"`
	Warmups        []catalog.WarmupSet `json:"warmups,omitempty"`
	WarmupIndex    int                 `json:"warmup_index"`
	WarmupDisplay  []string            `json:"warmup_display,omitempty"`
	CompletedSets  int                 `json:"completed_sets"`
	TotalSets      int                 `json:"total_sets"`
	Rest           *timer.State        `json:"rest,omitempty"`
	Sets           []models.WorkoutSet `json:"sets"`
	Summary        *history.Summary    `json:"summary,omitempty"`
	Unit           string              `json:"unit"`
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	end := s.now()
	if s.phase == PhaseComplete {
		end = s.finishedAt
	}
	elapsed := max(int(end.Sub(s.workout.StartTime).Seconds()), 0)

	st := State{
		WorkoutID:      s.workout.ID,
		Type:           s.workout.Type,
		Phase:          s.phase,
		Abandoned:      s.abandoned,
		PendingFinish:  s.awaitingFinish,
		StartedAt:      s.workout.StartTime,
		ElapsedSeconds: elapsed,
		Elapsed:        timer.FormatDuration(elapsed),
		ExerciseIndex:  s.exerciseIndex,
		ExerciseCount:  len(s.exercises),
		SetNumber:      s.setNumber,
		Weight:         s.weight,
		Reps:           s.reps,
		LastSession:    s.last,
		CompletedSets:  s.completedSets,
		TotalSets:      s.totalSets,
		Sets:           append([]models.WorkoutSet{}, s.sets...),
		Unit:           s.unit,
	}
	if s.phase != PhaseComplete {
		ex := s.exercises[s.exerciseIndex]
		st.Exercise = &ex
	}
	if s.phase == PhaseWarmup {
		st.Warmups = append([]catalog.WarmupSet(nil), s.warmups...)
		st.WarmupIndex = s.warmupIndex
		st.WarmupDisplay = make([]string, len(s.warmups))
		for i, w := range s.warmups {
			st.WarmupDisplay[i] = w.String(s.unit)
		}
	}
	if s.phase == PhaseRest {
		rest := s.timer.State()
		st.Rest = &rest
	}
	if s.phase == PhaseComplete {
		sum := history.Summarize(s.sets)
		st.Summary = &sum
	}
	return st
}

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/models"
	"github.com/claude/pushpull/internal/routine"
)

// Routines resolves the exercise list a new session snapshots.
type Routines interface {
	Exercises(ctx context.Context, wt models.WorkoutType) (*routine.Routine, error)
}

// Manager holds the single active session of the process.
type Manager struct {
	store    Store
	routines Routines
	log      *slog.Logger
	opts     []Option

	mu      sync.Mutex
	current *Session
}

// NewManager creates a session manager. opts apply to every session started.
func NewManager(store Store, routines Routines, logger *slog.Logger, opts ...Option) *Manager {
	return &Manager{store: store, routines: routines, log: logger, opts: opts}
}

// Start begins a workout of the given type using its current routine. It
// fails with apperr.ErrInvalidState while another workout is in progress;
// a completed or abandoned session is replaced.
func (m *Manager) Start(ctx context.Context, wt models.WorkoutType) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		st := m.current.State()
		if st.Phase != PhaseComplete && !st.Abandoned {
			return nil, apperr.InvalidState("a workout is already in progress")
		}
		m.current.Close()
		m.current = nil
	}

	r, err := m.routines.Exercises(ctx, wt)
	if err != nil {
		return nil, fmt.Errorf("loading routine: %w", err)
	}
	s, err := Start(ctx, m.store, m.log, wt, r.Exercises, m.opts...)
	if err != nil {
		return nil, err
	}
	m.current = s
	return s, nil
}

// Current returns the active session, or a NotFound error when none exists.
func (m *Manager) Current() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, apperr.NotFound("session", "current")
	}
	return m.current, nil
}

// InProgress reports whether workoutID belongs to the active session and that
// session can still record sets.
func (m *Manager) InProgress(workoutID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.WorkoutID() != workoutID {
		return false
	}
	st := m.current.State()
	return st.Phase != PhaseComplete && !st.Abandoned
}

// Abandon stops and discards the active session.
func (m *Manager) Abandon() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return apperr.NotFound("session", "current")
	}
	if err := m.current.Abandon(); err != nil {
		return err
	}
	m.current.Close()
	m.current = nil
	return nil
}

// Close stops the active session's timer, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Close()
	}
}

// Package timer implements the rest countdown. The timer stores the absolute
// end time and derives the remaining seconds from the wall clock on every
// read, so missed ticks (a suspended process, a sleeping laptop) never skew it.
package timer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/claude/pushpull/internal/alert"
)

// DefaultTickInterval is the background re-evaluation cadence.
const DefaultTickInterval = 250 * time.Millisecond

const alertTimeout = 10 * time.Second

// Option configures a Timer.
type Option func(*Timer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// WithTickInterval sets the background tick cadence. Zero disables the
// background ticker; the owner must then call Tick or Resync.
func WithTickInterval(d time.Duration) Option {
	return func(t *Timer) { t.interval = d }
}

// WithAlerter sets the alerter fired when the countdown reaches zero.
func WithAlerter(a alert.Alerter) Option {
	return func(t *Timer) { t.alerter = a }
}

// State is a point-in-time view of the timer.
type State struct {
	Running   bool       `json:"running"`
	Remaining int        `json:"remaining_seconds"`
	Duration  int        `json:"duration_seconds"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	Display   string     `json:"display"`
}

// Timer is a single-shot countdown with a completion callback.
type Timer struct {
	log        *slog.Logger
	now        func() time.Time
	interval   time.Duration
	alerter    alert.Alerter
	onComplete func()

	mu        sync.Mutex
	running   bool
	end       time.Time
	duration  int
	remaining int
	stopTick  chan struct{}
}

// New creates a stopped timer. onComplete is invoked, outside any lock,
// exactly once per countdown that reaches zero or is skipped.
func New(logger *slog.Logger, onComplete func(), opts ...Option) *Timer {
	t := &Timer{
		log:        logger,
		now:        time.Now,
		interval:   DefaultTickInterval,
		onComplete: onComplete,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a countdown of the given seconds, replacing any countdown in
// progress without firing it.
func (t *Timer) Start(seconds int) {
	seconds = max(seconds, 0)

	t.mu.Lock()
	t.stopTickerLocked()
	t.running = true
	t.duration = seconds
	t.remaining = seconds
	t.end = t.now().Add(time.Duration(seconds) * time.Second)
	if t.interval > 0 {
		t.stopTick = make(chan struct{})
		go t.loop(t.stopTick, t.interval)
	}
	t.mu.Unlock()

	t.log.Debug("rest timer started", "seconds", seconds)
	// A zero-length rest completes immediately.
	t.Tick()
}

// Stop halts the countdown without firing completion.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.remaining = 0
	t.stopTickerLocked()
}

// Skip halts a running countdown and fires the completion callback as if it
// had reached zero. No alert is raised. Skipping a stopped timer does nothing.
func (t *Timer) Skip() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.remaining = 0
	t.stopTickerLocked()
	t.mu.Unlock()

	t.log.Debug("rest timer skipped")
	if t.onComplete != nil {
		t.onComplete()
	}
}

// Tick re-evaluates the countdown against the clock and completes it when
// the end time has passed. Safe to call any number of times.
func (t *Timer) Tick() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.remaining = remainingSeconds(t.end, t.now())
	if t.remaining > 0 {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.stopTickerLocked()
	at := t.end
	t.mu.Unlock()

	t.complete(at)
}

// Resync recomputes the remaining time after the host regains focus or
// wakes from sleep. It is Tick under another name.
func (t *Timer) Resync() {
	t.Tick()
}

// Remaining returns the seconds left, derived from the end time.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return t.remaining
	}
	return remainingSeconds(t.end, t.now())
}

// Running reports whether a countdown is in progress.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// State returns a snapshot of the timer.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := State{Running: t.running, Remaining: t.remaining, Duration: t.duration}
	if t.running {
		s.Remaining = remainingSeconds(t.end, t.now())
		end := t.end
		s.EndsAt = &end
	}
	s.Display = FormatDuration(s.Remaining)
	return s
}

// Close stops the countdown and its background ticker.
func (t *Timer) Close() {
	t.Stop()
}

func (t *Timer) complete(at time.Time) {
	t.log.Info("rest timer complete")
	if t.alerter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
		if err := t.alerter.Alert(ctx, alert.RestComplete(at)); err != nil {
			t.log.Warn("rest alert failed", "error", err)
		}
		cancel()
	}
	if t.onComplete != nil {
		t.onComplete()
	}
}

func (t *Timer) loop(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

func (t *Timer) stopTickerLocked() {
	if t.stopTick != nil {
		close(t.stopTick)
		t.stopTick = nil
	}
}

// remainingSeconds returns max(0, round((end-now)/1s)).
func remainingSeconds(end, now time.Time) int {
	r := int(math.Round(end.Sub(now).Seconds()))
	return max(r, 0)
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

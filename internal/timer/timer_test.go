package timer

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/claude/pushpull/internal/alert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recordingAlerter struct {
	mu    sync.Mutex
	calls int
}

func (r *recordingAlerter) Alert(context.Context, alert.Alert) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return nil
}

func (r *recordingAlerter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newManualTimer(onComplete func()) (*Timer, *fakeClock, *recordingAlerter) {
	clock := &fakeClock{t: time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)}
	al := &recordingAlerter{}
	tm := New(discardLogger(), onComplete, WithClock(clock.now), WithTickInterval(0), WithAlerter(al))
	return tm, clock, al
}

// TestWallClockJump verifies start(30) followed by a 40 s jump with no
// intermediate ticks yields remaining 0 and exactly one completion.
func TestWallClockJump(t *testing.T) {
	fired := 0
	tm, clock, al := newManualTimer(func() { fired++ })

	tm.Start(30)
	clock.advance(40 * time.Second)

	if got := tm.Remaining(); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
	tm.Resync()
	tm.Tick()
	tm.Tick()

	if fired != 1 {
		t.Errorf("completion fired %d times, want 1", fired)
	}
	if al.count() != 1 {
		t.Errorf("alert fired %d times, want 1", al.count())
	}
	if tm.Running() {
		t.Error("timer still running after completion")
	}
}

// TestRemainingTracksClock verifies remaining is derived from the end time,
// with half seconds rounding up.
func TestRemainingTracksClock(t *testing.T) {
	tm, clock, _ := newManualTimer(nil)
	tm.Start(90)

	tests := []struct {
		advance time.Duration
		want    int
	}{
		{0, 90},
		{10 * time.Second, 80},
		{500 * time.Millisecond, 80}, // 79.5 rounds to 80
		{600 * time.Millisecond, 79},
		{60 * time.Second, 19},
	}
	for _, tt := range tests {
		clock.advance(tt.advance)
		if got := tm.Remaining(); got != tt.want {
			t.Errorf("after +%v: Remaining = %d, want %d", tt.advance, got, tt.want)
		}
	}
}

// TestStopDoesNotFire verifies stop cancels without completion.
func TestStopDoesNotFire(t *testing.T) {
	fired := 0
	tm, clock, al := newManualTimer(func() { fired++ })
	tm.Start(30)
	tm.Stop()
	clock.advance(time.Minute)
	tm.Tick()
	if fired != 0 || al.count() != 0 {
		t.Errorf("fired=%d alerts=%d after stop, want 0/0", fired, al.count())
	}
}

// TestSkipFiresOnceWithoutAlert verifies skip completes immediately, skips the
// alert, and a later tick does not fire again.
func TestSkipFiresOnceWithoutAlert(t *testing.T) {
	fired := 0
	tm, clock, al := newManualTimer(func() { fired++ })
	tm.Start(120)
	tm.Skip()
	clock.advance(5 * time.Minute)
	tm.Tick()
	tm.Skip()
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
	if al.count() != 0 {
		t.Errorf("alert fired %d times on skip, want 0", al.count())
	}
}

// TestRestartReplacesCountdown verifies a new start discards the old end time.
func TestRestartReplacesCountdown(t *testing.T) {
	fired := 0
	tm, clock, _ := newManualTimer(func() { fired++ })
	tm.Start(10)
	clock.advance(8 * time.Second)
	tm.Start(60)
	clock.advance(8 * time.Second)
	tm.Tick()
	if fired != 0 {
		t.Errorf("old countdown fired")
	}
	if got := tm.Remaining(); got != 52 {
		t.Errorf("Remaining = %d, want 52", got)
	}
}

// TestZeroDurationCompletesImmediately verifies a zero rest fires on start.
func TestZeroDurationCompletesImmediately(t *testing.T) {
	fired := 0
	tm, _, _ := newManualTimer(func() { fired++ })
	tm.Start(0)
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
}

// TestBackgroundTicker verifies the ticker completes the countdown on its own.
func TestBackgroundTicker(t *testing.T) {
	done := make(chan struct{})
	tm := New(discardLogger(), func() { close(done) }, WithTickInterval(5*time.Millisecond))
	defer tm.Close()
	tm.Start(1)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("background ticker never completed the countdown")
	}
}

// TestFormatDuration verifies m:ss rendering.
func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{90, "1:30"},
		{600, "10:00"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Package alert delivers the rest-complete cue. Every implementation is
// best-effort: a failed alert is logged and never affects the timer or the
// session that triggered it.
package alert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Alert is a single notification.
type Alert struct {
	Title string
	Body  string
	At    time.Time
}

// RestComplete is the alert fired when a rest period ends.
func RestComplete(at time.Time) Alert {
	return Alert{Title: "Rest Complete!", Body: "Time for your next set.", At: at}
}

// Alerter delivers an alert.
type Alerter interface {
	Alert(ctx context.Context, a Alert) error
}

// Log writes alerts to a structured logger.
type Log struct {
	log *slog.Logger
}

// NewLog creates a logging alerter.
func NewLog(logger *slog.Logger) *Log {
	return &Log{log: logger}
}

func (l *Log) Alert(_ context.Context, a Alert) error {
	l.log.Info(a.Title, "body", a.Body, "at", a.At.Format(time.RFC3339))
	return nil
}

// Bell rings the terminal bell on w, once per beep.
type Bell struct {
	w     io.Writer
	beeps int
}

// NewBell creates a bell alerter. beeps < 1 is treated as 1.
func NewBell(w io.Writer, beeps int) *Bell {
	return &Bell{w: w, beeps: max(beeps, 1)}
}

func (b *Bell) Alert(_ context.Context, _ Alert) error {
	buf := make([]byte, b.beeps)
	for i := range buf {
		buf[i] = '\a'
	}
	if _, err := b.w.Write(buf); err != nil {
		return fmt.Errorf("ringing bell: %w", err)
	}
	return nil
}

// Multi fans an alert out to every alerter. Failures are logged and
// swallowed, so Alert always returns nil.
type Multi struct {
	alerters []Alerter
	log      *slog.Logger
}

// NewMulti combines alerters.
func NewMulti(logger *slog.Logger, alerters ...Alerter) *Multi {
	return &Multi{alerters: alerters, log: logger}
}

func (m *Multi) Alert(ctx context.Context, a Alert) error {
	var errs []error
	for _, al := range m.alerters {
		if err := al.Alert(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		m.log.Warn("alert delivery failed", "title", a.Title, "error", err)
	}
	return nil
}

// Len returns the number of combined alerters.
func (m *Multi) Len() int {
	return len(m.alerters)
}

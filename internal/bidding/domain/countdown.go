package domain

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Remaining is the countdown breakdown shown next to a listing. All fields
// are non-negative; the zero value is the terminal "closed" state.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Elapsed reports whether the countdown has reached its terminal state.
func (r Remaining) Elapsed() bool {
	return r == Remaining{}
}

// TotalSeconds flattens the breakdown, mostly useful for comparing two
// successive samples.
func (r Remaining) TotalSeconds() int {
	return ((r.Days*24+r.Hours)*60+r.Minutes)*60 + r.Seconds
}

// RemainingUntil computes the breakdown of closeAt - now. Anything at or past
// closeAt yields the zero value, regardless of how far in the past.
func RemainingUntil(closeAt, now time.Time) Remaining {
	d := closeAt.Sub(now)
	if d <= 0 {
		return Remaining{}
	}
	total := int(d / time.Second)
	return Remaining{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// Countdown recomputes the remaining time once per interval until closeAt is
// reached, then emits the zero value and stops. One Countdown serves one
// mounted view; a closeAt change means the owner builds a fresh Countdown
// rather than resetting this one, so no tick can reference a stale close time.
type Countdown struct {
	clock    clockwork.Clock
	closeAt  time.Time
	interval time.Duration
	ticks    chan Remaining
}

func NewCountdown(clock clockwork.Clock, closeAt time.Time, interval time.Duration) *Countdown {
	return &Countdown{
		clock:    clock,
		closeAt:  closeAt,
		interval: interval,
		ticks:    make(chan Remaining, 4),
	}
}

// Ticks is the stream of samples. It is closed after the terminal zero value
// is emitted or the context is cancelled.
func (c *Countdown) Ticks() <-chan Remaining {
	return c.ticks
}

// Run drives the countdown until terminal or cancelled. An initial sample is
// emitted immediately so a freshly mounted view shows the clock without
// waiting a full interval.
func (c *Countdown) Run(ctx context.Context) {
	defer close(c.ticks)

	if done := c.emit(); done {
		return
	}

	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if done := c.emit(); done {
				return
			}
		}
	}
}

// emit pushes the current sample, dropping it if the consumer lags. Returns
// true once the terminal zero value has been sent.
func (c *Countdown) emit() bool {
	r := RemainingUntil(c.closeAt, c.clock.Now())
	select {
	case c.ticks <- r:
	default:
	}
	return r.Elapsed()
}

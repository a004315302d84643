// Package pacer enforces a minimum interval between upstream calls.
package pacer

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the spacing between consecutive upstream calls.
const DefaultInterval = 600 * time.Millisecond

// Clock abstracts time so spacing can be tested without real delays.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// Pacer is a token bucket of size one that refills every interval. Every
// upstream call waits on the same Pacer, so calls from concurrent refreshes
// are spaced too.
type Pacer struct {
	interval time.Duration
	clock    Clock
	limiter  *rate.Limiter
}

// New creates a Pacer. An interval <= 0 disables spacing. A nil clock uses
// the system clock.
func New(interval time.Duration, clock Clock) *Pacer {
	if clock == nil {
		clock = SystemClock{}
	}
	p := &Pacer{interval: interval, clock: clock}
	if interval > 0 {
		p.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return p
}

// Interval returns the configured minimum spacing.
func (p *Pacer) Interval() time.Duration { return p.interval }

// Clock returns the clock the pacer sleeps on.
func (p *Pacer) Clock() Clock { return p.clock }

// Wait blocks until the next call may start or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.limiter == nil {
		return nil
	}
	now := p.clock.Now()
	r := p.limiter.ReserveN(now, 1)
	if !r.OK() {
		return errors.New("pacer: reservation exceeds burst")
	}
	d := r.DelayFrom(now)
	if d <= 0 {
		return nil
	}
	// rate works in float seconds; round up so spacing never lands a few
	// nanoseconds short of the interval.
	d = (d + time.Microsecond - 1).Truncate(time.Microsecond)
	if err := p.clock.Sleep(ctx, d); err != nil {
		r.CancelAt(p.clock.Now())
		return err
	}
	return nil
}

// Sleep pauses for one interval on the pacer's clock.
func (p *Pacer) Sleep(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}
	return p.clock.Sleep(ctx, p.interval)
}

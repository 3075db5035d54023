package processor

import (
	"context"
	"time"
)

// Pacer spaces backend calls so that after n calls at least
// n * (60s / rate) have elapsed since Reset.
type Pacer struct {
	interval time.Duration
	start    time.Time
	calls    int

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer creates a pacer for ratePerMinute calls; a rate <= 0 disables pacing
func NewPacer(ratePerMinute float64) *Pacer {
	p := &Pacer{
		now:   time.Now,
		sleep: sleepContext,
	}
	if ratePerMinute > 0 {
		p.interval = time.Duration(float64(time.Minute) / ratePerMinute)
	}
	p.Reset()
	return p
}

// Reset starts a new pacing window
func (p *Pacer) Reset() {
	if p == nil {
		return
	}
	p.start = p.now()
	p.calls = 0
}

// Calls returns the number of calls paced since Reset
func (p *Pacer) Calls() int {
	if p == nil {
		return 0
	}
	return p.calls
}

// Wait counts one call and sleeps until the ideal elapsed time is reached
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.calls++
	if p.interval <= 0 {
		return nil
	}

	ideal := time.Duration(p.calls) * p.interval
	actual := p.now().Sub(p.start)
	if ideal <= actual {
		return nil
	}
	return p.sleep(ctx, ideal-actual)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

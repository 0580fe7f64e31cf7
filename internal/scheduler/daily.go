// Package scheduler drives the once-daily ledger reset at a fixed local time.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Resetter is the engine operation the boundary invokes.
type Resetter interface {
	DailyReset(ctx context.Context)
}

// Daily fires a reset at the configured wall-clock time in the configured
// location, once per day, until its context is cancelled.
type Daily struct {
	resetter Resetter
	loc      *time.Location
	hour     int
	minute   int
	log      zerolog.Logger
	now      func() time.Time
}

func NewDaily(resetter Resetter, loc *time.Location, hour, minute int, log zerolog.Logger) *Daily {
	return &Daily{
		resetter: resetter,
		loc:      loc,
		hour:     hour,
		minute:   minute,
		log:      log,
		now:      time.Now,
	}
}

// Run blocks, firing the reset at each boundary, until ctx is cancelled.
func (d *Daily) Run(ctx context.Context) {
	for {
		wait := time.Until(NextBoundary(d.now().In(d.loc), d.hour, d.minute))
		d.log.Info().Dur("in", wait).Msg("daily reset scheduled")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			d.resetter.DailyReset(ctx)
		}
	}
}

// NextBoundary returns the next occurrence of hour:minute strictly after now,
// in now's location.
func NextBoundary(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

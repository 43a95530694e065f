package sweeper

import (
	"context"
	"errors"
	"time"

	"github.com/recordsunit/records-backend/internal/config"
)

// Run fires RunOnce daily at the configured wall-clock time until the
// context is cancelled. It blocks and always returns ctx.Err().
func (s *Service) Run(ctx context.Context) error {
	hour, minute, err := config.ParseClockTime(s.cfg.RunAt)
	if err != nil {
		return err
	}

	for {
		wait := time.Until(nextRunAfter(s.now().UTC(), hour, minute))
		s.log.Info("next sweep scheduled", "in", wait.String())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrSweepInProgress) {
			s.log.Error("sweep failed", "error", err)
		}
	}
}

// nextRunAfter returns the first instant strictly after now that lands
// on the given wall-clock time in UTC.
func nextRunAfter(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

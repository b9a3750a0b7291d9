package scheduler

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs the periodic maintenance jobs in the background.
type Scheduler struct {
	db       *sql.DB
	log      *zap.SugaredLogger
	interval time.Duration
}

// New creates a scheduler that sweeps at the given interval.
func New(db *sql.DB, log *zap.SugaredLogger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{db: db, log: log, interval: interval}
}

// Start launches the sweep loop. It runs once immediately, then on every
// tick until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info("scheduler stopped")
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
	s.log.Infow("scheduler started", "interval", s.interval)
}

// completionSweepQuery promotes confirmed registrations once their event
// has ended. An event in progress (started but not over) is left alone.
const completionSweepQuery = `
	UPDATE event_registrations r
	SET status = 'COMPLETED', updated_at = NOW()
	FROM events e
	WHERE r.event_id = e.id
	  AND r.status = 'CONFIRMED'
	  AND e.end_date_time < NOW()`

// sweep marks confirmed registrations of ended events as completed.
func (s *Scheduler) sweep(ctx context.Context) {
	res, err := s.db.ExecContext(ctx, completionSweepQuery)
	if err != nil {
		s.log.Errorw("completion sweep failed", "error", err)
		return
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.log.Infow("completion sweep", "registrations_completed", n)
	}
}

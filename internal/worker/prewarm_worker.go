package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/service"
)

// PrewarmWorker periodically recomputes the current month's aggregations so
// the Redis result cache stays warm during attendance-entry hours. Dashboard
// requests then hit cache instead of recomputing on every poll.
type PrewarmWorker struct {
	attendanceService *service.AttendanceService
	interval          time.Duration
	log               zerolog.Logger
}

// NewPrewarmWorker creates a new PrewarmWorker. A non-positive interval
// disables it.
func NewPrewarmWorker(attendanceService *service.AttendanceService, interval time.Duration, log zerolog.Logger) *PrewarmWorker {
	return &PrewarmWorker{
		attendanceService: attendanceService,
		interval:          interval,
		log:               log.With().Str("component", "prewarm_worker").Logger(),
	}
}

// Start runs the prewarm loop until ctx is cancelled.
func (w *PrewarmWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Info().Msg("Prewarm disabled")
		return
	}

	w.log.Info().Dur("interval", w.interval).Msg("PrewarmWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.warm(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("PrewarmWorker stopped")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *PrewarmWorker) warm(ctx context.Context) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	start := time.Now()
	if _, err := w.attendanceService.AllCourseCompleteness(ctx, year, month, false); err != nil {
		w.log.Warn().Err(err).Msg("Summary prewarm failed")
		return
	}
	if _, err := w.attendanceService.PerfectAttendance(ctx, year, month, nil); err != nil {
		w.log.Warn().Err(err).Msg("Perfect-attendance prewarm failed")
		return
	}

	w.log.Debug().
		Int("year", year).
		Int("month", month).
		Dur("elapsed", time.Since(start)).
		Msg("Current month aggregations prewarmed")
}

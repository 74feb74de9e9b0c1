package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/calendar"
	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/repository"
)

// BlockedDayCheck is the answer to "is this date blocked for this course".
type BlockedDayCheck struct {
	Blocked bool     `json:"blocked"`
	Reasons []string `json:"reasons"`
}

// BlockedDayService manages the optional blocked-day calendar.
type BlockedDayService struct {
	repo *repository.BlockedDayRepository
	log  zerolog.Logger
}

// NewBlockedDayService creates a new BlockedDayService.
func NewBlockedDayService(repo *repository.BlockedDayRepository, log zerolog.Logger) *BlockedDayService {
	return &BlockedDayService{
		repo: repo,
		log:  log.With().Str("component", "blocked_day_service").Logger(),
	}
}

// ListByMonth returns a month's blocked days, optionally scoped to a course
// (school-wide entries always included).
func (s *BlockedDayService) ListByMonth(ctx context.Context, year, month int, courseID *int) ([]model.BlockedDay, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	start, end := calendar.MonthRange(year, time.Month(month))
	days, err := s.repo.ListByRange(ctx, courseID, start, end)
	if err != nil {
		return nil, &DataStoreError{Op: "list blocked days", Err: err}
	}
	if days == nil {
		days = []model.BlockedDay{}
	}
	return days, nil
}

// IsBlocked reports whether a date is blocked for a course, with reasons.
func (s *BlockedDayService) IsBlocked(ctx context.Context, date model.Date, courseID *int) (*BlockedDayCheck, error) {
	days, err := s.repo.ListByRange(ctx, courseID, date.Time, date.Time)
	if err != nil {
		return nil, &DataStoreError{Op: "check blocked day", Err: err}
	}

	check := &BlockedDayCheck{Reasons: []string{}}
	for _, d := range days {
		check.Blocked = true
		check.Reasons = append(check.Reasons, d.Reason)
	}
	return check, nil
}

// Create blocks a date.
func (s *BlockedDayService) Create(ctx context.Context, req *model.BlockedDayCreateRequest) (*model.BlockedDay, error) {
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	b := &model.BlockedDay{
		Date:     date,
		CourseID: req.CourseID,
		Reason:   req.Reason,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info().Str("date", b.Date.String()).Str("reason", b.Reason).Msg("Blocked day created")
	return b, nil
}

// Delete unblocks a date by entry ID.
func (s *BlockedDayService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

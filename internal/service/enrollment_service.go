package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/repository"
)

// ErrWithdrawalBeforeEnrollment signals a withdrawal date on or before the
// enrollment date, which would leave an empty obligation window.
var ErrWithdrawalBeforeEnrollment = errors.New("withdrawal date must be after the enrollment date")

// EnrollmentService manages the enrollment windows the aggregator reads.
type EnrollmentService struct {
	repo *repository.EnrollmentRepository
	log  zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(repo *repository.EnrollmentRepository, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		repo: repo,
		log:  log.With().Str("component", "enrollment_service").Logger(),
	}
}

// ListDetails returns enrollments with display names, optionally by course.
func (s *EnrollmentService) ListDetails(ctx context.Context, courseID *int) ([]model.EnrollmentDetail, error) {
	details, err := s.repo.ListDetails(ctx, courseID)
	if err != nil {
		return nil, &DataStoreError{Op: "list enrollments", Err: err}
	}
	if details == nil {
		details = []model.EnrollmentDetail{}
	}
	return details, nil
}

// Create registers a student in a course from the given date.
func (s *EnrollmentService) Create(ctx context.Context, req *model.EnrollmentCreateRequest) (*model.Enrollment, error) {
	enrolledOn, err := model.ParseDate(req.EnrolledOn)
	if err != nil {
		return nil, err
	}

	e := &model.Enrollment{
		StudentID:  req.StudentID,
		CourseID:   req.CourseID,
		EnrolledOn: enrolledOn,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("student_id", e.StudentID).
		Int("course_id", e.CourseID).
		Str("enrolled_on", e.EnrolledOn.String()).
		Msg("Enrollment created")
	return e, nil
}

// Withdraw closes an enrollment window. The withdrawal date is exclusive:
// the student owes attendance up to the day before.
func (s *EnrollmentService) Withdraw(ctx context.Context, id int, req *model.EnrollmentWithdrawRequest) error {
	withdrawnOn, err := model.ParseDate(req.WithdrawnOn)
	if err != nil {
		return err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !withdrawnOn.After(e.EnrolledOn.Time) {
		return ErrWithdrawalBeforeEnrollment
	}

	return s.repo.Withdraw(ctx, id, withdrawnOn.Time)
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahku/presensi-backend/internal/model"
)

var ErrDuplicateEnrollment = errors.New("student is already enrolled in this course")

// EnrollmentRepository handles enrollment data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// List retrieves enrollments, optionally filtered by course.
func (r *EnrollmentRepository) List(ctx context.Context, courseID *int) ([]model.Enrollment, error) {
	query := `SELECT id, student_id, course_id, enrolled_on, withdrawn_on, created_at
	          FROM enrollments`
	var args []interface{}
	if courseID != nil {
		query += ` WHERE course_id = $1`
		args = append(args, *courseID)
	}
	query += ` ORDER BY course_id, student_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// ListDetails retrieves enrollments joined with student and course names.
func (r *EnrollmentRepository) ListDetails(ctx context.Context, courseID *int) ([]model.EnrollmentDetail, error) {
	query := `SELECT e.id, e.student_id, e.course_id, e.enrolled_on, e.withdrawn_on, e.created_at,
	                 s.name, c.name
	          FROM enrollments e
	          JOIN students s ON s.id = e.student_id
	          JOIN courses c ON c.id = e.course_id`
	var args []interface{}
	if courseID != nil {
		query += ` WHERE e.course_id = $1`
		args = append(args, *courseID)
	}
	query += ` ORDER BY s.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []model.EnrollmentDetail
	for rows.Next() {
		var d model.EnrollmentDetail
		var enrolled time.Time
		var withdrawn *time.Time
		if err := rows.Scan(&d.ID, &d.StudentID, &d.CourseID, &enrolled, &withdrawn, &d.CreatedAt, &d.StudentName, &d.CourseName); err != nil {
			return nil, err
		}
		d.EnrolledOn = model.DateOf(enrolled)
		if withdrawn != nil {
			w := model.DateOf(*withdrawn)
			d.WithdrawnOn = &w
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// GetByID retrieves a single enrollment.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int) (*model.Enrollment, error) {
	row, err := r.pool.Query(ctx,
		`SELECT id, student_id, course_id, enrolled_on, withdrawn_on, created_at
		 FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if !row.Next() {
		if err := row.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}
	e, err := scanEnrollment(row)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, course_id, enrolled_on)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		e.StudentID, e.CourseID, e.EnrolledOn.Time,
	).Scan(&e.ID, &e.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateEnrollment
			case "23503":
				return ErrUnknownStudent
			}
		}
		return err
	}
	return nil
}

// Withdraw sets the withdrawal date on an enrollment.
func (r *EnrollmentRepository) Withdraw(ctx context.Context, id int, on time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE enrollments SET withdrawn_on = $1 WHERE id = $2`, on, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// scanEnrollment maps one row onto a model.Enrollment, converting the date
// columns into calendar dates.
func scanEnrollment(rows pgx.Rows) (model.Enrollment, error) {
	var e model.Enrollment
	var enrolled time.Time
	var withdrawn *time.Time
	if err := rows.Scan(&e.ID, &e.StudentID, &e.CourseID, &enrolled, &withdrawn, &e.CreatedAt); err != nil {
		return model.Enrollment{}, err
	}
	e.EnrolledOn = model.DateOf(enrolled)
	if withdrawn != nil {
		w := model.DateOf(*withdrawn)
		e.WithdrawnOn = &w
	}
	return e, nil
}

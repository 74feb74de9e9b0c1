package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahku/presensi-backend/internal/model"
)

var (
	ErrUnknownStudent = errors.New("referenced student or course does not exist")
)

// AttendanceRepository handles attendance record data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// ListByRange retrieves attendance records whose date falls in [start, end],
// optionally filtered by course, ordered by date then student.
func (r *AttendanceRepository) ListByRange(ctx context.Context, courseID *int, start, end time.Time) ([]model.AttendanceRecord, error) {
	query := `SELECT id, student_id, course_id, date, present, justified, absence_type, created_at, updated_at
	          FROM attendance_records
	          WHERE date >= $1 AND date <= $2`
	args := []interface{}{start, end}

	if courseID != nil {
		query += ` AND course_id = $3`
		args = append(args, *courseID)
	}
	query += ` ORDER BY date, student_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		var date time.Time
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.CourseID, &date, &rec.Present, &rec.Justified, &rec.AbsenceType, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Date = model.DateOf(date)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Upsert writes one attendance record keyed by (student_id, date). A later
// write for the same key replaces the earlier row entirely.
func (r *AttendanceRepository) Upsert(ctx context.Context, rec *model.AttendanceRecord) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attendance_records (student_id, course_id, date, present, justified, absence_type)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (student_id, date) DO UPDATE
		 SET course_id = EXCLUDED.course_id,
		     present = EXCLUDED.present,
		     justified = EXCLUDED.justified,
		     absence_type = EXCLUDED.absence_type,
		     updated_at = CURRENT_TIMESTAMP
		 RETURNING id, created_at, updated_at`,
		rec.StudentID, rec.CourseID, rec.Date.Time, rec.Present, rec.Justified, rec.AbsenceType,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrUnknownStudent
		}
		return err
	}
	return nil
}

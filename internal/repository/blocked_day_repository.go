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

var ErrDuplicateBlockedDay = errors.New("this date is already blocked for the same scope")

// BlockedDayRepository handles blocked-day calendar entries.
type BlockedDayRepository struct {
	pool *pgxpool.Pool
}

// NewBlockedDayRepository creates a new BlockedDayRepository.
func NewBlockedDayRepository(pool *pgxpool.Pool) *BlockedDayRepository {
	return &BlockedDayRepository{pool: pool}
}

// ListByRange retrieves blocked days in [start, end]. When courseID is given,
// both school-wide entries (course_id IS NULL) and that course's entries are
// returned, since either blocks the date for the course.
func (r *BlockedDayRepository) ListByRange(ctx context.Context, courseID *int, start, end time.Time) ([]model.BlockedDay, error) {
	query := `SELECT id, date, course_id, reason, created_at
	          FROM blocked_days
	          WHERE date >= $1 AND date <= $2`
	args := []interface{}{start, end}

	if courseID != nil {
		query += ` AND (course_id IS NULL OR course_id = $3)`
		args = append(args, *courseID)
	}
	query += ` ORDER BY date`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []model.BlockedDay
	for rows.Next() {
		var b model.BlockedDay
		var date time.Time
		if err := rows.Scan(&b.ID, &date, &b.CourseID, &b.Reason, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Date = model.DateOf(date)
		days = append(days, b)
	}
	return days, rows.Err()
}

// Create inserts a blocked day.
func (r *BlockedDayRepository) Create(ctx context.Context, b *model.BlockedDay) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO blocked_days (date, course_id, reason)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		b.Date.Time, b.CourseID, b.Reason,
	).Scan(&b.ID, &b.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateBlockedDay
		}
		return err
	}
	return nil
}

// Delete removes a blocked day by ID.
func (r *BlockedDayRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blocked_days WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahku/presensi-backend/internal/model"
)

// StudentRepository handles student identity lookups. Account management is
// out of scope for this service; students are read-only here.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, nis, name, active, created_at, updated_at
		 FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.NIS, &s.Name, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves students, optionally restricted to a course's enrolled
// population, ordered by name.
func (r *StudentRepository) List(ctx context.Context, courseID *int) ([]model.Student, error) {
	query := `SELECT id, nis, name, active, created_at, updated_at FROM students`
	var args []interface{}
	if courseID != nil {
		query = `SELECT s.id, s.nis, s.name, s.active, s.created_at, s.updated_at
		         FROM students s
		         JOIN enrollments e ON e.student_id = s.id
		         WHERE e.course_id = $1`
		args = append(args, *courseID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.NIS, &s.Name, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// NamesByID returns a student_id → name map for the given ids. Used to
// attach display names to aggregation results without N+1 lookups.
func (r *StudentRepository) NamesByID(ctx context.Context, ids []int) (map[int]string, error) {
	if len(ids) == 0 {
		return map[int]string{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM students WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int]string, len(ids))
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahku/presensi-backend/internal/model"
)

// CourseRepository handles course lookups. Courses are managed elsewhere;
// this service reads them for filters and display names.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, homeroom_teacher, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Code, &c.Name, &c.HomeroomTeacher, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all courses ordered by code.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, homeroom_teacher, created_at, updated_at
		 FROM courses ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.HomeroomTeacher, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

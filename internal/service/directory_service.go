package service

import (
	"context"

	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/repository"
)

// DirectoryService exposes read-only student and course listings for
// dashboard filters. Full person/course management lives in another system.
type DirectoryService struct {
	students *repository.StudentRepository
	courses  *repository.CourseRepository
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(students *repository.StudentRepository, courses *repository.CourseRepository) *DirectoryService {
	return &DirectoryService{students: students, courses: courses}
}

// ListCourses returns all courses.
func (s *DirectoryService) ListCourses(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, &DataStoreError{Op: "list courses", Err: err}
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

// ListStudents returns students, optionally restricted to a course.
func (s *DirectoryService) ListStudents(ctx context.Context, courseID *int) ([]model.Student, error) {
	students, err := s.students.List(ctx, courseID)
	if err != nil {
		return nil, &DataStoreError{Op: "list students", Err: err}
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

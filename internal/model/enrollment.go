package model

import "time"

// Enrollment captures a student's registration in a course. The student owes
// attendance for business days in the half-open window
// [EnrolledOn, WithdrawnOn); a nil WithdrawnOn leaves the window unbounded.
type Enrollment struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	CourseID    int       `json:"course_id"`
	EnrolledOn  Date      `json:"enrolled_on"`
	WithdrawnOn *Date     `json:"withdrawn_on,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// EnrollmentDetail enriches Enrollment with student and course names.
type EnrollmentDetail struct {
	Enrollment
	StudentName string `json:"student_name"`
	CourseName  string `json:"course_name"`
}

// EnrollmentCreateRequest is the payload for registering a student in a course.
type EnrollmentCreateRequest struct {
	StudentID  int    `json:"student_id" binding:"required,min=1"`
	CourseID   int    `json:"course_id" binding:"required,min=1"`
	EnrolledOn string `json:"enrolled_on" binding:"required,datetime=2006-01-02"`
}

// EnrollmentWithdrawRequest marks the first day the student no longer owes
// attendance.
type EnrollmentWithdrawRequest struct {
	WithdrawnOn string `json:"withdrawn_on" binding:"required,datetime=2006-01-02"`
}

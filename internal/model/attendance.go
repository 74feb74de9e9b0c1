package model

import "time"

// AbsenceType classifies a recorded absence.
type AbsenceType string

const (
	AbsenceSakit AbsenceType = "sakit" // sick
	AbsenceIzin  AbsenceType = "izin"  // excused leave
	AbsenceAlpha AbsenceType = "alpha" // unexplained
)

// AttendanceRecord is one student's attendance for one calendar date.
// Records upsert by (student_id, date): a later write replaces the earlier one.
type AttendanceRecord struct {
	ID          int          `json:"id"`
	StudentID   int          `json:"student_id"`
	CourseID    int          `json:"course_id"`
	Date        Date         `json:"date"`
	Present     bool         `json:"present"`
	Justified   bool         `json:"justified"`
	AbsenceType *AbsenceType `json:"absence_type,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// AttendanceRecordInput is one record in a bulk upsert request.
type AttendanceRecordInput struct {
	StudentID   int          `json:"student_id" binding:"required,min=1"`
	CourseID    int          `json:"course_id" binding:"required,min=1"`
	Date        string       `json:"date" binding:"required,datetime=2006-01-02"`
	Present     bool         `json:"present"`
	Justified   bool         `json:"justified"`
	AbsenceType *AbsenceType `json:"absence_type,omitempty" binding:"omitempty,oneof=sakit izin alpha"`
}

// AttendanceUpsertRequest is the bulk attendance-entry payload.
type AttendanceUpsertRequest struct {
	Records []AttendanceRecordInput `json:"records" binding:"required,min=1,max=1000,dive"`
}

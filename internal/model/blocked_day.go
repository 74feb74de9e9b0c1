package model

import "time"

// BlockedDay removes a date from the business-day calendar (holiday, exam
// week, force majeure). A nil CourseID blocks the date school-wide.
type BlockedDay struct {
	ID        int       `json:"id"`
	Date      Date      `json:"date"`
	CourseID  *int      `json:"course_id,omitempty"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// BlockedDayCreateRequest is the payload for blocking a date.
type BlockedDayCreateRequest struct {
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	CourseID *int   `json:"course_id,omitempty" binding:"omitempty,min=1"`
	Reason   string `json:"reason" binding:"required,min=3,max=200"`
}

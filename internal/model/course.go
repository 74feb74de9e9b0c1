package model

import "time"

// Course represents a class group whose attendance is tracked.
type Course struct {
	ID              int       `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	HomeroomTeacher string    `json:"homeroom_teacher"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

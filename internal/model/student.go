package model

import "time"

// Student is the identity record the aggregator resolves names against.
// Account management lives in a separate system; this service only reads.
type Student struct {
	ID        int       `json:"id"`
	NIS       string    `json:"nis"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package model

import "time"

// User is the public profile of a participant, kept in sync from token claims.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"-"`
}

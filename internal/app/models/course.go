package models

import "time"

// Course represents a course in the database
type Course struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	ShortName string    `json:"shortName" db:"short_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

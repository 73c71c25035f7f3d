package models

import "time"

// User defines a platform account based on the 'users' table
type User struct {
	ID                 int64     `json:"id" db:"id"`
	Login              string    `json:"login" db:"login"`
	Password           string    `json:"-" db:"password"`
	FirstName          string    `json:"firstName" db:"first_name"`
	LastName           string    `json:"lastName" db:"last_name"`
	RegistrationNumber string    `json:"registrationNumber" db:"registration_number"`
	RoleType           RoleType  `json:"roleType" db:"role_type"`
	IsActive           bool      `json:"isActive" db:"is_active"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

package models

import (
	"time"
)

// User is the row shape of the users table.
// Email is nullable so that several provider-only accounts without a disclosed
// email can coexist under the UNIQUE constraint.
type User struct {
	UserID         string  `db:"id"`
	Email          *string `db:"email"`
	PasswordHash   *string `db:"password"`
	FirstName      string  `db:"first_name"`
	LastName       string  `db:"last_name"`
	ProfilePicture *string `db:"profile_picture"`
	IsActive       bool    `db:"is_active"`
	AuditFields
}

// AuditFields holds the timestamps every table carries.
type AuditFields struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

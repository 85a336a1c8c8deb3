package models

import (
	"fmt"
	"time"
)

// User is an account known to the development API stub
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks if the user fields are valid
func (u *User) Validate() error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("password_hash is required")
	}
	return nil
}

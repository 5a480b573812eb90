package domain

import "time"

// User represents a registered account. Balance is denominated in whole
// pounds of virtual currency and never goes negative.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Balance      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

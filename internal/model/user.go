package model

import (
	"time"
)

// Status is the account lifecycle state. Deletion removes the row
// entirely and is not a status.
type Status string

const (
	StatusUnverified Status = "unverified"
	StatusActive     Status = "active"
	StatusBlocked    Status = "blocked"
)

type User struct {
	ID                       string     `db:"id"`
	Name                     string     `db:"name"`
	Email                    string     `db:"email"`
	PasswordHash             string     `db:"password_hash"` // Never exposed over the API
	Status                   Status     `db:"status"`
	RegistrationTime         time.Time  `db:"registration_time"`
	LastLoginTime            *time.Time `db:"last_login_time"`
	ConfirmationToken        *string    `db:"confirmation_token"` // Present only while confirmation is pending
	ConfirmationTokenExpires *time.Time `db:"confirmation_token_expires"`
	EmailConfirmed           bool       `db:"email_confirmed"`
}

func (u *User) IsBlocked() bool {
	return u.Status == StatusBlocked
}

// ConfirmationPending reports whether the account still has an
// outstanding email confirmation token.
func (u *User) ConfirmationPending() bool {
	return u.ConfirmationToken != nil
}

package entities

import (
	"time"

	"hvac-service/pkg/constants"
)

type User struct {
	ID           string         `json:"id" db:"id"`
	Username     string         `json:"username" db:"username"`
	PasswordHash string         `json:"-" db:"password_hash"`
	FullName     string         `json:"full_name" db:"full_name"`
	Email        *string        `json:"email,omitempty" db:"email"`
	Phone        *string        `json:"phone,omitempty" db:"phone"`
	Role         constants.Role `json:"role" db:"role"`

	// ClientID and SiteID scope CLIENT users to a single site.
	ClientID *string `json:"client_id,omitempty" db:"client_id"`
	SiteID   *string `json:"site_id,omitempty" db:"site_id"`

	LineUserID *string `json:"-" db:"line_user_id"`
	IsActive   bool    `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) HasLine() bool {
	return u.LineUserID != nil && *u.LineUserID != ""
}

package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateUserDTO struct {
	Username string      `json:"username" validate:"required,username"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	FullName string      `json:"full_name" validate:"required,max=200"`
	Email    null.String `json:"email" validate:"omitempty,email"`
	Phone    null.String `json:"phone" validate:"omitempty,th_phone"`
	Role     string      `json:"role" validate:"required,role"`
	ClientID null.String `json:"client_id" validate:"omitempty,uuid"`
	SiteID   null.String `json:"site_id" validate:"omitempty,uuid"`
}

type UserDTO struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Role       string    `json:"role"`
	ClientID   *string   `json:"client_id,omitempty"`
	SiteID     *string   `json:"site_id,omitempty"`
	LineLinked bool      `json:"line_linked"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type ShortUserDTO struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

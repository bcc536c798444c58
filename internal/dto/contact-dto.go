package dto

import "github.com/aarondl/null/v8"

type ContactDTO struct {
	Name    string      `json:"name" validate:"required,max=200"`
	Phone   null.String `json:"phone" validate:"omitempty,th_phone"`
	Email   null.String `json:"email" validate:"omitempty,email"`
	Message string      `json:"message" validate:"required,max=4000"`
}

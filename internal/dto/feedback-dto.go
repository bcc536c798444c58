package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateFeedbackDTO struct {
	Rating  int         `json:"rating" validate:"required,min=1,max=5"`
	Comment null.String `json:"comment" validate:"omitempty,max=2000"`
}

type FeedbackDTO struct {
	ID          string    `json:"id"`
	WorkOrderID string    `json:"work_order_id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

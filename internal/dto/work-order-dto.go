package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateJobItemDTO struct {
	AssetID      string      `json:"asset_id" validate:"required,uuid"`
	TechnicianID null.String `json:"technician_id" validate:"omitempty,uuid"`
}

type CreateWorkOrderDTO struct {
	SiteID        string             `json:"site_id" validate:"required,uuid"`
	JobType       string             `json:"job_type" validate:"required,oneof=PM CM"`
	ScheduledDate string             `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	Description   null.String        `json:"description" validate:"omitempty,max=2000"`
	Items         []CreateJobItemDTO `json:"items" validate:"required,min=1,dive"`
}

type ChangeStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS WAITING_APPROVAL APPROVED REJECTED COMPLETED CANCELLED"`
}

type WorkOrderDTO struct {
	ID              string       `json:"id"`
	Number          *string      `json:"number"`
	DisplayNumber   string       `json:"display_number"`
	SiteID          string       `json:"site_id"`
	SiteName        string       `json:"site_name,omitempty"`
	JobType         string       `json:"job_type"`
	Status          string       `json:"status"`
	ScheduledDate   string       `json:"scheduled_date"`
	Description     *string      `json:"description,omitempty"`
	ApprovedAt      *time.Time   `json:"approved_at,omitempty"`
	RejectedAt      *time.Time   `json:"rejected_at,omitempty"`
	RejectionReason *string      `json:"rejection_reason,omitempty"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty"`
	CancelledAt     *time.Time   `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	Items           []JobItemDTO `json:"items,omitempty"`
}

package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type ApprovalLinkDTO struct {
	WorkOrderID string `json:"work_order_id"`
	URL         string `json:"url"`
}

type ApprovalDecisionDTO struct {
	Decision string      `json:"decision" form:"decision" validate:"required,oneof=APPROVE REJECT"`
	Reason   null.String `json:"reason" form:"reason" validate:"omitempty,max=2000"`
}

// ApprovalViewDTO is what an unauthenticated approver sees behind a link.
type ApprovalViewDTO struct {
	WorkOrderID     string            `json:"work_order_id"`
	DisplayNumber   string            `json:"display_number"`
	SiteName        string            `json:"site_name"`
	JobType         string            `json:"job_type"`
	Status          string            `json:"status"`
	ScheduledDate   string            `json:"scheduled_date"`
	Description     *string           `json:"description,omitempty"`
	Pending         bool              `json:"pending"`
	ApprovedAt      *time.Time        `json:"approved_at,omitempty"`
	RejectedAt      *time.Time        `json:"rejected_at,omitempty"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	Items           []ApprovalItemDTO `json:"items"`
}

type ApprovalItemDTO struct {
	AssetType string  `json:"asset_type"`
	Brand     *string `json:"brand,omitempty"`
	Model     *string `json:"model,omitempty"`
	Status    string  `json:"status"`
	Note      *string `json:"note,omitempty"`
}

package entities

import (
	"time"

	"hvac-service/pkg/constants"
)

type WorkOrder struct {
	ID              string                    `db:"id"`
	Number          *string                   `db:"number"`
	SiteID          string                    `db:"site_id"`
	SiteName        string                    `db:"-"`
	JobType         constants.JobType         `db:"job_type"`
	Status          constants.WorkOrderStatus `db:"status"`
	ScheduledDate   time.Time                 `db:"scheduled_date"`
	Description     *string                   `db:"description"`
	ApprovalToken   *string                   `db:"approval_token"`
	ApprovedAt      *time.Time                `db:"approved_at"`
	RejectedAt      *time.Time                `db:"rejected_at"`
	RejectionReason *string                   `db:"rejection_reason"`
	CompletedAt     *time.Time                `db:"completed_at"`
	CancelledAt     *time.Time                `db:"cancelled_at"`
	CreatedBy       *string                   `db:"created_by"`
	CreatedAt       time.Time                 `db:"created_at"`
	UpdatedAt       time.Time                 `db:"updated_at"`
}

// WorkOrderScope narrows list queries to what the caller may see.
// Empty fields mean no restriction.
type WorkOrderScope struct {
	SiteID       string
	TechnicianID string
}

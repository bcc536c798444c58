package entities

import (
	"time"

	"hvac-service/pkg/constants"
)

type StatusCount struct {
	Status constants.WorkOrderStatus
	Count  int64
}

type ReportSummary struct {
	ByStatus           []StatusCount
	Total              int64
	AverageRating      *float64
	FeedbackCount      int64
	CompletedThisMonth int64
}

// ReportRow is one line of the work-order export.
type ReportRow struct {
	WorkOrderID   string
	Number        *string
	ClientName    string
	SiteName      string
	JobType       constants.JobType
	Status        constants.WorkOrderStatus
	ScheduledDate time.Time
	ItemCount     int64
	DoneCount     int64
	IssueCount    int64
	CompletedAt   *time.Time
	Rating        *int
}

type ReportFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	SiteID   string
	Statuses []constants.WorkOrderStatus
}

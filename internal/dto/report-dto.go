package dto

type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ReportSummaryDTO struct {
	Total              int64            `json:"total"`
	ByStatus           []StatusCountDTO `json:"by_status"`
	AverageRating      *float64         `json:"average_rating"`
	FeedbackCount      int64            `json:"feedback_count"`
	CompletedThisMonth int64            `json:"completed_this_month"`
}

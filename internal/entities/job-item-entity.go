package entities

import (
	"time"

	"hvac-service/pkg/constants"
)

type JobItem struct {
	ID           string                  `db:"id"`
	WorkOrderID  string                  `db:"work_order_id"`
	AssetID      string                  `db:"asset_id"`
	TechnicianID *string                 `db:"technician_id"`
	Status       constants.JobItemStatus `db:"status"`
	TechNote     *string                 `db:"tech_note"`
	Checklist    *string                 `db:"checklist"`
	StartedAt    *time.Time              `db:"started_at"`
	FinishedAt   *time.Time              `db:"finished_at"`
	CreatedAt    time.Time               `db:"created_at"`
	UpdatedAt    time.Time               `db:"updated_at"`

	// Joined for display.
	AssetType      constants.AssetType `db:"-"`
	AssetQRCode    *string             `db:"-"`
	AssetBrand     *string             `db:"-"`
	AssetModel     *string             `db:"-"`
	TechnicianName *string             `db:"-"`
}

type JobPhoto struct {
	ID         string              `db:"id"`
	JobItemID  string              `db:"job_item_id"`
	PhotoType  constants.PhotoType `db:"photo_type"`
	URL        string              `db:"url"`
	FilePath   *string             `db:"file_path"`
	Caption    *string             `db:"caption"`
	UploadedBy *string             `db:"uploaded_by"`
	CreatedAt  time.Time           `db:"created_at"`
}

package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type FinishJobItemDTO struct {
	Status string      `json:"status" validate:"required,oneof=DONE ISSUE_FOUND"`
	Note   null.String `json:"note" validate:"omitempty,max=4000"`
}

// UpdateJobItemNoteDTO leaves a field untouched when it is absent.
type UpdateJobItemNoteDTO struct {
	Note      null.String `json:"note" validate:"omitempty,max=4000"`
	Checklist null.String `json:"checklist" validate:"omitempty,json_doc"`
}

type AssignJobItemDTO struct {
	TechnicianID string `json:"technician_id" validate:"required,uuid"`
}

type AddPhotoDTO struct {
	PhotoType string      `json:"photo_type" validate:"required,photo_type"`
	URL       string      `json:"url" validate:"required,url"`
	Path      null.String `json:"path" validate:"omitempty,max=500"`
	Caption   null.String `json:"caption" validate:"omitempty,max=500"`
}

type JobPhotoDTO struct {
	ID        string    `json:"id"`
	JobItemID string    `json:"job_item_id"`
	PhotoType string    `json:"photo_type"`
	URL       string    `json:"url"`
	Caption   *string   `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type JobItemDTO struct {
	ID             string        `json:"id"`
	WorkOrderID    string        `json:"work_order_id"`
	AssetID        string        `json:"asset_id"`
	AssetType      string        `json:"asset_type,omitempty"`
	AssetQRCode    *string       `json:"asset_qr_code,omitempty"`
	AssetBrand     *string       `json:"asset_brand,omitempty"`
	AssetModel     *string       `json:"asset_model,omitempty"`
	TechnicianID   *string       `json:"technician_id,omitempty"`
	TechnicianName *string       `json:"technician_name,omitempty"`
	Status         string        `json:"status"`
	TechNote       *string       `json:"tech_note,omitempty"`
	Checklist      *string       `json:"checklist,omitempty"`
	StartedAt      *time.Time    `json:"started_at,omitempty"`
	FinishedAt     *time.Time    `json:"finished_at,omitempty"`
	Photos         []JobPhotoDTO `json:"photos,omitempty"`
}

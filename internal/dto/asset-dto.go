package dto

import (
	"github.com/aarondl/null/v8"

	"hvac-service/internal/entities"
)

type CreateAssetDTO struct {
	RoomID       string      `json:"room_id" validate:"required,uuid"`
	AssetType    string      `json:"asset_type" validate:"required,asset_type"`
	QRCode       null.String `json:"qr_code" validate:"omitempty,max=100"`
	Brand        null.String `json:"brand" validate:"omitempty,max=100"`
	Model        null.String `json:"model" validate:"omitempty,max=100"`
	SerialNumber null.String `json:"serial_number" validate:"omitempty,max=100"`
	BTU          null.Int    `json:"btu" validate:"omitempty,min=0"`
	InstallDate  null.String `json:"install_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        null.String `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateAssetDTO struct {
	RoomID       null.String `json:"room_id" validate:"omitempty,uuid"`
	QRCode       null.String `json:"qr_code" validate:"omitempty,max=100"`
	Brand        null.String `json:"brand" validate:"omitempty,max=100"`
	Model        null.String `json:"model" validate:"omitempty,max=100"`
	SerialNumber null.String `json:"serial_number" validate:"omitempty,max=100"`
	BTU          null.Int    `json:"btu" validate:"omitempty,min=0"`
	Notes        null.String `json:"notes" validate:"omitempty,max=2000"`
}

type ChangeAssetStatusDTO struct {
	Status string `json:"status" validate:"required,asset_status"`
}

type AssetLookupDTO struct {
	AssetID string `json:"assetId"`
}

type AssetDetailDTO struct {
	entities.Asset
	Location *entities.LocationPath `json:"location,omitempty"`
}

package entities

import (
	"time"

	"hvac-service/pkg/constants"
)

type Asset struct {
	ID           string                `json:"id" db:"id"`
	RoomID       string                `json:"room_id" db:"room_id"`
	AssetType    constants.AssetType   `json:"asset_type" db:"asset_type"`
	QRCode       *string               `json:"qr_code,omitempty" db:"qr_code"`
	Brand        *string               `json:"brand,omitempty" db:"brand"`
	Model        *string               `json:"model,omitempty" db:"model"`
	SerialNumber *string               `json:"serial_number,omitempty" db:"serial_number"`
	BTU          *int                  `json:"btu,omitempty" db:"btu"`
	Status       constants.AssetStatus `json:"status" db:"status"`
	InstallDate  *time.Time            `json:"install_date,omitempty" db:"install_date"`
	Notes        *string               `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at" db:"updated_at"`
}

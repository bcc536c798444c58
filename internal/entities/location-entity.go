package entities

import "time"

type Client struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ContactName *string   `json:"contact_name,omitempty" db:"contact_name"`
	Phone       *string   `json:"phone,omitempty" db:"phone"`
	Email       *string   `json:"email,omitempty" db:"email"`
	Address     *string   `json:"address,omitempty" db:"address"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Site struct {
	ID        string    `json:"id" db:"id"`
	ClientID  string    `json:"client_id" db:"client_id"`
	Name      string    `json:"name" db:"name"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Building struct {
	ID        string    `json:"id" db:"id"`
	SiteID    string    `json:"site_id" db:"site_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Floor struct {
	ID         string    `json:"id" db:"id"`
	BuildingID string    `json:"building_id" db:"building_id"`
	Name       string    `json:"name" db:"name"`
	Level      int       `json:"level" db:"level"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type Room struct {
	ID        string    `json:"id" db:"id"`
	FloorID   string    `json:"floor_id" db:"floor_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LocationPath is the Client > Site > Building > Floor > Room chain of one room.
type LocationPath struct {
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name"`
	SiteID       string `json:"site_id"`
	SiteName     string `json:"site_name"`
	BuildingID   string `json:"building_id"`
	BuildingName string `json:"building_name"`
	FloorID      string `json:"floor_id"`
	FloorName    string `json:"floor_name"`
	RoomID       string `json:"room_id"`
	RoomName     string `json:"room_name"`
}

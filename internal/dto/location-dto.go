package dto

import "github.com/aarondl/null/v8"

type CreateClientDTO struct {
	Name        string      `json:"name" validate:"required,max=200"`
	ContactName null.String `json:"contact_name" validate:"omitempty,max=200"`
	Phone       null.String `json:"phone" validate:"omitempty,th_phone"`
	Email       null.String `json:"email" validate:"omitempty,email"`
	Address     null.String `json:"address" validate:"omitempty,max=500"`
}

type CreateSiteDTO struct {
	ClientID string      `json:"client_id" validate:"required,uuid"`
	Name     string      `json:"name" validate:"required,max=200"`
	Address  null.String `json:"address" validate:"omitempty,max=500"`
}

type CreateBuildingDTO struct {
	SiteID string `json:"site_id" validate:"required,uuid"`
	Name   string `json:"name" validate:"required,max=200"`
}

type CreateFloorDTO struct {
	BuildingID string `json:"building_id" validate:"required,uuid"`
	Name       string `json:"name" validate:"required,max=100"`
	Level      int    `json:"level"`
}

type CreateRoomDTO struct {
	FloorID string `json:"floor_id" validate:"required,uuid"`
	Name    string `json:"name" validate:"required,max=200"`
}

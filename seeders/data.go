package seeders

import "hvac-service/pkg/constants"

const (
	demoClientName = "Demo Property Co., Ltd."
	demoPassword   = "demo-password"
)

type demoAsset struct {
	Type   constants.AssetType
	QRCode string
	Brand  string
	Model  string
	BTU    int
}

type demoRoom struct {
	Name   string
	Assets []demoAsset
}

type demoFloor struct {
	Name  string
	Level int
	Rooms []demoRoom
}

var demoSite = struct {
	Name     string
	Address  string
	Building string
	Floors   []demoFloor
}{
	Name:     "Central Plaza",
	Address:  "999 Rama IX Rd, Huai Khwang, Bangkok 10310",
	Building: "Tower A",
	Floors: []demoFloor{
		{Name: "1F", Level: 1, Rooms: []demoRoom{
			{Name: "Lobby", Assets: []demoAsset{
				{Type: constants.AssetTypeAirConditioner, QRCode: "DEMO-AC-0001", Brand: "Daikin", Model: "FTKF24", BTU: 24000},
				{Type: constants.AssetTypeAirConditioner, QRCode: "DEMO-AC-0002", Brand: "Daikin", Model: "FTKF24", BTU: 24000},
				{Type: constants.AssetTypeAirPurifier, Brand: "Sharp", Model: "FP-J60"},
			}},
			{Name: "Kitchen", Assets: []demoAsset{
				{Type: constants.AssetTypeExhaustFan, Brand: "Hatari", Model: "VW25M"},
				{Type: constants.AssetTypeColdRoom, QRCode: "DEMO-CR-0001", Brand: "Bitzer"},
			}},
		}},
		{Name: "2F", Level: 2, Rooms: []demoRoom{
			{Name: "Meeting Room 201", Assets: []demoAsset{
				{Type: constants.AssetTypeAirConditioner, QRCode: "DEMO-AC-0003", Brand: "Mitsubishi", Model: "MSY-GT18", BTU: 18000},
			}},
		}},
	},
}

var demoUsers = []struct {
	Username string
	FullName string
	Role     constants.Role
}{
	{Username: "tech.demo", FullName: "Demo Technician", Role: constants.RoleTechnician},
	{Username: "client.demo", FullName: "Demo Facility Manager", Role: constants.RoleClient},
}

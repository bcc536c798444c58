package services

import (
	"context"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/repositories"

	"go.uber.org/zap"
)

type LocationServiceInterface interface {
	CreateClient(ctx context.Context, payload dto.CreateClientDTO) (*entities.Client, error)
	ListClients(ctx context.Context) ([]entities.Client, error)
	CreateSite(ctx context.Context, payload dto.CreateSiteDTO) (*entities.Site, error)
	ListSites(ctx context.Context, clientID string) ([]entities.Site, error)
	CreateBuilding(ctx context.Context, payload dto.CreateBuildingDTO) (*entities.Building, error)
	ListBuildings(ctx context.Context, siteID string) ([]entities.Building, error)
	CreateFloor(ctx context.Context, payload dto.CreateFloorDTO) (*entities.Floor, error)
	ListFloors(ctx context.Context, buildingID string) ([]entities.Floor, error)
	CreateRoom(ctx context.Context, payload dto.CreateRoomDTO) (*entities.Room, error)
	ListRooms(ctx context.Context, floorID string) ([]entities.Room, error)
}

type LocationService struct {
	repo   repositories.LocationRepositoryInterface
	logger *zap.Logger
}

func NewLocationService(repo repositories.LocationRepositoryInterface, logger *zap.Logger) LocationServiceInterface {
	return &LocationService{repo: repo, logger: logger}
}

func (s *LocationService) CreateClient(ctx context.Context, payload dto.CreateClientDTO) (*entities.Client, error) {
	c := &entities.Client{
		ID:          newID(),
		Name:        payload.Name,
		ContactName: nullableString(payload.ContactName.Valid, payload.ContactName.String),
		Phone:       nullableString(payload.Phone.Valid, payload.Phone.String),
		Email:       nullableString(payload.Email.Valid, payload.Email.String),
		Address:     nullableString(payload.Address.Valid, payload.Address.String),
	}
	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("client created", zap.String("clientID", c.ID))
	return c, nil
}

func (s *LocationService) ListClients(ctx context.Context) ([]entities.Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *LocationService) CreateSite(ctx context.Context, payload dto.CreateSiteDTO) (*entities.Site, error) {
	site := &entities.Site{
		ID:       newID(),
		ClientID: payload.ClientID,
		Name:     payload.Name,
		Address:  nullableString(payload.Address.Valid, payload.Address.String),
	}
	if err := s.repo.CreateSite(ctx, site); err != nil {
		return nil, err
	}
	s.logger.Info("site created", zap.String("siteID", site.ID), zap.String("clientID", site.ClientID))
	return site, nil
}

func (s *LocationService) ListSites(ctx context.Context, clientID string) ([]entities.Site, error) {
	return s.repo.ListSites(ctx, clientID)
}

func (s *LocationService) CreateBuilding(ctx context.Context, payload dto.CreateBuildingDTO) (*entities.Building, error) {
	b := &entities.Building{ID: newID(), SiteID: payload.SiteID, Name: payload.Name}
	if err := s.repo.CreateBuilding(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *LocationService) ListBuildings(ctx context.Context, siteID string) ([]entities.Building, error) {
	return s.repo.ListBuildings(ctx, siteID)
}

func (s *LocationService) CreateFloor(ctx context.Context, payload dto.CreateFloorDTO) (*entities.Floor, error) {
	f := &entities.Floor{ID: newID(), BuildingID: payload.BuildingID, Name: payload.Name, Level: payload.Level}
	if err := s.repo.CreateFloor(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *LocationService) ListFloors(ctx context.Context, buildingID string) ([]entities.Floor, error) {
	return s.repo.ListFloors(ctx, buildingID)
}

func (s *LocationService) CreateRoom(ctx context.Context, payload dto.CreateRoomDTO) (*entities.Room, error) {
	room := &entities.Room{ID: newID(), FloorID: payload.FloorID, Name: payload.Name}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *LocationService) ListRooms(ctx context.Context, floorID string) ([]entities.Room, error) {
	return s.repo.ListRooms(ctx, floorID)
}

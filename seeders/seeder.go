package seeders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hvac-service/internal/entities"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Seeder fills an empty database with the first admin and optional demo data.
// Every step is idempotent.
type Seeder struct {
	users     repositories.UserRepositoryInterface
	locations repositories.LocationRepositoryInterface
	assets    repositories.AssetRepositoryInterface
	logger    *zap.Logger
}

func New(
	users repositories.UserRepositoryInterface,
	locations repositories.LocationRepositoryInterface,
	assets repositories.AssetRepositoryInterface,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{users: users, locations: locations, assets: assets, logger: logger}
}

// SeedAdmin creates the first ADMIN account unless the username is taken.
func (s *Seeder) SeedAdmin(ctx context.Context, username, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || len(password) < 8 {
		return fmt.Errorf("admin username is required and the password must have at least 8 characters")
	}
	created, err := s.ensureUser(ctx, entities.User{
		Username: username,
		FullName: "Administrator",
		Role:     constants.RoleAdmin,
	}, password)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("admin user created", zap.String("username", username))
	} else {
		s.logger.Info("admin user already exists, skipping", zap.String("username", username))
	}
	return nil
}

// SeedDemo inserts a demo client with one site, its location tree, a few
// assets and a technician plus a client user.
func (s *Seeder) SeedDemo(ctx context.Context) error {
	clients, err := s.locations.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}
	for _, c := range clients {
		if c.Name == demoClientName {
			s.logger.Info("demo data already present, skipping")
			return nil
		}
	}

	client := &entities.Client{ID: uuid.NewString(), Name: demoClientName}
	if err := s.locations.CreateClient(ctx, client); err != nil {
		return fmt.Errorf("create demo client: %w", err)
	}
	address := demoSite.Address
	site := &entities.Site{ID: uuid.NewString(), ClientID: client.ID, Name: demoSite.Name, Address: &address}
	if err := s.locations.CreateSite(ctx, site); err != nil {
		return fmt.Errorf("create demo site: %w", err)
	}
	building := &entities.Building{ID: uuid.NewString(), SiteID: site.ID, Name: demoSite.Building}
	if err := s.locations.CreateBuilding(ctx, building); err != nil {
		return fmt.Errorf("create demo building: %w", err)
	}

	assetCount := 0
	for _, f := range demoSite.Floors {
		floor := &entities.Floor{ID: uuid.NewString(), BuildingID: building.ID, Name: f.Name, Level: f.Level}
		if err := s.locations.CreateFloor(ctx, floor); err != nil {
			return fmt.Errorf("create floor %s: %w", f.Name, err)
		}
		for _, r := range f.Rooms {
			room := &entities.Room{ID: uuid.NewString(), FloorID: floor.ID, Name: r.Name}
			if err := s.locations.CreateRoom(ctx, room); err != nil {
				return fmt.Errorf("create room %s: %w", r.Name, err)
			}
			for _, a := range r.Assets {
				if err := s.assets.Create(ctx, demoAssetEntity(room.ID, a)); err != nil {
					return fmt.Errorf("create asset in %s: %w", r.Name, err)
				}
				assetCount++
			}
		}
	}

	for _, u := range demoUsers {
		user := entities.User{Username: u.Username, FullName: u.FullName, Role: u.Role}
		if u.Role == constants.RoleClient {
			user.ClientID = &client.ID
			user.SiteID = &site.ID
		}
		if _, err := s.ensureUser(ctx, user, demoPassword); err != nil {
			return err
		}
	}

	s.logger.Info("demo data created",
		zap.String("client", client.Name),
		zap.String("site", site.Name),
		zap.Int("assets", assetCount),
	)
	return nil
}

func (s *Seeder) ensureUser(ctx context.Context, user entities.User, password string) (bool, error) {
	_, err := s.users.FindByUsername(ctx, user.Username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return false, fmt.Errorf("look up user %s: %w", user.Username, err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}
	user.ID = uuid.NewString()
	user.PasswordHash = hash
	user.IsActive = true
	if err := s.users.Create(ctx, &user); err != nil {
		return false, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return true, nil
}

func demoAssetEntity(roomID string, a demoAsset) *entities.Asset {
	asset := &entities.Asset{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		AssetType: a.Type,
		Status:    constants.AssetStatusActive,
	}
	if a.QRCode != "" {
		asset.QRCode = utils.ToPtr(a.QRCode)
	}
	if a.Brand != "" {
		asset.Brand = utils.ToPtr(a.Brand)
	}
	if a.Model != "" {
		asset.Model = utils.ToPtr(a.Model)
	}
	if a.BTU > 0 {
		asset.BTU = utils.ToPtr(a.BTU)
	}
	return asset
}

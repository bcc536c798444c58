package repositories

import (
	"context"
	"errors"
	"fmt"

	"hvac-service/internal/entities"
	apperrors "hvac-service/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type LocationRepositoryInterface interface {
	CreateClient(ctx context.Context, c *entities.Client) error
	ListClients(ctx context.Context) ([]entities.Client, error)
	FindClient(ctx context.Context, id string) (*entities.Client, error)

	CreateSite(ctx context.Context, s *entities.Site) error
	ListSites(ctx context.Context, clientID string) ([]entities.Site, error)
	FindSite(ctx context.Context, id string) (*entities.Site, error)

	CreateBuilding(ctx context.Context, b *entities.Building) error
	ListBuildings(ctx context.Context, siteID string) ([]entities.Building, error)

	CreateFloor(ctx context.Context, f *entities.Floor) error
	ListFloors(ctx context.Context, buildingID string) ([]entities.Floor, error)

	CreateRoom(ctx context.Context, room *entities.Room) error
	ListRooms(ctx context.Context, floorID string) ([]entities.Room, error)

	PathForRoom(ctx context.Context, roomID string) (*entities.LocationPath, error)
}

type LocationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLocationRepository(storage *pgxpool.Pool, logger *zap.Logger) LocationRepositoryInterface {
	return &LocationRepository{storage: storage, logger: logger}
}

func parentMissing(err error, what string) error {
	if isForeignKeyViolation(err) {
		return apperrors.NewInvalidInputError("%s does not exist", what)
	}
	return err
}

func (r *LocationRepository) CreateClient(ctx context.Context, c *entities.Client) error {
	err := r.storage.QueryRow(ctx, `
		INSERT INTO clients (id, name, contact_name, phone, email, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.ContactName, c.Phone, c.Email, c.Address,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *LocationRepository) ListClients(ctx context.Context) ([]entities.Client, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id, name, contact_name, phone, email, address, created_at, updated_at
		FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]entities.Client, 0)
	for rows.Next() {
		var c entities.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactName, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *LocationRepository) FindClient(ctx context.Context, id string) (*entities.Client, error) {
	var c entities.Client
	err := r.storage.QueryRow(ctx, `
		SELECT id, name, contact_name, phone, email, address, created_at, updated_at
		FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.ContactName, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return &c, nil
}

func (r *LocationRepository) CreateSite(ctx context.Context, s *entities.Site) error {
	err := r.storage.QueryRow(ctx, `
		INSERT INTO sites (id, client_id, name, address)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		s.ID, s.ClientID, s.Name, s.Address,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert site: %w", parentMissing(err, "client"))
	}
	return nil
}

func (r *LocationRepository) ListSites(ctx context.Context, clientID string) ([]entities.Site, error) {
	query := `SELECT id, client_id, name, address, created_at, updated_at FROM sites`
	args := []interface{}{}
	if clientID != "" {
		query += ` WHERE client_id = $1`
		args = append(args, clientID)
	}
	query += ` ORDER BY name`

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	sites := make([]entities.Site, 0)
	for rows.Next() {
		var s entities.Site
		if err := rows.Scan(&s.ID, &s.ClientID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

func (r *LocationRepository) FindSite(ctx context.Context, id string) (*entities.Site, error) {
	var s entities.Site
	err := r.storage.QueryRow(ctx,
		`SELECT id, client_id, name, address, created_at, updated_at FROM sites WHERE id = $1`, id,
	).Scan(&s.ID, &s.ClientID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find site: %w", err)
	}
	return &s, nil
}

func (r *LocationRepository) CreateBuilding(ctx context.Context, b *entities.Building) error {
	err := r.storage.QueryRow(ctx,
		`INSERT INTO buildings (id, site_id, name) VALUES ($1, $2, $3) RETURNING created_at`,
		b.ID, b.SiteID, b.Name,
	).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert building: %w", parentMissing(err, "site"))
	}
	return nil
}

func (r *LocationRepository) ListBuildings(ctx context.Context, siteID string) ([]entities.Building, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, site_id, name, created_at FROM buildings WHERE site_id = $1 ORDER BY name`, siteID)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Building, 0)
	for rows.Next() {
		var b entities.Building
		if err := rows.Scan(&b.ID, &b.SiteID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan building: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *LocationRepository) CreateFloor(ctx context.Context, f *entities.Floor) error {
	err := r.storage.QueryRow(ctx,
		`INSERT INTO floors (id, building_id, name, level) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		f.ID, f.BuildingID, f.Name, f.Level,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert floor: %w", parentMissing(err, "building"))
	}
	return nil
}

func (r *LocationRepository) ListFloors(ctx context.Context, buildingID string) ([]entities.Floor, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, building_id, name, level, created_at FROM floors WHERE building_id = $1 ORDER BY level, name`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("list floors: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Floor, 0)
	for rows.Next() {
		var f entities.Floor
		if err := rows.Scan(&f.ID, &f.BuildingID, &f.Name, &f.Level, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan floor: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *LocationRepository) CreateRoom(ctx context.Context, room *entities.Room) error {
	err := r.storage.QueryRow(ctx,
		`INSERT INTO rooms (id, floor_id, name) VALUES ($1, $2, $3) RETURNING created_at`,
		room.ID, room.FloorID, room.Name,
	).Scan(&room.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert room: %w", parentMissing(err, "floor"))
	}
	return nil
}

func (r *LocationRepository) ListRooms(ctx context.Context, floorID string) ([]entities.Room, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, floor_id, name, created_at FROM rooms WHERE floor_id = $1 ORDER BY name`, floorID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Room, 0)
	for rows.Next() {
		var room entities.Room
		if err := rows.Scan(&room.ID, &room.FloorID, &room.Name, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *LocationRepository) PathForRoom(ctx context.Context, roomID string) (*entities.LocationPath, error) {
	var p entities.LocationPath
	err := r.storage.QueryRow(ctx, `
		SELECT c.id, c.name, s.id, s.name, b.id, b.name, f.id, f.name, rm.id, rm.name
		FROM rooms rm
		JOIN floors f ON f.id = rm.floor_id
		JOIN buildings b ON b.id = f.building_id
		JOIN sites s ON s.id = b.site_id
		JOIN clients c ON c.id = s.client_id
		WHERE rm.id = $1`, roomID,
	).Scan(&p.ClientID, &p.ClientName, &p.SiteID, &p.SiteName, &p.BuildingID, &p.BuildingName,
		&p.FloorID, &p.FloorName, &p.RoomID, &p.RoomName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("resolve room path: %w", err)
	}
	return &p, nil
}

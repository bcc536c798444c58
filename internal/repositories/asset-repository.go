package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"hvac-service/internal/entities"
	db "hvac-service/internal/infrastructure/bd"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const assetSelectFields = "a.id, a.room_id, a.asset_type, a.qr_code, a.brand, a.model, a.serial_number, a.btu, a.status, a.install_date, a.notes, a.created_at, a.updated_at"

const assetSiteJoin = `assets a
	JOIN rooms rm ON rm.id = a.room_id
	JOIN floors f ON f.id = rm.floor_id
	JOIN buildings b ON b.id = f.building_id`

var assetAllowedFields = map[string]string{
	"room_id":     "a.room_id",
	"asset_type":  "a.asset_type",
	"status":      "a.status",
	"site_id":     "b.site_id",
	"building_id": "f.building_id",
	"floor_id":    "rm.floor_id",
	"brand":       "a.brand",
	"created_at":  "a.created_at",
}

type AssetRepositoryInterface interface {
	Create(ctx context.Context, asset *entities.Asset) error
	Update(ctx context.Context, asset *entities.Asset) error
	FindByID(ctx context.Context, id string) (*entities.Asset, error)
	FindByQRCode(ctx context.Context, qrCode string) (*entities.Asset, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error)
	SetStatus(ctx context.Context, id string, status constants.AssetStatus) error
	CountAtSite(ctx context.Context, siteID string, ids []string) (int, error)
}

type AssetRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssetRepository(storage *pgxpool.Pool, logger *zap.Logger) AssetRepositoryInterface {
	return &AssetRepository{storage: storage, logger: logger}
}

func scanAsset(row pgx.Row) (*entities.Asset, error) {
	var a entities.Asset
	err := row.Scan(
		&a.ID, &a.RoomID, &a.AssetType, &a.QRCode, &a.Brand, &a.Model, &a.SerialNumber,
		&a.BTU, &a.Status, &a.InstallDate, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func assetWriteError(err error) error {
	switch {
	case IsUniqueViolation(err, "assets_qr_code_key"):
		return apperrors.NewHttpError(http.StatusConflict, "QR code is already assigned to another asset", err, nil)
	case isCheckViolation(err):
		return apperrors.NewInvalidInputError("air conditioner assets require a QR code")
	case isForeignKeyViolation(err):
		return apperrors.NewInvalidInputError("room does not exist")
	}
	return err
}

func (r *AssetRepository) Create(ctx context.Context, a *entities.Asset) error {
	err := r.storage.QueryRow(ctx, `
		INSERT INTO assets (id, room_id, asset_type, qr_code, brand, model, serial_number, btu, status, install_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		a.ID, a.RoomID, a.AssetType, a.QRCode, a.Brand, a.Model, a.SerialNumber,
		a.BTU, a.Status, a.InstallDate, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert asset: %w", assetWriteError(err))
	}
	return nil
}

func (r *AssetRepository) Update(ctx context.Context, a *entities.Asset) error {
	err := r.storage.QueryRow(ctx, `
		UPDATE assets SET room_id = $2, qr_code = $3, brand = $4, model = $5, serial_number = $6,
			btu = $7, notes = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.RoomID, a.QRCode, a.Brand, a.Model, a.SerialNumber, a.BTU, a.Notes,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("update asset: %w", assetWriteError(err))
	}
	return nil
}

func (r *AssetRepository) FindByID(ctx context.Context, id string) (*entities.Asset, error) {
	return scanAsset(r.storage.QueryRow(ctx, "SELECT "+assetSelectFields+" FROM assets a WHERE a.id = $1", id))
}

func (r *AssetRepository) FindByQRCode(ctx context.Context, qrCode string) (*entities.Asset, error) {
	return scanAsset(r.storage.QueryRow(ctx, "SELECT "+assetSelectFields+" FROM assets a WHERE a.qr_code = $1", qrCode))
}

func (r *AssetRepository) List(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error) {
	base := db.Psql.Select().From(assetSiteJoin)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"a.qr_code": like}, sq.ILike{"a.brand": like},
			sq.ILike{"a.model": like}, sq.ILike{"a.serial_number": like},
		})
	}
	base = db.ApplyFilters(base, filter, assetAllowedFields)

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}
	if total == 0 {
		return []entities.Asset{}, 0, nil
	}

	listSQL, args, err := db.ApplyListParams(base.Columns(assetSelectFields), types.Filter{
		Sort: filter.Sort, Limit: filter.Limit, Offset: filter.Offset, WithPagination: filter.WithPagination,
	}, assetAllowedFields, "a.created_at DESC").ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	assets := make([]entities.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, *a)
	}
	return assets, total, rows.Err()
}

func (r *AssetRepository) SetStatus(ctx context.Context, id string, status constants.AssetStatus) error {
	tag, err := r.storage.Exec(ctx, `UPDATE assets SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update asset status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountAtSite returns how many of ids are assets located at siteID.
func (r *AssetRepository) CountAtSite(ctx context.Context, siteID string, ids []string) (int, error) {
	var n int
	err := r.storage.QueryRow(ctx,
		"SELECT COUNT(DISTINCT a.id) FROM "+assetSiteJoin+" WHERE b.site_id = $1 AND a.id = ANY($2)",
		siteID, ids,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count site assets: %w", err)
	}
	return n, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/types"

	"go.uber.org/zap"
)

const assetQRCacheTTL = 10 * time.Minute

type AssetServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateAssetDTO) (*entities.Asset, error)
	Update(ctx context.Context, id string, payload dto.UpdateAssetDTO) (*entities.Asset, error)
	ChangeStatus(ctx context.Context, id string, payload dto.ChangeAssetStatusDTO) (*entities.Asset, error)
	Get(ctx context.Context, id string) (*dto.AssetDetailDTO, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error)
	FindByQRCode(ctx context.Context, qrCode string) (*dto.AssetLookupDTO, error)
}

type AssetService struct {
	repo         repositories.AssetRepositoryInterface
	locationRepo repositories.LocationRepositoryInterface
	cache        repositories.CacheRepositoryInterface
	logger       *zap.Logger
}

// NewAssetService builds the service; cache may be nil, in which case QR
// lookups always hit the database.
func NewAssetService(
	repo repositories.AssetRepositoryInterface,
	locationRepo repositories.LocationRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) AssetServiceInterface {
	return &AssetService{repo: repo, locationRepo: locationRepo, cache: cache, logger: logger}
}

func (s *AssetService) Create(ctx context.Context, payload dto.CreateAssetDTO) (*entities.Asset, error) {
	asset := &entities.Asset{
		ID:           newID(),
		RoomID:       payload.RoomID,
		AssetType:    constants.AssetType(payload.AssetType),
		QRCode:       normalizeQR(payload.QRCode.Valid, payload.QRCode.String),
		Brand:        nullableString(payload.Brand.Valid, payload.Brand.String),
		Model:        nullableString(payload.Model.Valid, payload.Model.String),
		SerialNumber: nullableString(payload.SerialNumber.Valid, payload.SerialNumber.String),
		Status:       constants.AssetStatusActive,
		Notes:        nullableString(payload.Notes.Valid, payload.Notes.String),
	}
	if payload.BTU.Valid {
		btu := payload.BTU.Int
		asset.BTU = &btu
	}
	if payload.InstallDate.Valid {
		d, err := time.Parse(dateLayout, payload.InstallDate.String)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("install_date must be YYYY-MM-DD")
		}
		asset.InstallDate = &d
	}
	if err := checkQRRequired(asset); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, err
	}
	s.logger.Info("asset created", zap.String("assetID", asset.ID), zap.String("type", string(asset.AssetType)))
	return asset, nil
}

func (s *AssetService) Update(ctx context.Context, id string, payload dto.UpdateAssetDTO) (*entities.Asset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldQR := asset.QRCode

	if payload.RoomID.Valid {
		asset.RoomID = payload.RoomID.String
	}
	if payload.QRCode.Valid {
		asset.QRCode = normalizeQR(true, payload.QRCode.String)
	}
	if payload.Brand.Valid {
		asset.Brand = strPtr(payload.Brand.String)
	}
	if payload.Model.Valid {
		asset.Model = strPtr(payload.Model.String)
	}
	if payload.SerialNumber.Valid {
		asset.SerialNumber = strPtr(payload.SerialNumber.String)
	}
	if payload.BTU.Valid {
		btu := payload.BTU.Int
		asset.BTU = &btu
	}
	if payload.Notes.Valid {
		asset.Notes = strPtr(payload.Notes.String)
	}
	if err := checkQRRequired(asset); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}
	s.forgetQR(ctx, oldQR, asset.QRCode)
	return asset, nil
}

func (s *AssetService) ChangeStatus(ctx context.Context, id string, payload dto.ChangeAssetStatusDTO) (*entities.Asset, error) {
	status := constants.AssetStatus(payload.Status)
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.logger.Info("asset status changed", zap.String("assetID", id), zap.String("status", string(status)))
	return s.repo.FindByID(ctx, id)
}

func (s *AssetService) Get(ctx context.Context, id string) (*dto.AssetDetailDTO, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := s.locationRepo.PathForRoom(ctx, asset.RoomID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if actor.IsClient() && (path == nil || path.SiteID != actor.SiteID) {
		return nil, apperrors.ErrForbidden
	}
	return &dto.AssetDetailDTO{Asset: *asset, Location: path}, nil
}

func (s *AssetService) List(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, 0, err
	}
	if actor.IsClient() {
		if filter.Filter == nil {
			filter.Filter = map[string]interface{}{}
		}
		filter.Filter["site_id"] = actor.SiteID
	}
	return s.repo.List(ctx, filter)
}

// FindByQRCode resolves a scanned code to an asset id.
func (s *AssetService) FindByQRCode(ctx context.Context, qrCode string) (*dto.AssetLookupDTO, error) {
	code := strings.TrimSpace(qrCode)
	if code == "" {
		return nil, apperrors.NewInvalidInputError("qrCode is required")
	}

	key := fmt.Sprintf(constants.CacheKeyAssetQR, code)
	if s.cache != nil {
		id, err := s.cache.Get(ctx, key)
		if err == nil {
			return &dto.AssetLookupDTO{AssetID: id}, nil
		}
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("asset qr cache read failed", zap.Error(err))
		}
	}

	asset, err := s.repo.FindByQRCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, asset.ID, assetQRCacheTTL); err != nil {
			s.logger.Warn("asset qr cache write failed", zap.Error(err))
		}
	}
	return &dto.AssetLookupDTO{AssetID: asset.ID}, nil
}

func (s *AssetService) forgetQR(ctx context.Context, codes ...*string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(codes))
	for _, c := range codes {
		if c != nil {
			keys = append(keys, fmt.Sprintf(constants.CacheKeyAssetQR, *c))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn("asset qr cache invalidation failed", zap.Error(err))
	}
}

func checkQRRequired(a *entities.Asset) error {
	if a.AssetType == constants.AssetTypeAirConditioner && a.QRCode == nil {
		return apperrors.NewInvalidInputError("qr_code is required for air conditioners")
	}
	return nil
}

func normalizeQR(valid bool, v string) *string {
	v = strings.TrimSpace(v)
	if !valid || v == "" {
		return nil
	}
	return &v
}

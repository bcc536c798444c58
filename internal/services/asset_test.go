package services

import (
	"context"
	"testing"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAssetFixture(t *testing.T) (AssetServiceInterface, *fakeAssetRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	assets := newFakeAssetRepo()
	qr := "QR-0001"
	assets.add(entities.Asset{ID: "asset-1", RoomID: "room-1", AssetType: constants.AssetTypeAirConditioner, QRCode: &qr}, "site-1")
	locations := &fakeLocationRepo{paths: map[string]entities.LocationPath{
		"room-1": {SiteID: "site-1", SiteName: "Central Plaza", RoomID: "room-1", RoomName: "Server room"},
	}}
	svc := NewAssetService(assets, locations, repositories.NewRedisCacheRepository(client), zap.NewNop())
	return svc, assets, mr
}

func TestAssetFindByQRCodeIsCached(t *testing.T) {
	svc, assets, mr := newAssetFixture(t)
	ctx := context.Background()

	res, err := svc.FindByQRCode(ctx, " QR-0001 ")
	require.NoError(t, err)
	assert.Equal(t, "asset-1", res.AssetID)
	assert.Equal(t, 1, assets.qrLookups)

	cached, err := mr.Get("asset_qr:QR-0001")
	require.NoError(t, err)
	assert.Equal(t, "asset-1", cached)

	res, err = svc.FindByQRCode(ctx, "QR-0001")
	require.NoError(t, err)
	assert.Equal(t, "asset-1", res.AssetID)
	assert.Equal(t, 1, assets.qrLookups)

	_, err = svc.FindByQRCode(ctx, "QR-404")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.FindByQRCode(ctx, "  ")
	var inputErr *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestAssetUpdateInvalidatesQRCache(t *testing.T) {
	svc, _, mr := newAssetFixture(t)
	ctx := context.Background()

	_, err := svc.FindByQRCode(ctx, "QR-0001")
	require.NoError(t, err)
	require.True(t, mr.Exists("asset_qr:QR-0001"))

	_, err = svc.Update(ctx, "asset-1", dto.UpdateAssetDTO{QRCode: null.StringFrom("QR-0002")})
	require.NoError(t, err)
	assert.False(t, mr.Exists("asset_qr:QR-0001"))

	_, err = svc.FindByQRCode(ctx, "QR-0001")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	res, err := svc.FindByQRCode(ctx, "QR-0002")
	require.NoError(t, err)
	assert.Equal(t, "asset-1", res.AssetID)
}

func TestAssetQRRequiredForAirConditioners(t *testing.T) {
	svc, _, _ := newAssetFixture(t)
	var inputErr *apperrors.InvalidInputError

	_, err := svc.Create(context.Background(), dto.CreateAssetDTO{RoomID: "room-1", AssetType: "AIR_CONDITIONER"})
	assert.ErrorAs(t, err, &inputErr)

	_, err = svc.Create(context.Background(), dto.CreateAssetDTO{RoomID: "room-1", AssetType: "AIR_CONDITIONER", QRCode: null.StringFrom("   ")})
	assert.ErrorAs(t, err, &inputErr)

	fan, err := svc.Create(context.Background(), dto.CreateAssetDTO{RoomID: "room-1", AssetType: "EXHAUST_FAN", BTU: null.IntFrom(0)})
	require.NoError(t, err)
	assert.Nil(t, fan.QRCode)
	assert.Equal(t, constants.AssetStatusActive, fan.Status)

	_, err = svc.Update(context.Background(), "asset-1", dto.UpdateAssetDTO{QRCode: null.StringFrom("")})
	assert.ErrorAs(t, err, &inputErr)
}

func TestAssetGetWithLocation(t *testing.T) {
	svc, _, _ := newAssetFixture(t)

	detail, err := svc.Get(actorCtx("client-1", constants.RoleClient, "site-1"), "asset-1")
	require.NoError(t, err)
	require.NotNil(t, detail.Location)
	assert.Equal(t, "Server room", detail.Location.RoomName)

	_, err = svc.Get(actorCtx("client-2", constants.RoleClient, "site-2"), "asset-1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

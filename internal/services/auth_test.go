package services

import (
	"context"
	"testing"
	"time"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/service"
	"hvac-service/pkg/types"
	"hvac-service/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := utils.HashPassword(password)
	require.NoError(t, err)
	return h
}

func TestAuthLogin(t *testing.T) {
	site, client := "site-1", "client-1"
	users := newFakeUserRepo(
		entities.User{ID: "u1", Username: "nok", PasswordHash: hashed(t, "s3cret-pass"), Role: constants.RoleClient, SiteID: &site, ClientID: &client, IsActive: true},
		entities.User{ID: "u2", Username: "gone", PasswordHash: hashed(t, "s3cret-pass"), Role: constants.RoleTechnician, IsActive: false},
	)
	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	svc := NewAuthService(users, jwtSvc, zap.NewNop())

	res, err := svc.Login(context.Background(), dto.LoginDTO{Username: " nok ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	claims, err := jwtSvc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleClient, claims.Role)
	assert.Equal(t, "site-1", claims.SiteID)
	assert.Equal(t, "client-1", claims.ClientID)

	_, err = svc.Login(context.Background(), dto.LoginDTO{Username: "nok", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginDTO{Username: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginDTO{Username: "gone", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrUserInactive)

	me, err := svc.Me(actorCtx("u1", constants.RoleClient, "site-1"))
	require.NoError(t, err)
	assert.Equal(t, "nok", me.Username)

	_, err = svc.Me(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUserCreate(t *testing.T) {
	users := newFakeUserRepo(entities.User{ID: "admin-1", Username: "admin", Role: constants.RoleAdmin, IsActive: true})
	locations := &fakeLocationRepo{sites: map[string]entities.Site{"site-1": {ID: "site-1", ClientID: "client-1"}}}
	svc := NewUserService(users, locations, zap.NewNop())

	u, err := svc.Create(adminCtx(), dto.CreateUserDTO{
		Username: "Nok", Password: "password123", FullName: "Nok K.", Role: "CLIENT", SiteID: null.StringFrom("site-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "nok", u.Username)
	require.NotNil(t, u.ClientID)
	assert.Equal(t, "client-1", *u.ClientID)
	stored := users.users[u.ID]
	assert.NoError(t, utils.ComparePasswords(stored.PasswordHash, "password123"))

	var inputErr *apperrors.InvalidInputError
	_, err = svc.Create(adminCtx(), dto.CreateUserDTO{Username: "x", Password: "password123", FullName: "X", Role: "CLIENT"})
	assert.ErrorAs(t, err, &inputErr)

	_, err = svc.Create(adminCtx(), dto.CreateUserDTO{
		Username: "y", Password: "password123", FullName: "Y", Role: "CLIENT",
		SiteID: null.StringFrom("site-1"), ClientID: null.StringFrom("client-2"),
	})
	assert.ErrorAs(t, err, &inputErr)

	tech, err := svc.Create(adminCtx(), dto.CreateUserDTO{Username: "tech", Password: "password123", FullName: "T", Role: "TECHNICIAN", SiteID: null.StringFrom("site-1")})
	require.NoError(t, err)
	assert.Nil(t, tech.SiteID)

	_, err = svc.Create(adminCtx(), dto.CreateUserDTO{Username: "tech", Password: "password123", FullName: "T2", Role: "TECHNICIAN"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Create(actorCtx("tech-1", constants.RoleTechnician, ""), dto.CreateUserDTO{Username: "z", Password: "password123", FullName: "Z", Role: "ADMIN"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUserDeactivate(t *testing.T) {
	users := newFakeUserRepo(
		entities.User{ID: "admin-1", Role: constants.RoleAdmin, IsActive: true},
		entities.User{ID: "tech-1", Role: constants.RoleTechnician, IsActive: true},
	)
	svc := NewUserService(users, &fakeLocationRepo{}, zap.NewNop())

	var inputErr *apperrors.InvalidInputError
	assert.ErrorAs(t, svc.Deactivate(adminCtx(), "admin-1"), &inputErr)

	require.NoError(t, svc.Deactivate(adminCtx(), "tech-1"))
	assert.False(t, users.users["tech-1"].IsActive)

	assert.ErrorIs(t, svc.Deactivate(adminCtx(), "ghost"), apperrors.ErrNotFound)

	list, total, err := svc.List(adminCtx(), types.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, uint64(2), total)
}

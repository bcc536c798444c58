package services

import (
	"context"
	"strings"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/types"
	"hvac-service/pkg/utils"

	"go.uber.org/zap"
)

type UserServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	List(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	Deactivate(ctx context.Context, id string) error
}

type UserService struct {
	userRepo     repositories.UserRepositoryInterface
	locationRepo repositories.LocationRepositoryInterface
	logger       *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	locationRepo repositories.LocationRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{userRepo: userRepo, locationRepo: locationRepo, logger: logger}
}

func (s *UserService) Create(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	actor, err := requireRole(ctx, constants.RoleAdmin)
	if err != nil {
		return nil, err
	}

	role := constants.Role(strings.ToUpper(payload.Role))
	if !role.Valid() {
		return nil, apperrors.NewInvalidInputError("unknown role %q", payload.Role)
	}

	user := &entities.User{
		ID:       newID(),
		Username: strings.ToLower(strings.TrimSpace(payload.Username)),
		FullName: strings.TrimSpace(payload.FullName),
		Email:    nullableString(payload.Email.Valid, payload.Email.String),
		Phone:    nullableString(payload.Phone.Valid, payload.Phone.String),
		Role:     role,
		IsActive: true,
	}

	// Client users belong to exactly one site; the client follows from it.
	if role == constants.RoleClient {
		if !payload.SiteID.Valid {
			return nil, apperrors.NewInvalidInputError("site_id is required for client users")
		}
		site, err := s.locationRepo.FindSite(ctx, payload.SiteID.String)
		if err != nil {
			return nil, err
		}
		if payload.ClientID.Valid && payload.ClientID.String != site.ClientID {
			return nil, apperrors.NewInvalidInputError("site does not belong to the given client")
		}
		user.SiteID = strPtr(site.ID)
		user.ClientID = strPtr(site.ClientID)
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created",
		zap.String("userID", user.ID), zap.String("role", string(role)), zap.String("actorID", actor.UserID))

	res := userToDTO(user)
	return &res, nil
}

func (s *UserService) List(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	if _, err := requireRole(ctx, constants.RoleAdmin); err != nil {
		return nil, 0, err
	}
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	res := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		res = append(res, userToDTO(&users[i]))
	}
	return res, total, nil
}

func (s *UserService) Deactivate(ctx context.Context, id string) error {
	actor, err := requireRole(ctx, constants.RoleAdmin)
	if err != nil {
		return err
	}
	if actor.UserID == id {
		return apperrors.NewInvalidInputError("you cannot deactivate your own account")
	}
	if err := s.userRepo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.logger.Info("user deactivated", zap.String("userID", id), zap.String("actorID", actor.UserID))
	return nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"hvac-service/internal/dto"
	"hvac-service/internal/repositories"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/service"
	"hvac-service/pkg/utils"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error)
	Me(ctx context.Context) (*dto.UserDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	username := strings.TrimSpace(payload.Username)
	logger := s.logger.With(zap.String("username", username))

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("login with unknown username")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		logger.Warn("login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	subject := service.TokenSubject{UserID: user.ID, Role: user.Role}
	if user.ClientID != nil {
		subject.ClientID = *user.ClientID
	}
	if user.SiteID != nil {
		subject.SiteID = *user.SiteID
	}
	token, expiresAt, err := s.jwtService.GenerateAccessToken(subject)
	if err != nil {
		logger.Error("issue access token failed", zap.Error(err))
		return nil, err
	}

	logger.Info("user logged in", zap.String("userID", user.ID))
	return &dto.LoginResponseDTO{AccessToken: token, ExpiresAt: expiresAt, User: userToDTO(user)}, nil
}

func (s *AuthService) Me(ctx context.Context) (*dto.UserDTO, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}
	res := userToDTO(user)
	return &res, nil
}

package middleware

import (
	"strings"

	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/service"
	"hvac-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// 1. Bearer header
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		// 2. Token
		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Debug("auth: token rejected", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		// 3. Actor into the request context
		ctx := utils.WithActor(c.Request().Context(), utils.Actor{
			UserID:   claims.UserID,
			Role:     claims.Role,
			ClientID: claims.ClientID,
			SiteID:   claims.SiteID,
		})
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set("userID", claims.UserID)

		return next(c)
	}
}

// RequireRoles lets the request through only for the listed roles. Must run
// after Auth.
func (m *AuthMiddleware) RequireRoles(roles ...constants.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := utils.ActorFromContext(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			for _, r := range roles {
				if actor.Role == r {
					return next(c)
				}
			}
			m.logger.Warn("auth: role not permitted",
				zap.String("userID", actor.UserID),
				zap.String("role", string(actor.Role)),
				zap.String("path", c.Path()),
			)
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
	}
}

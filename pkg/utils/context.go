package utils

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"hvac-service/pkg/constants"
	"hvac-service/pkg/contextkeys"
	apperrors "hvac-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

func ContextWithTimeout(ctx echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request().Context(), timeout)
}

// Actor is the authenticated caller as placed in the request context by the
// auth middleware.
type Actor struct {
	UserID   string
	Role     constants.Role
	ClientID string
	SiteID   string
}

func (a Actor) IsAdmin() bool      { return a.Role == constants.RoleAdmin }
func (a Actor) IsTechnician() bool { return a.Role == constants.RoleTechnician }
func (a Actor) IsClient() bool     { return a.Role == constants.RoleClient }

func WithActor(ctx context.Context, a Actor) context.Context {
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, a.UserID)
	ctx = context.WithValue(ctx, contextkeys.UserRoleKey, a.Role)
	ctx = context.WithValue(ctx, contextkeys.ClientIDKey, a.ClientID)
	return context.WithValue(ctx, contextkeys.SiteIDKey, a.SiteID)
}

func ActorFromContext(ctx context.Context) (Actor, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(string)
	if !ok || userID == "" {
		return Actor{}, apperrors.ErrUserIDNotFoundInContext
	}
	role, _ := ctx.Value(contextkeys.UserRoleKey).(constants.Role)
	clientID, _ := ctx.Value(contextkeys.ClientIDKey).(string)
	siteID, _ := ctx.Value(contextkeys.SiteIDKey).(string)
	return Actor{UserID: userID, Role: role, ClientID: clientID, SiteID: siteID}, nil
}

func GetUserIDFromCtx(ctx context.Context) (string, error) {
	a, err := ActorFromContext(ctx)
	if err != nil {
		return "", err
	}
	return a.UserID, nil
}

// IPExtractor resolves the client address for c.RealIP(). Without trusted
// proxies only the peer address counts; otherwise X-Forwarded-For is walked
// from the right and the first hop outside the trusted ranges wins.
func IPExtractor(trusted []string) (echo.IPExtractor, error) {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect(), nil
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, entry := range trusted {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("trusted proxy %q: invalid address", entry)
			}
			if ip.To4() != nil {
				entry += "/32"
			} else {
				entry += "/128"
			}
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}

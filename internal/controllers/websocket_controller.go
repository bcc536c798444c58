package controllers

import (
	"net/http"
	"slices"

	"hvac-service/pkg/service"
	appwebsocket "hvac-service/pkg/websocket"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type WebSocketController struct {
	hub        *appwebsocket.Hub
	jwtService service.JWTService
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// NewWebSocketController accepts handshakes from allowedOrigins only. An empty
// list or a "*" entry allows any origin.
func NewWebSocketController(hub *appwebsocket.Hub, jwtService service.JWTService, allowedOrigins []string, logger *zap.Logger) *WebSocketController {
	anyOrigin := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &WebSocketController{
		hub:        hub,
		jwtService: jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

// ServeWs authenticates with ?token= since browsers cannot set headers on
// WebSocket handshakes. The hub only pushes; client frames are discarded.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	tokenString := ctx.QueryParam("token")
	if tokenString == "" {
		return ctx.JSON(http.StatusUnauthorized, map[string]string{"message": "missing token"})
	}

	claims, err := c.jwtService.ValidateToken(tokenString)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
	}

	conn, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Warn("websocket upgrade failed", zap.String("userID", claims.UserID), zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(c.hub, conn, claims.UserID)
	c.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	c.logger.Debug("websocket client connected", zap.String("userID", claims.UserID), zap.String("role", string(claims.Role)))
	return nil
}

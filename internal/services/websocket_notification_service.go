package services

import (
	"hvac-service/pkg/websocket"

	"go.uber.org/zap"
)

// WebSocketNotificationServiceInterface hides the hub so listeners can be
// tested without open connections.
type WebSocketNotificationServiceInterface interface {
	SendNotification(userID string, payload interface{}, messageType string) error
}

type WebSocketNotificationService struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewWebSocketNotificationService(hub *websocket.Hub, logger *zap.Logger) WebSocketNotificationServiceInterface {
	return &WebSocketNotificationService{
		hub:    hub,
		logger: logger,
	}
}

func (s *WebSocketNotificationService) SendNotification(userID string, payload interface{}, messageType string) error {
	delivered, err := s.hub.SendMessageToUser(userID, payload, messageType)
	if err != nil {
		return err
	}
	s.logger.Debug("websocket notification sent",
		zap.String("userID", userID),
		zap.String("type", messageType),
		zap.Int("connections", delivered),
	)
	return nil
}

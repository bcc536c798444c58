package services

import (
	"context"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/constants"
	"hvac-service/pkg/types"
	"hvac-service/pkg/websocket"

	"go.uber.org/zap"
)

// NotificationInput is one in-app notification to fan out to several users.
type NotificationInput struct {
	Type      string
	Title     string
	Message   string
	RelatedID string
	Link      string
}

type NotificationServiceInterface interface {
	List(ctx context.Context, unreadOnly bool, filter types.Filter) ([]dto.NotificationDTO, uint64, error)
	UnreadCount(ctx context.Context) (*dto.UnreadCountDTO, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
	Notify(ctx context.Context, userIDs []string, in NotificationInput) error
}

type NotificationService struct {
	repo   repositories.NotificationRepositoryInterface
	ws     WebSocketNotificationServiceInterface
	logger *zap.Logger
}

func NewNotificationService(
	repo repositories.NotificationRepositoryInterface,
	ws WebSocketNotificationServiceInterface,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{repo: repo, ws: ws, logger: logger}
}

func (s *NotificationService) List(ctx context.Context, unreadOnly bool, filter types.Filter) ([]dto.NotificationDTO, uint64, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.ListForUser(ctx, actor.UserID, unreadOnly, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	res := make([]dto.NotificationDTO, 0, len(list))
	for i := range list {
		res = append(res, notificationToDTO(&list[i]))
	}
	return res, total, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context) (*dto.UnreadCountDTO, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountDTO{Count: count}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id, actor.UserID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return 0, err
	}
	return s.repo.MarkAllRead(ctx, actor.UserID)
}

// Notify stores one row per user and pushes it to open sockets. A failed row
// is logged and skipped so the other recipients still get theirs; the first
// error is returned.
func (s *NotificationService) Notify(ctx context.Context, userIDs []string, in NotificationInput) error {
	var firstErr error
	seen := make(map[string]bool, len(userIDs))
	for _, userID := range userIDs {
		if userID == "" || seen[userID] {
			continue
		}
		seen[userID] = true

		n := &entities.Notification{
			ID:      newID(),
			UserID:  userID,
			Type:    in.Type,
			Title:   in.Title,
			Message: in.Message,
		}
		if in.RelatedID != "" {
			n.RelatedID = strPtr(in.RelatedID)
		}
		if err := s.repo.Create(ctx, n); err != nil {
			s.logger.Error("store notification failed",
				zap.String("userID", userID), zap.String("type", in.Type), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		payload := websocket.NotificationPayload{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    false,
			Link:      in.Link,
			CreatedAt: n.CreatedAt,
		}
		if err := s.ws.SendNotification(userID, payload, constants.WSMessageNotification); err != nil {
			s.logger.Warn("websocket push failed", zap.String("userID", userID), zap.Error(err))
		}
	}
	return firstErr
}

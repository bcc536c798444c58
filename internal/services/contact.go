package services

import (
	"context"
	"strings"

	"hvac-service/internal/dto"
	"hvac-service/internal/events"
	apperrors "hvac-service/pkg/errors"

	"go.uber.org/zap"
)

type ContactServiceInterface interface {
	Submit(ctx context.Context, payload dto.ContactDTO) error
}

type ContactService struct {
	bus    EventPublisher
	logger *zap.Logger
}

func NewContactService(bus EventPublisher, logger *zap.Logger) ContactServiceInterface {
	return &ContactService{bus: bus, logger: logger}
}

func (s *ContactService) Submit(ctx context.Context, payload dto.ContactDTO) error {
	if !payload.Phone.Valid && !payload.Email.Valid {
		return apperrors.NewInvalidInputError("phone or email is required")
	}
	ev := events.ContactReceivedEvent{
		Sender:  strings.TrimSpace(payload.Name),
		Phone:   nullableString(payload.Phone.Valid, payload.Phone.String),
		Email:   nullableString(payload.Email.Valid, payload.Email.String),
		Message: strings.TrimSpace(payload.Message),
	}
	s.logger.Info("contact message received", zap.String("name", ev.Sender))
	s.bus.Publish(ctx, ev)
	return nil
}

package services

import (
	"context"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/events"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"

	"go.uber.org/zap"
)

type FeedbackServiceInterface interface {
	Submit(ctx context.Context, workOrderID string, payload dto.CreateFeedbackDTO) (*dto.FeedbackDTO, error)
	List(ctx context.Context, workOrderID string) ([]dto.FeedbackDTO, error)
}

type FeedbackService struct {
	woRepo       repositories.WorkOrderRepositoryInterface
	feedbackRepo repositories.FeedbackRepositoryInterface
	bus          EventPublisher
	logger       *zap.Logger
}

func NewFeedbackService(
	woRepo repositories.WorkOrderRepositoryInterface,
	feedbackRepo repositories.FeedbackRepositoryInterface,
	bus EventPublisher,
	logger *zap.Logger,
) FeedbackServiceInterface {
	return &FeedbackService{woRepo: woRepo, feedbackRepo: feedbackRepo, bus: bus, logger: logger}
}

func (s *FeedbackService) Submit(ctx context.Context, workOrderID string, payload dto.CreateFeedbackDTO) (*dto.FeedbackDTO, error) {
	actor, err := requireRole(ctx, constants.RoleClient)
	if err != nil {
		return nil, err
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		return nil, apperrors.NewInvalidInputError("rating must be between 1 and 5")
	}

	wo, err := s.woRepo.FindByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if actor.SiteID == "" || actor.SiteID != wo.SiteID {
		return nil, apperrors.ErrForbidden
	}
	if wo.Status != constants.WorkOrderCompleted {
		return nil, apperrors.NewInvalidInputError("feedback can only be given for completed work orders")
	}

	exists, err := s.feedbackRepo.Exists(ctx, workOrderID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrFeedbackExists
	}

	fb := &entities.Feedback{
		ID:          newID(),
		WorkOrderID: workOrderID,
		UserID:      actor.UserID,
		Rating:      payload.Rating,
		Comment:     nullableString(payload.Comment.Valid, payload.Comment.String),
	}
	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, err
	}

	s.logger.Info("feedback submitted",
		zap.String("workOrderID", workOrderID), zap.String("userID", actor.UserID), zap.Int("rating", fb.Rating))
	s.bus.Publish(ctx, events.FeedbackSubmittedEvent{WorkOrder: *wo, Feedback: *fb})

	res := feedbackToDTO(fb)
	return &res, nil
}

func (s *FeedbackService) List(ctx context.Context, workOrderID string) ([]dto.FeedbackDTO, error) {
	if _, err := requireRole(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}
	list, err := s.feedbackRepo.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	res := make([]dto.FeedbackDTO, 0, len(list))
	for i := range list {
		res = append(res, feedbackToDTO(&list[i]))
	}
	return res, nil
}

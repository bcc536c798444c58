package services

import (
	"context"
	"encoding/json"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/events"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type JobItemServiceInterface interface {
	Start(ctx context.Context, id string) (*dto.JobItemDTO, error)
	Finish(ctx context.Context, id string, payload dto.FinishJobItemDTO) (*dto.JobItemDTO, error)
	UpdateNote(ctx context.Context, id string, payload dto.UpdateJobItemNoteDTO) (*dto.JobItemDTO, error)
	Assign(ctx context.Context, id string, payload dto.AssignJobItemDTO) (*dto.JobItemDTO, error)
	AddPhoto(ctx context.Context, id string, payload dto.AddPhotoDTO) (*dto.JobPhotoDTO, error)
	ListPhotos(ctx context.Context, id string) ([]dto.JobPhotoDTO, error)
}

type JobItemService struct {
	txManager repositories.TxManagerInterface
	woRepo    repositories.WorkOrderRepositoryInterface
	itemRepo  repositories.JobItemRepositoryInterface
	photoRepo repositories.JobPhotoRepositoryInterface
	userRepo  repositories.UserRepositoryInterface
	bus       EventPublisher
	logger    *zap.Logger
}

func NewJobItemService(
	txManager repositories.TxManagerInterface,
	woRepo repositories.WorkOrderRepositoryInterface,
	itemRepo repositories.JobItemRepositoryInterface,
	photoRepo repositories.JobPhotoRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	bus EventPublisher,
	logger *zap.Logger,
) JobItemServiceInterface {
	return &JobItemService{
		txManager: txManager,
		woRepo:    woRepo,
		itemRepo:  itemRepo,
		photoRepo: photoRepo,
		userRepo:  userRepo,
		bus:       bus,
		logger:    logger,
	}
}

// loadForWork returns the item and its work order when the actor may record
// work on it: admins always, technicians only on their own items.
func (s *JobItemService) loadForWork(ctx context.Context, id string) (utils.Actor, *entities.JobItem, *entities.WorkOrder, error) {
	actor, err := requireRole(ctx, constants.RoleAdmin, constants.RoleTechnician)
	if err != nil {
		return actor, nil, nil, err
	}
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return actor, nil, nil, err
	}
	if actor.IsTechnician() && (item.TechnicianID == nil || *item.TechnicianID != actor.UserID) {
		return actor, nil, nil, apperrors.ErrForbidden
	}
	wo, err := s.woRepo.FindByID(ctx, item.WorkOrderID)
	if err != nil {
		return actor, nil, nil, err
	}
	if constants.IsTerminal(wo.Status) {
		return actor, nil, nil, apperrors.ErrInvalidStatusTransition
	}
	return actor, item, wo, nil
}

func (s *JobItemService) Start(ctx context.Context, id string) (*dto.JobItemDTO, error) {
	actor, item, wo, err := s.loadForWork(ctx, id)
	if err != nil {
		return nil, err
	}
	if !constants.CanTransitionJobItem(item.Status, constants.JobItemInProgress) {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	var bumped bool
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.itemRepo.TransitionInTx(ctx, tx, item.ID, constants.JobItemInProgress,
			constants.JobItemAllowedFrom(constants.JobItemInProgress), nil); err != nil {
			return err
		}
		started, err := s.woRepo.StartIfOpen(ctx, tx, wo.ID)
		bumped = started
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job item started",
		zap.String("jobItemID", id), zap.String("workOrderID", wo.ID),
		zap.Bool("workOrderStarted", bumped), zap.String("actorID", actor.UserID))
	return s.reload(ctx, id)
}

func (s *JobItemService) Finish(ctx context.Context, id string, payload dto.FinishJobItemDTO) (*dto.JobItemDTO, error) {
	to := constants.JobItemStatus(payload.Status)
	if !constants.IsJobItemFinished(to) {
		return nil, apperrors.NewInvalidInputError("status must be DONE or ISSUE_FOUND")
	}
	actor, item, _, err := s.loadForWork(ctx, id)
	if err != nil {
		return nil, err
	}
	if !constants.CanTransitionJobItem(item.Status, to) {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	note := nullableString(payload.Note.Valid, payload.Note.String)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.itemRepo.TransitionInTx(ctx, tx, item.ID, to, constants.JobItemAllowedFrom(to), note)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job item finished",
		zap.String("jobItemID", id), zap.String("status", string(to)), zap.String("actorID", actor.UserID))
	return s.reload(ctx, id)
}

func (s *JobItemService) UpdateNote(ctx context.Context, id string, payload dto.UpdateJobItemNoteDTO) (*dto.JobItemDTO, error) {
	if !payload.Note.Valid && !payload.Checklist.Valid {
		return nil, apperrors.NewInvalidInputError("nothing to update")
	}
	// The validator skips empty strings, so "" is caught here.
	if payload.Checklist.Valid && !json.Valid([]byte(payload.Checklist.String)) {
		return nil, apperrors.NewInvalidInputError("checklist must be a valid JSON document")
	}
	if _, _, _, err := s.loadForWork(ctx, id); err != nil {
		return nil, err
	}
	err := s.itemRepo.UpdateNote(ctx, id,
		nullableString(payload.Note.Valid, payload.Note.String),
		nullableString(payload.Checklist.Valid, payload.Checklist.String))
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

func (s *JobItemService) Assign(ctx context.Context, id string, payload dto.AssignJobItemDTO) (*dto.JobItemDTO, error) {
	if _, err := requireRole(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wo, err := s.woRepo.FindByID(ctx, item.WorkOrderID)
	if err != nil {
		return nil, err
	}
	if constants.IsTerminal(wo.Status) {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	users, err := s.userRepo.ListByIDs(ctx, []string{payload.TechnicianID})
	if err != nil {
		return nil, err
	}
	if len(users) != 1 || users[0].Role != constants.RoleTechnician {
		return nil, apperrors.NewInvalidInputError("assigned user must be an active technician")
	}

	if err := s.itemRepo.Assign(ctx, id, payload.TechnicianID); err != nil {
		return nil, err
	}
	s.logger.Info("job item assigned", zap.String("jobItemID", id), zap.String("technicianID", payload.TechnicianID))
	s.bus.Publish(ctx, events.JobAssignedEvent{WorkOrder: *wo, JobItemID: id, TechnicianID: payload.TechnicianID})

	return s.reload(ctx, id)
}

func (s *JobItemService) AddPhoto(ctx context.Context, id string, payload dto.AddPhotoDTO) (*dto.JobPhotoDTO, error) {
	actor, item, _, err := s.loadForWork(ctx, id)
	if err != nil {
		return nil, err
	}
	photo := &entities.JobPhoto{
		ID:         newID(),
		JobItemID:  item.ID,
		PhotoType:  constants.PhotoType(payload.PhotoType),
		URL:        payload.URL,
		FilePath:   nullableString(payload.Path.Valid, payload.Path.String),
		Caption:    nullableString(payload.Caption.Valid, payload.Caption.String),
		UploadedBy: strPtr(actor.UserID),
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}
	res := jobPhotoToDTO(photo)
	return &res, nil
}

func (s *JobItemService) ListPhotos(ctx context.Context, id string) ([]dto.JobPhotoDTO, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wo, err := s.woRepo.FindByID(ctx, item.WorkOrderID)
	if err != nil {
		return nil, err
	}
	techIDs, err := s.itemRepo.TechnicianIDs(ctx, wo.ID)
	if err != nil {
		return nil, err
	}
	if !canViewWorkOrder(actor, wo, techIDs) {
		return nil, apperrors.ErrForbidden
	}

	photos, err := s.photoRepo.ListByJobItem(ctx, id)
	if err != nil {
		return nil, err
	}
	res := make([]dto.JobPhotoDTO, 0, len(photos))
	for i := range photos {
		res = append(res, jobPhotoToDTO(&photos[i]))
	}
	return res, nil
}

func (s *JobItemService) reload(ctx context.Context, id string) (*dto.JobItemDTO, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := jobItemToDTO(item)
	return &res, nil
}

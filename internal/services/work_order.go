package services

import (
	"context"
	"fmt"
	"time"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/events"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/config"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type WorkOrderServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateWorkOrderDTO) (*dto.WorkOrderDTO, error)
	Get(ctx context.Context, id string) (*dto.WorkOrderDTO, error)
	List(ctx context.Context, filter types.Filter) ([]dto.WorkOrderDTO, uint64, error)
	ChangeStatus(ctx context.Context, id string, payload dto.ChangeStatusDTO) (*dto.WorkOrderDTO, error)
	Cancel(ctx context.Context, id string) (*dto.WorkOrderDTO, error)
	Complete(ctx context.Context, id string) (*dto.WorkOrderDTO, error)
}

type WorkOrderService struct {
	txManager repositories.TxManagerInterface
	woRepo    repositories.WorkOrderRepositoryInterface
	itemRepo  repositories.JobItemRepositoryInterface
	photoRepo repositories.JobPhotoRepositoryInterface
	assetRepo repositories.AssetRepositoryInterface
	userRepo  repositories.UserRepositoryInterface
	bus       EventPublisher
	cfg       config.WorkOrderConfig
	logger    *zap.Logger
}

func NewWorkOrderService(
	txManager repositories.TxManagerInterface,
	woRepo repositories.WorkOrderRepositoryInterface,
	itemRepo repositories.JobItemRepositoryInterface,
	photoRepo repositories.JobPhotoRepositoryInterface,
	assetRepo repositories.AssetRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	bus EventPublisher,
	cfg config.WorkOrderConfig,
	logger *zap.Logger,
) WorkOrderServiceInterface {
	if cfg.NumberAttempts <= 0 {
		cfg.NumberAttempts = 1
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &WorkOrderService{
		txManager: txManager,
		woRepo:    woRepo,
		itemRepo:  itemRepo,
		photoRepo: photoRepo,
		assetRepo: assetRepo,
		userRepo:  userRepo,
		bus:       bus,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *WorkOrderService) Create(ctx context.Context, payload dto.CreateWorkOrderDTO) (*dto.WorkOrderDTO, error) {
	actor, err := requireRole(ctx, constants.RoleAdmin)
	if err != nil {
		return nil, err
	}

	scheduled, err := time.ParseInLocation(dateLayout, payload.ScheduledDate, s.cfg.Location)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("scheduled_date must be YYYY-MM-DD")
	}

	// 1. Every asset must exist at the work order's site
	assetIDs := make([]string, 0, len(payload.Items))
	seen := make(map[string]bool, len(payload.Items))
	for _, item := range payload.Items {
		if seen[item.AssetID] {
			return nil, apperrors.NewInvalidInputError("asset %s is listed twice", item.AssetID)
		}
		seen[item.AssetID] = true
		assetIDs = append(assetIDs, item.AssetID)
	}
	found, err := s.assetRepo.CountAtSite(ctx, payload.SiteID, assetIDs)
	if err != nil {
		return nil, err
	}
	if found != len(assetIDs) {
		return nil, apperrors.NewInvalidInputError("one or more assets do not belong to the selected site")
	}

	// 2. Assigned users must be active technicians
	if err := s.checkTechnicians(ctx, payload.Items); err != nil {
		return nil, err
	}

	wo := &entities.WorkOrder{
		SiteID:        payload.SiteID,
		JobType:       constants.JobType(payload.JobType),
		Status:        constants.WorkOrderOpen,
		ScheduledDate: scheduled,
		Description:   nullableString(payload.Description.Valid, payload.Description.String),
		CreatedBy:     strPtr(actor.UserID),
	}
	items := make([]*entities.JobItem, 0, len(payload.Items))

	// 3. Number allocation and inserts share one transaction; a clash on the
	// number index rolls everything back and tries again.
	prefix := FormatNumberPrefix(scheduled, s.cfg.YearOffset)
	for attempt := 1; attempt <= s.cfg.NumberAttempts; attempt++ {
		wo.ID = newID()
		items = items[:0]
		err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			seq, err := s.woRepo.NextNumber(ctx, tx, prefix)
			if err != nil {
				return err
			}
			wo.Number = strPtr(FormatNumber(prefix, seq))
			if err := s.woRepo.CreateInTx(ctx, tx, wo); err != nil {
				return err
			}
			for _, in := range payload.Items {
				item := &entities.JobItem{
					ID:           newID(),
					WorkOrderID:  wo.ID,
					AssetID:      in.AssetID,
					TechnicianID: nullableString(in.TechnicianID.Valid, in.TechnicianID.String),
					Status:       constants.JobItemPending,
				}
				if err := s.itemRepo.CreateInTx(ctx, tx, item); err != nil {
					return err
				}
				items = append(items, item)
			}
			return nil
		})
		if err == nil {
			break
		}
		if !repositories.IsUniqueViolation(err, repositories.WorkOrderNumberConstraint) {
			s.logger.Error("create work order failed", zap.Error(err))
			return nil, err
		}
		s.logger.Warn("work order number collision, retrying",
			zap.String("prefix", prefix), zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, fmt.Errorf("allocate work order number after %d attempts: %w", s.cfg.NumberAttempts, err)
	}

	s.logger.Info("work order created",
		zap.String("workOrderID", wo.ID), zap.String("number", DisplayNumber(wo)), zap.Int("items", len(items)))

	for _, item := range items {
		if item.TechnicianID != nil {
			s.bus.Publish(ctx, events.JobAssignedEvent{WorkOrder: *wo, JobItemID: item.ID, TechnicianID: *item.TechnicianID})
		}
	}

	return s.Get(ctx, wo.ID)
}

func (s *WorkOrderService) checkTechnicians(ctx context.Context, items []dto.CreateJobItemDTO) error {
	ids := make([]string, 0)
	seen := map[string]bool{}
	for _, item := range items {
		if item.TechnicianID.Valid && !seen[item.TechnicianID.String] {
			seen[item.TechnicianID.String] = true
			ids = append(ids, item.TechnicianID.String)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	valid := 0
	for _, u := range users {
		if u.Role == constants.RoleTechnician {
			valid++
		}
	}
	if valid != len(ids) {
		return apperrors.NewInvalidInputError("assigned users must be active technicians")
	}
	return nil
}

func (s *WorkOrderService) load(ctx context.Context, id string) (*entities.WorkOrder, []entities.JobItem, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, nil, err
	}
	wo, err := s.woRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.itemRepo.ListByWorkOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !canViewWorkOrder(actor, wo, technicianIDs(items)) {
		return nil, nil, apperrors.ErrForbidden
	}
	return wo, items, nil
}

func (s *WorkOrderService) Get(ctx context.Context, id string) (*dto.WorkOrderDTO, error) {
	wo, items, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	photos, err := s.photoRepo.ListByWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	byItem := make(map[string][]dto.JobPhotoDTO)
	for i := range photos {
		byItem[photos[i].JobItemID] = append(byItem[photos[i].JobItemID], jobPhotoToDTO(&photos[i]))
	}

	res := workOrderToDTO(wo)
	res.Items = make([]dto.JobItemDTO, 0, len(items))
	for i := range items {
		item := jobItemToDTO(&items[i])
		item.Photos = byItem[items[i].ID]
		res.Items = append(res.Items, item)
	}
	return &res, nil
}

func (s *WorkOrderService) List(ctx context.Context, filter types.Filter) ([]dto.WorkOrderDTO, uint64, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, 0, err
	}

	var scope entities.WorkOrderScope
	switch actor.Role {
	case constants.RoleAdmin:
	case constants.RoleClient:
		if actor.SiteID == "" {
			return []dto.WorkOrderDTO{}, 0, nil
		}
		scope.SiteID = actor.SiteID
	case constants.RoleTechnician:
		scope.TechnicianID = actor.UserID
	default:
		return nil, 0, apperrors.ErrForbidden
	}

	orders, total, err := s.woRepo.List(ctx, filter, scope)
	if err != nil {
		s.logger.Error("list work orders failed", zap.Error(err))
		return nil, 0, err
	}
	res := make([]dto.WorkOrderDTO, 0, len(orders))
	for i := range orders {
		res = append(res, workOrderToDTO(&orders[i]))
	}
	return res, total, nil
}

func (s *WorkOrderService) ChangeStatus(ctx context.Context, id string, payload dto.ChangeStatusDTO) (*dto.WorkOrderDTO, error) {
	to := constants.WorkOrderStatus(payload.Status)
	switch {
	case to == constants.WorkOrderCompleted:
		return s.Complete(ctx, id)
	case to == constants.WorkOrderCancelled:
		return s.Cancel(ctx, id)
	case to == constants.WorkOrderWaitingApproval:
		return nil, apperrors.NewInvalidInputError("request client approval through the approval endpoint")
	case !constants.IsManualTarget(to):
		return nil, apperrors.ErrInvalidStatusTransition
	}

	actor, err := requireRole(ctx, constants.RoleAdmin, constants.RoleTechnician)
	if err != nil {
		return nil, err
	}
	current, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	// Fail fast on a stale status; the conditional update still guards races.
	if !constants.CanTransition(current.Status, to) {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	wo, err := s.woRepo.TransitionStatus(ctx, id, to, constants.AllowedFrom(to))
	if err != nil {
		return nil, err
	}
	s.logger.Info("work order status changed",
		zap.String("workOrderID", id), zap.String("status", string(to)), zap.String("actorID", actor.UserID))
	res := workOrderToDTO(wo)
	return &res, nil
}

func (s *WorkOrderService) Cancel(ctx context.Context, id string) (*dto.WorkOrderDTO, error) {
	actor, err := requireRole(ctx, constants.RoleAdmin)
	if err != nil {
		return nil, err
	}
	wo, err := s.woRepo.TransitionStatus(ctx, id, constants.WorkOrderCancelled, constants.AllowedFrom(constants.WorkOrderCancelled))
	if err != nil {
		return nil, err
	}
	s.logger.Info("work order cancelled", zap.String("workOrderID", id), zap.String("actorID", actor.UserID))
	res := workOrderToDTO(wo)
	return &res, nil
}

func (s *WorkOrderService) Complete(ctx context.Context, id string) (*dto.WorkOrderDTO, error) {
	actor, err := requireRole(ctx, constants.RoleAdmin, constants.RoleTechnician)
	if err != nil {
		return nil, err
	}
	current, items, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !constants.CanTransition(current.Status, constants.WorkOrderCompleted) {
		return nil, apperrors.ErrInvalidStatusTransition
	}
	for _, it := range items {
		if !constants.IsJobItemFinished(it.Status) {
			return nil, apperrors.ErrJobItemsIncomplete
		}
	}

	wo, err := s.woRepo.Complete(ctx, id, constants.AllowedFrom(constants.WorkOrderCompleted))
	if err != nil {
		return nil, err
	}
	s.logger.Info("work order completed", zap.String("workOrderID", id), zap.String("actorID", actor.UserID))
	s.bus.Publish(ctx, events.WorkOrderCompletedEvent{WorkOrder: *wo, ActorID: actor.UserID})

	res := workOrderToDTO(wo)
	return &res, nil
}

func technicianIDs(items []entities.JobItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.TechnicianID != nil {
			ids = append(ids, *it.TechnicianID)
		}
	}
	return ids
}

package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/events"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"

	"go.uber.org/zap"
)

const approvalTokenBytes = 32

// TokenGenerator returns a fresh approval token.
type TokenGenerator func() (string, error)

func RandomApprovalToken() (string, error) {
	buf := make([]byte, approvalTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

type ApprovalServiceInterface interface {
	IssueApproval(ctx context.Context, workOrderID string) (*dto.ApprovalLinkDTO, error)
	GetByToken(ctx context.Context, token string) (*dto.ApprovalViewDTO, error)
	Decide(ctx context.Context, token string, payload dto.ApprovalDecisionDTO) (*dto.ApprovalViewDTO, error)
}

type ApprovalService struct {
	woRepo   repositories.WorkOrderRepositoryInterface
	itemRepo repositories.JobItemRepositoryInterface
	bus      EventPublisher
	baseURL  string
	newToken TokenGenerator
	logger   *zap.Logger
}

func NewApprovalService(
	woRepo repositories.WorkOrderRepositoryInterface,
	itemRepo repositories.JobItemRepositoryInterface,
	bus EventPublisher,
	baseURL string,
	newToken TokenGenerator,
	logger *zap.Logger,
) ApprovalServiceInterface {
	if newToken == nil {
		newToken = RandomApprovalToken
	}
	return &ApprovalService{
		woRepo:   woRepo,
		itemRepo: itemRepo,
		bus:      bus,
		baseURL:  strings.TrimRight(baseURL, "/"),
		newToken: newToken,
		logger:   logger,
	}
}

func (s *ApprovalService) IssueApproval(ctx context.Context, workOrderID string) (*dto.ApprovalLinkDTO, error) {
	actor, err := requireRole(ctx, constants.RoleAdmin, constants.RoleTechnician)
	if err != nil {
		return nil, err
	}

	wo, err := s.woRepo.FindByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	techIDs, err := s.itemRepo.TechnicianIDs(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if !canViewWorkOrder(actor, wo, techIDs) {
		return nil, apperrors.ErrForbidden
	}

	token, err := s.newToken()
	if err != nil {
		s.logger.Error("generate approval token failed", zap.Error(err))
		return nil, err
	}

	updated, err := s.woRepo.IssueApprovalToken(ctx, workOrderID, token,
		constants.AllowedFrom(constants.WorkOrderWaitingApproval))
	if err != nil {
		return nil, err
	}

	link := s.approvalURL(token)
	s.logger.Info("approval requested",
		zap.String("workOrderID", workOrderID), zap.String("actorID", actor.UserID))
	s.bus.Publish(ctx, events.ApprovalRequestedEvent{WorkOrder: *updated, URL: link, ActorID: actor.UserID})

	return &dto.ApprovalLinkDTO{WorkOrderID: workOrderID, URL: link}, nil
}

func (s *ApprovalService) GetByToken(ctx context.Context, token string) (*dto.ApprovalViewDTO, error) {
	wo, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, wo)
}

func (s *ApprovalService) Decide(ctx context.Context, token string, payload dto.ApprovalDecisionDTO) (*dto.ApprovalViewDTO, error) {
	decision := constants.ApprovalDecision(strings.ToUpper(strings.TrimSpace(payload.Decision)))
	var to constants.WorkOrderStatus
	switch decision {
	case constants.DecisionApprove:
		to = constants.WorkOrderApproved
	case constants.DecisionReject:
		to = constants.WorkOrderRejected
	default:
		return nil, apperrors.NewInvalidInputError("decision must be APPROVE or REJECT")
	}

	if _, err := s.findByToken(ctx, token); err != nil {
		return nil, err
	}

	var reason *string
	if to == constants.WorkOrderRejected && payload.Reason.Valid {
		if r := strings.TrimSpace(payload.Reason.String); r != "" {
			reason = &r
		}
	}

	wo, err := s.woRepo.DecideApproval(ctx, token, to, reason)
	if err != nil {
		if errors.Is(err, apperrors.ErrApprovalAlreadyProcessed) || errors.Is(err, apperrors.ErrApprovalNotFound) {
			s.logger.Info("approval decision refused", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("approval decided",
		zap.String("workOrderID", wo.ID), zap.String("status", string(wo.Status)))
	s.bus.Publish(ctx, events.ApprovalDecidedEvent{WorkOrder: *wo, Decision: decision, Reason: reason})

	return s.view(ctx, wo)
}

// findByToken rejects malformed tokens without touching the database.
func (s *ApprovalService) findByToken(ctx context.Context, token string) (*entities.WorkOrder, error) {
	if !validTokenFormat(token) {
		return nil, apperrors.ErrApprovalNotFound
	}
	wo, err := s.woRepo.FindByApprovalToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrApprovalNotFound
		}
		return nil, err
	}
	if wo.ApprovalToken == nil || subtle.ConstantTimeCompare([]byte(*wo.ApprovalToken), []byte(token)) != 1 {
		return nil, apperrors.ErrApprovalNotFound
	}
	return wo, nil
}

func (s *ApprovalService) view(ctx context.Context, wo *entities.WorkOrder) (*dto.ApprovalViewDTO, error) {
	items, err := s.itemRepo.ListByWorkOrder(ctx, wo.ID)
	if err != nil {
		return nil, err
	}
	res := &dto.ApprovalViewDTO{
		WorkOrderID:     wo.ID,
		DisplayNumber:   DisplayNumber(wo),
		SiteName:        wo.SiteName,
		JobType:         string(wo.JobType),
		Status:          string(wo.Status),
		ScheduledDate:   wo.ScheduledDate.Format(dateLayout),
		Description:     wo.Description,
		Pending:         wo.Status == constants.WorkOrderWaitingApproval,
		ApprovedAt:      wo.ApprovedAt,
		RejectedAt:      wo.RejectedAt,
		RejectionReason: wo.RejectionReason,
		Items:           make([]dto.ApprovalItemDTO, 0, len(items)),
	}
	for _, it := range items {
		res.Items = append(res.Items, dto.ApprovalItemDTO{
			AssetType: string(it.AssetType),
			Brand:     it.AssetBrand,
			Model:     it.AssetModel,
			Status:    string(it.Status),
			Note:      it.TechNote,
		})
	}
	return res, nil
}

func (s *ApprovalService) approvalURL(token string) string {
	return s.baseURL + "/approve/" + token
}

func validTokenFormat(token string) bool {
	if len(token) != approvalTokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}

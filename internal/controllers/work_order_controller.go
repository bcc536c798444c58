package controllers

import (
	"net/http"

	"hvac-service/internal/dto"
	"hvac-service/internal/services"
	"hvac-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type WorkOrderController struct {
	workOrderService services.WorkOrderServiceInterface
	approvalService  services.ApprovalServiceInterface
	feedbackService  services.FeedbackServiceInterface
	logger           *zap.Logger
}

func NewWorkOrderController(
	workOrderService services.WorkOrderServiceInterface,
	approvalService services.ApprovalServiceInterface,
	feedbackService services.FeedbackServiceInterface,
	logger *zap.Logger,
) *WorkOrderController {
	return &WorkOrderController{
		workOrderService: workOrderService,
		approvalService:  approvalService,
		feedbackService:  feedbackService,
		logger:           logger,
	}
}

func (c *WorkOrderController) Create(ctx echo.Context) error {
	var payload dto.CreateWorkOrderDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.workOrderService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Work order created", http.StatusCreated)
}

func (c *WorkOrderController) List(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())
	orders, total, err := c.workOrderService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, orders, "Work orders", http.StatusOK, total)
}

func (c *WorkOrderController) Get(ctx echo.Context) error {
	res, err := c.workOrderService.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Work order", http.StatusOK)
}

func (c *WorkOrderController) ChangeStatus(ctx echo.Context) error {
	var payload dto.ChangeStatusDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.workOrderService.ChangeStatus(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Status updated", http.StatusOK)
}

func (c *WorkOrderController) Complete(ctx echo.Context) error {
	res, err := c.workOrderService.Complete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Work order completed", http.StatusOK)
}

func (c *WorkOrderController) Cancel(ctx echo.Context) error {
	res, err := c.workOrderService.Cancel(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Work order cancelled", http.StatusOK)
}

// RequestApproval issues a fresh approval link and moves the work order to
// WAITING_APPROVAL.
func (c *WorkOrderController) RequestApproval(ctx echo.Context) error {
	res, err := c.approvalService.IssueApproval(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Approval link issued", http.StatusOK)
}

func (c *WorkOrderController) SubmitFeedback(ctx echo.Context) error {
	var payload dto.CreateFeedbackDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.feedbackService.Submit(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Thank you for your feedback", http.StatusCreated)
}

func (c *WorkOrderController) ListFeedback(ctx echo.Context) error {
	res, err := c.feedbackService.List(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Feedback", http.StatusOK)
}

package controllers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"hvac-service/internal/dto"
	"hvac-service/internal/services"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

//go:embed templates/approval.html
var templateFS embed.FS

var approvalPage = template.Must(template.ParseFS(templateFS, "templates/approval.html"))

type approvalPageData struct {
	View    *dto.ApprovalViewDTO
	Token   string
	Message string
	Error   string
}

// ApprovalController serves the public approval link, both as an HTML page
// and as JSON for the web client.
type ApprovalController struct {
	approvalService services.ApprovalServiceInterface
	logger          *zap.Logger
}

func NewApprovalController(approvalService services.ApprovalServiceInterface, logger *zap.Logger) *ApprovalController {
	return &ApprovalController{approvalService: approvalService, logger: logger}
}

func (c *ApprovalController) render(ctx echo.Context, code int, data approvalPageData) error {
	var sb strings.Builder
	if err := approvalPage.Execute(&sb, data); err != nil {
		c.logger.Error("render approval page", zap.Error(err))
		return ctx.String(http.StatusInternalServerError, "internal server error")
	}
	return ctx.HTML(code, sb.String())
}

func (c *ApprovalController) ShowPage(ctx echo.Context) error {
	token := ctx.Param("token")
	view, err := c.approvalService.GetByToken(ctx.Request().Context(), token)
	if err != nil {
		if errors.Is(err, apperrors.ErrApprovalNotFound) {
			return c.render(ctx, http.StatusNotFound, approvalPageData{})
		}
		c.logger.Error("load approval page", zap.Error(err))
		return c.render(ctx, http.StatusInternalServerError, approvalPageData{})
	}
	return c.render(ctx, http.StatusOK, approvalPageData{View: view, Token: token})
}

func (c *ApprovalController) SubmitForm(ctx echo.Context) error {
	token := ctx.Param("token")
	reason := ctx.FormValue("reason")
	payload := dto.ApprovalDecisionDTO{
		Decision: ctx.FormValue("decision"),
		Reason:   null.NewString(reason, reason != ""),
	}
	reqCtx := ctx.Request().Context()

	view, err := c.approvalService.Decide(reqCtx, token, payload)
	if err == nil {
		msg := "Thank you. The work order has been approved."
		if view.RejectedAt != nil {
			msg = "Thank you. The work order has been rejected."
		}
		return c.render(ctx, http.StatusOK, approvalPageData{View: view, Token: token, Message: msg})
	}

	var inputErr *apperrors.InvalidInputError
	switch {
	case errors.Is(err, apperrors.ErrApprovalNotFound):
		return c.render(ctx, http.StatusNotFound, approvalPageData{})
	case errors.Is(err, apperrors.ErrApprovalAlreadyProcessed):
		current, loadErr := c.approvalService.GetByToken(reqCtx, token)
		if loadErr != nil {
			return c.render(ctx, http.StatusNotFound, approvalPageData{})
		}
		return c.render(ctx, http.StatusConflict, approvalPageData{View: current, Token: token, Error: err.Error()})
	case errors.As(err, &inputErr):
		current, loadErr := c.approvalService.GetByToken(reqCtx, token)
		if loadErr != nil {
			return c.render(ctx, http.StatusNotFound, approvalPageData{})
		}
		return c.render(ctx, http.StatusBadRequest, approvalPageData{View: current, Token: token, Error: inputErr.Message})
	default:
		c.logger.Error("approval decision failed", zap.Error(err))
		return c.render(ctx, http.StatusInternalServerError, approvalPageData{})
	}
}

func (c *ApprovalController) Get(ctx echo.Context) error {
	view, err := c.approvalService.GetByToken(ctx.Request().Context(), ctx.Param("token"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, view, "Approval", http.StatusOK)
}

func (c *ApprovalController) Decide(ctx echo.Context) error {
	var payload dto.ApprovalDecisionDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	view, err := c.approvalService.Decide(ctx.Request().Context(), ctx.Param("token"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, view, "Decision recorded", http.StatusOK)
}

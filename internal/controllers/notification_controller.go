package controllers

import (
	"net/http"
	"strconv"

	"hvac-service/internal/services"
	"hvac-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

func (c *NotificationController) List(ctx echo.Context) error {
	unreadOnly, _ := strconv.ParseBool(ctx.QueryParam("unread"))
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	res, total, err := c.notificationService.List(ctx.Request().Context(), unreadOnly, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Notifications", http.StatusOK, total)
}

func (c *NotificationController) UnreadCount(ctx echo.Context) error {
	res, err := c.notificationService.UnreadCount(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Unread count", http.StatusOK)
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	if err := c.notificationService.MarkRead(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (c *NotificationController) MarkAllRead(ctx echo.Context) error {
	n, err := c.notificationService.MarkAllRead(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]int64{"updated": n}, "All notifications marked as read", http.StatusOK)
}

package controllers

import (
	"errors"
	"io"
	"net/http"

	"hvac-service/internal/services"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/line"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

// LineWebhookController receives LINE platform callbacks. It always answers
// 200 so the platform does not redeliver.
type LineWebhookController struct {
	lineService services.LineServiceInterface
	logger      *zap.Logger
}

func NewLineWebhookController(lineService services.LineServiceInterface, logger *zap.Logger) *LineWebhookController {
	return &LineWebhookController{lineService: lineService, logger: logger}
}

func (c *LineWebhookController) Handle(ctx echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxWebhookBody))
	if err != nil {
		c.logger.Warn("line webhook: read body", zap.Error(err))
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	signature := ctx.Request().Header.Get(line.SignatureHeader)
	if err := c.lineService.HandleWebhook(ctx.Request().Context(), body, signature); err != nil {
		if errors.Is(err, apperrors.ErrInvalidSignature) {
			c.logger.Warn("line webhook: signature mismatch", zap.String("ip", ctx.RealIP()))
		} else {
			c.logger.Error("line webhook: processing failed", zap.Error(err))
		}
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

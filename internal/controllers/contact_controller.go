package controllers

import (
	"net/http"

	"hvac-service/internal/dto"
	"hvac-service/internal/services"
	"hvac-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ContactController struct {
	contactService services.ContactServiceInterface
	logger         *zap.Logger
}

func NewContactController(contactService services.ContactServiceInterface, logger *zap.Logger) *ContactController {
	return &ContactController{contactService: contactService, logger: logger}
}

func (c *ContactController) Submit(ctx echo.Context) error {
	var payload dto.ContactDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.contactService.Submit(ctx.Request().Context(), payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Thank you, we will get back to you shortly", http.StatusAccepted)
}

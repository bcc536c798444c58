package controllers

import (
	"net/http"

	"hvac-service/internal/services"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type UploadController struct {
	uploadService services.UploadServiceInterface
	logger        *zap.Logger
}

func NewUploadController(uploadService services.UploadServiceInterface, logger *zap.Logger) *UploadController {
	return &UploadController{uploadService: uploadService, logger: logger}
}

func (c *UploadController) Upload(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "file is required", err, nil), c.logger)
	}

	res, err := c.uploadService.Upload(ctx.Request().Context(), fileHeader)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "File uploaded", http.StatusCreated)
}

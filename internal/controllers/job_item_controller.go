package controllers

import (
	"net/http"

	"hvac-service/internal/dto"
	"hvac-service/internal/services"
	"hvac-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type JobItemController struct {
	jobItemService services.JobItemServiceInterface
	logger         *zap.Logger
}

func NewJobItemController(jobItemService services.JobItemServiceInterface, logger *zap.Logger) *JobItemController {
	return &JobItemController{jobItemService: jobItemService, logger: logger}
}

func (c *JobItemController) Start(ctx echo.Context) error {
	res, err := c.jobItemService.Start(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Job started", http.StatusOK)
}

func (c *JobItemController) Finish(ctx echo.Context) error {
	var payload dto.FinishJobItemDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.jobItemService.Finish(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Job finished", http.StatusOK)
}

func (c *JobItemController) UpdateNote(ctx echo.Context) error {
	var payload dto.UpdateJobItemNoteDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.jobItemService.UpdateNote(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Note saved", http.StatusOK)
}

func (c *JobItemController) Assign(ctx echo.Context) error {
	var payload dto.AssignJobItemDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.jobItemService.Assign(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Technician assigned", http.StatusOK)
}

func (c *JobItemController) AddPhoto(ctx echo.Context) error {
	var payload dto.AddPhotoDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.jobItemService.AddPhoto(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Photo attached", http.StatusCreated)
}

func (c *JobItemController) ListPhotos(ctx echo.Context) error {
	res, err := c.jobItemService.ListPhotos(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Photos", http.StatusOK)
}

package controllers

import (
	"net/http"

	"hvac-service/internal/dto"
	"hvac-service/internal/services"
	"hvac-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AssetController struct {
	assetService services.AssetServiceInterface
	logger       *zap.Logger
}

func NewAssetController(assetService services.AssetServiceInterface, logger *zap.Logger) *AssetController {
	return &AssetController{assetService: assetService, logger: logger}
}

// FindByQRCode answers a scanner lookup with {assetId} or 404.
func (c *AssetController) FindByQRCode(ctx echo.Context) error {
	res, err := c.assetService.FindByQRCode(ctx.Request().Context(), ctx.QueryParam("qrCode"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (c *AssetController) Create(ctx echo.Context) error {
	var payload dto.CreateAssetDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.assetService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Asset created", http.StatusCreated)
}

func (c *AssetController) Update(ctx echo.Context) error {
	var payload dto.UpdateAssetDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.assetService.Update(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Asset updated", http.StatusOK)
}

func (c *AssetController) ChangeStatus(ctx echo.Context) error {
	var payload dto.ChangeAssetStatusDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.assetService.ChangeStatus(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Asset status updated", http.StatusOK)
}

func (c *AssetController) Get(ctx echo.Context) error {
	res, err := c.assetService.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Asset", http.StatusOK)
}

func (c *AssetController) List(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())
	res, total, err := c.assetService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Assets", http.StatusOK, total)
}

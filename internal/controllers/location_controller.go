package controllers

import (
	"net/http"

	"hvac-service/internal/dto"
	"hvac-service/internal/services"
	"hvac-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LocationController manages the client > site > building > floor > room tree.
type LocationController struct {
	locationService services.LocationServiceInterface
	logger          *zap.Logger
}

func NewLocationController(locationService services.LocationServiceInterface, logger *zap.Logger) *LocationController {
	return &LocationController{locationService: locationService, logger: logger}
}

func (c *LocationController) CreateClient(ctx echo.Context) error {
	var payload dto.CreateClientDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.locationService.CreateClient(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Client created", http.StatusCreated)
}

func (c *LocationController) ListClients(ctx echo.Context) error {
	res, err := c.locationService.ListClients(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Clients", http.StatusOK)
}

func (c *LocationController) CreateSite(ctx echo.Context) error {
	var payload dto.CreateSiteDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.locationService.CreateSite(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Site created", http.StatusCreated)
}

func (c *LocationController) ListSites(ctx echo.Context) error {
	res, err := c.locationService.ListSites(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Sites", http.StatusOK)
}

func (c *LocationController) CreateBuilding(ctx echo.Context) error {
	var payload dto.CreateBuildingDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.locationService.CreateBuilding(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Building created", http.StatusCreated)
}

func (c *LocationController) ListBuildings(ctx echo.Context) error {
	res, err := c.locationService.ListBuildings(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Buildings", http.StatusOK)
}

func (c *LocationController) CreateFloor(ctx echo.Context) error {
	var payload dto.CreateFloorDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.locationService.CreateFloor(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Floor created", http.StatusCreated)
}

func (c *LocationController) ListFloors(ctx echo.Context) error {
	res, err := c.locationService.ListFloors(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Floors", http.StatusOK)
}

func (c *LocationController) CreateRoom(ctx echo.Context) error {
	var payload dto.CreateRoomDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.locationService.CreateRoom(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Room created", http.StatusCreated)
}

func (c *LocationController) ListRooms(ctx echo.Context) error {
	res, err := c.locationService.ListRooms(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Rooms", http.StatusOK)
}

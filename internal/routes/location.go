package routes

import (
	"github.com/labstack/echo/v4"

	"hvac-service/internal/controllers"
	"hvac-service/pkg/middleware"
)

func runLocationRouter(secureGroup *echo.Group, deps Dependencies, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewLocationController(deps.Services.Location, deps.Logger.Named("location"))
	read := authMW.RequireRoles(staff...)
	write := authMW.RequireRoles(adminOnly...)

	secureGroup.GET("/clients", ctrl.ListClients, read)
	secureGroup.POST("/clients", ctrl.CreateClient, write)
	secureGroup.GET("/clients/:id/sites", ctrl.ListSites, read)
	secureGroup.POST("/sites", ctrl.CreateSite, write)
	secureGroup.GET("/sites/:id/buildings", ctrl.ListBuildings, read)
	secureGroup.POST("/buildings", ctrl.CreateBuilding, write)
	secureGroup.GET("/buildings/:id/floors", ctrl.ListFloors, read)
	secureGroup.POST("/floors", ctrl.CreateFloor, write)
	secureGroup.GET("/floors/:id/rooms", ctrl.ListRooms, read)
	secureGroup.POST("/rooms", ctrl.CreateRoom, write)
}

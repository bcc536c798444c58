package routes

import (
	"github.com/labstack/echo/v4"

	"hvac-service/internal/controllers"
	"hvac-service/pkg/middleware"
)

func runAssetRouter(secureGroup *echo.Group, deps Dependencies, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewAssetController(deps.Services.Asset, deps.Logger.Named("asset"))
	write := authMW.RequireRoles(adminOnly...)

	assets := secureGroup.Group("/assets")
	assets.GET("/find", ctrl.FindByQRCode)
	assets.GET("", ctrl.List)
	assets.GET("/:id", ctrl.Get)
	assets.POST("", ctrl.Create, write)
	assets.PUT("/:id", ctrl.Update, write)
	assets.PATCH("/:id/status", ctrl.ChangeStatus, write)
}

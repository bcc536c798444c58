package routes

import (
	"github.com/labstack/echo/v4"

	"hvac-service/internal/controllers"
	"hvac-service/pkg/middleware"
)

func runReportRouter(secureGroup *echo.Group, deps Dependencies, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewReportController(deps.Services.Report, deps.Location, deps.Logger.Named("report"))

	reports := secureGroup.Group("/reports", authMW.RequireRoles(adminOnly...))
	reports.GET("/summary", ctrl.Summary)
	reports.GET("/work-orders.xlsx", ctrl.ExportWorkOrders)
}

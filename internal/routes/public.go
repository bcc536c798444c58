package routes

import (
	"github.com/labstack/echo/v4"

	"hvac-service/internal/controllers"
	"hvac-service/pkg/constants"
)

// runPublicRouter wires the endpoints reachable without a session.
func runPublicRouter(
	api *echo.Group,
	deps Dependencies,
	approvalController *controllers.ApprovalController,
	limit func(string) echo.MiddlewareFunc,
) {
	public := api.Group("/public", limit(constants.RateCategoryAPI))
	public.GET("/approvals/:token", approvalController.Get)
	public.POST("/approvals/:token/decision", approvalController.Decide)

	contactController := controllers.NewContactController(deps.Services.Contact, deps.Logger.Named("contact"))
	api.POST("/contact", contactController.Submit, limit(constants.RateCategoryContact))

	lineController := controllers.NewLineWebhookController(deps.Services.Line, deps.Logger.Named("line"))
	api.POST("/line-webhook", lineController.Handle)
}

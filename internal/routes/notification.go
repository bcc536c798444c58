package routes

import (
	"github.com/labstack/echo/v4"

	"hvac-service/internal/controllers"
)

func runNotificationRouter(secureGroup *echo.Group, deps Dependencies) {
	ctrl := controllers.NewNotificationController(deps.Services.Notification, deps.Logger.Named("notification"))

	n := secureGroup.Group("/notifications")
	n.GET("", ctrl.List)
	n.GET("/unread-count", ctrl.UnreadCount)
	n.PATCH("/:id/read", ctrl.MarkRead)
	n.POST("/read-all", ctrl.MarkAllRead)
}

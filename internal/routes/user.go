package routes

import (
	"github.com/labstack/echo/v4"

	"hvac-service/internal/controllers"
	"hvac-service/pkg/middleware"
)

func runUserRouter(secureGroup *echo.Group, deps Dependencies, authMW *middleware.AuthMiddleware) {
	userController := controllers.NewUserController(deps.Services.User, deps.Logger.Named("user"))

	users := secureGroup.Group("/users", authMW.RequireRoles(adminOnly...))
	users.GET("", userController.List)
	users.POST("", userController.Create)
	users.POST("/:id/deactivate", userController.Deactivate)
}

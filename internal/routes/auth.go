package routes

import (
	"github.com/labstack/echo/v4"

	"hvac-service/internal/controllers"
	"hvac-service/pkg/constants"
	"hvac-service/pkg/middleware"
)

func runAuthRouter(api *echo.Group, deps Dependencies, authMW *middleware.AuthMiddleware, limit func(string) echo.MiddlewareFunc) {
	authController := controllers.NewAuthController(deps.Services.Auth, deps.Logger.Named("auth"))

	auth := api.Group("/auth")
	auth.POST("/login", authController.Login, limit(constants.RateCategoryLogin))
	auth.GET("/me", authController.Me, authMW.Auth)
}

package routes

import (
	"github.com/labstack/echo/v4"

	"hvac-service/internal/controllers"
	"hvac-service/pkg/constants"
	"hvac-service/pkg/middleware"
)

func runWorkOrderRouter(secureGroup *echo.Group, deps Dependencies, authMW *middleware.AuthMiddleware) {
	woController := controllers.NewWorkOrderController(
		deps.Services.WorkOrder, deps.Services.Approval, deps.Services.Feedback, deps.Logger.Named("work_order"))
	itemController := controllers.NewJobItemController(deps.Services.JobItem, deps.Logger.Named("job_item"))

	staffOnly := authMW.RequireRoles(staff...)
	admin := authMW.RequireRoles(adminOnly...)

	orders := secureGroup.Group("/work-orders")
	orders.GET("", woController.List)
	orders.POST("", woController.Create, admin)
	orders.GET("/:id", woController.Get)
	orders.PATCH("/:id/status", woController.ChangeStatus, staffOnly)
	orders.POST("/:id/complete", woController.Complete, staffOnly)
	orders.POST("/:id/cancel", woController.Cancel, admin)
	orders.POST("/:id/approval", woController.RequestApproval, staffOnly)
	orders.POST("/:id/feedback", woController.SubmitFeedback, authMW.RequireRoles(constants.RoleClient))
	orders.GET("/:id/feedback", woController.ListFeedback, admin)

	items := secureGroup.Group("/job-items")
	items.POST("/:id/start", itemController.Start, staffOnly)
	items.POST("/:id/finish", itemController.Finish, staffOnly)
	items.PATCH("/:id/note", itemController.UpdateNote, staffOnly)
	items.PATCH("/:id/assign", itemController.Assign, admin)
	items.GET("/:id/photos", itemController.ListPhotos)
	items.POST("/:id/photos", itemController.AddPhoto, staffOnly)
}

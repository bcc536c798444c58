package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"hvac-service/internal/controllers"
	"hvac-service/internal/services"
	"hvac-service/pkg/constants"
	"hvac-service/pkg/middleware"
	"hvac-service/pkg/ratelimit"
	"hvac-service/pkg/service"
	"hvac-service/pkg/websocket"
)

type Services struct {
	Auth         services.AuthServiceInterface
	User         services.UserServiceInterface
	WorkOrder    services.WorkOrderServiceInterface
	JobItem      services.JobItemServiceInterface
	Approval     services.ApprovalServiceInterface
	Feedback     services.FeedbackServiceInterface
	Notification services.NotificationServiceInterface
	Location     services.LocationServiceInterface
	Asset        services.AssetServiceInterface
	Upload       services.UploadServiceInterface
	Line         services.LineServiceInterface
	Report       services.ReportServiceInterface
	Contact      services.ContactServiceInterface
}

type Dependencies struct {
	Services Services
	JWT      service.JWTService
	Hub      *websocket.Hub
	Limiter  *ratelimit.Limiter
	// Location is the business time zone used to read report date filters.
	Location *time.Location
	// AllowedOrigins gates WebSocket handshakes the same way CORS gates XHR.
	AllowedOrigins []string
	Logger         *zap.Logger
}

// uploadBodyLimit caps the multipart body before it is parsed; the 10MB file
// ceiling is checked again after parsing.
const uploadBodyLimit = "11M"

var (
	staff     = []constants.Role{constants.RoleAdmin, constants.RoleTechnician}
	adminOnly = []constants.Role{constants.RoleAdmin}
)

func InitRouter(e *echo.Echo, deps Dependencies) {
	logger := deps.Logger
	logger.Info("InitRouter: registering routes")

	// Rate limits key on RealIP; forwarded headers count only when the caller
	// configured trusted proxies.
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	authMW := middleware.NewAuthMiddleware(deps.JWT, logger.Named("auth"))
	limit := func(category string) echo.MiddlewareFunc {
		return middleware.RateLimit(deps.Limiter, category, logger)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	wsController := controllers.NewWebSocketController(deps.Hub, deps.JWT, deps.AllowedOrigins, logger.Named("ws"))
	e.GET("/ws", wsController.ServeWs)

	approvalController := controllers.NewApprovalController(deps.Services.Approval, logger.Named("approval"))
	e.GET("/approve/:token", approvalController.ShowPage, limit(constants.RateCategoryAPI))
	e.POST("/approve/:token", approvalController.SubmitForm, limit(constants.RateCategoryAPI))

	api := e.Group("/api")
	runPublicRouter(api, deps, approvalController, limit)
	runAuthRouter(api, deps, authMW, limit)

	secureGroup := api.Group("", authMW.Auth, limit(constants.RateCategoryAPI))
	runUserRouter(secureGroup, deps, authMW)
	runLocationRouter(secureGroup, deps, authMW)
	runAssetRouter(secureGroup, deps, authMW)
	runWorkOrderRouter(secureGroup, deps, authMW)
	runNotificationRouter(secureGroup, deps)
	runReportRouter(secureGroup, deps, authMW)

	uploadController := controllers.NewUploadController(deps.Services.Upload, logger.Named("upload"))
	api.POST("/upload", uploadController.Upload,
		authMW.Auth, authMW.RequireRoles(staff...), limit(constants.RateCategoryUpload),
		echomw.BodyLimit(uploadBodyLimit))

	logger.Info("InitRouter: routes registered")
}

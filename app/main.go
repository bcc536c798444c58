package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"hvac-service/internal/listeners"
	"hvac-service/internal/repositories"
	"hvac-service/internal/routes"
	"hvac-service/internal/services"
	"hvac-service/pkg/config"
	"hvac-service/pkg/database/migrations"
	"hvac-service/pkg/database/postgresql"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/eventbus"
	"hvac-service/pkg/filestorage"
	"hvac-service/pkg/line"
	applogger "hvac-service/pkg/logger"
	appmiddleware "hvac-service/pkg/middleware"
	"hvac-service/pkg/ratelimit"
	"hvac-service/pkg/service"
	"hvac-service/pkg/telemetry"
	"hvac-service/pkg/utils"
	"hvac-service/pkg/validation"
	"hvac-service/pkg/websocket"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Mode, cfg.Log.File)
	defer func() { _ = logger.Sync() }()

	utils.SetExposeInternalErrors(!cfg.Server.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.Server.Env, logger)
	if err != nil {
		logger.Fatal("telemetry setup failed", zap.Error(err))
	}

	// --- infrastructure ---
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	if cfg.Postgres.AutoMigrate {
		if err := migrations.Up(ctx, dbConn); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
		logger.Info("database migrations applied")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis connection failed", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
		defer redisClient.Close()
	}

	var rateStore ratelimit.Store
	switch {
	case cfg.RateLimit.Backend == "redis" && redisClient != nil:
		rateStore = ratelimit.NewRedisStore(redisClient)
	default:
		if cfg.RateLimit.Backend == "redis" {
			logger.Warn("RATE_LIMIT_BACKEND=redis but redis is disabled, using in-process counters")
		}
		memStore := ratelimit.NewMemoryStore(nil)
		go memStore.RunJanitor(ctx, time.Minute)
		rateStore = memStore
	}
	limiter := ratelimit.New(rateStore, ratelimit.RulesFromConfig(cfg.RateLimit), logger.Named("ratelimit"))

	fileStorage, err := filestorage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("file storage init failed", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	if closer, ok := fileStorage.(io.Closer); ok {
		defer closer.Close()
	}

	hub := websocket.NewHub(logger.Named("ws"))
	go hub.Run(ctx)

	bus := eventbus.New(logger.Named("eventbus"))
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
	lineClient := line.NewClient(cfg.Line.ChannelAccessToken)
	if !lineClient.Enabled() {
		logger.Info("LINE messaging disabled: LINE_CHANNEL_ACCESS_TOKEN is not set")
	}
	lineDedup := line.NewDeduplicator(10 * time.Minute)
	go lineDedup.Cleanup(ctx, time.Minute)

	// --- repositories ---
	txManager := repositories.NewTxManager(dbConn)
	userRepo := repositories.NewUserRepository(dbConn, logger.Named("user_repo"))
	locationRepo := repositories.NewLocationRepository(dbConn, logger.Named("location_repo"))
	assetRepo := repositories.NewAssetRepository(dbConn, logger.Named("asset_repo"))
	woRepo := repositories.NewWorkOrderRepository(dbConn, logger.Named("work_order_repo"))
	itemRepo := repositories.NewJobItemRepository(dbConn, logger.Named("job_item_repo"))
	photoRepo := repositories.NewJobPhotoRepository(dbConn, logger.Named("job_photo_repo"))
	feedbackRepo := repositories.NewFeedbackRepository(dbConn, logger.Named("feedback_repo"))
	notificationRepo := repositories.NewNotificationRepository(dbConn, logger.Named("notification_repo"))
	reportRepo := repositories.NewReportRepository(dbConn, logger.Named("report_repo"))

	var cache repositories.CacheRepositoryInterface
	if redisClient != nil {
		cache = repositories.NewRedisCacheRepository(redisClient)
	}

	// --- services ---
	wsNotifier := services.NewWebSocketNotificationService(hub, logger.Named("ws"))
	notificationService := services.NewNotificationService(notificationRepo, wsNotifier, logger.Named("notification"))
	lineService := services.NewLineService(lineClient, txManager, userRepo, cfg.Line, logger.Named("line"),
		services.WithDeduplicator(lineDedup))

	svcs := routes.Services{
		Auth:         services.NewAuthService(userRepo, jwtSvc, logger.Named("auth")),
		User:         services.NewUserService(userRepo, locationRepo, logger.Named("user")),
		WorkOrder:    services.NewWorkOrderService(txManager, woRepo, itemRepo, photoRepo, assetRepo, userRepo, bus, cfg.WorkOrder, logger.Named("work_order")),
		JobItem:      services.NewJobItemService(txManager, woRepo, itemRepo, photoRepo, userRepo, bus, logger.Named("job_item")),
		Approval:     services.NewApprovalService(woRepo, itemRepo, bus, cfg.Server.BaseURL, nil, logger.Named("approval")),
		Feedback:     services.NewFeedbackService(woRepo, feedbackRepo, bus, logger.Named("feedback")),
		Notification: notificationService,
		Location:     services.NewLocationService(locationRepo, logger.Named("location")),
		Asset:        services.NewAssetService(assetRepo, locationRepo, cache, logger.Named("asset")),
		Upload:       services.NewUploadService(fileStorage, logger.Named("upload")),
		Line:         lineService,
		Report:       services.NewReportService(reportRepo, cfg.WorkOrder.Location, logger.Named("report")),
		Contact:      services.NewContactService(bus, logger.Named("contact")),
	}

	listeners.NewNotificationListener(notificationService, lineService, userRepo, itemRepo, logger.Named("notify")).Register(bus)

	// --- http ---
	e := echo.New()
	e.HideBanner = true
	ipExtractor, err := utils.IPExtractor(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}
	e.IPExtractor = ipExtractor
	e.Validator = validation.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger.Named("http")))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition, "Retry-After"},
	}))

	if strings.EqualFold(cfg.Storage.Driver, "local") || cfg.Storage.Driver == "" {
		absPath, err := filepath.Abs(cfg.Storage.LocalDir)
		if err != nil {
			logger.Fatal("resolve upload directory", zap.Error(err))
		}
		e.Static(cfg.Storage.PublicBaseURL, absPath)
	}

	routes.InitRouter(e, routes.Dependencies{
		Services:       svcs,
		JWT:            jwtSvc,
		Hub:            hub,
		Limiter:        limiter,
		Location:       cfg.WorkOrder.Location,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           otelhttp.NewHandler(e, cfg.Telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", zap.String("addr", server.Addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	bus.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
}

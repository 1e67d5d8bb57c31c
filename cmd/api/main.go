package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "fuelops/api/swagger" // swagger docs
	"fuelops/internal/advisor"
	"fuelops/internal/auth"
	"fuelops/internal/config"
	"fuelops/internal/database"
	"fuelops/internal/domain"
	"fuelops/internal/handler"
	"fuelops/internal/lock"
	"fuelops/internal/middleware"
	"fuelops/internal/repository"
	"fuelops/internal/seed"
	"fuelops/internal/service"
	"fuelops/internal/statestore"
	"fuelops/internal/websocket"
	"fuelops/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Fuel Station Operations API
// @version         1.0
// @description     Daily sales reconciliation, approvals, stock and alerts for a fuel station network.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load("configs/.env", os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	if cfg.EnvFileErr != nil {
		log.Warn("Env file not loaded, using environment only", zap.String("file", "configs/.env"), zap.Error(cfg.EnvFileErr))
	}

	gin.SetMode(cfg.Server.Mode)

	dbLogLevel := gormlogger.Warn
	if cfg.Server.Mode == gin.DebugMode {
		dbLogLevel = gormlogger.Info
	}
	db, err := database.NewConnection(cfg.Database.DSN(), dbLogLevel)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	log.Info("Connected to PostgreSQL successfully")

	// Redis backs the state snapshot and the station locks; without it both stay in-process.
	var kv statestore.KV = statestore.NewMemoryKV()
	var locker lock.StationLocker = lock.NewLocalLocker()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Redis connection failed", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		kv = statestore.NewRedisKV(rdb)
		locker = lock.NewRedisLocker(rdb, cfg.Redis.KeyPrefix, cfg.Redis.LockTTL, cfg.Redis.LockWait, log)
		log.Info("Connected to Redis", zap.String("address", cfg.Redis.Address))
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log.Named("ws"))
	go wsHub.Run(rootCtx)

	store := statestore.NewStore(kv, cfg.Redis.KeyPrefix, statestore.Snapshot{Stations: seed.Stations()}, log.Named("state"))
	issuer := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	adv := advisor.NewOpenAI(cfg.OpenAI.APIKey, advisor.Config{
		Model:       cfg.OpenAI.Model,
		ImageModel:  cfg.OpenAI.ImageModel,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Timeout:     cfg.OpenAI.Timeout,
	}, log.Named("advisor"))

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	stationRepo := repository.NewStationRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	stockRepo := repository.NewStockRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	stateService := service.NewStateService(store, userRepo, stationRepo, entryRepo, alertRepo, auditRepo, txManager, log.Named("state"))
	if err := stateService.Bootstrap(rootCtx); err != nil {
		log.Fatal("State bootstrap failed", zap.Error(err))
	}

	common := service.Common{
		TX:          txManager,
		Locker:      locker,
		Notifier:    wsHub,
		Syncer:      stateService,
		Logger:      log.Named("service"),
		Now:         time.Now,
		MinorUnits:  cfg.Reconciliation.MinorUnits,
		AlertPolicy: alertPolicy(cfg.Alerts),
	}

	alertService := service.NewAlertService(alertRepo, stationRepo, entryRepo, auditRepo, common)
	inventoryService := service.NewInventoryService(stationRepo, stockRepo, auditRepo, alertService, common)
	entryService := service.NewEntryService(entryRepo, stationRepo, auditRepo, alertService, common)
	approvalService := service.NewApprovalService(entryRepo, auditRepo, inventoryService, alertService, common)
	stationService := service.NewStationService(stationRepo, auditRepo, alertService, common)
	auditService := service.NewAuditService(entryRepo, auditRepo)
	reportService := service.NewReportService(entryRepo, stationRepo, alertRepo, time.Now)
	insightService := service.NewInsightService(reportService, adv)
	authService := service.NewAuthService(userRepo, issuer, store, log.Named("auth"))

	if _, err := alertService.Evaluate(rootCtx); err != nil {
		log.Warn("Initial alert evaluation failed", zap.Error(err))
	}

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Server.Mode == gin.ReleaseMode)
	entryHandler := handler.NewEntryHandler(entryService, approvalService)
	stationHandler := handler.NewStationHandler(stationService, inventoryService)
	alertHandler := handler.NewAlertHandler(alertService)
	auditHandler := handler.NewAuditHandler(auditService)
	reportHandler := handler.NewReportHandler(reportService, insightService)

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log.Named("http")))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "ws_clients": wsHub.ClientCount()})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, issuer)
	})

	// API Routing
	public := router.Group("")
	protected := router.Group("", middleware.Authenticate(issuer))
	authHandler.RegisterRoutes(public, protected)
	entryHandler.RegisterRoutes(protected)
	stationHandler.RegisterRoutes(protected)
	alertHandler.RegisterRoutes(protected)
	auditHandler.RegisterRoutes(protected)
	reportHandler.RegisterRoutes(protected)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stop()
	log.Info("Server exited successfully")
}

func alertPolicy(cfg config.AlertsConfig) domain.AlertPolicy {
	policy := domain.DefaultAlertPolicy()
	policy.UnusualExpenseRatio = decimal.NewFromFloat(cfg.UnusualExpenseRatio)
	for alertType, severity := range cfg.Severity {
		policy.Severity[alertType] = severity
	}
	return policy
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"homeservice.backend/internal/config"
	"homeservice.backend/internal/domain/entities"
	"homeservice.backend/internal/infrastructure/datasources/postgres"
	"homeservice.backend/internal/infrastructure/jobs"
	"homeservice.backend/internal/infrastructure/repositories"
	"homeservice.backend/internal/infrastructure/sms"
	"homeservice.backend/internal/interfaces/http/handlers"
	"homeservice.backend/internal/interfaces/http/middleware"
	"homeservice.backend/internal/usecases"
	"homeservice.backend/pkg/jwt"
	"homeservice.backend/pkg/logger"
	"homeservice.backend/pkg/metrics"
	"homeservice.backend/pkg/redis"
)

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openDB          = postgres.NewConnection
	newSessionStore = redis.NewSessionStore
	runServer       = func(srv *http.Server) error { return srv.ListenAndServe() }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	bootCtx := context.Background()
	logger.Info(bootCtx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := handlers.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DialTimeout); err != nil {
		logger.Error(bootCtx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()
	logger.Info(bootCtx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(bootCtx, "Connected to PostgreSQL", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Repositories
	uow := repositories.NewUnitOfWork(db)
	userRepo := repositories.NewUserRepository(db)
	userInfoRepo := repositories.NewUserInfoRepository(db)
	codeRepo := repositories.NewVerificationCodeRepository(db)
	addressRepo := repositories.NewAddressRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)

	// Usecases
	codeUsecase := usecases.NewCodeUsecase(codeRepo, uow, cfg.Verification.CodeTTL, cfg.Verification.ResendInterval, time.Now)
	authUsecase := usecases.NewAuthUsecase(
		userRepo,
		userInfoRepo,
		codeUsecase,
		uow,
		jwtService,
		sms.NewGateway(cfg.SMS),
		usecases.DefaultPlaceholderProfile,
		time.Now,
	)
	addressUsecase := usecases.NewAddressUsecase(addressRepo, userRepo, uow, cfg.Address.MaxEntries, time.Now)
	catalogUsecase := usecases.NewCatalogUsecase(catalogRepo)
	orderUsecase := usecases.NewOrderUsecase(usecases.OrderRepos{
		Orders:     repositories.NewOrderRepository(db),
		Payments:   repositories.NewPaymentRepository(db),
		AfterSales: repositories.NewAfterSalesRepository(db),
		Reviews:    repositories.NewReviewRepository(db),
		Catalog:    catalogRepo,
		Addresses:  addressRepo,
	}, uow, usecases.FeeRates{
		entities.PaymentMethodWechat: cfg.Payment.WechatFeeRate,
		entities.PaymentMethodAlipay: cfg.Payment.AlipayFeeRate,
	}, time.Now)

	// Handlers
	secureCookies := cfg.Server.Env == "production"
	authHandler := handlers.NewAuthHandler(authUsecase, sessionStore, cfg.JWT.RefreshExpiry, secureCookies)
	catalogHandler := handlers.NewCatalogHandler(catalogUsecase)
	addressHandler := handlers.NewAddressHandler(addressUsecase)
	orderHandler := handlers.NewOrderHandler(orderUsecase)
	adminHandler := handlers.NewAdminHandler(orderUsecase, authUsecase)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sendCodeLimiter := middleware.NewRateLimiter(cfg.RateLimit.SendCodePerMinute, cfg.RateLimit.SendCodeBurst)
	sendCodeLimiter.StartCleanup(ctx, 10*time.Minute)

	// Background jobs
	var expiryJob *jobs.PendingOrderExpiryJob
	if cfg.Order.ExpiryJobEnabled {
		expiryJob = jobs.NewPendingOrderExpiryJob(orderUsecase, cfg.Order.PendingTimeout, cfg.Order.ExpiryInterval, cfg.Order.ExpiryBatchSize)
		go expiryJob.Start(ctx)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(metrics.GinMiddleware())

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins...)
	registerHealthRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:    authHandler,
		catalogHandler: catalogHandler,
		addressHandler: addressHandler,
		orderHandler:   orderHandler,
		adminHandler:   adminHandler,
		authMiddleware: middleware.AuthMiddleware(jwtService, sessionStore),
		sendCodeLimit:  sendCodeLimiter.Handler(),
		idempotency:    middleware.IdempotencyMiddleware(cfg.Security.IdempotencyTTL),
		metrics:        metrics.Handler(),
	})

	for _, route := range r.Routes() {
		logger.Debug(bootCtx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case <-ctx.Done():
			return
		}
		logger.Info(context.Background(), "Shutting down server")
		if expiryJob != nil {
			expiryJob.Stop()
		}
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(context.Background(), "Server shutdown failed", zap.Error(err))
		}
		cancel()
	}()

	logger.Info(bootCtx, "Home-service backend starting", zap.String("port", cfg.Server.Port))

	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

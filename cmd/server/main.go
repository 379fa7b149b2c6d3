package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shelf-market.backend/internal/config"
	"shelf-market.backend/internal/infrastructure/jobs"
	"shelf-market.backend/internal/infrastructure/mail"
	"shelf-market.backend/internal/infrastructure/mirror"
	"shelf-market.backend/internal/infrastructure/repositories"
	"shelf-market.backend/internal/interfaces/http/handlers"
	"shelf-market.backend/internal/interfaces/http/middleware"
	"shelf-market.backend/internal/usecases"
	"shelf-market.backend/pkg/jwt"
	"shelf-market.backend/pkg/logger"
	"shelf-market.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	formRepo := repositories.NewTransferFormRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	outboxRepo := repositories.NewOutboxRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Outbound side effects
	mirrorEnabled := cfg.Mirror.APIToken != "" && cfg.Mirror.BaseID != ""
	if !mirrorEnabled {
		log.Println("⚠️ Mirror not configured, records stay local only")
	}
	mirrorClient := mirror.NewAirtableClient(cfg.Mirror.APIToken, cfg.Mirror.BaseID, cfg.Mirror.FormsTable, cfg.Mirror.OrdersTable)
	sender := mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	queue := usecases.NewMirrorQueue(outboxRepo, mirrorEnabled, cfg.Outbox.MaxAttempts)
	dispatcher := usecases.NewNotificationDispatcher(notificationRepo, sender)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	companyUsecase := usecases.NewCompanyUsecase(companyRepo)
	orderUsecase := usecases.NewOrderUsecase(orderRepo, companyRepo, uow, queue, dispatcher)
	formUsecase := usecases.NewTransferFormUsecase(formRepo, orderUsecase, uow, queue, dispatcher)

	// Seed the admin account
	if err := authUsecase.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password); err != nil {
		log.Printf("⚠️ Failed to seed admin account: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	companyHandler := handlers.NewCompanyHandler(companyUsecase)
	orderHandler := handlers.NewOrderHandler(orderUsecase)
	formHandler := handlers.NewTransferFormHandler(formUsecase)
	notificationHandler := handlers.NewNotificationHandler(dispatcher)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxJob := jobs.NewOutboxDispatcher(outboxRepo, mirrorClient, cfg.Outbox.Interval, cfg.Outbox.BatchSize, cfg.Outbox.BaseBackoff)
	if mirrorEnabled {
		go outboxJob.Start(ctx)
	}

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:         authHandler,
		companyHandler:      companyHandler,
		orderHandler:        orderHandler,
		transferFormHandler: formHandler,
		notificationHandler: notificationHandler,
		authMiddleware:      middleware.AuthMiddleware(jwtService),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		if mirrorEnabled {
			outboxJob.Stop()
		}
		cancel()
	}()

	// Start server
	log.Printf("🚀 Shelf Market Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

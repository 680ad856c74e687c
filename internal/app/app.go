package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loopify/deal-service/internal/adapter/email"
	mongoadapter "github.com/loopify/deal-service/internal/adapter/mongo"
	natsadapter "github.com/loopify/deal-service/internal/adapter/nats"
	redisadapter "github.com/loopify/deal-service/internal/adapter/redis"
	"github.com/loopify/deal-service/internal/app/config"
	"github.com/loopify/deal-service/internal/platform/logger"
	httpport "github.com/loopify/deal-service/internal/port/http"
	"github.com/loopify/deal-service/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpport.Server
	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *nats.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Errorf("Failed to initialize MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Errorf("Failed to initialize Redis client: %v", err)
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized successfully")

	appLogger.Info("Initializing NATS connection...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		appLogger.Errorf("Failed to initialize NATS connection: %v", err)
		return nil, fmt.Errorf("failed to initialize NATS connection: %w", err)
	}
	appLogger.Info("NATS connection established successfully")

	msgPublisher, err := natsadapter.NewNATSPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
	}

	var emailSender email.EmailSender
	if cfg.SMTP.Enabled {
		emailSender, err = email.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			appLogger.Errorf("Failed to initialize SMTP sender: %v", err)
			return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
		}
		appLogger.Info("SMTP sender initialized")
	} else {
		appLogger.Info("SMTP disabled, notifications stay in-app only")
	}

	orderRepo := mongoadapter.NewOrderRepository(mongoClient, cfg.MongoDB)
	notificationRepo := mongoadapter.NewNotificationRepository(mongoClient, cfg.MongoDB)
	reportRepo := mongoadapter.NewReportRepository(mongoClient, cfg.MongoDB)
	listingRepo := mongoadapter.NewListingRepository(mongoClient, cfg.MongoDB)
	userRepo := mongoadapter.NewUserRepository(mongoClient, cfg.MongoDB)
	listingCache := redisadapter.NewListingCacheRepository(redisClient)
	appLogger.Info("Repositories initialized")

	listingResolver := service.NewListingResolver(listingRepo, listingCache, cfg.Listing.CacheTTL, appLogger)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, emailSender, appLogger)
	orderService := service.NewOrderService(orderRepo, listingResolver, userRepo, notificationService, msgPublisher, appLogger)
	reportService := service.NewReportService(reportRepo, listingRepo, listingResolver, userRepo, notificationService, msgPublisher, cfg.Moderation.ReportThreshold, appLogger)
	appLogger.Info("Services initialized")

	handlers := httpport.Handlers{
		Order:        httpport.NewOrderHandler(orderService, appLogger),
		Notification: httpport.NewNotificationHandler(notificationService, appLogger),
		Report:       httpport.NewReportHandler(reportService, cfg.Auth.AdminRole, appLogger),
	}
	httpServer := httpport.NewServer(cfg.HTTPServer, cfg.Auth.JWTSecret, handlers, appLogger)
	appLogger.Info("HTTP server instance created")

	application := &App{
		cfg:         cfg,
		log:         appLogger,
		server:      httpServer,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}

	return application, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	a.log.Info("Closing external connections...")

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	a.log.Info("Application shut down successfully")
}

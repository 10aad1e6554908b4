package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smoketrack/internal/config"
	"smoketrack/internal/handlers"
	"smoketrack/internal/middleware"
	mongorepo "smoketrack/internal/repositories/mongodb"
	"smoketrack/internal/scheduler"
	"smoketrack/internal/services"
	"smoketrack/pkg/cache"
	"smoketrack/pkg/database"
	"smoketrack/pkg/logger"
	"smoketrack/pkg/notify"
	"smoketrack/pkg/sms"
	"smoketrack/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	mongodb, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer mongodb.Close()

	if err := database.NewMigrator(mongodb.Database).Up(); err != nil {
		appLogger.WithError(err).Fatal("Failed to run migrations")
	}

	// A cache is optional; repositories fall back to the database when it
	// is absent.
	var cacheService mongorepo.CacheService
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Warn("Redis unavailable, running without cache")
	} else {
		cacheService = redisCache
		defer redisCache.Close()
	}

	// Repositories
	userRepo := mongorepo.NewUserRepository(mongodb.Database, cacheService)
	vehicleRepo := mongorepo.NewVehicleRepository(mongodb.Database, cacheService)
	testRecordRepo := mongorepo.NewTestRecordRepository(mongodb.Database)
	reminderRepo := mongorepo.NewReminderRepository(mongodb.Database)
	txnManager := mongorepo.NewTransactionManager(mongodb.Client)

	// Services
	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		appLogger.WithError(err).WithField("timezone", cfg.App.Timezone).Warn("Invalid timezone, falling back to UTC")
		location = time.UTC
	}
	clock := services.NewClock(location)
	calculator := services.NewStatusCalculator()
	sink := buildNotificationSink(cfg, appLogger)

	reminderService := services.NewReminderService(reminderRepo, clock, appLogger)
	testRecordService := services.NewTestRecordService(testRecordRepo, vehicleRepo, userRepo, reminderService, calculator, txnManager, clock, appLogger)
	vehicleService := services.NewVehicleService(vehicleRepo, testRecordRepo, reminderRepo, txnManager, calculator, clock, appLogger)
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, clock, appLogger)
	settingsService := services.NewSettingsService(userRepo, appLogger)
	dashboardService := services.NewDashboardService(vehicleRepo, reminderRepo, calculator, clock)
	sweepService := services.NewSweepService(vehicleRepo, userRepo, reminderRepo, reminderService, calculator, sink, clock, appLogger)

	// Background sweeps
	sweeper := scheduler.NewScheduler(sweepService, cfg.Scheduler, appLogger)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	testRecordHandler := handlers.NewTestRecordHandler(testRecordService, vehicleService, clock)
	reminderHandler := handlers.NewReminderHandler(reminderService, vehicleService, clock)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	sweepHandler := handlers.NewSweepHandler(sweepService)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			appLogger.WithError(err).Fatal("Invalid trusted proxy configuration")
		}
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.LoggingMiddleware(appLogger))

	jwtSecret := cfg.Security.JWTSecret
	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler)
		routes.SetupVehicleRoutes(v1, vehicleHandler, jwtSecret)
		routes.SetupTestRecordRoutes(v1, testRecordHandler, jwtSecret)
		routes.SetupReminderRoutes(v1, reminderHandler, jwtSecret)
		routes.SetupDashboardRoutes(v1, dashboardHandler, jwtSecret)
		routes.SetupSettingsRoutes(v1, settingsHandler, jwtSecret)
		routes.SetupSweepRoutes(v1, sweepHandler, jwtSecret)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := mongodb.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
		})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		appLogger.Infof("Server listening on port %d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Scheduler.ShutdownGracePeriod)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Error("Forced shutdown")
	}
}

// buildNotificationSink assembles the reminder delivery chain from config.
// SMS providers wrap the email sink, which wraps the log sink, so a channel
// without a configured provider still lands in the log.
func buildNotificationSink(cfg *config.Config, appLogger *logger.Logger) notify.Sink {
	var sink notify.Sink = notify.NewLogSink(appLogger)

	if cfg.SMTP.Host != "" && cfg.SMTP.Username != "" {
		sink = notify.NewEmailSink(notify.EmailConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromEmail: cfg.SMTP.FromEmail,
			FromName:  cfg.SMTP.FromName,
		}, sink)
	}

	switch cfg.SMS.Provider {
	case "twilio":
		provider := sms.NewTwilioProvider(cfg.SMS.Twilio.AccountSID, cfg.SMS.Twilio.AuthToken, cfg.SMS.Twilio.FromNumber)
		return notify.NewSMSSink(provider, sink, cfg.SMS.Twilio.FromNumber)
	case "aws":
		provider, err := sms.NewAWSSNSProvider(cfg.SMS.AWS.Region)
		if err != nil {
			appLogger.WithError(err).Warn("Failed to initialize SNS, falling back to log sink")
			return sink
		}
		return notify.NewSMSSink(provider, sink, cfg.SMS.DefaultFrom)
	default:
		return sink
	}
}

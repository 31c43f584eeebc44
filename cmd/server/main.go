package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apps/community"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/otp"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/redis"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.IsProduction())

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	db := database.DB

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db, 5*time.Second)
	logging.Setup(cfg.IsProduction(), pgLogHandler)

	jobs, stopJobs := context.WithCancel(context.Background())
	logging.RunPeriodic(jobs, "system_logs", 24*time.Hour, logging.PurgeSystemLogs(db, cfg.LogRetentionDays, time.Now))

	// OTP codes live in Redis when configured, otherwise in otp_codes
	rdb, err := redis.New(cfg.RedisURL)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	var otpStore otp.Store
	if rdb != nil {
		otpStore = otp.NewRedisStore(rdb.Client)
		slog.Info("otp store", "backend", "redis")
	} else {
		dbStore := otp.NewDBStore(db)
		otpStore = dbStore
		logging.RunPeriodic(jobs, "otp_codes", time.Hour, dbStore.PurgeExpired)
		slog.Info("otp store", "backend", "database")
	}
	issuer := otp.NewIssuer(otpStore, otp.LogSender{Reveal: !cfg.IsProduction()}, cfg)

	// Services
	notifier := notify.NewStore(db)
	authService := services.NewAuthService(db, cfg, issuer)
	profileService := services.NewProfileService(db, cfg)
	memberService := services.NewMemberService(db, cfg, notifier)
	notificationService := services.NewNotificationService(db)
	dashboardService := services.NewDashboardService(db)

	if cfg.AdminBootstrapEmail != "" && cfg.AdminBootstrapPass != "" {
		if _, err := authService.ProvisionAdmin(context.Background(), cfg.AdminBootstrapEmail, cfg.AdminBootstrapPass); err != nil {
			slog.Error("admin provisioning failed", "error", err)
			os.Exit(1)
		}
		slog.Info("admin identity provisioned", "email", cfg.AdminBootstrapEmail)
	}

	plugins := []apps.Plugin{
		community.New(notifier),
	}

	// Migrate plugin models
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(db, models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.Metrics())
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, db, routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Health:       handlers.NewHealthHandler(db, rdb),
		Profile:      handlers.NewProfileHandler(profileService),
		Member:       handlers.NewMemberHandler(memberService),
		Admin:        handlers.NewAdminHandler(memberService),
		Notification: handlers.NewNotificationHandler(notificationService, dashboardService),
	}, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stopJobs()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

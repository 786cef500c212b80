package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/payments"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.AppEnv)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if !cfg.HasDatabaseCredentials() {
		slog.Error("DATABASE_URL or DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.StdoutHandler(cfg.AppEnv),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, 30*24*time.Hour, cleanupDone)

	if cfg.GoogleClientID == "" {
		slog.Warn("GOOGLE_CLIENT_ID not set, Google sign-in will fail")
	}
	if cfg.StripeSecretKey == "" {
		slog.Warn("STRIPE_SECRET_KEY not set, payment intents will fail")
	}

	// Services
	authService := services.NewAuthService(db, cfg, services.NewGoogleTokenVerifier(cfg.GoogleJWKSURL), newMailer(cfg))
	subscriptionService := services.NewSubscriptionService(db, cfg, payments.NewStripeGateway(cfg.StripeSecretKey))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	paymentHandler := handlers.NewPaymentHandler(subscriptionService)
	healthHandler := handlers.NewHealthHandler(db)

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
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, authHandler, paymentHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
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

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// newMailer prefers Resend, then SMTP credentials. With neither, OTP emails are only logged.
func newMailer(cfg *config.Config) mailer.Mailer {
	switch {
	case cfg.ResendAPIKey != "":
		slog.Info("email provider configured", "provider", "resend")
		return mailer.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	case cfg.EmailUser != "" && cfg.EmailPass != "":
		slog.Info("email provider configured", "provider", "smtp", "host", cfg.SMTPHost)
		transport := mailer.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
		return mailer.NewSMTPMailer(transport, cfg.EmailFrom)
	default:
		slog.Warn("no email provider configured, OTP emails will be logged only")
		return mailer.NewLogMailer()
	}
}

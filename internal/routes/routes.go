package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	paymentHandler *handlers.PaymentHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter, per IP
	api.Use(rateLimit(cfg.APIRateLimit))

	api.Get("/health", healthHandler.Check)

	// Auth gets a stricter limit on top of the general one
	auth := api.Group("/auth")
	auth.Use(rateLimit(cfg.AuthRateLimit))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/google", authHandler.GoogleSignIn)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)

	payment := api.Group("/payment")
	payment.Post("/create-payment-intent", paymentHandler.CreatePaymentIntent)
	payment.Post("/record-payment", paymentHandler.RecordPayment)
}

func rateLimit(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Error: "Too many requests"})
		},
	})
}

package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: message})
}

// respondError maps a service error to its HTTP status. Server-side failures
// are logged and reported; their details never reach the client.
func respondError(c *fiber.Ctx, err error, action string) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return badRequest(c, verr.Message)
	}

	switch {
	case errors.Is(err, services.ErrIdentityVerification):
		return serverError(c, err, action, "Google authentication failed")
	case errors.Is(err, services.ErrEmailDelivery):
		return serverError(c, err, action, "Failed to send OTP")
	case errors.Is(err, services.ErrGoogleOnlyAccount):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: services.ErrGoogleOnlyAccount.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Invalid credentials"})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "User not found"})
	case errors.Is(err, services.ErrEmailTaken):
		return badRequest(c, "User already exists")
	case errors.Is(err, services.ErrDuplicateSubscription):
		return badRequest(c, "Subscription already exists for this email and plan")
	case errors.Is(err, services.ErrInvalidOTP):
		return badRequest(c, "Invalid OTP")
	case errors.Is(err, services.ErrOTPExpired):
		return badRequest(c, "OTP expired")
	case errors.Is(err, services.ErrInvalidToken):
		return badRequest(c, "Invalid Google token")
	case errors.Is(err, services.ErrAccountConflict):
		return badRequest(c, "Account linked to a different Google account")
	case errors.Is(err, services.ErrPaymentGateway):
		slog.Warn("payment gateway rejected request",
			"request_id", requestID(c),
			"action", action,
			"error", err.Error(),
		)
		return badRequest(c, "Payment could not be created")
	}

	return serverError(c, err, action, "Internal server error")
}

func serverError(c *fiber.Ctx, err error, action, message string) error {
	slog.Error("request failed",
		"request_id", requestID(c),
		"action", action,
		"error", err.Error(),
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: message})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// ErrorHandler renders errors that escape a handler, such as routing misses
// and body limit violations, in the same envelope as handled errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}

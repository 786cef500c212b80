package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewPaymentHandler(subscriptionService *services.SubscriptionService) *PaymentHandler {
	return &PaymentHandler{subscriptionService: subscriptionService}
}

func (h *PaymentHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	var req dto.CreatePaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.subscriptionService.CreatePaymentIntent(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "create_payment_intent")
	}

	return c.JSON(resp)
}

func (h *PaymentHandler) RecordPayment(c *fiber.Ctx) error {
	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.subscriptionService.RecordPayment(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "User not found for this email"})
		}
		return respondError(c, err, "record_payment")
	}

	return c.JSON(resp)
}

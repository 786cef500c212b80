package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/payments"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/store"
	"github.com/go-playground/validator"
	"gorm.io/gorm"
)

// PaymentGateway creates gateway-side payment intents.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*payments.Intent, error)
}

type SubscriptionService struct {
	db       *gorm.DB
	cfg      *config.Config
	gateway  PaymentGateway
	validate *validator.Validate
}

func NewSubscriptionService(db *gorm.DB, cfg *config.Config, gateway PaymentGateway) *SubscriptionService {
	return &SubscriptionService{
		db:       db,
		cfg:      cfg,
		gateway:  gateway,
		validate: newValidator(),
	}
}

// CreatePaymentIntent writes no local state.
func (s *SubscriptionService) CreatePaymentIntent(ctx context.Context, req *dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	if req.Amount == nil {
		return nil, newValidationError("Amount is required")
	}
	if *req.Amount <= 0 {
		return nil, newValidationError("Amount must be greater than 0")
	}

	intent, err := s.gateway.CreateIntent(ctx, *req.Amount, s.cfg.StripeCurrency)
	if err != nil {
		slog.Error("payment intent creation failed", "error", err.Error(), "action", "create_payment_intent")
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	slog.Info("payment intent created", "payment_intent_id", intent.ID, "amount", *req.Amount, "action", "create_payment_intent")
	return &dto.PaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// RecordPayment stores the subscription and links it to its owner in one
// transaction: a missing owner leaves no subscription behind.
func (s *SubscriptionService) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	req.Email = models.NormalizeEmail(req.Email)
	req.PlanName = strings.TrimSpace(req.PlanName)
	req.PaymentIntentID = strings.TrimSpace(req.PaymentIntentID)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationFailure(err, "Missing required fields")
	}

	sub := models.Subscription{
		Email:                 req.Email,
		PlanName:              req.PlanName,
		PlanPrice:             req.PlanPrice,
		StripePaymentIntentID: req.PaymentIntentID,
		Status:                models.SubscriptionActive,
	}
	if req.BillingAddress != nil {
		sub.BillingAddress = models.BillingAddress{
			Street:  req.BillingAddress.Street,
			City:    req.BillingAddress.City,
			ZipCode: req.BillingAddress.ZipCode,
			Country: req.BillingAddress.Country,
		}
	}

	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := store.NewSubscriptionStore(tx).Create(ctx, &sub); err != nil {
			return err
		}

		linked, err := store.NewUserStore(tx).LinkSubscription(ctx, req.Email, sub.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		user = linked
		return nil
	})
	if err != nil {
		return nil, err
	}

	projection, _, err := userProjection(ctx, s.db, user)
	if err != nil {
		return nil, err
	}

	slog.Info("payment recorded",
		"user_id", user.ID.String(),
		"subscription_id", sub.ID.String(),
		"plan", sub.PlanName,
		"action", "record_payment",
	)
	return &dto.RecordPaymentResponse{
		Success:      true,
		Message:      "Payment recorded and user updated successfully",
		Subscription: sub,
		User:         projection,
	}, nil
}

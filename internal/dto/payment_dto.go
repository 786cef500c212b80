package dto

import "github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/models"

type CreatePaymentIntentRequest struct {
	// Amount is in minor units (cents).
	Amount *int64 `json:"amount"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type BillingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type RecordPaymentRequest struct {
	Email           string          `json:"email" validate:"required"`
	PlanName        string          `json:"planName" validate:"required"`
	PlanPrice       float64         `json:"planPrice" validate:"required,gt=0"`
	PaymentIntentID string          `json:"paymentIntentId" validate:"required"`
	BillingAddress  *BillingAddress `json:"billingAddress"`
}

type RecordPaymentResponse struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message"`
	Subscription models.Subscription `json:"subscription"`
	User         UserResponse        `json:"user"`
}

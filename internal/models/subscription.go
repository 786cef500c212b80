package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

type BillingAddress struct {
	Street  string `gorm:"size:255" json:"street,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`
	ZipCode string `gorm:"size:20" json:"zipCode,omitempty"`
	Country string `gorm:"size:100" json:"country,omitempty"`
}

// Subscription is one recorded payment for a (email, plan) pair.
type Subscription struct {
	ID                    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email                 string         `gorm:"size:255;not null;uniqueIndex:idx_subscriptions_email_plan" json:"email"`
	PlanName              string         `gorm:"size:100;not null;uniqueIndex:idx_subscriptions_email_plan" json:"planName"`
	PlanPrice             float64        `gorm:"not null" json:"planPrice"`
	StripePaymentIntentID string         `gorm:"size:255;not null;index" json:"stripePaymentIntentId"`
	Status                string         `gorm:"size:20;not null;default:'active'" json:"status"`
	BillingAddress        BillingAddress `gorm:"embedded;embeddedPrefix:billing_" json:"billingAddress"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"-"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SubscriptionActive
	}
	return nil
}

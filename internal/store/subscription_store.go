package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionStore struct {
	db *gorm.DB
}

func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (s *SubscriptionStore) FindByEmailAndPlan(ctx context.Context, email, planName string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("email = ? AND plan_name = ?", models.NormalizeEmail(email), planName).
		First(&sub).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

// Create rejects a second subscription for the same (email, plan) pair.
func (s *SubscriptionStore) Create(ctx context.Context, sub *models.Subscription) error {
	sub.Email = models.NormalizeEmail(sub.Email)

	_, err := s.FindByEmailAndPlan(ctx, sub.Email, sub.PlanName)
	switch {
	case err == nil:
		return ErrDuplicateSubscription
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("failed to check subscription: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSubscription
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

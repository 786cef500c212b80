package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/store"
	"gorm.io/gorm"
)

// userProjection follows the user's subscription reference. A dangling
// reference projects as no plan.
func userProjection(ctx context.Context, db *gorm.DB, user *models.User) (dto.UserResponse, *models.Subscription, error) {
	resp := dto.UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
	if user.SubscriptionID == nil {
		return resp, nil, nil
	}

	sub, err := store.NewSubscriptionStore(db).FindByID(ctx, *user.SubscriptionID)
	if errors.Is(err, store.ErrNotFound) {
		return resp, nil, nil
	}
	if err != nil {
		return resp, nil, err
	}

	planName, planStatus := sub.PlanName, sub.Status
	resp.PlanName = &planName
	resp.PlanStatus = &planStatus
	return resp, sub, nil
}

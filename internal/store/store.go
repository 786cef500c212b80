// Package store persists credential and subscription records through GORM.
//
// Stores are cheap value wrappers around a *gorm.DB; build them from a
// transaction handle to take part in that transaction.
package store

import "errors"

var (
	ErrNotFound              = errors.New("record not found")
	ErrDuplicateEmail        = errors.New("user already exists")
	ErrDuplicateSubscription = errors.New("subscription already exists for this email and plan")
)

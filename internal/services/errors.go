package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/store"
	"github.com/go-playground/validator"
)

var (
	ErrEmailTaken            = store.ErrDuplicateEmail
	ErrDuplicateSubscription = store.ErrDuplicateSubscription

	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid Google token")
	ErrIdentityVerification = errors.New("google authentication failed")
	ErrAccountConflict      = errors.New("account linked to a different Google account")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidOTP           = errors.New("invalid OTP")
	ErrOTPExpired           = errors.New("OTP expired")
	ErrEmailDelivery        = errors.New("failed to send OTP")
	ErrPaymentGateway       = errors.New("payment gateway error")

	// ErrGoogleOnlyAccount is an ErrInvalidCredentials that points the caller at Google sign-in.
	ErrGoogleOnlyAccount error = &detailedError{
		msg:  "This account uses Google authentication. Please use Google sign-in.",
		base: ErrInvalidCredentials,
	}
)

type detailedError struct {
	msg  string
	base error
}

func (e *detailedError) Error() string { return e.msg }
func (e *detailedError) Unwrap() error { return e.base }

// ValidationError reports missing or malformed input. Message is safe to show to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationFailure collapses validator output into one client message.
// Any missing field reports missingMsg.
func validationFailure(err error, missingMsg string) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return newValidationError(missingMsg)
	}
	for _, fe := range errs {
		if fe.Tag() == "required" {
			return newValidationError(missingMsg)
		}
	}
	fe := errs[0]
	switch fe.Tag() {
	case "email":
		return newValidationError("Invalid email address")
	case "gt":
		return newValidationError(fe.Field() + " must be greater than " + fe.Param())
	default:
		return newValidationError("Invalid value for " + fe.Field())
	}
}

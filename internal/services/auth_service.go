package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/store"
	"github.com/go-playground/validator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdentityVerifier validates a third-party ID token for the given audience.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken, audience string) (*GoogleIdentity, error)
}

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	verifier IdentityVerifier
	mailer   mailer.Mailer
	validate *validator.Validate

	now    func() time.Time
	newOTP func() (string, error)
}

func NewAuthService(db *gorm.DB, cfg *config.Config, verifier IdentityVerifier, m mailer.Mailer) *AuthService {
	return &AuthService{
		db:       db,
		cfg:      cfg,
		verifier: verifier,
		mailer:   m,
		validate: newValidator(),
		now:      time.Now,
		newOTP:   generateOTP,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = models.NormalizeEmail(req.Email)

	if err := s.validate.Struct(req); err != nil {
		return nil, validationFailure(err, "All fields are required")
	}
	if req.Password != req.ConfirmPassword {
		return nil, newValidationError("Passwords do not match")
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if err := user.SetPassword(req.Password, s.cfg.BcryptCost); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := store.NewUserStore(s.db).Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID.String(), "action", "register")
	return s.authResponse(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	req.Email = models.NormalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationFailure(err, "Email and password are required")
	}

	user, err := store.NewUserStore(s.db).FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.HasPassword() {
		return nil, ErrGoogleOnlyAccount
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(ctx, user)
}

// GoogleSignIn finds, creates or links the account for a verified Google identity.
func (s *AuthService) GoogleSignIn(ctx context.Context, req *dto.GoogleSignInRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(req.IDToken) == "" {
		return nil, newValidationError("ID token is required")
	}

	identity, err := s.verifier.Verify(ctx, req.IDToken, s.cfg.GoogleClientID)
	if err != nil {
		slog.Error("google token verification failed", "error", err.Error(), "action", "google_sign_in")
		return nil, fmt.Errorf("%w (%w): %v", ErrInvalidToken, ErrIdentityVerification, err)
	}

	email := models.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, ErrInvalidToken
	}

	users := store.NewUserStore(s.db)
	user, err := users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		user = &models.User{
			FirstName: identity.GivenName,
			LastName:  identity.FamilyName,
			Email:     email,
		}
		user.LinkGoogle(identity.Subject)
		if err := users.Create(ctx, user); err != nil {
			return nil, err
		}
		slog.Info("user registered via google", "user_id", user.ID.String(), "action", "google_sign_in")

	case err != nil:
		return nil, err

	case user.HasGoogleLink() && *user.GoogleID != identity.Subject:
		slog.Warn("google account conflict", "user_id", user.ID.String(), "action", "google_sign_in")
		return nil, ErrAccountConflict

	case !user.HasGoogleLink():
		user.LinkGoogle(identity.Subject)
		if err := users.Save(ctx, user); err != nil {
			return nil, err
		}
		slog.Info("google account linked", "user_id", user.ID.String(), "action", "google_sign_in")
	}

	return s.authResponse(ctx, user)
}

// ForgotPassword issues a fresh OTP and emails it. Exactly one message is sent per call.
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (*dto.MessageResponse, error) {
	req.Email = models.NormalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationFailure(err, "Email is required")
	}

	users := store.NewUserStore(s.db)
	user, err := users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	code, err := s.newOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}
	user.SetOTP(code, s.now().Add(s.cfg.OTPTTL))
	if err := users.Save(ctx, user); err != nil {
		return nil, err
	}

	subject, body, err := mailer.OTPEmail(s.cfg.AppName, code, s.cfg.OTPTTL)
	if err != nil {
		return nil, err
	}
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		slog.Error("otp email delivery failed", "user_id", user.ID.String(), "error", err.Error(), "action", "forgot_password")
		return nil, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	slog.Info("password reset otp sent", "user_id", user.ID.String(), "action", "forgot_password")
	return &dto.MessageResponse{Success: true, Message: "OTP sent to your email"}, nil
}

// ResetPassword consumes a valid OTP and sets a new password. Mismatched codes
// count against OTPMaxAttempts; once exhausted the OTP is discarded.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.AuthResponse, error) {
	req.Email = models.NormalizeEmail(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationFailure(err, "All fields are required")
	}
	if req.NewPassword != req.ConfirmPassword {
		return nil, newValidationError("Passwords do not match")
	}

	users := store.NewUserStore(s.db)
	user, err := users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.HasOTP() {
		return nil, ErrInvalidOTP
	}
	if !user.MatchOTP(req.OTP) {
		user.OTPAttempts++
		if user.OTPAttempts >= s.cfg.OTPMaxAttempts {
			user.ClearOTP()
			slog.Warn("otp discarded after too many attempts", "user_id", user.ID.String(), "action", "reset_password")
		}
		if err := users.Save(ctx, user); err != nil {
			return nil, err
		}
		return nil, ErrInvalidOTP
	}
	if user.OTPExpired(s.now()) {
		return nil, ErrOTPExpired
	}

	if err := user.SetPassword(req.NewPassword, s.cfg.BcryptCost); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.ClearOTP()
	if err := users.Save(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("password reset", "user_id", user.ID.String(), "action", "reset_password")
	return s.authResponse(ctx, user)
}

// Me returns the current projection for an authenticated user id.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	user, err := store.NewUserStore(s.db).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	projection, _, err := userProjection(ctx, s.db, user)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{Success: true, User: projection}, nil
}

func (s *AuthService) authResponse(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	projection, sub, err := userProjection(ctx, s.db, user)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(user, sub)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Success: true,
		Token:   token,
		User:    projection,
	}, nil
}

// generateToken signs a session token carrying the user id and a snapshot of the linked plan.
func (s *AuthService) generateToken(user *models.User, sub *models.Subscription) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":         user.ID.String(),
		"email":       user.Email,
		"plan_name":   nil,
		"plan_status": nil,
		"iat":         now.Unix(),
		"exp":         now.Add(s.cfg.JWTExpiry).Unix(),
	}
	if sub != nil {
		claims["plan_name"] = sub.PlanName
		claims["plan_status"] = sub.Status
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// generateOTP draws uniformly from [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

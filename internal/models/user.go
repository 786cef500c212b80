package models

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a credential record. PasswordHash and GoogleID are independent:
// either, both (after linking) or, transiently, neither may be set.
type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName      string     `gorm:"size:100;not null;default:''" json:"firstName"`
	LastName       string     `gorm:"size:100;not null;default:''" json:"lastName"`
	Email          string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash   *string    `gorm:"size:72" json:"-"`
	GoogleID       *string    `gorm:"size:255;index" json:"-"`
	OTPHash        *string    `gorm:"column:otp_hash;size:64" json:"-"`
	OTPExpiresAt   *time.Time `gorm:"column:otp_expires_at" json:"-"`
	OTPAttempts    int        `gorm:"column:otp_attempts;not null;default:0" json:"-"`
	SubscriptionID *uuid.UUID `gorm:"type:uuid" json:"subscriptionId"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"-"`
}

var ErrEmptyPassword = errors.New("password must not be empty")

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) HasGoogleLink() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}

// SetPassword replaces the stored hash; the plaintext is never kept.
func (u *User) SetPassword(plain string, cost int) error {
	if plain == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return err
	}
	h := string(hash)
	u.PasswordHash = &h
	return nil
}

// CheckPassword is always false for accounts without a password (Google-only).
func (u *User) CheckPassword(candidate string) bool {
	if !u.HasPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(candidate)) == nil
}

func (u *User) LinkGoogle(subject string) {
	u.GoogleID = &subject
}

// SetOTP stores a digest of the code and resets the attempt counter.
func (u *User) SetOTP(code string, expiresAt time.Time) {
	digest := otpDigest(code)
	u.OTPHash = &digest
	u.OTPExpiresAt = &expiresAt
	u.OTPAttempts = 0
}

func (u *User) ClearOTP() {
	u.OTPHash = nil
	u.OTPExpiresAt = nil
	u.OTPAttempts = 0
}

func (u *User) HasOTP() bool {
	return u.OTPHash != nil && *u.OTPHash != ""
}

// MatchOTP compares in constant time against the stored digest.
func (u *User) MatchOTP(code string) bool {
	if !u.HasOTP() {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*u.OTPHash), []byte(otpDigest(code))) == 1
}

// OTPExpired treats the expiry instant itself as expired.
func (u *User) OTPExpired(now time.Time) bool {
	return u.OTPExpiresAt == nil || !now.Before(*u.OTPExpiresAt)
}

func otpDigest(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

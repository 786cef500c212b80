package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestSetPassword_NeverStoresPlaintext(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("secret1", bcrypt.MinCost))

	require.True(t, u.HasPassword())
	assert.NotEqual(t, "secret1", *u.PasswordHash)
	assert.True(t, u.CheckPassword("secret1"))
	assert.False(t, u.CheckPassword("secret2"))
}

func TestSetPassword_ChangeInvalidatesOldPassword(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("old-pass", bcrypt.MinCost))
	oldHash := *u.PasswordHash

	require.NoError(t, u.SetPassword("new-pass", bcrypt.MinCost))

	assert.NotEqual(t, oldHash, *u.PasswordHash)
	assert.False(t, u.CheckPassword("old-pass"))
	assert.True(t, u.CheckPassword("new-pass"))
}

func TestSetPassword_RejectsEmpty(t *testing.T) {
	var u User
	assert.ErrorIs(t, u.SetPassword("", bcrypt.MinCost), ErrEmptyPassword)
	assert.False(t, u.HasPassword())
}

func TestCheckPassword_GoogleOnlyAccount(t *testing.T) {
	u := User{}
	u.LinkGoogle("google-sub-1")

	for _, candidate := range []string{"", "anything", "secret1"} {
		assert.False(t, u.CheckPassword(candidate), candidate)
	}
	assert.True(t, u.HasGoogleLink())
}

func TestOTPLifecycle(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	expires := issued.Add(10 * time.Minute)

	var u User
	assert.False(t, u.HasOTP())
	assert.False(t, u.MatchOTP("123456"))

	u.SetOTP("123456", expires)
	require.True(t, u.HasOTP())
	assert.NotEqual(t, "123456", *u.OTPHash)
	assert.True(t, u.MatchOTP("123456"))
	assert.False(t, u.MatchOTP("654321"))

	assert.False(t, u.OTPExpired(issued))
	assert.False(t, u.OTPExpired(expires.Add(-time.Nanosecond)))
	assert.True(t, u.OTPExpired(expires))
	assert.True(t, u.OTPExpired(expires.Add(time.Second)))

	u.OTPAttempts = 3
	u.ClearOTP()
	assert.False(t, u.HasOTP())
	assert.Nil(t, u.OTPExpiresAt)
	assert.Zero(t, u.OTPAttempts)
}

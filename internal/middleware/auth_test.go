package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTProtected(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	userID := uuid.New()

	app := fiber.New()
	app.Get("/me", middleware.JWTProtected(cfg), func(c *fiber.Ctx) error {
		id, err := middleware.UserID(c)
		if err != nil {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(id.String())
	})

	future := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": userID.String(), "exp": future}), wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signed(t, "other", jwt.MapClaims{"sub": userID.String(), "exp": future}), wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": userID.String(), "exp": time.Now().Add(-time.Hour).Unix()}), wantStatus: http.StatusUnauthorized},
		{name: "non-uuid subject", header: "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": "abc", "exp": future}), wantStatus: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.SecurityHeaders())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

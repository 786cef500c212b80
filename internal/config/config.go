package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Session tokens
	JWTSecret string
	JWTExpiry time.Duration

	// Google Sign-In
	GoogleClientID string
	GoogleJWKSURL  string

	// Stripe
	StripeSecretKey string
	StripeCurrency  string

	// Email: Resend when an API key is present, SMTP otherwise
	ResendAPIKey string
	EmailUser    string
	EmailPass    string
	EmailFrom    string
	SMTPHost     string
	SMTPPort     string
	AppName      string

	// Password reset
	OTPTTL         time.Duration
	OTPMaxAttempts int
	BcryptCost     int

	// Server
	Port          string
	CORSOrigins   string
	APIRateLimit  int
	AuthRateLimit int

	// Error tracking
	SentryDSN string
	AppEnv    string
}

// Load reads the process environment, after merging an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "pixellift"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "168h"), 7*24*time.Hour),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleJWKSURL:  getEnv("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StripeCurrency:  getEnv("STRIPE_CURRENCY", "usd"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		EmailUser:    getEnv("EMAIL_USER", ""),
		EmailPass:    getEnv("EMAIL_PASS", ""),
		EmailFrom:    getEnv("EMAIL_FROM", getEnv("EMAIL_USER", "")),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		AppName:      getEnv("APP_NAME", "PixelLift"),

		OTPTTL:         parseDuration(getEnv("OTP_TTL", "10m"), 10*time.Minute),
		OTPMaxAttempts: parseInt(getEnv("OTP_MAX_ATTEMPTS", "5"), 5),
		BcryptCost:     parseInt(getEnv("BCRYPT_COST", "12"), 12),

		Port:          getEnv("PORT", "5000"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		APIRateLimit:  parseInt(getEnv("API_RATE_LIMIT", "60"), 60),
		AuthRateLimit: parseInt(getEnv("AUTH_RATE_LIMIT", "10"), 10),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		AppEnv:    getEnv("APP_ENV", "development"),
	}
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// HasDatabaseCredentials reports whether a usable connection string can be built.
func (c *Config) HasDatabaseCredentials() bool {
	return c.DatabaseURL != "" || c.DBPassword != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

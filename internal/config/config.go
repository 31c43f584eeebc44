package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// OTP
	OTPBypassCode      string
	OTPTTL             time.Duration
	OTPResendInterval  time.Duration
	DefaultCountryCode string

	// Redis (optional, OTP store)
	RedisURL string

	// Admin
	AdminEmails         string
	AdminBootstrapEmail string
	AdminBootstrapPass  string

	// Media
	MediaBaseURL string

	// Logging
	LogRetentionDays int

	// Sentry
	SentryDSN string

	// Server
	AppEnv      string
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// A local .env is optional; real deployments inject the environment.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "community_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "720h")),

		OTPBypassCode:      getEnv("OTP_BYPASS_CODE", ""),
		OTPTTL:             parseDuration(getEnv("OTP_TTL", "10m")),
		OTPResendInterval:  parseDuration(getEnv("OTP_RESEND_INTERVAL", "1m")),
		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "+91"),

		RedisURL: getEnv("REDIS_URL", ""),

		AdminEmails:         getEnv("ADMIN_EMAILS", ""),
		AdminBootstrapEmail: getEnv("ADMIN_BOOTSTRAP_EMAIL", ""),
		AdminBootstrapPass:  getEnv("ADMIN_BOOTSTRAP_PASSWORD", ""),

		MediaBaseURL: getEnv("MEDIA_BASE_URL", ""),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// OTPBypassAllowed reports whether code is the configured universal code.
// The bypass never applies in production.
func (c *Config) OTPBypassAllowed(code string) bool {
	if c.IsProduction() || c.OTPBypassCode == "" {
		return false
	}
	return code == c.OTPBypassCode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

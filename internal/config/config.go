package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port string
	Env  string // "development", "production"

	// Database
	DatabaseURL string

	// Auth
	JWTSecret string

	// CORS
	AllowedOrigins []string

	// Payment gateway (Razorpay-compatible). Empty credentials enable mock
	// mode: orders and refunds are fabricated locally and every signature
	// verifies.
	RazorpayKey     string
	RazorpaySecret  string
	RazorpayBaseURL string

	// Scheduler
	SchedulerEnabled  bool
	RecurringSchedule string        // cron expression for due recurring processing
	RatesSchedule     string        // cron expression for FD-rate scraping
	JobTimeout        time.Duration // per scheduled job
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/paisatrack?sslmode=disable"),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),

		RazorpayKey:     os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:  os.Getenv("RAZORPAY_SECRET"),
		RazorpayBaseURL: getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),

		SchedulerEnabled:  getBoolEnv("SCHEDULER_ENABLED", true),
		RecurringSchedule: getEnv("RECURRING_SCHEDULE", "0 1 * * *"), // daily at 01:00
		RatesSchedule:     getEnv("RATES_SCHEDULE", "0 * * * *"),     // hourly
		JobTimeout:        getDurationEnv("JOB_TIMEOUT", 5*time.Minute),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GatewayMockMode reports whether the payment gateway should run without
// real credentials.
func (c *Config) GatewayMockMode() bool {
	return c.RazorpayKey == "" || c.RazorpaySecret == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

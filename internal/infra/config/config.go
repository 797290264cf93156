package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	HTTPAddr           string
	DatabaseURL        string
	SessionSecret      string
	TelegramToken      string // optional; reminders fall back to the log notifier
	LogLevel           string
	Environment        string
	CronSpecDispatch   string // when the daily reminder dispatch runs
	LoginRatePerMin    int    // login attempts allowed per minute
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecDispatch = os.Getenv("CRON_SPEC_REMINDER_DISPATCH")
	if cfg.CronSpecDispatch == "" {
		cfg.CronSpecDispatch = "0 9 * * *" // Default: 9 AM daily
	}

	rateStr := os.Getenv("LOGIN_RATE_PER_MIN")
	if rateStr == "" {
		cfg.LoginRatePerMin = 10
	} else {
		rate, err := strconv.Atoi(rateStr)
		if err != nil || rate < 0 {
			return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MIN: %q", rateStr)
		}
		cfg.LoginRatePerMin = rate // zero disables the limiter
	}

	// Comma-separated list; empty means same-origin only and the CORS
	// middleware stays off.
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

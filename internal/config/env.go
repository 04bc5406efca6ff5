package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIEndpoint    = "http://localhost:3000/api/v1"
	defaultFrontendOrigin = "http://localhost:3000"
	defaultRequestTimeout = 30 * time.Second
	defaultRateLimit      = 10
	defaultRateBurst      = 5
	defaultProfile        = "default"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // a .env file is optional
	}

	cfg := &Config{
		APIEndpoint:    strings.TrimRight(getenv("BRAIN_API_ENDPOINT", defaultAPIEndpoint), "/"),
		FrontendOrigin: strings.TrimRight(getenv("BRAIN_FRONTEND_ORIGIN", defaultFrontendOrigin), "/"),
		SessionBackend: strings.ToLower(getenv("BRAIN_SESSION_BACKEND", BackendFile)),
		SessionPath:    os.Getenv("BRAIN_SESSION_PATH"),
		SessionProfile: getenv("BRAIN_PROFILE", defaultProfile),
		RedisURL:       os.Getenv("REDIS_URL"),
		AuthScheme:     os.Getenv("BRAIN_AUTH_SCHEME"),
		Environment:    getenv("BRAIN_ENV", "development"),
		LogFile:        os.Getenv("BRAIN_LOG_FILE"),
		RequestTimeout: defaultRequestTimeout,
		RateLimit:      defaultRateLimit,
		RateBurst:      defaultRateBurst,
	}

	if v := os.Getenv("BRAIN_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("BRAIN_REQUEST_TIMEOUT must be a positive duration, got %q", v)
		}
		cfg.RequestTimeout = d
	}

	if v := os.Getenv("BRAIN_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("BRAIN_RATE_LIMIT must be a positive number, got %q", v)
		}
		cfg.RateLimit = f
	}

	if v := os.Getenv("BRAIN_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("BRAIN_RATE_BURST must be a positive integer, got %q", v)
		}
		cfg.RateBurst = n
	}

	switch cfg.SessionBackend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL environment variable is required for the redis session backend")
		}
	default:
		return nil, fmt.Errorf("unknown BRAIN_SESSION_BACKEND %q", cfg.SessionBackend)
	}

	if cfg.SessionPath == "" || cfg.LogFile == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}

		if cfg.SessionPath == "" {
			cfg.SessionPath = filepath.Join(dir, cfg.SessionProfile+".session.json")
		}

		if cfg.LogFile == "" {
			cfg.LogFile = filepath.Join(dir, "brain.log")
		}
	}

	return cfg, nil
}

// returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}

	return filepath.Join(base, "secondbrain"), nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

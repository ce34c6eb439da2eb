// Package config centralizes environment configuration for the crptgate
// commands. Values come from the process environment, with a .env file
// loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Demo holds the settings for the crpt-demo command.
type Demo struct {
	AppEnv      string
	BaseURL     string
	Signature   string
	RateLimit   int
	RateWindow  time.Duration
	Requests    int
	MetricsAddr string
	RedisAddr   string
}

// Stub holds the settings for the crpt-stub command.
type Stub struct {
	AppEnv string
	Addr   string
	RPS    float64
	Burst  int
}

// LoadDemo reads the demo configuration from the environment.
func LoadDemo() (Demo, error) {
	_ = godotenv.Load()

	rateLimit, err := getIntEnv("CRPT_RATE_LIMIT", 5)
	if err != nil {
		return Demo{}, err
	}

	rateWindow, err := getDurationEnv("CRPT_RATE_WINDOW", time.Second)
	if err != nil {
		return Demo{}, err
	}

	requests, err := getIntEnv("DEMO_REQUESTS", 12)
	if err != nil {
		return Demo{}, err
	}

	return Demo{
		AppEnv:      getEnv("APP_ENV", "development"),
		BaseURL:     getEnv("CRPT_BASE_URL", "http://localhost:8085/api/v3"),
		Signature:   getEnv("CRPT_SIGNATURE", "dev-signature"),
		RateLimit:   rateLimit,
		RateWindow:  rateWindow,
		Requests:    requests,
		MetricsAddr: getEnv("METRICS_ADDR", ":9102"),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
	}, nil
}

// LoadStub reads the stub server configuration from the environment.
func LoadStub() (Stub, error) {
	_ = godotenv.Load()

	rps, err := getFloatEnv("STUB_RPS", 5)
	if err != nil {
		return Stub{}, err
	}

	burst, err := getIntEnv("STUB_BURST", 10)
	if err != nil {
		return Stub{}, err
	}

	return Stub{
		AppEnv: getEnv("APP_ENV", "development"),
		Addr:   getEnv("STUB_ADDR", ":8085"),
		RPS:    rps,
		Burst:  burst,
	}, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getFloatEnv(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

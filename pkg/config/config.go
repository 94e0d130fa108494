package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPPort int

	SessionTTL time.Duration

	FreeShippingThreshold float64
	FlatShippingFee       float64
}

func Load() Config {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	return Config{
		AppEnv:                getEnv("APP_ENV", "dev"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		HTTPPort:              getEnvInt("HTTP_PORT", 8080),
		SessionTTL:            getEnvDuration("SESSION_TTL", 2*time.Hour),
		FreeShippingThreshold: getEnvFloat("FREE_SHIPPING_THRESHOLD", 50.00),
		FlatShippingFee:       getEnvFloat("FLAT_SHIPPING_FEE", 5.99),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

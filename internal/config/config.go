package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort        string
	BaseURL         string
	StripeSecretKey string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ContentEndpoint string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// .env file is optional, continue without it
	_ = godotenv.Load()

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		ContentEndpoint: getEnv("CONTENT_ENDPOINT", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

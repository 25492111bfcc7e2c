package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Retry   RetryConfig
	Cache   CacheConfig
	Redis   RedisConfig
	App     AppConfig
}

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	Region        string
	Bucket        string
	Namespace     string
	ListRateLimit float64
	ListBurst     int
}

type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

type CacheConfig struct {
	TTL             time.Duration
	SweepSpec       string
	RetentionFactor int
}

type RedisConfig struct {
	// Addr empty disables the cross-process invalidation notifier.
	Addr    string
	Channel string
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Storage: StorageConfig{
			Region:        getEnv("AWS_REGION", "us-east-1"),
			Bucket:        getEnv("PROJECTS_BUCKET", ""),
			Namespace:     getEnv("PROJECTS_NAMESPACE", "windscape"),
			ListRateLimit: getEnvAsFloat("LIST_RATE_LIMIT", 8),
			ListBurst:     getEnvAsInt("LIST_RATE_BURST", 16),
		},
		Retry: RetryConfig{
			MaxRetries:        getEnvAsInt("MAX_RETRIES", 3),
			InitialDelay:      time.Duration(getEnvAsInt("RETRY_INITIAL_DELAY_MS", 200)) * time.Millisecond,
			MaxDelay:          time.Duration(getEnvAsInt("RETRY_MAX_DELAY_MS", 5000)) * time.Millisecond,
			BackoffMultiplier: getEnvAsFloat("RETRY_BACKOFF_MULTIPLIER", 2.0),
		},
		Cache: CacheConfig{
			TTL:             time.Duration(getEnvAsInt("CACHE_TTL_MS", 30000)) * time.Millisecond,
			SweepSpec:       getEnv("CACHE_SWEEP_SPEC", "0 */5 * * * *"),
			RetentionFactor: getEnvAsInt("CACHE_RETENTION_FACTOR", 10),
		},
		Redis: RedisConfig{
			Addr:    getEnv("REDIS_ADDR", ""),
			Channel: getEnv("REDIS_INVALIDATION_CHANNEL", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Storage.Bucket == "" {
		return fmt.Errorf("PROJECTS_BUCKET is required")
	}

	if c.Retry.BackoffMultiplier < 1 {
		return fmt.Errorf("RETRY_BACKOFF_MULTIPLIER must be >= 1")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

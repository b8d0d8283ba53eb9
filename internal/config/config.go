package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type Config struct {
	Server ServerConfig
	Log    LogConfig
	Gemini GeminiConfig
	Worker WorkerConfig
}

type ServerConfig struct {
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development staging production test"`
}

type LogConfig struct {
	Level string `validate:"oneof=trace debug info warn error"`
}

// GeminiConfig.APIKey may be empty; a missing key surfaces per submission.
type GeminiConfig struct {
	APIKey      string
	Model       string  `validate:"required"`
	Temperature float32 `validate:"gte=0,lte=2"`
	TopK        float32 `validate:"gte=1"`
	TopP        float32 `validate:"gt=0,lte=1"`
}

type WorkerConfig struct {
	Concurrency   int           `validate:"gte=1"`
	QueueSize     int           `validate:"gte=1"`
	SessionTTL    time.Duration `validate:"gt=0"`
	SweepInterval time.Duration `validate:"gt=0"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.7),
			TopK:        getEnvAsFloat32("GEMINI_TOP_K", 40),
			TopP:        getEnvAsFloat32("GEMINI_TOP_P", 0.95),
		},
		Worker: WorkerConfig{
			Concurrency:   getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:     getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", "30m"),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", "1m"),
		},
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

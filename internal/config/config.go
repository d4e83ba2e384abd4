package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	QuestionBankURL     string
	PrefetchWorkerCount int
	PrefetchQueueSize   int
	StandardExamSize    int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:prepdeck.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		QuestionBankURL:     envOr("QUESTION_BANK_URL", "http://localhost:9090"),
		PrefetchWorkerCount: envIntOr("PREFETCH_WORKER_COUNT", 2),
		PrefetchQueueSize:   envIntOr("PREFETCH_QUEUE_SIZE", 64),
		StandardExamSize:    envIntOr("STANDARD_EXAM_SIZE", 50),
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.QuestionBankURL == "" {
		return fmt.Errorf("QUESTION_BANK_URL cannot be empty")
	}
	if c.PrefetchWorkerCount <= 0 {
		return fmt.Errorf("PREFETCH_WORKER_COUNT must be positive")
	}
	if c.PrefetchQueueSize <= 0 {
		return fmt.Errorf("PREFETCH_QUEUE_SIZE must be positive")
	}
	if c.StandardExamSize <= 0 {
		return fmt.Errorf("STANDARD_EXAM_SIZE must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

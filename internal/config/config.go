package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort        string
	DatabaseType      string
	DatabasePath      string
	DatabaseURL       string
	MigrationsPath    string
	SessionDuration   time.Duration
	SessionSecret     string
	StrictLetterCheck bool
	HintGrant         int
	PointsPerWord     int
	SessionIdleEvict  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("PORT", "8080"),
		DatabaseType:      getEnv("DB_TYPE", "sqlite"),
		DatabasePath:      getEnv("DB_PATH", "./wordscapes.db"),
		DatabaseURL:       getEnv("DB_URL", ""),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration:   getDurationEnv("SESSION_DURATION", 24*time.Hour),
		SessionSecret:     getEnv("SESSION_SECRET", "dev-only-secret"),
		StrictLetterCheck: getBoolEnv("STRICT_LETTER_CHECK", false),
		HintGrant:         getIntEnv("HINT_GRANT", 3),
		PointsPerWord:     getIntEnv("POINTS_PER_WORD", 10),
		SessionIdleEvict:  getDurationEnv("SESSION_IDLE_EVICT", 2*time.Hour),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
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

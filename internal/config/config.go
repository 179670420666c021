package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort       string
	DatabaseType     string
	DatabasePath     string
	DatabaseURL      string
	MigrationsPath   string
	LevelsPath       string
	LogMode          string
	ShapeGrader      string
	DevGradingBypass bool
	CaptureTimeout   time.Duration
	SplashDelay      time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("PORT", "8080"),
		DatabaseType:     getEnv("DB_TYPE", "sqlite"),
		DatabasePath:     getEnv("DB_PATH", "./letterpath.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./migrations"),
		LevelsPath:       getEnv("LEVELS_PATH", ""),
		LogMode:          getEnv("LOG_MODE", "development"),
		ShapeGrader:      getEnv("SHAPE_GRADER", "heuristic"),
		DevGradingBypass: getEnvBool("DEV_GRADING_BYPASS", false),
		CaptureTimeout:   getEnvDuration("CAPTURE_TIMEOUT", 10*time.Second),
		SplashDelay:      getEnvDuration("SPLASH_DELAY", 2500*time.Millisecond),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

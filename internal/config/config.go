package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// StreamConfig defines which Redis streams to consume from and publish to
type StreamConfig struct {
	// Sports to consume (e.g., football -> fixtures.snapshot.football)
	Sports []string

	SnapshotPrefix string // fixtures.snapshot
	AnalysisPrefix string // fixtures.analysis

	// Consumer group and ID
	ConsumerGroup string
	ConsumerID    string

	Enabled bool
}

// SnapshotStream returns the input stream of a sport
func (sc *StreamConfig) SnapshotStream(sport string) string {
	return fmt.Sprintf("%s.%s", sc.SnapshotPrefix, sport)
}

// AnalysisStream returns the output stream of a sport
func (sc *StreamConfig) AnalysisStream(sport string) string {
	return fmt.Sprintf("%s.%s", sc.AnalysisPrefix, sport)
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Stream   StreamConfig
	Analysis models.Options
	LogLevel logrus.Level
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	defaults := models.DefaultOptions()

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:           getEnv("SERVER_ADDR", ":8090"),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
			AllowedOrigins: getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "localhost:6380"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Stream: StreamConfig{
			Sports:         getEnvStringSlice("SPORTS", []string{"football", "basketball"}),
			SnapshotPrefix: getEnv("SNAPSHOT_STREAM_PREFIX", "fixtures.snapshot"),
			AnalysisPrefix: getEnv("ANALYSIS_STREAM_PREFIX", "fixtures.analysis"),
			ConsumerGroup:  getEnv("CONSUMER_GROUP", "market-oracle"),
			ConsumerID:     getEnv("CONSUMER_ID", "oracle-1"),
			Enabled:        getEnvBool("STREAM_ENABLED", true),
		},
		Analysis: models.Options{
			Tolerance:           getEnvFloat("TOLERANCE", defaults.Tolerance),
			ValueBetThreshold:   getEnvFloat("VALUE_BET_THRESHOLD", defaults.ValueBetThreshold),
			SmallValueThreshold: getEnvFloat("SMALL_VALUE_THRESHOLD", defaults.SmallValueThreshold),
			ModerateSeverity:    getEnvFloat("MODERATE_SEVERITY", defaults.ModerateSeverity),
			MajorSeverity:       getEnvFloat("MAJOR_SEVERITY", defaults.MajorSeverity),
			LosingWeightFactor:  getEnvFloat("LOSING_WEIGHT_FACTOR", defaults.LosingWeightFactor),
		},
		LogLevel: level,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configuration the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("SERVER_ADDR must not be empty")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.Stream.Enabled && len(c.Stream.Sports) == 0 {
		return fmt.Errorf("SPORTS must name at least one sport when streaming is enabled")
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("invalid analysis thresholds: %w", err)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Places     PlacesConfig
	Search     SearchConfig
	Cache      CacheConfig
	PostgreSQL PostgreSQLConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// PlacesConfig holds places provider API configuration
type PlacesConfig struct {
	APIKey  string
	APIBase string
	Timeout int // seconds
	Enabled bool
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	DefaultMaxResults int
	MaxResultsCap     int
	PageSize          int // provider per-page ceiling
	MinRadiusMeters   int
	MaxRadiusMeters   int
	DetailsBatchCap   int
	CategoryFile      string
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// PostgreSQLConfig holds the optional search-log database configuration
type PostgreSQLConfig struct {
	DSN                string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Places: PlacesConfig{
			APIKey:  getEnv("PLACES_API_KEY", ""),
			APIBase: getEnv("PLACES_API_BASE", "https://places.googleapis.com/v1"),
			Timeout: getEnvAsInt("PLACES_TIMEOUT", 20),
			Enabled: getEnv("PLACES_API_KEY", "") != "",
		},
		Search: SearchConfig{
			DefaultMaxResults: getEnvAsInt("SEARCH_DEFAULT_MAX_RESULTS", 60),
			MaxResultsCap:     getEnvAsInt("SEARCH_MAX_RESULTS_CAP", 500),
			PageSize:          getEnvAsInt("SEARCH_PAGE_SIZE", 20),
			MinRadiusMeters:   getEnvAsInt("SEARCH_MIN_RADIUS_METERS", 1),
			MaxRadiusMeters:   getEnvAsInt("SEARCH_MAX_RADIUS_METERS", 50000),
			DetailsBatchCap:   getEnvAsInt("SEARCH_DETAILS_BATCH_CAP", 50),
			CategoryFile:      getEnv("CATEGORY_FILE", "data/categories.json"),
		},
		Cache: CacheConfig{
			TTL: time.Duration(getEnvAsInt("CACHE_TTL_MINUTES", 20)) * time.Minute,
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			Enabled:            getEnv("DATABASE_URL", getEnv("PG_DSN", "")) != "",
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if cfg.Search.MinRadiusMeters < 1 {
		return nil, fmt.Errorf("SEARCH_MIN_RADIUS_METERS must be >= 1, got %d", cfg.Search.MinRadiusMeters)
	}
	if cfg.Search.MaxRadiusMeters < cfg.Search.MinRadiusMeters {
		return nil, fmt.Errorf("SEARCH_MAX_RADIUS_METERS (%d) below SEARCH_MIN_RADIUS_METERS (%d)",
			cfg.Search.MaxRadiusMeters, cfg.Search.MinRadiusMeters)
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type AuthConfig struct {
	JWTSecretKey    string
	TokenExpiration time.Duration
	RefreshTTL      time.Duration
}

type StorageConfig struct {
	// UploadDir is the root directory for bucket storage on disk.
	UploadDir string
	// PublicBaseURL prefixes the public URL returned for uploaded files.
	PublicBaseURL string
}

type CacheConfig struct {
	EventsTTL     time.Duration
	VenuesTTL     time.Duration
	CategoriesTTL time.Duration
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type Config struct {
	Repositories RepositoriesConfig
	Auth         AuthConfig
	Storage      StorageConfig
	Cache        CacheConfig
	ServerPort   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "eventify"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Auth: AuthConfig{
			JWTSecretKey:    getEnvOrDefault("JWT_SECRET_KEY", ""),
			TokenExpiration: getDurationOrDefault("JWT_TOKEN_EXPIRATION", 24*time.Hour),
			RefreshTTL:      getDurationOrDefault("JWT_REFRESH_TTL", 30*24*time.Hour),
		},
		Storage: StorageConfig{
			UploadDir:     getEnvOrDefault("UPLOAD_DIR", "./uploads"),
			PublicBaseURL: getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		Cache: CacheConfig{
			EventsTTL:     getDurationOrDefault("CACHE_EVENTS_TTL", 60*time.Minute),
			VenuesTTL:     getDurationOrDefault("CACHE_VENUES_TTL", 10*time.Minute),
			CategoriesTTL: getDurationOrDefault("CACHE_CATEGORIES_TTL", 30*time.Minute),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8080"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.Auth.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare numbers are read as minutes.
	if m, err := strconv.Atoi(value); err == nil {
		return time.Duration(m) * time.Minute
	}
	return defaultValue
}

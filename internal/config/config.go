package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Environment string // ENV: production, development, etc.
	Port        string
	Host        string // Raw HOST env (e.g. https://api.promisu.app)

	DatabaseDriver string // postgres or sqlite
	PostgresURI    string
	SQLitePath     string
	RedisURI       string
	MongoURI       string
	MongoDatabase  string

	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)

	EncryptionKey       string
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	LogLevel  string
	LogFormat string
	LogFile   string

	ShutdownTimeout time.Duration
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "30s"))
	if err != nil {
		shutdownTimeout = -1 // rejected by Validate
	}

	return &Config{
		Environment:         env,
		Port:                getEnv("PORT", "8080"),
		Host:                getEnv("HOST", "http://localhost:8080"),
		DatabaseDriver:      strings.ToLower(strings.TrimSpace(getEnv("DATABASE_DRIVER", DriverPostgres))),
		PostgresURI:         getEnv("POSTGRES_URI", "postgres://localhost:5432/promisu?sslmode=disable"),
		SQLitePath:          getEnv("SQLITE_PATH", "promisu.db"),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/promisu")),
		MongoDatabase:       getEnv("MONGO_DATABASE", "promisu"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:      allowedOrigins,
		EncryptionKey:       getEnv("ENCRYPTION_KEY", ""),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
		LogFile:             getEnv("LOG_FILE", ""),
		ShutdownTimeout:     shutdownTimeout,
	}
}

// Validate reports configuration that would fail later at startup.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.PostgresURI == "" {
			return fmt.Errorf("POSTGRES_URI is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q (want postgres or sqlite)", c.DatabaseDriver)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	return nil
}

// DatabaseURI returns the data source name for the configured driver.
func (c *Config) DatabaseURI() string {
	if c.DatabaseDriver == DriverSQLite {
		return c.SQLitePath
	}
	return c.PostgresURI
}

// CloudinaryConfigured reports whether photo uploads can be enabled.
func (c *Config) CloudinaryConfigured() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

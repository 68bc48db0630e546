// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the service.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Email    EmailConfig
	Distance DistanceConfig
	CORS     CORSConfig
	Defaults DefaultsConfig
	LogLevel string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string
}

// JWTConfig holds the shared secret for validating bearer tokens issued by
// the chamber's identity provider.
type JWTConfig struct {
	Secret string
}

// EmailConfig holds SMTP settings for workflow notifications. Leaving the
// host empty disables email entirely.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// DistanceConfig holds the routing API used for authoritative round-trip
// distances. Leaving the key empty disables the lookup; calculations then
// run without a displacement figure.
type DistanceConfig struct {
	Endpoint string
	APIKey   string
	Origin   string
	Timeout  time.Duration
}

// CORSConfig holds cross-origin settings for the SPA frontend.
type CORSConfig struct {
	AllowedOrigins []string
}

// DefaultsConfig seeds the parameter table on first run.
type DefaultsConfig struct {
	UnitValue decimal.Decimal
	FuelPrice decimal.Decimal
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/diaria.db"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("EMAIL_FROM", ""),
			FromName:     getEnv("EMAIL_FROM_NAME", "Sistema de Diárias"),
		},
		Distance: DistanceConfig{
			Endpoint: getEnv("DISTANCE_API_ENDPOINT", "https://maps.googleapis.com/maps/api/directions/json"),
			APIKey:   getEnv("DISTANCE_API_KEY", ""),
			Origin:   getEnv("DISTANCE_ORIGIN", "Câmara Municipal de Itapoá, SC, Brasil"),
			Timeout:  getDurationEnv("DISTANCE_API_TIMEOUT", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Defaults: DefaultsConfig{
			UnitValue: getDecimalEnv("DEFAULT_UPM_VALUE", "20.00"),
			FuelPrice: getDecimalEnv("DEFAULT_FUEL_PRICE", "6.00"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// IsEmailConfigured reports whether notifications can be sent.
func (c *Config) IsEmailConfigured() bool {
	return c.Email.SMTPHost != "" && c.Email.FromEmail != ""
}

// IsDistanceConfigured reports whether the routing API can be called.
func (c *Config) IsDistanceConfigured() bool {
	return c.Distance.APIKey != ""
}

// Helper functions for environment variable parsing

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

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var parts []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func getDecimalEnv(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultValue)
}

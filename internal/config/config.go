// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible session store and cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Admin credentials. The seed step creates this user if the users
	// table is empty. Password may be a bcrypt hash or plain text.
	AdminUsername string
	AdminPassword string

	// Site identity for SEO rendering. CanonicalURL is the public origin
	// used for canonical links, sitemaps, and Open Graph URLs in
	// production; development resolves the origin per request.
	SiteName     string
	CanonicalURL string

	// S3-compatible object storage for location images.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Third-party integrations.
	IndexNowKey string // search-engine ownership verification + ping key
	ApifyToken  string // Instagram hashtag post counts
	BrevoAPIKey string // newsletter subscription proxy

	// SocialRefreshInterval enables the in-process social-trend refresh
	// loop when non-zero. Zero leaves triggering to the admin endpoint
	// or an external scheduler.
	SocialRefreshInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "lokaal"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "lokaal"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AdminUsername: envOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: envOrDefault("ADMIN_PASSWORD", "admin"),

		SiteName:     envOrDefault("SITE_NAME", "Lokaal"),
		CanonicalURL: os.Getenv("CANONICAL_URL"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "eu-central-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "lokaal-public"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		IndexNowKey: os.Getenv("INDEXNOW_API_KEY"),
		ApifyToken:  os.Getenv("APIFY_API_KEY"),
		BrevoAPIKey: os.Getenv("BREVO_API_KEY"),
	}

	if v := os.Getenv("SOCIAL_REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SOCIAL_REFRESH_INTERVAL: %w", err)
		}
		cfg.SocialRefreshInterval = d
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.AdminPassword == "admin" {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
		if cfg.CanonicalURL == "" {
			return nil, fmt.Errorf("CANONICAL_URL must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

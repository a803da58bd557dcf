package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("env: got %q", cfg.Env)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
	if cfg.SiteName != "Lokaal" {
		t.Errorf("site name: got %q", cfg.SiteName)
	}
}

func TestLoadProductionValidation(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for default credentials in production")
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	t.Setenv("ADMIN_PASSWORD", "also-s3cret")
	t.Setenv("CANONICAL_URL", "https://lokaal.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with production values: %v", err)
	}
	if cfg.IsDev() {
		t.Error("production config reported as development")
	}
}

func TestLoadSocialRefreshInterval(t *testing.T) {
	t.Setenv("SOCIAL_REFRESH_INTERVAL", "6h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SocialRefreshInterval != 6*time.Hour {
		t.Errorf("interval: got %v", cfg.SocialRefreshInterval)
	}

	t.Setenv("SOCIAL_REFRESH_INTERVAL", "often")
	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable interval")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "lokaal", DBPassword: "pw", DBHost: "db", DBPort: "5432", DBName: "lokaal",
	}
	want := "postgres://lokaal:pw@db:5432/lokaal?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "0.0.0.0", Port: "8080"}
	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr: got %q", got)
	}
}

package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("expected port 8080, got %s", cfg.Port)
		}
		if cfg.AccessTokenTTL != 5*time.Minute {
			t.Errorf("expected 5m access ttl, got %s", cfg.AccessTokenTTL)
		}
		if cfg.RefreshTokenTTL != 24*time.Hour {
			t.Errorf("expected 24h refresh ttl, got %s", cfg.RefreshTokenTTL)
		}
		if cfg.JWTSecret == "" {
			t.Error("expected dev fallback secret")
		}
	})

	t.Run("ProductionValidation", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("APP_ENV", "prod")
		os.Setenv("JWT_SECRET", "short")
		_, err := Load()
		if err == nil {
			t.Error("expected error when JWT_SECRET is too short in production")
		}
	})

	t.Run("ProductionWithSecret", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("APP_ENV", "prod")
		os.Setenv("JWT_SECRET", strings.Repeat("x", minProdSecretLength))
		cfg, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !cfg.IsProd() {
			t.Error("expected prod config")
		}
	})

	t.Run("CustomValues", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("PORT", "9000")
		os.Setenv("ACCESS_TOKEN_TTL", "1m")
		os.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Port != "9000" {
			t.Errorf("expected port 9000, got %s", cfg.Port)
		}
		if cfg.AccessTokenTTL != time.Minute {
			t.Errorf("expected 1m, got %s", cfg.AccessTokenTTL)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Errorf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("InvalidDuration", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("REFRESH_TOKEN_TTL", "tomorrow")
		if _, err := Load(); err == nil {
			t.Error("expected error for invalid duration")
		}
	})

	t.Run("UnknownExporter", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("TRACING_EXPORTER", "zipkin")
		if _, err := Load(); err == nil {
			t.Error("expected error for unknown exporter")
		}
	})
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minProdSecretLength = 32

type Config struct {
	Port               string
	DatabaseURL        string
	Env                string // "dev", "test" or "prod"
	LogLevel           string
	JWTSecret          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	CORSAllowedOrigins []string
	TracingExporter    string // "none", "stdout", "otlp-http" or "otlp-grpc"
	ActorCacheSize     int
	ActorCacheTTL      time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "./inkpress.db"),
		Env:                getEnv("APP_ENV", "dev"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins: splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
		TracingExporter:    getEnv("TRACING_EXPORTER", "none"),
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getDuration("REFRESH_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ActorCacheTTL, err = getDuration("ACTOR_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ActorCacheSize, err = getInt("ACTOR_CACHE_SIZE", 1024); err != nil {
		return nil, err
	}

	switch cfg.TracingExporter {
	case "none", "stdout", "otlp-http", "otlp-grpc":
	default:
		return nil, fmt.Errorf("TRACING_EXPORTER: unsupported exporter %q", cfg.TracingExporter)
	}

	if cfg.IsProd() {
		if len(cfg.JWTSecret) < minProdSecretLength {
			return nil, fmt.Errorf("prod: JWT_SECRET is required and must be at least %d bytes", minProdSecretLength)
		}
	} else if cfg.JWTSecret == "" {
		// Weak default so dev boots; prod refuses it above.
		cfg.JWTSecret = "dev-secret-keep-it-simple-but-not-safe"
	}

	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

func splitCSV(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

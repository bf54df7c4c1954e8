package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Image backends selectable through IMAGE_BACKEND.
const (
	BackendReplicate = "replicate"
	BackendSynthetic = "synthetic"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	StoragePath        string
	StorageBaseURL     string
	ImageBackend       string
	ReplicateAPIToken  string
	ReplicateBaseURL   string
	ReplicateModel     string
	BackendConfigPath  string
	OverlayFontPath    string
	DatabaseURL        string
	GeoIPDBPath        string
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	InferenceTimeout   time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8000")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		StoragePath:        getEnv("STORAGE_PATH", "./data"),
		StorageBaseURL:     strings.TrimRight(getEnv("STORAGE_BASE_URL", "http://localhost:"+port), "/"),
		ImageBackend:       strings.ToLower(getEnv("IMAGE_BACKEND", BackendReplicate)),
		ReplicateAPIToken:  strings.TrimSpace(os.Getenv("REPLICATE_API_TOKEN")),
		ReplicateBaseURL:   getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		ReplicateModel:     strings.TrimSpace(os.Getenv("REPLICATE_MODEL")),
		BackendConfigPath:  os.Getenv("BACKEND_CONFIG_PATH"),
		OverlayFontPath:    os.Getenv("OVERLAY_FONT_PATH"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:8081", "http://127.0.0.1:8081"}),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		InferenceTimeout:   time.Second * time.Duration(getEnvInt("INFERENCE_TIMEOUT_SECONDS", 150)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	switch cfg.ImageBackend {
	case BackendReplicate:
		if cfg.ReplicateAPIToken == "" {
			return nil, fmt.Errorf("REPLICATE_API_TOKEN is required when IMAGE_BACKEND=%s", BackendReplicate)
		}
	case BackendSynthetic:
	default:
		return nil, fmt.Errorf("IMAGE_BACKEND %q is not supported (use %s or %s)", cfg.ImageBackend, BackendReplicate, BackendSynthetic)
	}

	return cfg, nil
}

// HasDatabase reports whether design history persistence is configured.
func (c *Config) HasDatabase() bool {
	return c != nil && strings.TrimSpace(c.DatabaseURL) != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

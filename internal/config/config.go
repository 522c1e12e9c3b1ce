package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer-token auth.
	APIKey string

	// Remote image fetching. An empty allowlist disables remote images
	// entirely (fail closed).
	AllowedImageHosts []string
	MaxImageBytes     int64
	FetchTimeout      time.Duration

	// Input limits
	MaxMarkdownBytes int64

	// Branding defaults applied to every conversion unless the request
	// supplies its own. Empty means built-in defaults only.
	BrandingPath string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		APIKey: os.Getenv("MD2DOCX_API_KEY"),

		AllowedImageHosts: envList("ALLOWED_IMAGE_HOSTS"),
		MaxImageBytes:     envInt64("MAX_IMAGE_BYTES", 10485760), // 10MB
		FetchTimeout:      envDuration("FETCH_TIMEOUT", 10*time.Second),

		MaxMarkdownBytes: envInt64("MAX_MARKDOWN_BYTES", 5242880), // 5MB

		BrandingPath: os.Getenv("BRANDING_PATH"),
	}

	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 10485760
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.MaxMarkdownBytes <= 0 {
		cfg.MaxMarkdownBytes = 5242880
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

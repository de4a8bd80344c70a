package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Content storage
	ContentDir string

	// Auth
	AdminAPIKey string

	// Claude assist
	AnthropicAPIKey string
	AnthropicModel  string

	// Worker pool
	WorkerCount         int
	MaxQueueSize        int
	MaxConcurrentAssist int

	// Upload limits
	MaxUploadBytes int64

	// Imported posts
	DefaultAuthor string
	AutoProofread bool

	// Job state
	JobTTL time.Duration

	// Assist endpoint rate limit
	AssistRatePerMinute int

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		ContentDir: envOr("CONTENT_DIR", "./content"),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		WorkerCount:         envInt("WORKER_COUNT", 2),
		MaxQueueSize:        envInt("MAX_QUEUE_SIZE", 50),
		MaxConcurrentAssist: envInt("MAX_CONCURRENT_ASSIST", 2),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB

		DefaultAuthor: os.Getenv("DEFAULT_AUTHOR"),
		AutoProofread: envBool("AUTO_PROOFREAD", false),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		AssistRatePerMinute: envInt("ASSIST_RATE_PER_MINUTE", 10),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxConcurrentAssist <= 0 {
		cfg.MaxConcurrentAssist = 2
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.AssistRatePerMinute <= 0 {
		cfg.AssistRatePerMinute = 10
	}

	return cfg
}

// Validate checks the settings the server cannot start without. The
// Anthropic key is optional: without it the assist endpoints report
// unavailable and imports skip the proofread pass.
func (c Config) Validate() error {
	if c.AdminAPIKey == "" {
		return fmt.Errorf("ADMIN_API_KEY is required")
	}
	if c.ContentDir == "" {
		return fmt.Errorf("CONTENT_DIR must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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

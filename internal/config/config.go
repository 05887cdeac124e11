package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Mistral backend
	MistralBaseURL string
	MistralAPIKey  string
	APIKeyFile     string

	// Models
	OCRModel            string
	VisionModel         string
	VisionFallbackModel string
	RefinerModel        string

	// Refinement retry policy
	RefineMaxAttempts int
	RefineBaseDelay   time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Generated documents
	DocTTL time.Duration

	// Processing
	MaxConcurrentProcess int
	NormalizeConditions  bool

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8095"),

		MistralBaseURL: envOr("MISTRAL_BASE_URL", "https://api.mistral.ai"),
		MistralAPIKey:  os.Getenv("MISTRAL_API_KEY"),
		APIKeyFile:     envOr("API_KEY_FILE", ".api_key"),

		OCRModel:            envOr("OCR_MODEL", "mistral-ocr-latest"),
		VisionModel:         envOr("VISION_MODEL", "pixtral-large-latest"),
		VisionFallbackModel: envOr("VISION_FALLBACK_MODEL", "pixtral-12b"),
		RefinerModel:        envOr("REFINER_MODEL", "mistral-small-latest"),

		RefineMaxAttempts: envInt("REFINE_MAX_ATTEMPTS", 3),
		RefineBaseDelay:   envDuration("REFINE_BASE_DELAY", time.Second),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB

		DocTTL: envDuration("DOC_TTL", time.Hour),

		MaxConcurrentProcess: envInt("MAX_CONCURRENT_PROCESS", 4),
		NormalizeConditions:  envBool("NORMALIZE_CONDITIONS", false),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.RefineMaxAttempts <= 0 {
		cfg.RefineMaxAttempts = 3
	}
	if cfg.RefineBaseDelay <= 0 {
		cfg.RefineBaseDelay = time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.DocTTL <= 0 {
		cfg.DocTTL = time.Hour
	}
	if cfg.MaxConcurrentProcess <= 0 {
		cfg.MaxConcurrentProcess = 4
	}

	return cfg
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

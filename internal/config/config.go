package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	SheetdeckAPIKey string

	// LLM
	LLMBackend    string // "http" or "eino"
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	LLMMaxTokens  int
	LLMTimeout    time.Duration
	RetryBase     time.Duration
	RetryMax      time.Duration

	// Conversion defaults
	IncludeCharts   bool
	DefaultAudience string
	DeckFormat      string

	// Limits
	MaxUploadBytes  int64
	MaxPromptTokens int

	// CORS
	AllowedOrigins []string

	LogLevel    string
	StatsWindow time.Duration
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() Config {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		SheetdeckAPIKey: os.Getenv("SHEETDECK_API_KEY"),

		LLMBackend:    strings.ToLower(envOr("LLM_BACKEND", "http")),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: strings.TrimRight(envOr("OPENAI_BASE_URL", "https://api.openai.com"), "/"),
		OpenAIModel:   envOr("OPENAI_MODEL", "gpt-3.5-turbo"),
		LLMMaxTokens:  envInt("LLM_MAX_TOKENS", 1000),
		LLMTimeout:    envDuration("LLM_TIMEOUT", 120*time.Second),
		RetryBase:     envDuration("LLM_RETRY_BASE", 1*time.Second),
		RetryMax:      envDuration("LLM_RETRY_MAX", 30*time.Second),

		IncludeCharts:   envBool("INCLUDE_CHARTS", true),
		DefaultAudience: os.Getenv("DEFAULT_AUDIENCE"),
		DeckFormat:      strings.ToLower(envOr("DECK_FORMAT", "pptx")),

		MaxUploadBytes:  envInt64("MAX_UPLOAD_BYTES", 20<<20), // 20MB
		MaxPromptTokens: envInt("MAX_PROMPT_TOKENS", 6000),

		AllowedOrigins: envList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		LogLevel:    envOr("LOG_LEVEL", "info"),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.LLMMaxTokens <= 0 {
		cfg.LLMMaxTokens = 1000
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 1 * time.Second
	}
	if cfg.RetryMax < cfg.RetryBase {
		cfg.RetryMax = cfg.RetryBase
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.MaxPromptTokens <= 0 {
		cfg.MaxPromptTokens = 6000
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	switch c.LLMBackend {
	case "http", "eino":
	default:
		return fmt.Errorf("LLM_BACKEND must be http or eino, got %q", c.LLMBackend)
	}
	switch c.DeckFormat {
	case "pptx", "docx":
	default:
		return fmt.Errorf("DECK_FORMAT must be pptx or docx, got %q", c.DeckFormat)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
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

// envList splits a comma-separated value, dropping blank entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

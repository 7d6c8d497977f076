package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Prefix of every environment variable read by New.
const Prefix = "COACH_SERVICE"

// Config holds the configuration for the coach service.
// Environment variables are parsed from the COACH_SERVICE_ prefix, e.g. COACH_SERVICE_HTTP_PORT.
type Config struct {
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store driver: memory, sqlite or postgres
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// LLM provider: gemini or ollama
	LLMProvider string `envconfig:"LLM_PROVIDER" default:"gemini"`
	LLMModel    string `envconfig:"LLM_MODEL" default:""`
	GeminiKey   string `envconfig:"GEMINI_API_KEY" default:""`
	OllamaURL   string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`

	PubMedURL    string `envconfig:"PUBMED_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils"`
	PubMedAPIKey string `envconfig:"PUBMED_API_KEY" default:""`
	TranslateURL string `envconfig:"TRANSLATE_URL" default:"https://translate.googleapis.com"`
	SourceLang   string `envconfig:"SOURCE_LANG" default:"ja"`
	TargetLang   string `envconfig:"TARGET_LANG" default:"en"`

	AdviceCacheTTLMinutes   int `envconfig:"ADVICE_CACHE_TTL_MINUTES" default:"60"`
	ResearchCacheTTLMinutes int `envconfig:"RESEARCH_CACHE_TTL_MINUTES" default:"60"`
	ExternalTimeoutSeconds  int `envconfig:"EXTERNAL_TIMEOUT_SECONDS" default:"10"`

	TranslateAttempts      int `envconfig:"TRANSLATE_ATTEMPTS" default:"3"`
	TranslateBackoffMillis int `envconfig:"TRANSLATE_BACKOFF_MILLIS" default:"1000"`

	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults normalises driver names, derives the SQLite path and validates ranges.
func (c *Config) ResolveDefaults() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))

	switch c.DBDriver {
	case "memory":
	case "sqlite":
		if c.SQLitePath == "" {
			c.SQLitePath = "data/coach.db"
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("%s_POSTGRES_DSN is required when DB_DRIVER=postgres", Prefix)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	switch c.LLMProvider {
	case "gemini", "ollama":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER: %s", c.LLMProvider)
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.TranslateAttempts < 1 {
		return fmt.Errorf("TRANSLATE_ATTEMPTS must be at least 1")
	}
	if c.AdviceCacheTTLMinutes <= 0 || c.ResearchCacheTTLMinutes <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}

// New loads an optional .env file, then parses the environment. Variables already
// set in the environment win over .env entries.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load()
}

// Load parses the environment only.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Str("llm_provider", cfg.LLMProvider).
		Str("llm_model", cfg.LLMModel).
		Bool("gemini_key_present", cfg.GeminiKey != "").
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Str("pubmed_url", cfg.PubMedURL).
		Msg("Configuration loaded")

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) AdviceCacheTTL() time.Duration {
	return time.Duration(c.AdviceCacheTTLMinutes) * time.Minute
}

func (c *Config) ResearchCacheTTL() time.Duration {
	return time.Duration(c.ResearchCacheTTLMinutes) * time.Minute
}

func (c *Config) ExternalTimeout() time.Duration {
	return time.Duration(c.ExternalTimeoutSeconds) * time.Second
}

func (c *Config) TranslateBackoff() time.Duration {
	return time.Duration(c.TranslateBackoffMillis) * time.Millisecond
}

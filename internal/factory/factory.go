// Package factory builds the configured adapters for the coach service.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/michela/coach/internal/config"
	"github.com/michela/coach/internal/docstore"
	"github.com/michela/coach/internal/docstore/memory"
	"github.com/michela/coach/internal/docstore/postgres"
	"github.com/michela/coach/internal/docstore/sqlite"
	"github.com/michela/coach/internal/llm"
	"github.com/michela/coach/internal/llm/gemini"
	"github.com/michela/coach/internal/llm/ollama"
	"github.com/michela/coach/internal/pubmed"
	"github.com/michela/coach/internal/translate"
)

// NewDocstore opens the document store selected by cfg.DBDriver. Callers own Close.
func NewDocstore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (docstore.Store, error) {
	switch cfg.DBDriver {
	case "memory":
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return memory.New(), nil
	case "sqlite":
		s, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Debug().Str("path", cfg.SQLitePath).Msg("sqlite store ready")
		return s, nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("%s_POSTGRES_DSN is required when DB_DRIVER=postgres", config.Prefix)
		}
		s, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

// NewCompleter returns the configured LLM wrapped with metrics and upstream error mapping.
func NewCompleter(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*llm.Instrumented, error) {
	switch cfg.LLMProvider {
	case "gemini":
		c, err := gemini.New(ctx, cfg.GeminiKey, cfg.LLMModel, cfg.ExternalTimeout())
		if err != nil {
			return nil, err
		}
		return llm.Instrument(c), nil
	case "ollama":
		if cfg.LLMModel == "" {
			return nil, fmt.Errorf("%s_LLM_MODEL is required when LLM_PROVIDER=ollama", config.Prefix)
		}
		log.Debug().Str("url", cfg.OllamaURL).Str("model", cfg.LLMModel).Msg("using ollama")
		return llm.Instrument(ollama.New(cfg.OllamaURL, cfg.LLMModel, cfg.ExternalTimeout())), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER: %s", cfg.LLMProvider)
	}
}

// NewSearcher returns the research search client.
func NewSearcher(cfg *config.Config) *pubmed.Client {
	return pubmed.New(cfg.PubMedURL, cfg.PubMedAPIKey, cfg.ExternalTimeout())
}

// NewTranslator returns the translation client.
func NewTranslator(cfg *config.Config) *translate.Client {
	return translate.New(cfg.TranslateURL, cfg.ExternalTimeout())
}

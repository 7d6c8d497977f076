package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.SQLitePath != "data/coach.db" {
		t.Fatalf("unexpected store defaults: %+v", cfg)
	}
	if cfg.LLMProvider != "gemini" || cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AdviceCacheTTL() != time.Hour || cfg.ResearchCacheTTL() != time.Hour {
		t.Fatalf("unexpected cache TTLs: %v %v", cfg.AdviceCacheTTL(), cfg.ResearchCacheTTL())
	}
	if cfg.ExternalTimeout() != 10*time.Second || cfg.TranslateBackoff() != time.Second || cfg.TranslateAttempts != 3 {
		t.Fatalf("unexpected upstream defaults: %+v", cfg)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	t.Setenv("COACH_SERVICE_DB_DRIVER", "Memory")
	t.Setenv("COACH_SERVICE_LLM_PROVIDER", "ollama")
	t.Setenv("COACH_SERVICE_HTTP_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "memory" || cfg.LLMProvider != "ollama" || cfg.GetHTTPAddr() != ":9000" {
		t.Fatalf("env override failed: %+v", cfg)
	}
}

func TestResolveDefaults_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown driver", cfg: Config{DBDriver: "mongo", LLMProvider: "gemini", HTTPPort: 80, TranslateAttempts: 1, AdviceCacheTTLMinutes: 1, ResearchCacheTTLMinutes: 1}},
		{name: "postgres without dsn", cfg: Config{DBDriver: "postgres", LLMProvider: "gemini", HTTPPort: 80, TranslateAttempts: 1, AdviceCacheTTLMinutes: 1, ResearchCacheTTLMinutes: 1}},
		{name: "unknown provider", cfg: Config{DBDriver: "memory", LLMProvider: "gpt", HTTPPort: 80, TranslateAttempts: 1, AdviceCacheTTLMinutes: 1, ResearchCacheTTLMinutes: 1}},
		{name: "zero attempts", cfg: Config{DBDriver: "memory", LLMProvider: "gemini", HTTPPort: 80, AdviceCacheTTLMinutes: 1, ResearchCacheTTLMinutes: 1}},
		{name: "bad port", cfg: Config{DBDriver: "memory", LLMProvider: "gemini", HTTPPort: 70000, TranslateAttempts: 1, AdviceCacheTTLMinutes: 1, ResearchCacheTTLMinutes: 1}},
		{name: "zero ttl", cfg: Config{DBDriver: "memory", LLMProvider: "gemini", HTTPPort: 80, TranslateAttempts: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.ResolveDefaults(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNew_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("COACH_SERVICE_LLM_MODEL=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)
	// godotenv sets the variable process-wide; register it for cleanup.
	t.Setenv("COACH_SERVICE_LLM_MODEL", "")
	_ = os.Unsetenv("COACH_SERVICE_LLM_MODEL")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.LLMModel != "from-dotenv" {
		t.Fatalf("expected model from .env, got %q", cfg.LLMModel)
	}
}

func TestNew_WithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := New(); err != nil {
		t.Fatalf("missing .env must not fail: %v", err)
	}
}

package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michela/coach/internal/config"
	"github.com/michela/coach/internal/docstore"
)

func TestNewDocstore(t *testing.T) {
	ctx := context.Background()

	mem, err := NewDocstore(ctx, &config.Config{DBDriver: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, mem.Close())

	path := filepath.Join(t.TempDir(), "nested", "coach.db")
	lite, err := NewDocstore(ctx, &config.Config{DBDriver: "sqlite", SQLitePath: path}, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = lite.Close() }()
	id, err := lite.Create(ctx, "customers", docstore.Document{"name": "a"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = NewDocstore(ctx, &config.Config{DBDriver: "postgres"}, zerolog.Nop())
	assert.Error(t, err)
	_, err = NewDocstore(ctx, &config.Config{DBDriver: "mongo"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewCompleter(t *testing.T) {
	ctx := context.Background()

	_, err := NewCompleter(ctx, &config.Config{LLMProvider: "gemini"}, zerolog.Nop())
	assert.Error(t, err, "gemini requires an API key")

	_, err = NewCompleter(ctx, &config.Config{LLMProvider: "ollama"}, zerolog.Nop())
	assert.Error(t, err, "ollama requires a model")

	c, err := NewCompleter(ctx, &config.Config{LLMProvider: "ollama", LLMModel: "llama3", OllamaURL: "localhost:11434"}, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = NewCompleter(ctx, &config.Config{LLMProvider: "other"}, zerolog.Nop())
	assert.Error(t, err)
}

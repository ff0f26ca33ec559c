package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp isolates the test from .env and bookwise.yaml in the working directory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/sample_books.csv", cfg.Dataset.Path)
	assert.Equal(t, "utf-8", cfg.Dataset.Encoding)
	assert.False(t, cfg.Dataset.ReloadPerCall)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.InDelta(t, 0.5, cfg.LLM.TopP, 1e-6)
	assert.Equal(t, LocalToolsStdio, cfg.MCP.LocalTools)
	assert.Equal(t, []string{"serve"}, cfg.MCP.ServerArgs)
	assert.Equal(t, DefaultApifyURL, cfg.MCP.ApifyURL)
	assert.Equal(t, 20, cfg.Session.MaxMessages)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.CozeLoop.Enabled())
}

func TestLoadEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OPENAI_API_KEY", "sk-legacy")
	t.Setenv("OPENAI_MODEL", "gpt-test")
	t.Setenv("APIFY_API_KEY", "apify-key")
	t.Setenv("BOOKWISE_DATASET_PATH", "/data/books.csv")
	t.Setenv("BOOKWISE_MCP_LOCAL_TOOLS", "inprocess")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-legacy", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-test", cfg.LLM.Model)
	assert.Equal(t, "apify-key", cfg.MCP.ApifyAPIKey)
	assert.Equal(t, "/data/books.csv", cfg.Dataset.Path)
	assert.Equal(t, LocalToolsInProcess, cfg.MCP.LocalTools)
}

func TestLoadPrefixedEnvWins(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OPENAI_API_KEY", "sk-legacy")
	t.Setenv("BOOKWISE_LLM_API_KEY", "sk-prefixed")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-prefixed", cfg.LLM.APIKey)
}

func TestLoadFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dataset:
  path: ./books.csv
  encoding: latin-1
  reload_per_call: true
llm:
  provider: gemini
session:
  max_messages: 8
  ttl: 30m
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./books.csv", cfg.Dataset.Path)
	assert.Equal(t, "latin-1", cfg.Dataset.Encoding)
	assert.True(t, cfg.Dataset.ReloadPerCall)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 8, cfg.Session.MaxMessages)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := chdirTemp(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty_dataset_path", mutate: func(c *Config) { c.Dataset.Path = "" }},
		{name: "unknown_local_tools", mutate: func(c *Config) { c.MCP.LocalTools = "grpc" }},
		{name: "zero_window", mutate: func(c *Config) { c.Session.MaxMessages = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Dataset: DatasetConfig{Path: "books.csv"},
				MCP:     MCPConfig{LocalTools: LocalToolsStdio},
				Session: SessionConfig{MaxMessages: 10},
			}
			require.NoError(t, cfg.Validate())
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateLocalToolsModes(t *testing.T) {
	for _, mode := range []string{LocalToolsStdio, LocalToolsInProcess, LocalToolsDirect} {
		cfg := Config{
			Dataset: DatasetConfig{Path: "books.csv"},
			MCP:     MCPConfig{LocalTools: mode},
			Session: SessionConfig{MaxMessages: 10},
		}
		assert.NoError(t, cfg.Validate(), mode)
	}
}

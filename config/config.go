package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Local tool transports
const (
	LocalToolsStdio     = "stdio"
	LocalToolsInProcess = "inprocess"
	LocalToolsDirect    = "direct"
)

// DefaultApifyURL is the Goodreads scraper actor exposed by Apify over MCP/SSE.
const DefaultApifyURL = "https://mcp.apify.com/sse?actors=runtime/goodreads-book-scraper"

// Config is the full application configuration.
type Config struct {
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	LLM      LLMConfig      `mapstructure:"llm"`
	MCP      MCPConfig      `mapstructure:"mcp"`
	Session  SessionConfig  `mapstructure:"session"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
	CozeLoop CozeLoopConfig `mapstructure:"cozeloop"`
}

// DatasetConfig locates the books CSV. The default is the bundled sample;
// point Path at the full Goodreads 100k export (same header) for real use.
type DatasetConfig struct {
	Path          string `mapstructure:"path"`
	Encoding      string `mapstructure:"encoding"`
	ReloadPerCall bool   `mapstructure:"reload_per_call"`
}

// LLMConfig selects and parameterizes the chat model.
type LLMConfig struct {
	Provider      string  `mapstructure:"provider"` // openai, gemini or qwen
	APIKey        string  `mapstructure:"api_key"`
	BaseURL       string  `mapstructure:"base_url"`
	Model         string  `mapstructure:"model"`
	TopP          float32 `mapstructure:"top_p"`
	GeminiAPIKey  string  `mapstructure:"gemini_api_key"`
	GeminiModel   string  `mapstructure:"gemini_model"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

// MCPConfig describes the tool connections of the agent.
type MCPConfig struct {
	LocalTools      string   `mapstructure:"local_tools"` // stdio, inprocess or direct
	ServerCommand   string   `mapstructure:"server_command"`
	ServerArgs      []string `mapstructure:"server_args"`
	ApifyURL        string   `mapstructure:"apify_url"`
	ApifyAPIKey     string   `mapstructure:"apify_api_key"`
	ConnectAttempts uint     `mapstructure:"connect_attempts"`
}

// SessionConfig controls conversation memory.
type SessionConfig struct {
	MaxMessages     int           `mapstructure:"max_messages"`
	MaxToolResponse int           `mapstructure:"max_tool_response"`
	RedisAddr       string        `mapstructure:"redis_addr"` // empty keeps history in memory
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	TTL             time.Duration `mapstructure:"ttl"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

// LogConfig controls logrus.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CozeLoopConfig enables tracing callbacks when both values are set.
type CozeLoopConfig struct {
	APIToken    string `mapstructure:"api_token"`
	WorkspaceID string `mapstructure:"workspace_id"`
}

// Enabled reports whether tracing is configured.
func (c CozeLoopConfig) Enabled() bool {
	return c.APIToken != "" && c.WorkspaceID != ""
}

var defaults = map[string]any{
	"dataset.path":              "data/sample_books.csv",
	"dataset.encoding":          "utf-8",
	"dataset.reload_per_call":   false,
	"llm.provider":              "openai",
	"llm.base_url":              "",
	"llm.model":                 "gpt-4o-mini",
	"llm.top_p":                 0.5,
	"llm.gemini_model":          "gemini-2.0-flash",
	"llm.max_iterations":        20,
	"mcp.local_tools":           LocalToolsStdio,
	"mcp.server_command":        "",
	"mcp.server_args":           []string{"serve"},
	"mcp.apify_url":             DefaultApifyURL,
	"mcp.connect_attempts":      3,
	"session.max_messages":      20,
	"session.max_tool_response": 4000,
	"session.redis_addr":        "",
	"session.redis_db":          0,
	"session.ttl":               24 * time.Hour,
	"metrics.addr":              "",
	"log.level":                 "info",
}

// plain env names such as OPENAI_API_KEY, checked after the BOOKWISE_ prefixed name
var legacyEnv = map[string][]string{
	"llm.api_key":            {"OPENAI_API_KEY", "API_KEY"},
	"llm.base_url":           {"OPENAI_BASE_URL", "BASE_URL"},
	"llm.model":              {"OPENAI_MODEL", "MODEL"},
	"llm.gemini_api_key":     {"GEMINI_API_KEY"},
	"llm.gemini_model":       {"GEMINI_MODEL"},
	"mcp.apify_api_key":      {"APIFY_API_KEY"},
	"session.redis_addr":     {"REDIS_ADDR"},
	"session.redis_password": {"REDIS_PASSWORD"},
	"cozeloop.api_token":     {"COZE_LOOP_API_TOKEN"},
	"cozeloop.workspace_id":  {"COZELOOP_WORKSPACE_ID"},
}

// Load reads .env, the optional config file and the environment.
// An explicit cfgFile must exist; otherwise ./bookwise.yaml is optional.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix("BOOKWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		prefixed := "BOOKWISE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("bookwise")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return errors.New("dataset.path is required")
	}
	switch c.MCP.LocalTools {
	case LocalToolsStdio, LocalToolsInProcess, LocalToolsDirect:
	default:
		return fmt.Errorf("mcp.local_tools must be %q, %q or %q, got %q",
			LocalToolsStdio, LocalToolsInProcess, LocalToolsDirect, c.MCP.LocalTools)
	}
	if c.Session.MaxMessages <= 0 {
		return fmt.Errorf("session.max_messages must be positive, got %d", c.Session.MaxMessages)
	}
	return nil
}

package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"bookwise/config"
)

// Provider kinds
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderQwen   = "qwen"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-2.0-flash"
	defaultQwenBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	defaultQwenModel   = "qwen-plus"
)

// ChatModelConfig defines the configuration for creating a chat model.
type ChatModelConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	TopP     float32
}

// FromConfig builds the chat model settings of the selected provider.
func FromConfig(c config.LLMConfig) *ChatModelConfig {
	cfg := &ChatModelConfig{
		Provider: strings.ToLower(c.Provider),
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		Model:    c.Model,
		TopP:     c.TopP,
	}
	if cfg.Provider == ProviderGemini {
		cfg.APIKey = c.GeminiAPIKey
		cfg.Model = c.GeminiModel
		cfg.BaseURL = ""
	}
	return cfg
}

// NewChatModel creates a tool calling chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg *ChatModelConfig) (model.ToolCallingChatModel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("chat model config is nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for provider %q", cfg.Provider)
	}

	var topP *float32
	if cfg.TopP > 0 {
		p := cfg.TopP
		topP = &p
	}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		return openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   orDefault(cfg.Model, defaultOpenAIModel),
			TopP:    topP,
		})

	case ProviderQwen:
		return qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
			APIKey:  cfg.APIKey,
			BaseURL: orDefault(cfg.BaseURL, defaultQwenBaseURL),
			Model:   orDefault(cfg.Model, defaultQwenModel),
			TopP:    topP,
		})

	case ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create genai client: %w", err)
		}
		return gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  orDefault(cfg.Model, defaultGeminiModel),
			TopP:   topP,
		})

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// PingPrompt is the one-shot question used to check connectivity.
const PingPrompt = "Reply with one short sentence: which model are you?"

// Ping sends a single message and returns the reply text.
func Ping(ctx context.Context, m model.BaseChatModel) (string, error) {
	msg, err := m.Generate(ctx, []*schema.Message{schema.UserMessage(PingPrompt)})
	if err != nil {
		return "", fmt.Errorf("ping model: %w", err)
	}
	return strings.TrimSpace(msg.Content), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookwise/config"
)

func TestFromConfig(t *testing.T) {
	llm := config.LLMConfig{
		Provider:     "OpenAI",
		APIKey:       "sk-1",
		BaseURL:      "https://proxy.example.org/v1",
		Model:        "gpt-test",
		TopP:         0.5,
		GeminiAPIKey: "g-1",
		GeminiModel:  "gemini-test",
	}

	got := FromConfig(llm)
	assert.Equal(t, &ChatModelConfig{
		Provider: ProviderOpenAI, APIKey: "sk-1", BaseURL: "https://proxy.example.org/v1", Model: "gpt-test", TopP: 0.5,
	}, got)

	llm.Provider = "gemini"
	got = FromConfig(llm)
	assert.Equal(t, &ChatModelConfig{
		Provider: ProviderGemini, APIKey: "g-1", Model: "gemini-test", TopP: 0.5,
	}, got)
}

func TestNewChatModel(t *testing.T) {
	ctx := context.Background()

	_, err := NewChatModel(ctx, nil)
	assert.Error(t, err)

	_, err = NewChatModel(ctx, &ChatModelConfig{Provider: ProviderOpenAI})
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewChatModel(ctx, &ChatModelConfig{Provider: "llama", APIKey: "k"})
	assert.ErrorContains(t, err, "unknown provider")

	m, err := NewChatModel(ctx, &ChatModelConfig{Provider: ProviderOpenAI, APIKey: "k", TopP: 0.5})
	require.NoError(t, err)
	assert.NotNil(t, m)

	m, err = NewChatModel(ctx, &ChatModelConfig{Provider: ProviderQwen, APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

type fakeModel struct {
	reply string
	err   error
	got   []*schema.Message
}

func (f *fakeModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.got = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestPing(t *testing.T) {
	fm := &fakeModel{reply: "  I am a test model.\n"}
	got, err := Ping(context.Background(), fm)
	require.NoError(t, err)
	assert.Equal(t, "I am a test model.", got)
	require.Len(t, fm.got, 1)
	assert.Equal(t, PingPrompt, fm.got[0].Content)

	_, err = Ping(context.Background(), &fakeModel{err: errors.New("401")})
	assert.ErrorContains(t, err, "401")
}

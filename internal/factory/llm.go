package factory

import (
	"context"
	"fmt"

	"github.com/sanzuisann/my-chat-app/internal/config"
	"github.com/sanzuisann/my-chat-app/internal/llm"
	"github.com/sanzuisann/my-chat-app/internal/llm/gemini"
	"github.com/sanzuisann/my-chat-app/internal/llm/openai"
)

// NewLLM returns the chat completion client for cfg.LLMProvider.
func NewLLM(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), nil
	case config.ProviderGemini:
		return gemini.New(ctx, cfg.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER: %s", cfg.LLMProvider)
	}
}

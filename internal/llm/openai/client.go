// Package openai adapts the OpenAI chat completions API to llm.Client.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/sanzuisann/my-chat-app/internal/llm"
)

// Client calls /chat/completions on OpenAI or any compatible endpoint.
type Client struct {
	client openai.Client
}

// New returns a Client. An empty baseURL uses the public OpenAI endpoint.
// SDK retries are disabled; each Complete is a single attempt.
func New(apiKey, baseURL string, opts ...option.RequestOption) *Client {
	all := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	all = append(all, opts...)
	return &Client{client: openai.NewClient(all...)}
}

// Complete sends req as one chat completion and returns the first choice.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: toMessages(req.Messages),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        req.Schema.Name,
					Description: openai.String(req.Schema.Description),
					Schema:      req.Schema.Schema,
					Strict:      openai.Bool(true),
				},
			},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.Completion{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return llm.Completion{}, errors.New("openai chat completion: empty response")
	}

	out := llm.Completion{Text: resp.Choices[0].Message.Content}
	if raw := resp.RawJSON(); raw != "" && json.Valid([]byte(raw)) {
		out.Raw = json.RawMessage(raw)
	}
	return out, nil
}

func toMessages(msgs []llm.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case llm.RoleSystem:
			out[i] = openai.SystemMessage(m.Content)
		case llm.RoleAssistant:
			out[i] = openai.AssistantMessage(m.Content)
		default:
			out[i] = openai.UserMessage(m.Content)
		}
	}
	return out
}

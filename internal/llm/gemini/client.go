// Package gemini adapts the Gemini API to llm.Client.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/sanzuisann/my-chat-app/internal/llm"
)

type Client struct {
	client *genai.Client
}

// New connects to the Gemini API backend with apiKey.
func New(ctx context.Context, apiKey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: c}, nil
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	system, contents := toContents(req.Messages)
	if len(contents) == 0 {
		return llm.Completion{}, errors.New("gemini: request has no user or assistant messages")
	}

	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
	}

	res, err := c.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return llm.Completion{}, fmt.Errorf("gemini generate content: %w", err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return llm.Completion{}, errors.New("gemini generate content: no candidates returned")
	}

	out := llm.Completion{Text: res.Text()}
	if raw, err := json.Marshal(res); err == nil {
		out.Raw = raw
	}
	return out, nil
}

// toContents folds every system message into one instruction and maps the rest
// onto user/model turns.
func toContents(msgs []llm.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}

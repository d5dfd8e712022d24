// Package llm is the provider-neutral chat completion contract used by the
// chat orchestrator, the sentiment evaluator and the intent extractor.
package llm

import (
	"context"
	"encoding/json"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Schema asks the provider for JSON output matching a JSON schema.
type Schema struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Request is a single completion call.
type Request struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   int
	Schema      *Schema
}

// Completion is the model's reply. Raw holds the provider response body for debugging.
type Completion struct {
	Text string
	Raw  json.RawMessage
}

// Client sends one request and returns one reply. Implementations never retry.
type Client interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

// Float returns a pointer to v, for Request.Temperature.
func Float(v float64) *float64 { return &v }

// System, User and Assistant build messages with the matching role.
func System(content string) Message    { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message      { return Message{Role: RoleUser, Content: content} }
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

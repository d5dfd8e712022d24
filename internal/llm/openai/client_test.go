package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanzuisann/my-chat-app/internal/llm"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o",
  "choices": [{"index": 0, "finish_reason": "stop", "logprobs": null,
    "message": {"role": "assistant", "content": "Hello there!", "refusal": null}}],
  "usage": {"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8}
}`

func TestComplete_SendsMessagesAndReturnsFirstChoice(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL)
	out, err := c.Complete(context.Background(), llm.Request{
		Model:       "gpt-4o",
		Messages:    []llm.Message{llm.System("be Aria"), llm.User("hi"), llm.Assistant("hello"), llm.User("how are you")},
		Temperature: llm.Float(0.8),
		MaxTokens:   200,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", out.Text)
	assert.True(t, json.Valid(out.Raw))

	assert.Equal(t, "gpt-4o", got["model"])
	assert.Equal(t, 0.8, got["temperature"])
	assert.EqualValues(t, 200, got["max_tokens"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[2].(map[string]any)["role"])
}

func TestComplete_JSONSchemaFormat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL)
	_, err := c.Complete(context.Background(), llm.Request{
		Model:    "gpt-4o",
		Messages: []llm.Message{llm.User("rate")},
		Schema:   &llm.Schema{Name: "verdict", Description: "score", Schema: map[string]any{"type": "object"}},
	})
	require.NoError(t, err)

	rf := got["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", rf["type"])
	assert.Equal(t, "verdict", rf["json_schema"].(map[string]any)["name"])
}

func TestComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad model","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL)
	_, err := c.Complete(context.Background(), llm.Request{Model: "nope", Messages: []llm.Message{llm.User("hi")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion")
}

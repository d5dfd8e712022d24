package sentiment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanzuisann/my-chat-app/internal/llm"
	"github.com/sanzuisann/my-chat-app/internal/llm/llmtest"
	"github.com/sanzuisann/my-chat-app/internal/model"
)

var opts = Options{Model: "gpt-4o", Temperature: 0.3, MaxTokens: 80}

func input() Input {
	return Input{
		Character: model.Character{Name: "Aria", Personality: "kind"},
		Param:     model.ParamLiking,
		Value:     3,
		Intent:    "wants to compliment",
		Message:   "You look lovely today",
	}
}

func TestEvaluate_WrappedJSON(t *testing.T) {
	fake := &llmtest.Fake{Reply: "Sure, here is my evaluation:\n{\"score\": 2, \"reason\": \"a sincere compliment\"}\nThanks!"}
	e := NewEvaluator(fake, opts, zerolog.Nop())

	res := e.Evaluate(context.Background(), input())
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, "a sincere compliment", res.Reason)
	assert.NotEmpty(t, res.Raw)

	req := fake.Last()
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, 80, req.MaxTokens)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.3, *req.Temperature)
	assert.Nil(t, req.Schema)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, `"Aria"`)
	assert.Contains(t, req.Messages[0].Content, "[Player intent]\nwants to compliment")
	assert.True(t, strings.HasSuffix(req.Messages[0].Content, `{"score": integer, "reason": "brief reason"}`))
	assert.Equal(t, llm.User("You look lovely today"), req.Messages[1])
	assert.Equal(t, req.Messages, res.Messages)
}

func TestEvaluate_NoJSONIsZero(t *testing.T) {
	fake := &llmtest.Fake{Reply: "I'd say the player is pleasant."}
	res := NewEvaluator(fake, opts, zerolog.Nop()).Evaluate(context.Background(), input())
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Reason)
}

func TestEvaluate_UpstreamFailureIsZero(t *testing.T) {
	fake := &llmtest.Fake{Err: errors.New("503 unavailable")}
	res := NewEvaluator(fake, opts, zerolog.Nop()).Evaluate(context.Background(), input())
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Reason)
	assert.Nil(t, res.Raw)
	assert.Len(t, res.Messages, 2)
}

func TestEvaluate_TrustParamWording(t *testing.T) {
	fake := &llmtest.Fake{Reply: `{"score": -1, "reason": "evasive"}`}
	in := input()
	in.Param = model.ParamTrust
	res := NewEvaluator(fake, opts, zerolog.Nop()).Evaluate(context.Background(), in)
	assert.Equal(t, -1, res.Score)
	assert.Contains(t, fake.Last().Messages[0].Content, "changes your trust")
}

func TestEvaluate_StructuredOutputSchema(t *testing.T) {
	fake := &llmtest.Fake{Reply: `{"score": 1, "reason": "ok"}`}
	structured := opts
	structured.Structured = true
	NewEvaluator(fake, structured, zerolog.Nop()).Evaluate(context.Background(), input())

	schema := fake.Last().Schema
	require.NotNil(t, schema)
	assert.Equal(t, "verdict", schema.Name)
	assert.ElementsMatch(t, []string{"score", "reason"}, schema.Schema["required"])
}

package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/sanzuisann/my-chat-app/internal/llm"
)

func TestToContents(t *testing.T) {
	system, contents := toContents([]llm.Message{
		llm.System("be Aria"),
		llm.User("hi"),
		llm.Assistant("hello"),
		llm.System("stay in character"),
		llm.User("how are you"),
	})

	assert.Equal(t, "be Aria\n\nstay in character", system)
	require.Len(t, contents, 3)
	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)
	assert.Equal(t, "hello", contents[1].Parts[0].Text)
	assert.Equal(t, "how are you", contents[2].Parts[0].Text)
}

func TestToContents_SystemOnly(t *testing.T) {
	system, contents := toContents([]llm.Message{llm.System("x")})
	assert.Equal(t, "x", system)
	assert.Empty(t, contents)
}

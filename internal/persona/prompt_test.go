package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

func strPtr(s string) *string { return &s }

func aria() model.Character {
	return model.Character{
		Name:              "Aria",
		Personality:       "curious and kind",
		Openness:          0.9,
		Conscientiousness: 0.5,
		Extraversion:      0.25,
		Agreeableness:     0.75,
		Neuroticism:       0.1,
		Background:        strPtr("A librarian in a floating city."),
		World:             strPtr("Skyhaven"),
		Tone:              strPtr("soft, polite"),
		Prohibited:        []string{"violence", "politics"},
		Examples:          []model.ExampleTurn{{User: "hi", Assistant: "Hello, traveler."}},
	}
}

func TestBuildPrompt_Pure(t *testing.T) {
	in := PromptInput{
		Character: aria(),
		Param:     model.ParamLiking,
		Level:     3,
		Constructs: []model.Construct{{
			Name: "honesty", Axis: []string{"truth", "lie"}, Value: 2, Importance: 5,
			BehaviorEffect: "Dislikes being deceived.",
		}},
		Intent: "wants to make friends",
	}
	first := BuildPrompt(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildPrompt(in))
	}
}

func TestBuildPrompt_Sections(t *testing.T) {
	out := BuildPrompt(PromptInput{
		Character: aria(),
		Level:     4,
		Constructs: []model.Construct{
			{Name: "honesty", Axis: []string{"truth", "lie"}, Value: -1, Importance: 3, BehaviorEffect: "Values candor."},
			{Name: "moods", Axis: []string{"calm", "wild", "odd"}, Value: 0, Importance: 1, BehaviorEffect: "Shifts often."},
		},
		Intent: "asking for directions",
	})

	assert.Contains(t, out, `"Aria"`)
	assert.Contains(t, out, "Personality: curious and kind")
	assert.Contains(t, out, "- Openness: 0.9\n")
	assert.Contains(t, out, "- Extraversion: 0.25\n")
	assert.Contains(t, out, "[Background]\nA librarian in a floating city.\n")
	assert.Contains(t, out, "[Prohibited topics]\n- violence\n- politics\n")
	assert.Contains(t, out, "[Example dialogue]\nUser: hi\nCharacter: Hello, traveler.\n")
	assert.Contains(t, out, "- honesty (truth ↔ lie) = -1 / importance 3\n  Values candor.")
	assert.Contains(t, out, "- moods (calm,wild,odd) = 0 / importance 1\n  Shifts often.")
	assert.Contains(t, out, likingTones[4])
	assert.True(t, strings.HasSuffix(out, "[Player intent]\nasking for directions\n"))

	// Sections appear in a fixed order.
	order := []string{"[Background]", "[World]", "[Tone]", "[Prohibited topics]", "[Example dialogue]", "[Values]"}
	last := -1
	for _, h := range order {
		idx := strings.Index(out, h)
		require.Greater(t, idx, last, h)
		last = idx
	}
}

func TestBuildPrompt_NonePlaceholders(t *testing.T) {
	out := BuildPrompt(PromptInput{Character: model.Character{Name: "Blank"}, Level: 2})

	for _, h := range []string{"Background", "World", "Tone", "Prohibited topics", "Example dialogue", "Values"} {
		assert.Contains(t, out, "["+h+"]\nnone\n", h)
	}
	assert.NotContains(t, out, "[Player intent]")
	assert.NotContains(t, out, "Personality:")
}

func TestBuildPrompt_TrustTable(t *testing.T) {
	out := BuildPrompt(PromptInput{Character: aria(), Param: model.ParamTrust, Level: 0})
	assert.Contains(t, out, trustTones[0])
	assert.NotContains(t, out, likingTones[0])
}

func TestToneFor_OutOfRange(t *testing.T) {
	assert.Empty(t, ToneFor(model.ParamLiking, -1))
	assert.Empty(t, ToneFor(model.ParamLiking, Levels))
	assert.Empty(t, ToneFor(model.ParamLiking, 2))
}

package persona

import (
	"strconv"
	"strings"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

const none = "none"

// Tone directives per level. Level 2 is neutral and adds nothing.
var (
	likingTones = [Levels]string{
		"Respond coldly and with restrained emotion, as if you dislike the player.",
		"Respond warily and keep your distance from the player.",
		"",
		"Respond gently, with a little fondness for the player.",
		"Respond warmly and affectionately, as to a very close friend.",
	}
	trustTones = [Levels]string{
		"You do not trust the player at all. Reveal nothing personal and question their motives.",
		"You are suspicious of the player. Answer guardedly and keep secrets to yourself.",
		"",
		"You mostly trust the player and are willing to share some personal matters.",
		"You trust the player completely and speak openly, even about your secrets.",
	}
)

// PromptInput is everything BuildPrompt needs. Param selects the tone table and
// defaults to liking.
type PromptInput struct {
	Character  model.Character
	Param      string
	Level      int
	Constructs []model.Construct
	Intent     string
}

// ToneFor returns the tone directive for param at level. Out-of-range levels
// yield an empty directive.
func ToneFor(param string, level int) string {
	if level < 0 || level >= Levels {
		return ""
	}
	if param == model.ParamTrust {
		return trustTones[level]
	}
	return likingTones[level]
}

// BuildPrompt renders the system instruction for one exchange. It is pure:
// identical input always yields identical output.
func BuildPrompt(in PromptInput) string {
	c := in.Character
	var b strings.Builder

	b.WriteString("You are roleplaying as the character \"")
	b.WriteString(c.Name)
	b.WriteString("\".\n")
	if p := strings.TrimSpace(c.Personality); p != "" {
		b.WriteString("Personality: ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString("\nThe character's temperament follows the Big Five model.\n")
	b.WriteString("Scores range from 0.0 (very low) to 1.0 (very high).\n\n")
	writeTrait(&b, "Openness", c.Openness)
	writeTrait(&b, "Conscientiousness", c.Conscientiousness)
	writeTrait(&b, "Extraversion", c.Extraversion)
	writeTrait(&b, "Agreeableness", c.Agreeableness)
	writeTrait(&b, "Neuroticism", c.Neuroticism)
	b.WriteString("\nLet these traits shape what you say, how you say it and how you react.\n")

	writeSection(&b, "Background", optional(c.Background))
	writeSection(&b, "World", optional(c.World))
	writeSection(&b, "Tone", optional(c.Tone))
	writeSection(&b, "Prohibited topics", prohibitedText(c.Prohibited))
	writeSection(&b, "Example dialogue", examplesText(c.Examples))
	writeSection(&b, "Values", constructsText(in.Constructs))

	b.WriteString("\n")
	b.WriteString(ToneFor(in.Param, in.Level))
	if in.Intent != "" {
		b.WriteString("\n[Player intent]\n")
		b.WriteString(in.Intent)
	}
	b.WriteString("\n")
	return b.String()
}

func writeTrait(b *strings.Builder, name string, v float64) {
	b.WriteString("- ")
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	b.WriteString("\n")
}

func writeSection(b *strings.Builder, title, body string) {
	b.WriteString("\n[")
	b.WriteString(title)
	b.WriteString("]\n")
	b.WriteString(body)
	b.WriteString("\n")
}

func optional(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return none
	}
	return *s
}

func prohibitedText(items []string) string {
	if len(items) == 0 {
		return none
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + it
	}
	return strings.Join(lines, "\n")
}

func examplesText(examples []model.ExampleTurn) string {
	if len(examples) == 0 {
		return none
	}
	lines := make([]string, 0, len(examples)*2)
	for _, ex := range examples {
		lines = append(lines, "User: "+ex.User, "Character: "+ex.Assistant)
	}
	return strings.Join(lines, "\n")
}

// FormatConstruct renders one value axis and its behavioral effect.
func FormatConstruct(c model.Construct) string {
	var pair string
	if len(c.Axis) == 2 {
		pair = c.Axis[0] + " ↔ " + c.Axis[1]
	} else {
		pair = strings.Join(c.Axis, ",")
	}
	return "- " + c.Name + " (" + pair + ") = " + strconv.Itoa(c.Value) +
		" / importance " + strconv.Itoa(c.Importance) + "\n  " + c.BehaviorEffect
}

func constructsText(cs []model.Construct) string {
	if len(cs) == 0 {
		return none
	}
	lines := make([]string, len(cs))
	for i, c := range cs {
		lines[i] = FormatConstruct(c)
	}
	return strings.Join(lines, "\n")
}

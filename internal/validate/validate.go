// Package validate checks request payloads before they reach the store.
// Every error wraps model.ErrValidation.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

const (
	maxNameLen     = 100
	maxTextLen     = 4000
	maxMessageLen  = 8000
	maxUsernameLen = 64
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrValidation, fmt.Sprintf(format, args...))
}

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return invalid("%s exceeds %d characters", field, limit)
	}
	return nil
}

// UUID requires v to be a canonical UUID string.
func UUID(field, v string) error {
	if v == "" {
		return invalid("%s is required", field)
	}
	if !strfmt.IsUUID(v) {
		return invalid("%s must be a UUID", field)
	}
	return nil
}

// Trait requires a Big-Five score in [0, 1].
func Trait(field string, v float64) error {
	if v < 0 || v > 1 {
		return invalid("%s must be between 0 and 1", field)
	}
	return nil
}

func Role(v string) error {
	if v != model.RoleUser && v != model.RoleAssistant {
		return invalid("role must be %q or %q", model.RoleUser, model.RoleAssistant)
	}
	return nil
}

func Param(v string) error {
	if v != model.ParamLiking && v != model.ParamTrust {
		return invalid("param must be %q or %q", model.ParamLiking, model.ParamTrust)
	}
	return nil
}

// -------- Request specific helpers ----------

func Character(c *model.Character) error {
	if err := NonEmpty("name", c.Name); err != nil {
		return err
	}
	if err := MaxLen("name", &c.Name, maxNameLen); err != nil {
		return err
	}
	return characterBody(c)
}

func characterBody(c *model.Character) error {
	for _, tr := range []struct {
		name string
		v    float64
	}{
		{"openness", c.Openness},
		{"conscientiousness", c.Conscientiousness},
		{"extraversion", c.Extraversion},
		{"agreeableness", c.Agreeableness},
		{"neuroticism", c.Neuroticism},
	} {
		if err := Trait(tr.name, tr.v); err != nil {
			return err
		}
	}
	for field, v := range map[string]*string{
		"personality": &c.Personality, "background": c.Background, "tone": c.Tone, "world": c.World,
	} {
		if err := MaxLen(field, v, maxTextLen); err != nil {
			return err
		}
	}
	for i, ex := range c.Examples {
		if strings.TrimSpace(ex.User) == "" || strings.TrimSpace(ex.Assistant) == "" {
			return invalid("examples[%d] needs both user and assistant", i)
		}
	}
	return nil
}

// UpdatedCharacter checks a character after a patch has been applied.
func UpdatedCharacter(c *model.Character) error { return characterBody(c) }

func Username(v string) error {
	if err := NonEmpty("username", v); err != nil {
		return err
	}
	return MaxLen("username", &v, maxUsernameLen)
}

func Construct(c *model.Construct) error {
	if err := UUID("user_id", c.UserID); err != nil {
		return err
	}
	if err := UUID("character_id", c.CharacterID); err != nil {
		return err
	}
	if err := NonEmpty("name", c.Name); err != nil {
		return err
	}
	if len(c.Axis) == 0 {
		return invalid("axis needs at least one pole")
	}
	for i, p := range c.Axis {
		if strings.TrimSpace(p) == "" {
			return invalid("axis[%d] is empty", i)
		}
	}
	return nil
}

func Turn(t *model.Turn) error {
	if err := UUID("user_id", t.UserID); err != nil {
		return err
	}
	if err := UUID("character_id", t.CharacterID); err != nil {
		return err
	}
	if err := Role(t.Role); err != nil {
		return err
	}
	return Message("message", t.Message)
}

func Message(field, v string) error {
	if err := NonEmpty(field, v); err != nil {
		return err
	}
	return MaxLen(field, &v, maxMessageLen)
}

// Exchange validates the identifiers and player message of a chat or evaluation call.
func Exchange(userID, characterID, message string) error {
	if err := UUID("user_id", userID); err != nil {
		return err
	}
	if err := UUID("character_id", characterID); err != nil {
		return err
	}
	return Message("user_message", message)
}

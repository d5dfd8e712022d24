package model

import "time"

// Relationship parameter names tracked per (user, character).
const (
	ParamLiking = "liking"
	ParamTrust  = "trust"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultTrait is the Big-Five score used when a character omits a trait.
const DefaultTrait = 0.5

// ExampleTurn is one sample exchange used to show the model how a character talks.
type ExampleTurn struct {
	User      string `json:"user" yaml:"user"`
	Assistant string `json:"assistant" yaml:"assistant"`
}

// Character is a stored persona definition.
type Character struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Personality       string        `json:"personality"`
	Openness          float64       `json:"openness"`
	Conscientiousness float64       `json:"conscientiousness"`
	Extraversion      float64       `json:"extraversion"`
	Agreeableness     float64       `json:"agreeableness"`
	Neuroticism       float64       `json:"neuroticism"`
	Background        *string       `json:"background"`
	Tone              *string       `json:"tone"`
	World             *string       `json:"world"`
	Prohibited        []string      `json:"prohibited"`
	Examples          []ExampleTurn `json:"examples"`
	CreationTime      time.Time     `json:"creationTime"`
}

// CharacterPatch carries a partial update; nil fields are left untouched.
type CharacterPatch struct {
	Personality       *string        `json:"personality,omitempty"`
	Openness          *float64       `json:"openness,omitempty"`
	Conscientiousness *float64       `json:"conscientiousness,omitempty"`
	Extraversion      *float64       `json:"extraversion,omitempty"`
	Agreeableness     *float64       `json:"agreeableness,omitempty"`
	Neuroticism       *float64       `json:"neuroticism,omitempty"`
	Background        *string        `json:"background,omitempty"`
	Tone              *string        `json:"tone,omitempty"`
	World             *string        `json:"world,omitempty"`
	Prohibited        *[]string      `json:"prohibited,omitempty"`
	Examples          *[]ExampleTurn `json:"examples,omitempty"`
}

// Apply copies every non-nil patch field onto c.
func (p CharacterPatch) Apply(c *Character) {
	if p.Personality != nil {
		c.Personality = *p.Personality
	}
	if p.Openness != nil {
		c.Openness = *p.Openness
	}
	if p.Conscientiousness != nil {
		c.Conscientiousness = *p.Conscientiousness
	}
	if p.Extraversion != nil {
		c.Extraversion = *p.Extraversion
	}
	if p.Agreeableness != nil {
		c.Agreeableness = *p.Agreeableness
	}
	if p.Neuroticism != nil {
		c.Neuroticism = *p.Neuroticism
	}
	if p.Background != nil {
		c.Background = p.Background
	}
	if p.Tone != nil {
		c.Tone = p.Tone
	}
	if p.World != nil {
		c.World = p.World
	}
	if p.Prohibited != nil {
		c.Prohibited = *p.Prohibited
	}
	if p.Examples != nil {
		c.Examples = *p.Examples
	}
}

// User is a player account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	CreationTime time.Time `json:"creationTime"`
}

// RelationshipState is a named integer parameter tracked for a (user, character) pair.
type RelationshipState struct {
	UserID      string    `json:"userId"`
	CharacterID string    `json:"characterId"`
	Param       string    `json:"param"`
	Value       int       `json:"value"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Construct is a user-defined bipolar value axis weighted by importance.
type Construct struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	CharacterID    string    `json:"character_id"`
	Axis           []string  `json:"axis"`
	Name           string    `json:"name"`
	Importance     int       `json:"importance"`
	BehaviorEffect string    `json:"behavior_effect"`
	Value          int       `json:"value"`
	CreationTime   time.Time `json:"creationTime"`
}

// Turn is one message in the conversation log.
type Turn struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CharacterID string    `json:"characterId"`
	Role        string    `json:"role"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// ListTurnsRequest captures filters used when reading the conversation log.
// Limit > 0 keeps only the most recent Limit turns; results are always oldest first.
type ListTurnsRequest struct {
	UserID      string
	CharacterID string
	Limit       int
}

// CharacterSpec is the create form of a character as it arrives over the API or
// from a seed file. Absent traits take DefaultTrait.
type CharacterSpec struct {
	Name              string        `json:"name" yaml:"name"`
	Personality       string        `json:"personality" yaml:"personality"`
	Openness          *float64      `json:"openness,omitempty" yaml:"openness,omitempty"`
	Conscientiousness *float64      `json:"conscientiousness,omitempty" yaml:"conscientiousness,omitempty"`
	Extraversion      *float64      `json:"extraversion,omitempty" yaml:"extraversion,omitempty"`
	Agreeableness     *float64      `json:"agreeableness,omitempty" yaml:"agreeableness,omitempty"`
	Neuroticism       *float64      `json:"neuroticism,omitempty" yaml:"neuroticism,omitempty"`
	Background        *string       `json:"background,omitempty" yaml:"background,omitempty"`
	Tone              *string       `json:"tone,omitempty" yaml:"tone,omitempty"`
	World             *string       `json:"world,omitempty" yaml:"world,omitempty"`
	Prohibited        []string      `json:"prohibited,omitempty" yaml:"prohibited,omitempty"`
	Examples          []ExampleTurn `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Character converts s to a Character, filling absent traits with DefaultTrait.
func (s CharacterSpec) Character() Character {
	trait := func(v *float64) float64 {
		if v == nil {
			return DefaultTrait
		}
		return *v
	}
	return Character{
		Name:              s.Name,
		Personality:       s.Personality,
		Openness:          trait(s.Openness),
		Conscientiousness: trait(s.Conscientiousness),
		Extraversion:      trait(s.Extraversion),
		Agreeableness:     trait(s.Agreeableness),
		Neuroticism:       trait(s.Neuroticism),
		Background:        s.Background,
		Tone:              s.Tone,
		World:             s.World,
		Prohibited:        s.Prohibited,
		Examples:          s.Examples,
	}
}

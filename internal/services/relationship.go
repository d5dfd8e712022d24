package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sanzuisann/my-chat-app/internal/llm"
	"github.com/sanzuisann/my-chat-app/internal/metrics"
	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/persona"
	"github.com/sanzuisann/my-chat-app/internal/sentiment"
	"github.com/sanzuisann/my-chat-app/internal/store"
	"github.com/sanzuisann/my-chat-app/internal/validate"
)

// IntentExtractor summarises a player message; "" means unknown.
type IntentExtractor interface {
	Extract(ctx context.Context, message string) string
}

// Evaluator scores a player message from the character's point of view.
type Evaluator interface {
	Evaluate(ctx context.Context, in sentiment.Input) sentiment.Result
}

// EvaluateRequest asks how Message moves Param for the (user, character) pair.
type EvaluateRequest struct {
	UserID      string
	CharacterID string
	Param       string
	Message     string
	Intent      string
}

type EvaluateResult struct {
	NewValue int
	Score    int
	Reason   string
	Intent   string
	Messages []llm.Message
	Raw      json.RawMessage
}

// RelationshipStanding is a stored parameter with its derived level.
type RelationshipStanding struct {
	Param     string `json:"param"`
	Value     int    `json:"value"`
	Level     int    `json:"level"`
	UpdatedAt string `json:"updated_at"`
}

// RelationshipService evaluates player messages and accumulates the results.
type RelationshipService struct {
	store     store.Store
	evaluator Evaluator
	intent    IntentExtractor
}

// NewRelationshipService wires the evaluator. intent may be nil to disable extraction.
func NewRelationshipService(s store.Store, e Evaluator, intent IntentExtractor) *RelationshipService {
	return &RelationshipService{store: s, evaluator: e, intent: intent}
}

// Evaluate scores the message and adds the score to the stored value. Model
// failures score 0; only missing records and store errors are returned.
func (s *RelationshipService) Evaluate(ctx context.Context, req EvaluateRequest) (*EvaluateResult, error) {
	if err := validate.Exchange(req.UserID, req.CharacterID, req.Message); err != nil {
		return nil, err
	}
	if err := validate.Param(req.Param); err != nil {
		return nil, err
	}

	ch, err := s.store.Characters().Get(ctx, req.CharacterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Users().Get(ctx, req.UserID); err != nil {
		return nil, err
	}
	constructs, err := s.store.Constructs().List(ctx, req.UserID, req.CharacterID)
	if err != nil {
		return nil, err
	}
	current, err := currentValue(ctx, s.store, req.UserID, req.CharacterID, req.Param)
	if err != nil {
		return nil, err
	}

	intent := resolveIntent(ctx, s.intent, req.Intent, req.Message)
	verdict := s.evaluator.Evaluate(ctx, sentiment.Input{
		Character:  *ch,
		Param:      req.Param,
		Value:      current,
		Constructs: derefConstructs(constructs),
		Intent:     intent,
		Message:    req.Message,
	})
	metrics.ObserveScore(req.Param, verdict.Score)

	st, err := s.store.Relationships().ApplyDelta(ctx, req.UserID, req.CharacterID, req.Param, verdict.Score)
	if err != nil {
		return nil, err
	}
	return &EvaluateResult{
		NewValue: st.Value,
		Score:    verdict.Score,
		Reason:   verdict.Reason,
		Intent:   intent,
		Messages: verdict.Messages,
		Raw:      verdict.Raw,
	}, nil
}

// Standings lists every stored parameter for the pair with its level.
func (s *RelationshipService) Standings(ctx context.Context, userID, characterID string) ([]RelationshipStanding, error) {
	states, err := s.store.Relationships().List(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}
	out := make([]RelationshipStanding, 0, len(states))
	for _, st := range states {
		out = append(out, RelationshipStanding{
			Param:     st.Param,
			Value:     st.Value,
			Level:     persona.Level(st.Value),
			UpdatedAt: st.UpdatedAt.UTC().Format(timeLayout),
		})
	}
	return out, nil
}

// currentValue returns the stored value, or 0 when nothing is stored yet.
func currentValue(ctx context.Context, s store.Store, userID, characterID, param string) (int, error) {
	st, err := s.Relationships().Get(ctx, userID, characterID, param)
	if errors.Is(err, model.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return st.Value, nil
}

func resolveIntent(ctx context.Context, x IntentExtractor, given, message string) string {
	if given != "" || x == nil {
		return given
	}
	return x.Extract(ctx, message)
}

func derefConstructs(cs []*model.Construct) []model.Construct {
	out := make([]model.Construct, len(cs))
	for i, c := range cs {
		out[i] = *c
	}
	return out
}

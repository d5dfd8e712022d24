package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/sanzuisann/my-chat-app/internal/llm"
	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/persona"
	"github.com/sanzuisann/my-chat-app/internal/store"
	"github.com/sanzuisann/my-chat-app/internal/validate"
)

const timeLayout = time.RFC3339Nano

// ChatOptions tune the reply call.
type ChatOptions struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	HistoryLimit int
}

type ChatRequest struct {
	UserID      string
	CharacterID string
	Message     string
	Intent      string
}

// ChatResult is the outcome of one exchange. Failed is set when the model call
// failed; Reply then carries the error text and nothing was persisted.
type ChatResult struct {
	Reply    string
	Failed   bool
	Intent   string
	Messages []llm.Message
	Raw      json.RawMessage
}

// ChatService runs one conversational exchange with a character.
type ChatService struct {
	store  store.Store
	client llm.Client
	intent IntentExtractor
	opts   ChatOptions
	log    zerolog.Logger
}

// NewChatService wires the orchestrator. intent may be nil to disable extraction.
func NewChatService(s store.Store, client llm.Client, intent IntentExtractor, opts ChatOptions, log zerolog.Logger) *ChatService {
	return &ChatService{store: s, client: client, intent: intent, opts: opts, log: log}
}

// Chat assembles the persona prompt from the character, the player's liking
// level, their constructs and the recent log, asks the model for a reply and
// records both sides. The model is called exactly once.
func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if err := validate.Exchange(req.UserID, req.CharacterID, req.Message); err != nil {
		return nil, err
	}

	var recent []*model.Turn
	if s.opts.HistoryLimit > 0 {
		var err error
		recent, err = s.store.History().List(ctx, model.ListTurnsRequest{
			UserID: req.UserID, CharacterID: req.CharacterID, Limit: s.opts.HistoryLimit,
		})
		if err != nil {
			return nil, err
		}
	}
	ch, err := s.store.Characters().Get(ctx, req.CharacterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Users().Get(ctx, req.UserID); err != nil {
		return nil, err
	}
	liking, err := currentValue(ctx, s.store, req.UserID, req.CharacterID, model.ParamLiking)
	if err != nil {
		return nil, err
	}
	constructs, err := s.store.Constructs().List(ctx, req.UserID, req.CharacterID)
	if err != nil {
		return nil, err
	}

	intent := resolveIntent(ctx, s.intent, req.Intent, req.Message)
	system := persona.BuildPrompt(persona.PromptInput{
		Character:  *ch,
		Param:      model.ParamLiking,
		Level:      persona.Level(liking),
		Constructs: derefConstructs(constructs),
		Intent:     intent,
	})

	msgs := make([]llm.Message, 0, len(recent)+2)
	msgs = append(msgs, llm.System(system))
	for _, t := range recent {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Message})
	}
	msgs = append(msgs, llm.User(req.Message))

	res := &ChatResult{Intent: intent, Messages: msgs}
	completion, err := s.client.Complete(ctx, llm.Request{
		Model:       s.opts.Model,
		Messages:    msgs,
		Temperature: llm.Float(s.opts.Temperature),
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("user_id", req.UserID).
			Str("character_id", req.CharacterID).
			Msg("chat completion failed")
		res.Failed = true
		res.Reply = "An error occurred: " + err.Error()
		return res, nil
	}
	res.Reply = completion.Text
	res.Raw = completion.Raw

	if err := s.store.History().AppendExchange(ctx,
		&model.Turn{UserID: req.UserID, CharacterID: req.CharacterID, Role: model.RoleUser, Message: req.Message},
		&model.Turn{UserID: req.UserID, CharacterID: req.CharacterID, Role: model.RoleAssistant, Message: completion.Text},
	); err != nil {
		return nil, err
	}
	return res, nil
}

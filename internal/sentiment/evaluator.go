package sentiment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sanzuisann/my-chat-app/internal/llm"
	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/persona"
)

const instructionFormat = `
As the character above, rate how the following player message changes your %s
toward the player on a scale from -3 to +3. Output only this JSON:
{"score": integer, "reason": "brief reason"}`

// Options tune the evaluation call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	// Structured requests JSON-schema constrained output from the provider.
	Structured bool
}

// Input is one evaluation request. Value is the current stored score for Param.
type Input struct {
	Character  model.Character
	Param      string
	Value      int
	Constructs []model.Construct
	Intent     string
	Message    string
}

// Result is always populated; on any failure Score is 0 and Reason empty.
type Result struct {
	Score    int
	Reason   string
	Messages []llm.Message
	Raw      json.RawMessage
}

// Evaluator scores player messages from a character's point of view.
type Evaluator struct {
	client llm.Client
	opts   Options
	schema *llm.Schema
	log    zerolog.Logger
}

func NewEvaluator(client llm.Client, opts Options, log zerolog.Logger) *Evaluator {
	e := &Evaluator{client: client, opts: opts, log: log}
	if opts.Structured {
		s, err := llm.GenerateSchema[Verdict]()
		if err != nil {
			log.Warn().Err(err).Msg("verdict schema unavailable; using free-text evaluation")
		} else {
			e.schema = &llm.Schema{Name: "verdict", Description: "Score delta with a brief reason", Schema: s}
		}
	}
	return e
}

// Messages builds the exact message list sent for in.
func (e *Evaluator) Messages(in Input) []llm.Message {
	param := in.Param
	if param == "" {
		param = model.ParamLiking
	}
	system := persona.BuildPrompt(persona.PromptInput{
		Character:  in.Character,
		Param:      param,
		Level:      persona.Level(in.Value),
		Constructs: in.Constructs,
		Intent:     in.Intent,
	}) + fmt.Sprintf(instructionFormat, param)
	return []llm.Message{llm.System(system), llm.User(in.Message)}
}

// Evaluate runs one evaluation. It never fails: upstream and parse errors are
// logged and yield a zero score.
func (e *Evaluator) Evaluate(ctx context.Context, in Input) Result {
	res := Result{Messages: e.Messages(in)}

	completion, err := e.client.Complete(ctx, llm.Request{
		Model:       e.opts.Model,
		Messages:    res.Messages,
		Temperature: llm.Float(e.opts.Temperature),
		MaxTokens:   e.opts.MaxTokens,
		Schema:      e.schema,
	})
	if err != nil {
		e.log.Error().Err(err).Str("param", in.Param).Msg("evaluation call failed")
		return res
	}
	res.Raw = completion.Raw

	v, err := ParseVerdict(completion.Text)
	if err != nil {
		e.log.Warn().Err(err).Str("param", in.Param).Str("reply", completion.Text).Msg("evaluation reply not parseable")
		return res
	}
	res.Score = v.Score
	res.Reason = v.Reason
	return res
}

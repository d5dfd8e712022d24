// Package intent summarises what the player is trying to do in one sentence.
package intent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sanzuisann/my-chat-app/internal/cache"
	"github.com/sanzuisann/my-chat-app/internal/llm"
)

const systemPrompt = "You extract the conversational intent of the user's message in exactly one sentence."

// Options tune the extraction call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	CacheTTL    time.Duration
}

// Extractor calls the model once per uncached message. A nil cache disables caching.
type Extractor struct {
	client llm.Client
	cache  cache.Cache
	opts   Options
	log    zerolog.Logger
}

func NewExtractor(client llm.Client, c cache.Cache, opts Options, log zerolog.Logger) *Extractor {
	return &Extractor{client: client, cache: c, opts: opts, log: log}
}

// Extract returns the intent of message, or "" on any failure.
func (e *Extractor) Extract(ctx context.Context, message string) string {
	if strings.TrimSpace(message) == "" {
		return ""
	}
	key := cacheKey(e.opts.Model, message)
	if e.cache != nil {
		v, err := e.cache.Get(ctx, key)
		if err == nil {
			return v
		}
		if !errors.Is(err, cache.ErrMiss) {
			e.log.Warn().Err(err).Msg("intent cache read failed")
		}
	}

	out, err := e.client.Complete(ctx, llm.Request{
		Model:       e.opts.Model,
		Messages:    []llm.Message{llm.System(systemPrompt), llm.User(message)},
		Temperature: llm.Float(e.opts.Temperature),
		MaxTokens:   e.opts.MaxTokens,
	})
	if err != nil {
		e.log.Error().Err(err).Msg("intent extraction failed")
		return ""
	}
	intent := strings.TrimSpace(out.Text)

	if e.cache != nil && intent != "" {
		if err := e.cache.Set(ctx, key, intent, e.opts.CacheTTL); err != nil {
			e.log.Warn().Err(err).Msg("intent cache write failed")
		}
	}
	return intent
}

func cacheKey(model, message string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + message))
	return "intent:" + hex.EncodeToString(sum[:])
}

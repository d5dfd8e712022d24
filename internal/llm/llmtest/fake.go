// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sanzuisann/my-chat-app/internal/llm"
)

// Fake answers each Complete call with Reply, or with Err when set. Respond,
// when non-nil, takes precedence and can inspect the request.
type Fake struct {
	Reply   string
	Err     error
	Respond func(req llm.Request) (string, error)

	mu       sync.Mutex
	requests []llm.Request
}

func (f *Fake) Complete(_ context.Context, req llm.Request) (llm.Completion, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	text, err := f.Reply, f.Err
	if f.Respond != nil {
		text, err = f.Respond(req)
	}
	if err != nil {
		return llm.Completion{}, err
	}
	raw, _ := json.Marshal(map[string]any{"model": req.Model, "content": text})
	return llm.Completion{Text: text, Raw: raw}, nil
}

// Requests returns every request seen so far.
func (f *Fake) Requests() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Request(nil), f.requests...)
}

// Last returns the most recent request, or the zero value.
func (f *Fake) Last() llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return llm.Request{}
	}
	return f.requests[len(f.requests)-1]
}

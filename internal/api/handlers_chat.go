package api

import (
	"encoding/json"
	"net/http"

	"github.com/sanzuisann/my-chat-app/internal/api/respond"
	"github.com/sanzuisann/my-chat-app/internal/llm"
	"github.com/sanzuisann/my-chat-app/internal/services"
)

type ChatHandler struct {
	svc *services.ChatService
}

func NewChatHandler(svc *services.ChatService) *ChatHandler { return &ChatHandler{svc: svc} }

type chatRequest struct {
	UserID        string `json:"user_id"`
	CharacterID   string `json:"character_id"`
	UserMessage   string `json:"user_message"`
	Intent        string `json:"intent,omitempty"`
	Debug         bool   `json:"debug,omitempty"`
	IncludePrompt bool   `json:"include_prompt,omitempty"`
}

type chatResponse struct {
	Reply    string          `json:"reply"`
	Intent   *string         `json:"intent,omitempty"`
	GPTDebug json.RawMessage `json:"gpt_debug,omitempty"`
	Prompt   []llm.Message   `json:"prompt,omitempty"`
}

// Chat POST /chat. Model failures still answer 200 with the error in reply.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var in chatRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.svc.Chat(r.Context(), services.ChatRequest{
		UserID:      in.UserID,
		CharacterID: in.CharacterID,
		Message:     in.UserMessage,
		Intent:      in.Intent,
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}

	out := chatResponse{Reply: res.Reply}
	if in.Debug {
		out.Intent = &res.Intent
		out.GPTDebug = res.Raw
	}
	if in.IncludePrompt {
		out.Prompt = res.Messages
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

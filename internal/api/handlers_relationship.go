package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanzuisann/my-chat-app/internal/api/respond"
	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/services"
)

type RelationshipHandler struct {
	svc *services.RelationshipService
}

func NewRelationshipHandler(svc *services.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{svc: svc}
}

type evaluateRequest struct {
	UserID        string `json:"user_id"`
	CharacterID   string `json:"character_id"`
	PlayerMessage string `json:"player_message"`
	Intent        string `json:"intent,omitempty"`
	Debug         bool   `json:"debug,omitempty"`
	IncludePrompt bool   `json:"include_prompt,omitempty"`
}

// EvaluateLiking POST /evaluate-liking
func (h *RelationshipHandler) EvaluateLiking(w http.ResponseWriter, r *http.Request) {
	h.evaluate(w, r, model.ParamLiking)
}

// EvaluateTrust POST /evaluate-trust
func (h *RelationshipHandler) EvaluateTrust(w http.ResponseWriter, r *http.Request) {
	h.evaluate(w, r, model.ParamTrust)
}

func (h *RelationshipHandler) evaluate(w http.ResponseWriter, r *http.Request, param string) {
	var in evaluateRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.svc.Evaluate(r.Context(), services.EvaluateRequest{
		UserID:      in.UserID,
		CharacterID: in.CharacterID,
		Param:       param,
		Message:     in.PlayerMessage,
		Intent:      in.Intent,
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}

	out := map[string]any{
		"new_" + param: res.NewValue,
		"score":        res.Score,
		"reason":       res.Reason,
		"intent":       res.Intent,
	}
	if in.Debug {
		out["gpt_debug"] = json.RawMessage(nullIfEmpty(res.Raw))
	}
	if in.IncludePrompt {
		out["prompt"] = res.Messages
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Standings GET /relationships/{userId}/{characterId}
func (h *RelationshipHandler) Standings(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	st, err := h.svc.Standings(r.Context(), vars["userId"], vars["characterId"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"user_id":       vars["userId"],
		"character_id":  vars["characterId"],
		"relationships": st,
	})
}

func nullIfEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

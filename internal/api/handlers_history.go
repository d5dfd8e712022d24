package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanzuisann/my-chat-app/internal/api/respond"
	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/services"
)

type HistoryHandler struct {
	svc *services.HistoryService
}

func NewHistoryHandler(svc *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

type historyEntry struct {
	Speaker   string `json:"speaker"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// AppendTurn POST /history/
func (h *HistoryHandler) AppendTurn(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID      string `json:"user_id"`
		CharacterID string `json:"character_id"`
		Role        string `json:"role"`
		Message     string `json:"message"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	_, err := h.svc.AppendTurn(r.Context(), &model.Turn{
		UserID: in.UserID, CharacterID: in.CharacterID, Role: in.Role, Message: in.Message,
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// ListTurns GET /history/{userId}/{characterId}
func (h *HistoryHandler) ListTurns(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	turns, err := h.svc.ListTurns(r.Context(), vars["userId"], vars["characterId"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	out := make([]historyEntry, 0, len(turns))
	for _, t := range turns {
		out = append(out, historyEntry{
			Speaker:   t.Role,
			Message:   t.Message,
			Timestamp: t.Timestamp.UTC().Format(timeLayout),
		})
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

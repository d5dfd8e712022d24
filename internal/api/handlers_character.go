package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanzuisann/my-chat-app/internal/api/respond"
	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/services"
)

// CharacterHandler provides HTTP transport for persona definitions.
type CharacterHandler struct {
	svc *services.CharacterService
}

func NewCharacterHandler(svc *services.CharacterService) *CharacterHandler {
	return &CharacterHandler{svc: svc}
}

// CreateCharacter POST /characters/
func (h *CharacterHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var in model.CharacterSpec
	if !decodeJSON(w, r, &in) {
		return
	}
	c := in.Character()
	out, err := h.svc.CreateCharacter(r.Context(), &c)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// UpdateCharacter PUT /characters/{name}
func (h *CharacterHandler) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	var patch model.CharacterPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	out, err := h.svc.UpdateCharacter(r.Context(), mux.Vars(r)["name"], patch)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListCharacters GET /characters/
func (h *CharacterHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListCharacters(r.Context())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// GetCharacter GET /characters/{characterId}
func (h *CharacterHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetCharacter(r.Context(), mux.Vars(r)["characterId"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteCharacter DELETE /characters/{characterId}
func (h *CharacterHandler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCharacter(r.Context(), mux.Vars(r)["characterId"]); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Character deleted"})
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanzuisann/my-chat-app/internal/api/respond"
	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/services"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler { return &UserHandler{svc: svc} }

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.svc.CreateUser(r.Context(), &model.User{Username: in.Username})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, userResponse{ID: u.ID, Username: u.Username})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, userResponse{ID: u.ID, Username: u.Username})
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/sanzuisann/my-chat-app/internal/api/respond"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a bounded JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

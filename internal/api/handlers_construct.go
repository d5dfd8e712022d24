package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sanzuisann/my-chat-app/internal/api/respond"
	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/services"
)

const maxImportBytes = 10 << 20

type ConstructHandler struct {
	svc *services.ConstructService
}

func NewConstructHandler(svc *services.ConstructService) *ConstructHandler {
	return &ConstructHandler{svc: svc}
}

// CreateConstructs POST /constructs/ with one object or an array of them.
// The response mirrors the request shape.
func (h *ConstructHandler) CreateConstructs(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !decodeJSON(w, r, &raw) {
		return
	}
	trimmed := bytes.TrimSpace(raw)
	batch := len(trimmed) > 0 && trimmed[0] == '['

	var recs []services.ConstructRecord
	if batch {
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			respond.WriteBadRequest(w, "Invalid JSON: "+err.Error())
			return
		}
	} else {
		var rec services.ConstructRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			respond.WriteBadRequest(w, "Invalid JSON: "+err.Error())
			return
		}
		recs = append(recs, rec)
	}

	in := make([]*model.Construct, len(recs))
	for i, rec := range recs {
		in[i] = rec.Construct()
	}
	out, err := h.svc.CreateConstructs(r.Context(), in)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if batch {
		respond.WriteJSON(w, http.StatusCreated, out)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out[0])
}

// ListConstructs GET /constructs/{userId}/{characterId}
func (h *ConstructHandler) ListConstructs(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	out, err := h.svc.ListConstructs(r.Context(), vars["userId"], vars["characterId"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteConstruct DELETE /constructs/{constructId}
func (h *ConstructHandler) DeleteConstruct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteConstruct(r.Context(), mux.Vars(r)["constructId"]); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Construct deleted"})
}

// Import POST /constructs/import. Accepts newline-delimited JSON as the raw
// body or as the multipart field "file".
func (h *ConstructHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, _, err := r.FormFile("file")
		if err != nil {
			respond.WriteBadRequest(w, "multipart upload needs a \"file\" field")
			return
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	n, err := h.svc.Import(r.Context(), src)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"status": "imported", "count": n})
}

// Export GET /constructs/export/{userId}/{characterId}
func (h *ConstructHandler) Export(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var buf bytes.Buffer
	if _, err := h.svc.Export(r.Context(), vars["userId"], vars["characterId"], &buf); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=constructs_%s_%s.jsonl", vars["userId"], vars["characterId"]))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

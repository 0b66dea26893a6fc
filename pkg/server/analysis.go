package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/helmcode/inr-assistant/pkg/admin"
	"github.com/helmcode/inr-assistant/pkg/analyzer"
)

type analysisRequest struct {
	DietToday    string `json:"dietToday"`
	DietTomorrow string `json:"dietTomorrow"`
	Offline      bool   `json:"offline,omitempty"`
}

// handleAnalysis always answers 200 with a result; remote failures are
// reported through the source and reason fields.
func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.loadState(r.Context(), identityFrom(r.Context()).UID)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	var out analyzer.Outcome
	if req.Offline {
		out = h.analysis.Offline(state)
	} else {
		out = h.analysis.Perform(r.Context(), state, req.DietToday, req.DietTomorrow)
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, note, err := h.admin.ListUsers(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, note.Message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"users":        users,
		"notification": note,
	})
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	note, err := h.admin.DeleteUser(r.Context(), id, r.URL.Query().Get("name"))
	switch {
	case errors.Is(err, admin.ErrDeleteInFlight):
		h.respondError(w, http.StatusConflict, note.Message)
	case err != nil:
		h.respondError(w, http.StatusInternalServerError, note.Message)
	default:
		h.respondJSON(w, http.StatusOK, note)
	}
}

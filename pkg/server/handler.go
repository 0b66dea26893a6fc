package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/helmcode/inr-assistant/pkg/admin"
	"github.com/helmcode/inr-assistant/pkg/analyzer"
	"github.com/helmcode/inr-assistant/pkg/auth"
	"github.com/helmcode/inr-assistant/pkg/logger"
	"github.com/helmcode/inr-assistant/pkg/model"
	"github.com/helmcode/inr-assistant/pkg/store"
)

const maxBodyBytes = 1 << 20

// Handler provides the HTTP API.
type Handler struct {
	store    store.Store
	analysis *analyzer.Service
	admin    *admin.Service
	verifier auth.Verifier
	log      *zap.Logger
	version  string
	now      func() time.Time

	// serializes read-modify-write of one user's document within this process
	locks userLocks
}

// NewHandler creates the API handler.
func NewHandler(st store.Store, svc *analyzer.Service, adm *admin.Service, v auth.Verifier, log *zap.Logger, version string) *Handler {
	return &Handler{
		store:    st,
		analysis: svc,
		admin:    adm,
		verifier: v,
		log:      logger.OrNop(log).Named("http"),
		version:  version,
		now:      time.Now,
	}
}

// RegisterRoutes sets up all routes on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.handleHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.authenticate)

	// Patient data
	api.HandleFunc("/measurements", h.handleListMeasurements).Methods("GET")
	api.HandleFunc("/measurements", h.handleAddMeasurement).Methods("POST")
	api.HandleFunc("/measurements/{id}", h.handleDeleteMeasurement).Methods("DELETE")
	api.HandleFunc("/target", h.handleSetTarget).Methods("PUT")
	api.HandleFunc("/profile", h.handleSetProfile).Methods("PUT")

	api.HandleFunc("/analysis", h.handleAnalysis).Methods("POST")

	// Administrator
	api.HandleFunc("/admin/users", h.requireAdmin(h.handleListUsers)).Methods("GET")
	api.HandleFunc("/admin/users/{id}", h.requireAdmin(h.handleDeleteUser)).Methods("DELETE")
}

// respondJSON sends a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Warn("encoding response failed", zap.Error(err))
	}
}

// respondError sends a JSON error response
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps a failed store call to 500.
func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	h.log.Error("storage operation failed", zap.Error(err))
	var storeErr *store.StorageError
	if errors.As(err, &storeErr) {
		h.respondError(w, http.StatusInternalServerError, "storage "+storeErr.Op+" failed")
		return
	}
	h.respondError(w, http.StatusInternalServerError, "internal error")
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

type ctxKey struct{}

func identityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(ctxKey{}).(*auth.Identity)
	return id
}

// authenticate resolves the caller and makes sure a users record exists.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := h.verifier.Verify(r.Context(), r)
		if err != nil {
			h.log.Debug("rejected request", zap.String("path", r.URL.Path), zap.Error(err))
			h.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		err = h.store.EnsureUser(r.Context(), model.UserRecord{
			ID:          id.UID,
			DisplayName: id.DisplayName,
			Email:       id.Email,
			CreatedAt:   h.now().UTC(),
		})
		if err != nil {
			h.respondStoreError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.admin.Authorize(identityFrom(r.Context())); err != nil {
			h.respondError(w, http.StatusForbidden, err.Error())
			return
		}
		next(w, r)
	}
}

func (h *Handler) lock(uid string) func() {
	return h.locks.lock(uid)
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"version":        h.version,
		"remoteAnalysis": h.analysis.RemoteEnabled(),
	})
}

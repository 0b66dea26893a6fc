package server

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/helmcode/inr-assistant/pkg/model"
	"github.com/helmcode/inr-assistant/pkg/tracker"
)

type patientResponse struct {
	Measurements []model.Measurement `json:"measurements"`
	TargetRange  model.TargetRange   `json:"targetRange"`
	PatientInfo  model.PatientInfo   `json:"patientInfo"`
	Summary      tracker.Summary     `json:"summary"`
}

func newPatientResponse(s *tracker.State) patientResponse {
	ms := s.Measurements
	if ms == nil {
		ms = []model.Measurement{}
	}
	return patientResponse{
		Measurements: ms,
		TargetRange:  s.TargetOrDefault(),
		PatientInfo:  s.Patient,
		Summary:      s.Summarize(),
	}
}

func (h *Handler) loadState(ctx context.Context, uid string) (*tracker.State, error) {
	d, err := h.store.LoadINRData(ctx, uid)
	if err != nil {
		return nil, err
	}
	return tracker.FromINRData(d), nil
}

// mutate loads the caller's state, applies fn and saves the result. fn
// returning a non-nil error aborts with 400; otherwise its value is sent with status.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, status int, fn func(*tracker.State) (interface{}, error)) {
	uid := identityFrom(r.Context()).UID
	unlock := h.lock(uid)
	defer unlock()

	state, err := h.loadState(r.Context(), uid)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	out, err := fn(state)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.SaveINRData(r.Context(), uid, state.INRData(h.now())); err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respondJSON(w, status, out)
}

// handleListMeasurements returns the caller's history with summary statistics
func (h *Handler) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	state, err := h.loadState(r.Context(), identityFrom(r.Context()).UID)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	if since := r.URL.Query().Get("since"); since != "" {
		from, err := tracker.ParseWindow(since, h.now())
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		state = state.Since(from)
	}
	h.respondJSON(w, http.StatusOK, newPatientResponse(state))
}

type measurementRequest struct {
	Date string  `json:"date"`
	INR  float64 `json:"inr"`
	Dose float64 `json:"dose"`
	Note string  `json:"note"`
}

func (h *Handler) handleAddMeasurement(w http.ResponseWriter, r *http.Request) {
	var req measurementRequest
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.mutate(w, r, http.StatusCreated, func(s *tracker.State) (interface{}, error) {
		return s.AddMeasurement(model.Measurement{
			Date: req.Date,
			INR:  req.INR,
			Dose: req.Dose,
			Note: req.Note,
		}, h.now())
	})
}

func (h *Handler) handleDeleteMeasurement(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	uid := identityFrom(r.Context()).UID
	unlock := h.lock(uid)
	defer unlock()

	state, err := h.loadState(r.Context(), uid)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	if !state.RemoveMeasurement(id) {
		h.respondError(w, http.StatusNotFound, "measurement not found")
		return
	}
	if err := h.store.SaveINRData(r.Context(), uid, state.INRData(h.now())); err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, newPatientResponse(state))
}

func (h *Handler) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	var req model.TargetRange
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.mutate(w, r, http.StatusOK, func(s *tracker.State) (interface{}, error) {
		if err := s.SetTarget(req.Min, req.Max); err != nil {
			return nil, err
		}
		return s.Target, nil
	})
}

func (h *Handler) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	var req model.PatientInfo
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.mutate(w, r, http.StatusOK, func(s *tracker.State) (interface{}, error) {
		if err := s.SetPatient(req.Age, req.Weight); err != nil {
			return nil, err
		}
		return s.Patient, nil
	})
}

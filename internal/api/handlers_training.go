package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/michela/coach/internal/api/respond"
	"github.com/michela/coach/internal/api/validate"
	"github.com/michela/coach/internal/model"
	"github.com/michela/coach/internal/services"
)

type TrainingHandler struct {
	svc *services.TrainingService
}

func NewTrainingHandler(svc *services.TrainingService) *TrainingHandler {
	return &TrainingHandler{svc: svc}
}

// CreateSession POST /api/trainings
func (h *TrainingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var in model.TrainingSession
	if !decodeJSON(w, r, &in) {
		return
	}
	in.ID = ""
	out, err := h.svc.CreateSession(r.Context(), &in)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetSession GET /api/trainings/{sessionId}
func (h *TrainingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ts, err := h.svc.GetSession(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, ts)
}

// UpdateSession PUT /api/trainings/{sessionId}
func (h *TrainingHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var in model.TrainingSession
	if !decodeJSON(w, r, &in) {
		return
	}
	ts, err := h.svc.UpdateSession(r.Context(), mux.Vars(r)["sessionId"], &in)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, ts)
}

// DeleteSession DELETE /api/trainings/{sessionId}
func (h *TrainingHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSession(r.Context(), mux.Vars(r)["sessionId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSessions GET /api/customers/{customerId}/trainings?limit=
func (h *TrainingHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := validate.QueryInt(r.URL.Query(), "limit", 0, validate.MaxListLimit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	sessions, err := h.svc.ListSessions(r.Context(), mux.Vars(r)["customerId"], limit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions, "count": len(sessions)})
}

// ExerciseHistory GET /api/customers/{customerId}/exercises/{exerciseId}/history?limit=
func (h *TrainingHandler) ExerciseHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := validate.QueryInt(r.URL.Query(), "limit", 0, validate.MaxListLimit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	vars := mux.Vars(r)
	hist, err := h.svc.ExerciseHistory(r.Context(), vars["customerId"], vars["exerciseId"], limit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"history": hist, "count": len(hist)})
}

// ExercisePresets GET /api/presets/exercises
func (h *TrainingHandler) ExercisePresets(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"exercises": h.svc.ExercisePresets()})
}

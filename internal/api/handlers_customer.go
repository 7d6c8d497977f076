package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/michela/coach/internal/api/respond"
	"github.com/michela/coach/internal/api/validate"
	"github.com/michela/coach/internal/model"
	"github.com/michela/coach/internal/services"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// decodeJSON reads r's body into v and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return false
	}
	return true
}

type CustomerHandler struct {
	svc *services.CustomerService
}

func NewCustomerHandler(svc *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// CreateCustomer POST /api/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in model.Customer
	if !decodeJSON(w, r, &in) {
		return
	}
	in.ID = ""
	out, err := h.svc.RegisterCustomer(r.Context(), &in)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListCustomers GET /api/customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"customers": cs, "count": len(cs)})
}

// GetCustomer GET /api/customers/{customerId}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCustomer(r.Context(), mux.Vars(r)["customerId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, c)
}

// UpdateCustomer PUT|PATCH /api/customers/{customerId}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var p model.CustomerPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	c, err := h.svc.UpdateCustomer(r.Context(), mux.Vars(r)["customerId"], p)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, c)
}

// DeleteCustomer DELETE /api/customers/{customerId}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCustomer(r.Context(), mux.Vars(r)["customerId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListWeights GET /api/customers/{customerId}/weights?limit=
func (h *CustomerHandler) ListWeights(w http.ResponseWriter, r *http.Request) {
	limit, err := validate.QueryInt(r.URL.Query(), "limit", 0, validate.MaxListLimit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	ws, err := h.svc.WeightHistory(r.Context(), mux.Vars(r)["customerId"], limit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"weights": ws, "count": len(ws)})
}

// AddWeight POST /api/customers/{customerId}/weights
func (h *CustomerHandler) AddWeight(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Weight     float64 `json:"weight"`
		RecordedAt string  `json:"recorded_at"`
		Note       string  `json:"note"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	rec, err := h.svc.AddWeight(r.Context(), mux.Vars(r)["customerId"], in.Weight, in.RecordedAt, in.Note)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, rec)
}

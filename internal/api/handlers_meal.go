package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/michela/coach/internal/api/respond"
	"github.com/michela/coach/internal/api/validate"
	"github.com/michela/coach/internal/model"
	"github.com/michela/coach/internal/services"
)

type MealHandler struct {
	svc *services.MealService
}

func NewMealHandler(svc *services.MealService) *MealHandler { return &MealHandler{svc: svc} }

// CreateMeal POST /api/meals
func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	var in model.MealRecord
	if !decodeJSON(w, r, &in) {
		return
	}
	in.ID = ""
	out, err := h.svc.CreateMeal(r.Context(), &in)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetMeal GET /api/meals/{mealId}
func (h *MealHandler) GetMeal(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetMeal(r.Context(), mux.Vars(r)["mealId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}

// UpdateMeal PUT|PATCH /api/meals/{mealId}
func (h *MealHandler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	var p model.MealPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	m, err := h.svc.UpdateMeal(r.Context(), mux.Vars(r)["mealId"], p)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}

// DeleteMeal DELETE /api/meals/{mealId}
func (h *MealHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteMeal(r.Context(), mux.Vars(r)["mealId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMeals GET /api/customers/{customerId}/meals?start_date=&end_date=&limit=
func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := validate.QueryInt(q, "limit", 0, validate.MaxListLimit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	meals, err := h.svc.ListMeals(r.Context(), mux.Vars(r)["customerId"], q.Get("start_date"), q.Get("end_date"), limit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"meals": meals, "count": len(meals)})
}

// DailyNutrition GET /api/customers/{customerId}/nutrition/daily/{date}
func (h *MealHandler) DailyNutrition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	day, err := h.svc.DailyNutrition(r.Context(), vars["customerId"], vars["date"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, day)
}

// GetGoal GET /api/customers/{customerId}/nutrition-goal
func (h *MealHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.NutritionGoal(r.Context(), mux.Vars(r)["customerId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, g)
}

// PutGoal PUT /api/customers/{customerId}/nutrition-goal
func (h *MealHandler) PutGoal(w http.ResponseWriter, r *http.Request) {
	var in model.NutritionGoalInput
	if !decodeJSON(w, r, &in) {
		return
	}
	g, err := h.svc.SetNutritionGoal(r.Context(), mux.Vars(r)["customerId"], in)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, g)
}

// FoodPresets GET /api/presets/foods
func (h *MealHandler) FoodPresets(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"foods": h.svc.FoodPresets()})
}

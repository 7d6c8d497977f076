package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/michela/coach/internal/api/respond"
	"github.com/michela/coach/internal/api/validate"
	"github.com/michela/coach/internal/services"
)

// AdviceHandler exposes the LLM advice, chat and research endpoints.
type AdviceHandler struct {
	advice   *services.AdviceService
	research *services.ResearchService
}

func NewAdviceHandler(advice *services.AdviceService, research *services.ResearchService) *AdviceHandler {
	return &AdviceHandler{advice: advice, research: research}
}

// TrainingAdvice GET /api/customers/{customerId}/advice/training
func (h *AdviceHandler) TrainingAdvice(w http.ResponseWriter, r *http.Request) {
	adv, err := h.advice.TrainingAdvice(r.Context(), mux.Vars(r)["customerId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, adv)
}

// MealAdvice GET /api/customers/{customerId}/advice/meal
func (h *AdviceHandler) MealAdvice(w http.ResponseWriter, r *http.Request) {
	adv, err := h.advice.MealAdvice(r.Context(), mux.Vars(r)["customerId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, adv)
}

// Chat POST /api/chat
func (h *AdviceHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validate.Chat(in.Message); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	adv, err := h.advice.Chat(r.Context(), in.Message)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, adv)
}

// LatestResearch GET /api/research/latest
func (h *AdviceHandler) LatestResearch(w http.ResponseWriter, r *http.Request) {
	res, err := h.research.Latest(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// SearchResearch POST /api/research/search
func (h *AdviceHandler) SearchResearch(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Query  string `json:"query"`
		Offset int    `json:"offset"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validate.ResearchSearch(in.Query, in.Offset); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	res, err := h.research.Search(r.Context(), in.Query, in.Offset)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// ResearchSummary GET /api/research/{pmid}/summary
func (h *AdviceHandler) ResearchSummary(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["pmid"]
	if err := validate.ArticleID(id); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	sum, err := h.research.Summary(r.Context(), id)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, sum)
}

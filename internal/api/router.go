package api

import (
	"github.com/gorilla/mux"

	"github.com/michela/coach/internal/api/recovery"
	"github.com/michela/coach/internal/metrics"
	"github.com/michela/coach/internal/services"
)

// Services are the application services exposed over HTTP.
type Services struct {
	Customers *services.CustomerService
	Trainings *services.TrainingService
	Meals     *services.MealService
	Advice    *services.AdviceService
	Research  *services.ResearchService
}

// NewRouter wires every route onto a fresh router. health may be nil.
func NewRouter(svc Services, health HealthSource) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)
	r := root.PathPrefix("/api").Subrouter()

	// Customers
	customers := NewCustomerHandler(svc.Customers)
	r.HandleFunc("/customers", customers.CreateCustomer).Methods("POST")
	r.HandleFunc("/customers", customers.ListCustomers).Methods("GET")
	r.HandleFunc("/customers/{customerId}", customers.GetCustomer).Methods("GET")
	r.HandleFunc("/customers/{customerId}", customers.UpdateCustomer).Methods("PUT", "PATCH")
	r.HandleFunc("/customers/{customerId}", customers.DeleteCustomer).Methods("DELETE")
	r.HandleFunc("/customers/{customerId}/weights", customers.ListWeights).Methods("GET")
	r.HandleFunc("/customers/{customerId}/weights", customers.AddWeight).Methods("POST")

	// Trainings
	trainings := NewTrainingHandler(svc.Trainings)
	r.HandleFunc("/trainings", trainings.CreateSession).Methods("POST")
	r.HandleFunc("/trainings/{sessionId}", trainings.GetSession).Methods("GET")
	r.HandleFunc("/trainings/{sessionId}", trainings.UpdateSession).Methods("PUT")
	r.HandleFunc("/trainings/{sessionId}", trainings.DeleteSession).Methods("DELETE")
	r.HandleFunc("/customers/{customerId}/trainings", trainings.ListSessions).Methods("GET")
	r.HandleFunc("/customers/{customerId}/exercises/{exerciseId}/history", trainings.ExerciseHistory).Methods("GET")
	r.HandleFunc("/presets/exercises", trainings.ExercisePresets).Methods("GET")

	// Meals and nutrition
	meals := NewMealHandler(svc.Meals)
	r.HandleFunc("/meals", meals.CreateMeal).Methods("POST")
	r.HandleFunc("/meals/{mealId}", meals.GetMeal).Methods("GET")
	r.HandleFunc("/meals/{mealId}", meals.UpdateMeal).Methods("PUT", "PATCH")
	r.HandleFunc("/meals/{mealId}", meals.DeleteMeal).Methods("DELETE")
	r.HandleFunc("/customers/{customerId}/meals", meals.ListMeals).Methods("GET")
	r.HandleFunc("/customers/{customerId}/nutrition/daily/{date}", meals.DailyNutrition).Methods("GET")
	r.HandleFunc("/customers/{customerId}/nutrition-goal", meals.GetGoal).Methods("GET")
	r.HandleFunc("/customers/{customerId}/nutrition-goal", meals.PutGoal).Methods("PUT")
	r.HandleFunc("/presets/foods", meals.FoodPresets).Methods("GET")

	// Advice, chat and research
	advice := NewAdviceHandler(svc.Advice, svc.Research)
	r.HandleFunc("/customers/{customerId}/advice/training", advice.TrainingAdvice).Methods("GET")
	r.HandleFunc("/customers/{customerId}/advice/meal", advice.MealAdvice).Methods("GET")
	r.HandleFunc("/chat", advice.Chat).Methods("POST")
	r.HandleFunc("/research/latest", advice.LatestResearch).Methods("GET")
	r.HandleFunc("/research/search", advice.SearchResearch).Methods("POST")
	r.HandleFunc("/research/{pmid}/summary", advice.ResearchSummary).Methods("GET")

	// Health and metrics
	r.HandleFunc("/health", NewHealthHandler(health).CheckHealth).Methods("GET")
	root.Handle("/metrics", metrics.Handler()).Methods("GET")

	return root
}

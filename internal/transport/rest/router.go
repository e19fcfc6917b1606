package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"schoolpulse/internal/service"
	"schoolpulse/internal/transport/rest/handler"
)

// Container holds all dependencies for the router
type Container struct {
	SurveyService   *service.SurveyService
	ReportService   *service.ReportService
	AnalysisService *service.AnalysisService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	surveyHandler := handler.NewSurveyHandler(c.SurveyService)
	reportHandler := handler.NewReportHandler(c.ReportService, c.AnalysisService)

	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Projects and questions
	v1.HandleFunc("/projects", surveyHandler.CreateProject).Methods("POST", "OPTIONS")
	v1.HandleFunc("/projects/{projectId}", surveyHandler.GetProject).Methods("GET", "OPTIONS")
	v1.HandleFunc("/projects/{projectId}/questions", surveyHandler.GetQuestions).Methods("GET", "OPTIONS")

	// Respondent sessions and response intake
	v1.HandleFunc("/projects/{projectId}/sessions", surveyHandler.StartSession).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/responses", surveyHandler.SubmitResponse).Methods("POST", "OPTIONS")

	// Reports and analysis
	v1.HandleFunc("/projects/{projectId}/report", reportHandler.GenerateReport).Methods("POST", "OPTIONS")
	v1.HandleFunc("/projects/{projectId}/report", reportHandler.GetReport).Methods("GET", "OPTIONS")
	v1.HandleFunc("/projects/{projectId}/analysis", reportHandler.GenerateAnalysis).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

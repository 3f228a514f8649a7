package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/questra-ai/questra/internal/api"
	"github.com/questra-ai/questra/internal/api/handlers"
	"github.com/questra-ai/questra/internal/api/middleware"
)

type RouterConfig struct {
	APIKey               string
	QuestionnaireHandler *handlers.QuestionnaireHandler
	EscalationHandler    *handlers.EscalationHandler
	FeedbackHandler      *handlers.FeedbackHandler
	EmployeeHandler      *handlers.EmployeeHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.APIKey))

		r.Route("/questionnaires", func(r chi.Router) {
			r.Post("/process", cfg.QuestionnaireHandler.Process)
			r.Post("/process-with-escalation", cfg.QuestionnaireHandler.ProcessWithEscalation)
			r.Post("/process-async", cfg.QuestionnaireHandler.ProcessAsync)
			r.Get("/jobs/{id}", func(w http.ResponseWriter, req *http.Request) {
				cfg.QuestionnaireHandler.JobStatus(w, req, chi.URLParam(req, "id"))
			})
		})

		r.Post("/escalations/evaluate", cfg.EscalationHandler.Evaluate)

		r.Post("/feedback", cfg.FeedbackHandler.Submit)
		r.Get("/stats", cfg.FeedbackHandler.Stats)

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", cfg.EmployeeHandler.Create)
			r.Get("/", cfg.EmployeeHandler.List)
		})
	})

	return r
}

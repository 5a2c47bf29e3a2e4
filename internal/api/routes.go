package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Post("/assessments", s.handleCreateAssessment)
	r.Get("/assessments/{id}", s.handleGetAssessment)
	r.Get("/assessments/{id}/question", s.handleGetQuestion)
	r.Post("/assessments/{id}/answer", s.handleSubmitAnswer)
	r.Post("/assessments/{id}/submit", s.handleSubmitReport)

	r.Get("/results", s.handleListResults)
	r.Get("/results/{id}", s.handleGetResult)

	return r
}

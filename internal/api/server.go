package api

import (
	"encoding/json"
	"net/http"

	"github.com/aid-linh-pnp/test-question/internal/assessment"
	"github.com/aid-linh-pnp/test-question/internal/config"
	"github.com/aid-linh-pnp/test-question/internal/db"
	"github.com/aid-linh-pnp/test-question/internal/github"
	"github.com/aid-linh-pnp/test-question/internal/logger"
	"github.com/aid-linh-pnp/test-question/internal/question"
	"github.com/aid-linh-pnp/test-question/internal/sink"
	"github.com/aid-linh-pnp/test-question/internal/worker"
)

type Server struct {
	Repo     *question.Repository
	Store    *assessment.Store
	DB       *db.DB
	Results  sink.Sink
	PushPool *worker.Pool
	GitHub   *github.Client
	Plan     config.Plan
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		logger.FromContext(r.Context()).Warn("malformed request body: %v", err)
		return err
	}
	return nil
}

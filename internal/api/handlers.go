package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aid-linh-pnp/test-question/internal/assessment"
	"github.com/aid-linh-pnp/test-question/internal/errors"
	"github.com/aid-linh-pnp/test-question/internal/logger"
	"github.com/aid-linh-pnp/test-question/internal/models"
	"github.com/aid-linh-pnp/test-question/internal/question"
	"github.com/aid-linh-pnp/test-question/internal/worker"
)

// questionView is the candidate-facing shape of a question: options in
// presentation order, with the answer key stripped.
type questionView struct {
	ID        string           `json:"id"`
	Skill     string           `json:"skill"`
	Seniority models.Seniority `json:"seniority"`
	Level     int              `json:"level"`
	Question  string           `json:"question"`
	Options   []string         `json:"options"`
}

func (s *Server) questionView(q models.QuestionRecord) questionView {
	options := make([]string, len(q.Options))
	for i, opt := range q.Options {
		options[i] = opt.Text
	}
	return questionView{
		ID:        q.ID,
		Skill:     q.Skill,
		Seniority: q.Seniority,
		Level:     q.Level,
		Question:  question.AnnotateCode(q.Text, s.Plan.Language(q.Skill)),
		Options:   options,
	}
}

type createAssessmentRequest struct {
	Account   string   `json:"account"`
	Seniority string   `json:"seniority"`
	Skills    []string `json:"skills,omitempty"`
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createAssessmentRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	req.Account = strings.TrimSpace(req.Account)
	seniority := models.Seniority(strings.ToLower(strings.TrimSpace(req.Seniority)))
	if seniority == "" {
		seniority = models.Seniority(s.Plan.DefaultSeniority)
	}
	skills := req.Skills
	if len(skills) == 0 {
		skills = s.Plan.Skills
	}

	runner, err := assessment.NewRunner(assessment.NewRunID(), s.Repo, req.Account, seniority, skills, nil)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.Store.Put(runner)
	log.Info("assessment created: id=%s account=%s", runner.ID, runner.Account)

	resp := map[string]any{
		"id":        runner.ID,
		"account":   runner.Account,
		"seniority": runner.Seniority,
		"skills":    runner.Skills,
	}
	// The first question is fetched eagerly. A bank with nothing for any
	// skill finishes the run on the spot.
	_ = s.Store.With(runner.ID, func(run *assessment.Runner) error {
		if q, _, ok := run.NextQuestion(); ok {
			resp["question"] = s.questionView(q)
		} else {
			resp["done"] = true
			resp["report"] = run.Report()
		}
		return nil
	})

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.Store.With(id, func(run *assessment.Runner) error {
		resp := map[string]any{
			"id":        run.ID,
			"account":   run.Account,
			"seniority": run.Seniority,
			"skills":    run.Skills,
			"done":      run.Done(),
			"submitted": run.Submitted(),
			"results":   run.Results(),
		}
		if run.Done() {
			resp["report"] = run.Report()
		} else {
			resp["current_skill"] = run.CurrentSkill()
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
	if err != nil {
		handleError(w, r, err)
	}
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.Store.With(id, func(run *assessment.Runner) error {
		q, _, ok := run.NextQuestion()
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{
				"done":   true,
				"report": run.Report(),
			})
			return nil
		}
		writeJSON(w, http.StatusOK, map[string]any{"question": s.questionView(q)})
		return nil
	})
	if err != nil {
		handleError(w, r, err)
	}
}

type submitAnswerRequest struct {
	SelectedIndex int `json:"selected_index"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	err := s.Store.With(id, func(run *assessment.Runner) error {
		outcome, err := run.SubmitAnswer(req.SelectedIndex)
		if err != nil {
			return err
		}
		resp := map[string]any{"outcome": outcome}
		if outcome.AllFinished {
			resp["report"] = run.Report()
		} else if q, _, ok := run.NextQuestion(); ok {
			resp["question"] = s.questionView(q)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
	if err != nil {
		handleError(w, r, err)
	}
}

func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := s.Store.With(id, func(run *assessment.Runner) error {
		already := run.Submitted()
		if err := run.Submit(r.Context(), s.Results); err != nil {
			return err
		}
		if !already && s.GitHub != nil && s.GitHub.Configured() && s.PushPool != nil {
			s.PushPool.Submit(&worker.PushReportJob{Client: s.GitHub, Report: *run.Report()})
			log.Debug("queued result push: id=%s", run.ID)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"submitted": true,
			"report":    run.Report(),
		})
		return nil
	})
	if err != nil {
		handleError(w, r, err)
	}
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	filter := models.ReportFilter{
		Account:   strings.TrimSpace(r.URL.Query().Get("account")),
		Seniority: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("seniority"))),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			handleError(w, r, errors.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			handleError(w, r, errors.NewValidationError("offset", "must be a non-negative integer"))
			return
		}
		filter.Offset = n
	}

	reports, err := s.DB.ListReports(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	total, err := s.DB.CountReports(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":   total,
		"results": reports,
	})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := s.DB.GetReport(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if report == nil {
		handleError(w, r, errors.NewNotFoundError("result", id))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":      "ok",
		"active_runs": s.Store.Len(),
	}
	if s.PushPool != nil {
		resp["push_queue"] = s.PushPool.QueueSize()
	}
	writeJSON(w, http.StatusOK, resp)
}

package assessment

import (
	"context"
	"math/rand"
	"time"

	"github.com/aid-linh-pnp/test-question/internal/engine"
	"github.com/aid-linh-pnp/test-question/internal/errors"
	"github.com/aid-linh-pnp/test-question/internal/logger"
	"github.com/aid-linh-pnp/test-question/internal/models"
	"github.com/aid-linh-pnp/test-question/internal/session"
	"github.com/aid-linh-pnp/test-question/internal/sink"
)

// Outcome is returned after each submitted answer: the session status, plus
// whether the answer closed out the current skill or the whole run.
type Outcome struct {
	Skill         string         `json:"skill"`
	Status        session.Status `json:"status"`
	SkillFinished bool           `json:"skill_finished"`
	AllFinished   bool           `json:"all_finished"`
}

// Runner walks a fixed ordered skill list, one session at a time, and
// aggregates the terminal outcomes into a report. Skills run strictly
// sequentially; the report is built once, when the last skill finishes.
type Runner struct {
	ID        string
	Account   string
	Seniority models.Seniority
	Skills    []string
	CreatedAt time.Time

	source    session.QuestionSource
	rnd       *rand.Rand
	current   *session.Session
	skillIdx  int
	results   []models.SkillResult
	report    *models.Report
	submitted bool
	log       *logger.Logger
}

// NewRunner validates the starting seniority and opens the first skill's
// session. The seniority is checked before any question is consumed.
func NewRunner(id string, source session.QuestionSource, account string, seniority models.Seniority, skills []string, rnd *rand.Rand) (*Runner, error) {
	if account == "" {
		return nil, errors.NewValidationError("account", "cannot be empty")
	}
	if len(skills) == 0 {
		return nil, errors.NewValidationError("skills", "cannot be empty")
	}
	if _, err := engine.TableFor(seniority); err != nil {
		return nil, errors.NewUnknownSeniorityError(string(seniority))
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}

	r := &Runner{
		ID:        id,
		Account:   account,
		Seniority: seniority,
		Skills:    skills,
		CreatedAt: time.Now(),
		source:    source,
		rnd:       rnd,
		log: logger.Default().WithPrefix("assessment").WithFields(map[string]any{
			"run_id":  id,
			"account": account,
		}),
	}
	first, err := session.New(source, skills[0], seniority, rnd)
	if err != nil {
		return nil, err
	}
	r.current = first
	r.log.Info("assessment started: seniority=%s skills=%d", seniority, len(skills))
	return r, nil
}

// CurrentSkill returns the skill currently being assessed, or "" when done.
func (r *Runner) CurrentSkill() string {
	if r.Done() {
		return ""
	}
	return r.Skills[r.skillIdx]
}

// Done reports whether every skill has finished.
func (r *Runner) Done() bool {
	return r.skillIdx >= len(r.Skills)
}

// NextQuestion returns the next question to present and the skill it belongs
// to. Sessions that die on an empty pool are recorded and skipped, so the
// caller only ever sees a question or the end of the run.
func (r *Runner) NextQuestion() (models.QuestionRecord, string, bool) {
	for !r.Done() {
		q, ok := r.current.NextQuestion()
		if ok {
			return q, r.current.Skill, true
		}
		// Finished without a question: empty pool killed the session.
		r.closeCurrentSkill()
	}
	return models.QuestionRecord{}, "", false
}

// SubmitAnswer applies one answer to the current skill's session.
func (r *Runner) SubmitAnswer(selectedIndex int) (Outcome, error) {
	if r.Done() {
		return Outcome{}, errors.NewBadRequestError("assessment already completed")
	}

	skill := r.current.Skill
	st, err := r.current.SubmitAnswer(selectedIndex)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Skill: skill, Status: st}
	if st.Finished {
		r.closeCurrentSkill()
		out.SkillFinished = true
		out.AllFinished = r.Done()
	}
	return out, nil
}

func (r *Runner) closeCurrentSkill() {
	res := r.current.Result()
	r.results = append(r.results, res)
	r.log.Info("skill finished: skill=%s result=%s failed=%v", res.Skill, res.FinalResult, res.Failed)

	r.skillIdx++
	if r.Done() {
		r.buildReport()
		return
	}
	next, err := session.New(r.source, r.Skills[r.skillIdx], r.Seniority, r.rnd)
	if err != nil {
		// The seniority was validated at construction, so this cannot happen.
		panic(err)
	}
	r.current = next
}

func (r *Runner) buildReport() {
	results := make([]models.SkillResult, len(r.results))
	copy(results, r.results)
	r.report = &models.Report{
		ID:        r.ID,
		Account:   r.Account,
		Seniority: r.Seniority,
		Skills:    append([]string(nil), r.Skills...),
		Results:   results,
		Timestamp: time.Now(),
	}
	r.log.Info("assessment complete: skills=%d", len(results))
}

// Report returns the finalized report, or nil while skills remain.
func (r *Runner) Report() *models.Report {
	return r.report
}

// Results returns the outcomes recorded so far.
func (r *Runner) Results() []models.SkillResult {
	out := make([]models.SkillResult, len(r.results))
	copy(out, r.results)
	return out
}

// Submitted reports whether the report has been handed to a sink.
func (r *Runner) Submitted() bool {
	return r.submitted
}

// Submit hands the finalized report to the sink exactly once. Repeated calls
// after a success are no-ops. On failure the report stays available, so the
// caller can retry without re-running the assessment.
func (r *Runner) Submit(ctx context.Context, s sink.Sink) error {
	if r.report == nil {
		return errors.NewBadRequestError("assessment not yet completed")
	}
	if r.submitted {
		r.log.Debug("report already submitted, ignoring")
		return nil
	}
	if err := s.Submit(ctx, *r.report); err != nil {
		r.log.Error("report submission failed: %v", err)
		return errors.NewSinkUnavailableError(err)
	}
	r.submitted = true
	r.log.Info("report submitted")
	return nil
}

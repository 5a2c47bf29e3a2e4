package session

import (
	"math/rand"

	"github.com/aid-linh-pnp/test-question/internal/engine"
	"github.com/aid-linh-pnp/test-question/internal/errors"
	"github.com/aid-linh-pnp/test-question/internal/logger"
	"github.com/aid-linh-pnp/test-question/internal/models"
)

// NoQuestionAvailable is the terminal label of a session aborted because the
// bank had no question for its current position.
const NoQuestionAvailable = "NO_QUESTION_AVAILABLE"

// QuestionSource serves one question for a bank position. Implemented by
// question.Repository.
type QuestionSource interface {
	Fetch(skill string, seniority models.Seniority, level int) (models.QuestionRecord, bool)
}

// Status is returned after each submitted answer.
type Status struct {
	Finished    bool             `json:"finished"`
	FinalResult string           `json:"final_result,omitempty"`
	Failed      bool             `json:"failed"`
	Seniority   models.Seniority `json:"seniority,omitempty"`
	Level       int              `json:"level,omitempty"`
	PathState   string           `json:"path_state,omitempty"`
}

// Session drives one skill through the decision tree: it fetches questions at
// the engine's current position, records answers and advances until a terminal
// outcome. A session is single-writer; it is only ever driven by one caller.
type Session struct {
	Skill            string
	StartSeniority   models.Seniority
	CurrentSeniority models.Seniority
	CurrentLevel     int
	PathState        string
	Answers          []models.AnswerRecord
	Presented        []models.QuestionRecord
	Finished         bool
	FinalResult      string
	Failed           bool

	table   *engine.Table
	source  QuestionSource
	rnd     *rand.Rand
	pending bool
	log     *logger.Logger
}

// New creates a session for one skill starting at level 3 of the given
// seniority. The seniority is checked before any question is consumed. rnd
// drives option shuffling; pass a seeded source in tests.
func New(source QuestionSource, skill string, start models.Seniority, rnd *rand.Rand) (*Session, error) {
	table, err := engine.TableFor(start)
	if err != nil {
		return nil, errors.NewUnknownSeniorityError(string(start))
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Session{
		Skill:            skill,
		StartSeniority:   start,
		CurrentSeniority: start,
		CurrentLevel:     engine.StartLevel,
		PathState:        engine.InitialState,
		table:            table,
		source:           source,
		rnd:              rnd,
		log:              logger.Default().WithPrefix("session").WithField("skill", skill),
	}, nil
}

// NextQuestion returns the question to present, with its options freshly
// shuffled. The permutation is recorded as presented so answer indexes resolve
// against what the caller saw. ok is false once the session is finished —
// including the case where an empty pool just ended it with
// NO_QUESTION_AVAILABLE. Calling it again before an answer re-returns the
// pending question unchanged.
func (s *Session) NextQuestion() (models.QuestionRecord, bool) {
	if s.Finished {
		return models.QuestionRecord{}, false
	}
	if s.pending {
		return s.Presented[len(s.Presented)-1], true
	}

	q, found := s.source.Fetch(s.Skill, s.CurrentSeniority, s.CurrentLevel)
	if !found {
		s.log.Warn("no question available: seniority=%s level=%d", s.CurrentSeniority, s.CurrentLevel)
		s.finish(NoQuestionAvailable, true)
		return models.QuestionRecord{}, false
	}

	shuffled := q
	shuffled.Options = make([]models.Option, len(q.Options))
	copy(shuffled.Options, q.Options)
	s.rnd.Shuffle(len(shuffled.Options), func(i, j int) {
		shuffled.Options[i], shuffled.Options[j] = shuffled.Options[j], shuffled.Options[i]
	})

	s.Presented = append(s.Presented, shuffled)
	s.pending = true
	s.log.Debug("presenting question %s at %s", q.ID, models.PathLabel(s.CurrentSeniority, s.CurrentLevel))
	return shuffled, true
}

// SubmitAnswer resolves the selected option against the last presented
// question, records the answer and advances the decision tree. It mutates
// nothing when rejected.
func (s *Session) SubmitAnswer(selectedIndex int) (Status, error) {
	if s.Finished {
		return Status{}, errors.NewSessionFinishedError(s.Skill)
	}
	if !s.pending {
		return Status{}, errors.NewNoActiveQuestionError()
	}

	q := s.Presented[len(s.Presented)-1]
	if selectedIndex < 0 || selectedIndex >= len(q.Options) {
		return Status{}, errors.NewValidationError("selected_index", "out of range")
	}

	correct := q.Options[selectedIndex].IsCorrect
	s.Answers = append(s.Answers, models.AnswerRecord{
		QuestionID:    q.ID,
		SelectedIndex: selectedIndex,
		IsCorrect:     correct,
	})
	s.pending = false

	res, err := s.table.Transition(s.PathState, len(s.Answers), correct)
	if err != nil {
		// Unreachable with validated tables; surfacing it keeps the defect loud.
		return Status{}, errors.NewInternalError(err)
	}

	if res.Done {
		s.finish(res.Label, res.Failed)
		return s.status(), nil
	}

	s.CurrentSeniority = res.Seniority
	s.CurrentLevel = res.Level
	s.PathState = res.PathState
	s.log.Debug("advanced to %s after answer %d (correct=%v)", s.PathState, len(s.Answers), correct)
	return s.status(), nil
}

// Result snapshots the terminal outcome and answer history for reporting.
func (s *Session) Result() models.SkillResult {
	answers := make([]models.AnswerRecord, len(s.Answers))
	copy(answers, s.Answers)
	return models.SkillResult{
		Skill:       s.Skill,
		FinalResult: s.FinalResult,
		Failed:      s.Failed,
		Answers:     answers,
	}
}

// PathLabel formats the current position, e.g. "M3".
func (s *Session) PathLabel() string {
	return models.PathLabel(s.CurrentSeniority, s.CurrentLevel)
}

func (s *Session) finish(label string, failed bool) {
	s.Finished = true
	s.FinalResult = label
	s.Failed = failed
	s.pending = false
	s.log.Info("session finished: result=%s failed=%v answers=%d", label, failed, len(s.Answers))
}

func (s *Session) status() Status {
	if s.Finished {
		return Status{Finished: true, FinalResult: s.FinalResult, Failed: s.Failed}
	}
	return Status{
		Seniority: s.CurrentSeniority,
		Level:     s.CurrentLevel,
		PathState: s.PathState,
	}
}

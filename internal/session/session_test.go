package session_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aid-linh-pnp/test-question/internal/engine"
	"github.com/aid-linh-pnp/test-question/internal/models"
	"github.com/aid-linh-pnp/test-question/internal/session"
)

// stubSource serves a fixed question for every (seniority, level) it knows.
type stubSource struct {
	questions map[string]models.QuestionRecord
}

func (s stubSource) Fetch(skill string, seniority models.Seniority, level int) (models.QuestionRecord, bool) {
	q, ok := s.questions[fmt.Sprintf("%s/%s/%d", skill, seniority, level)]
	return q, ok
}

func newQuestion(id string) models.QuestionRecord {
	return models.QuestionRecord{
		ID:    id,
		Skill: "javascript",
		Text:  "Pick the right one",
		Options: []models.Option{
			{Text: "right", IsCorrect: true},
			{Text: "wrong 1"},
			{Text: "wrong 2"},
			{Text: "wrong 3"},
		},
	}
}

// fullSource covers every position any tree can reach.
func fullSource() stubSource {
	src := stubSource{questions: make(map[string]models.QuestionRecord)}
	for _, sen := range models.Seniorities {
		for level := models.MinLevel; level <= models.MaxLevel; level++ {
			key := fmt.Sprintf("javascript/%s/%d", sen, level)
			src.questions[key] = newQuestion(fmt.Sprintf("q-%s-%d", sen.Letter(), level))
		}
	}
	return src
}

func answerIndex(q models.QuestionRecord, correct bool) int {
	for i, opt := range q.Options {
		if opt.IsCorrect == correct {
			return i
		}
	}
	return -1
}

func drive(t *testing.T, s *session.Session, answers []bool) session.Status {
	t.Helper()
	var st session.Status
	for _, correct := range answers {
		q, ok := s.NextQuestion()
		require.True(t, ok)
		var err error
		st, err = s.SubmitAnswer(answerIndex(q, correct))
		require.NoError(t, err)
	}
	return st
}

func TestSession_AllCorrectFromMiddle(t *testing.T) {
	s, err := session.New(fullSource(), "javascript", models.Middle, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	st := drive(t, s, []bool{true, true, true, true})

	assert.True(t, st.Finished)
	assert.Equal(t, "LEVELS5", st.FinalResult)
	assert.False(t, st.Failed)
	assert.True(t, s.Finished)
	assert.Len(t, s.Answers, 4)
	assert.Len(t, s.Presented, 4)
}

func TestSession_AllIncorrectFromMiddleFails(t *testing.T) {
	s, err := session.New(fullSource(), "javascript", models.Middle, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	st := drive(t, s, []bool{false, false, false, false})

	assert.True(t, st.Finished)
	assert.Equal(t, "LEVELJ0", st.FinalResult)
	assert.True(t, st.Failed)
}

func TestSession_EmptyPoolTerminatesImmediately(t *testing.T) {
	s, err := session.New(stubSource{questions: map[string]models.QuestionRecord{}}, "javascript", models.Middle, nil)
	require.NoError(t, err)

	_, ok := s.NextQuestion()
	assert.False(t, ok)
	assert.True(t, s.Finished)
	assert.Equal(t, session.NoQuestionAvailable, s.FinalResult)
	assert.True(t, s.Failed)
	assert.Empty(t, s.Answers, "no answer is consumed")
}

func TestSession_EmptyPoolMidRun(t *testing.T) {
	// Only the starting position has a question; the first advance hits an
	// empty pool.
	src := stubSource{questions: map[string]models.QuestionRecord{
		"javascript/middle/3": newQuestion("q-M-3"),
	}}
	s, err := session.New(src, "javascript", models.Middle, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	q, ok := s.NextQuestion()
	require.True(t, ok)
	st, err := s.SubmitAnswer(answerIndex(q, true))
	require.NoError(t, err)
	require.False(t, st.Finished)
	assert.Equal(t, "M5", st.PathState)

	_, ok = s.NextQuestion()
	assert.False(t, ok)
	assert.Equal(t, session.NoQuestionAvailable, s.FinalResult)
	assert.True(t, s.Failed)
	assert.Len(t, s.Answers, 1)
}

func TestSession_SubmitAfterFinishedRejected(t *testing.T) {
	s, err := session.New(fullSource(), "javascript", models.Middle, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	drive(t, s, []bool{true, true, true, true})

	result := s.FinalResult
	answers := len(s.Answers)

	_, err = s.SubmitAnswer(0)
	assert.Error(t, err)
	assert.Equal(t, result, s.FinalResult, "outcome must not change")
	assert.Len(t, s.Answers, answers, "history must not change")
}

func TestSession_SubmitWithoutPendingQuestionRejected(t *testing.T) {
	s, err := session.New(fullSource(), "javascript", models.Middle, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	_, err = s.SubmitAnswer(0)
	assert.Error(t, err)
	assert.Empty(t, s.Answers)
}

func TestSession_SelectedIndexOutOfRange(t *testing.T) {
	s, err := session.New(fullSource(), "javascript", models.Middle, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	_, ok := s.NextQuestion()
	require.True(t, ok)

	_, err = s.SubmitAnswer(99)
	assert.Error(t, err)
	assert.Empty(t, s.Answers, "rejected answers are not recorded")

	// The pending question is still answerable.
	q, ok := s.NextQuestion()
	require.True(t, ok)
	_, err = s.SubmitAnswer(answerIndex(q, true))
	assert.NoError(t, err)
}

func TestSession_UnknownSeniority(t *testing.T) {
	_, err := session.New(fullSource(), "javascript", "principal", nil)
	assert.Error(t, err)
}

func TestSession_NextQuestionIsIdempotentWhilePending(t *testing.T) {
	s, err := session.New(fullSource(), "javascript", models.Middle, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	first, ok := s.NextQuestion()
	require.True(t, ok)
	second, ok := s.NextQuestion()
	require.True(t, ok)
	assert.Equal(t, first, second)
	assert.Len(t, s.Presented, 1, "re-asking must not re-present")
}

func TestSession_OptionsShuffledPerPresentation(t *testing.T) {
	s, err := session.New(fullSource(), "javascript", models.Middle, rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	q, ok := s.NextQuestion()
	require.True(t, ok)
	require.Len(t, q.Options, 4)

	// Correctness follows the option as presented, not its stored position.
	idx := answerIndex(q, true)
	require.GreaterOrEqual(t, idx, 0)
	st, err := s.SubmitAnswer(idx)
	require.NoError(t, err)
	assert.Equal(t, "M5", st.PathState)
	assert.True(t, s.Answers[0].IsCorrect)
}

func TestSession_ShuffleIsDeterministicWithSeed(t *testing.T) {
	presentOnce := func(seed int64) []models.Option {
		s, err := session.New(fullSource(), "javascript", models.Middle, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		q, ok := s.NextQuestion()
		require.True(t, ok)
		return q.Options
	}

	assert.Equal(t, presentOnce(5), presentOnce(5))
}

func TestSession_ReplayReproducesOutcome(t *testing.T) {
	sequences := [][]bool{
		{true, true, true, true},
		{false, false, false, false},
		{true, false, true},
		{false, true, true},
		{true, true, false, true, false},
	}

	for _, seq := range sequences {
		for _, sen := range models.Seniorities {
			s, err := session.New(fullSource(), "javascript", sen, rand.New(rand.NewSource(11)))
			require.NoError(t, err)

			for _, correct := range seq {
				if s.Finished {
					break
				}
				q, ok := s.NextQuestion()
				if !ok {
					break
				}
				_, err := s.SubmitAnswer(answerIndex(q, correct))
				require.NoError(t, err)
			}
			if !s.Finished {
				continue
			}

			correctness := make([]bool, len(s.Answers))
			for i, a := range s.Answers {
				correctness[i] = a.IsCorrect
			}
			label, failed, err := engine.Replay(sen, correctness)
			require.NoError(t, err)
			assert.Equal(t, s.FinalResult, label)
			assert.Equal(t, s.Failed, failed)
		}
	}
}

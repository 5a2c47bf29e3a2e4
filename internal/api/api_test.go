package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aid-linh-pnp/test-question/internal/api"
	"github.com/aid-linh-pnp/test-question/internal/assessment"
	"github.com/aid-linh-pnp/test-question/internal/config"
	"github.com/aid-linh-pnp/test-question/internal/models"
	"github.com/aid-linh-pnp/test-question/internal/question"
	"github.com/aid-linh-pnp/test-question/internal/sink"
	"github.com/aid-linh-pnp/test-question/internal/testutil"
)

// fullBank builds one question per (skill, seniority, level) cell. The correct
// option is always the one reading "yes", so tests can answer deliberately
// even after shuffling.
func fullBank(skills ...string) []models.QuestionRecord {
	var records []models.QuestionRecord
	for _, skill := range skills {
		for _, sen := range models.Seniorities {
			for level := models.MinLevel; level <= models.MaxLevel; level++ {
				records = append(records, models.QuestionRecord{
					ID:        fmt.Sprintf("%s-%s-%d", skill, sen, level),
					Skill:     skill,
					Seniority: sen,
					Level:     level,
					Text:      fmt.Sprintf("Pick yes (%s %s L%d)", skill, sen, level),
					Options: []models.Option{
						{Text: "yes", IsCorrect: true},
						{Text: "no"},
						{Text: "maybe"},
					},
				})
			}
		}
	}
	return records
}

func newTestServer(t *testing.T, records []models.QuestionRecord) *httptest.Server {
	t.Helper()

	d := testutil.NewTestDB(t)
	repo := question.NewRepository(records, rand.New(rand.NewSource(1)))
	srv := &api.Server{
		Repo:  repo,
		Store: assessment.NewStore(),
		DB:    d,
		Results: sink.Multi(
			sink.Func(d.SaveReport),
			sink.FileSink{Dir: t.TempDir()},
		),
		Plan: config.Plan{
			Skills:           []string{"html", "css"},
			DefaultSeniority: "middle",
			Languages:        map[string]string{"javascript": "js"},
		},
	}

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]json.RawMessage {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type questionView struct {
	ID       string   `json:"id"`
	Skill    string   `json:"skill"`
	Level    int      `json:"level"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func correctIndex(t *testing.T, q questionView) int {
	t.Helper()
	for i, opt := range q.Options {
		if opt == "yes" {
			return i
		}
	}
	t.Fatalf("question %s has no correct option", q.ID)
	return -1
}

type outcomeView struct {
	Skill         string `json:"skill"`
	SkillFinished bool   `json:"skill_finished"`
	AllFinished   bool   `json:"all_finished"`
	Status        struct {
		Finished    bool   `json:"finished"`
		FinalResult string `json:"final_result"`
		Failed      bool   `json:"failed"`
	} `json:"status"`
}

func TestFullAssessmentWalk(t *testing.T) {
	ts := newTestServer(t, fullBank("html", "css"))

	resp, body := postJSON(t, ts.URL+"/assessments", map[string]any{
		"account":   "Alice Doe",
		"seniority": "middle",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var id string
	require.NoError(t, json.Unmarshal(body["id"], &id))
	require.NotEmpty(t, id)

	var q questionView
	require.NoError(t, json.Unmarshal(body["question"], &q))
	assert.Equal(t, "html", q.Skill)
	assert.Equal(t, 3, q.Level, "assessment starts at level 3")
	assert.Len(t, q.Options, 3)

	var finals []string
	for steps := 0; steps < 20; steps++ {
		resp, body = postJSON(t, ts.URL+"/assessments/"+id+"/answer", map[string]any{
			"selected_index": correctIndex(t, q),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out outcomeView
		require.NoError(t, json.Unmarshal(body["outcome"], &out))
		if out.SkillFinished {
			finals = append(finals, out.Status.FinalResult)
			assert.False(t, out.Status.Failed)
		}
		if out.AllFinished {
			break
		}
		require.Contains(t, body, "question", "a running assessment always serves the next question")
		require.NoError(t, json.Unmarshal(body["question"], &q))
	}

	// Four correct answers per skill on the all-correct middle path.
	assert.Equal(t, []string{"LEVELS5", "LEVELS5"}, finals)
	require.Contains(t, body, "report")

	var report models.Report
	require.NoError(t, json.Unmarshal(body["report"], &report))
	assert.Equal(t, "Alice Doe", report.Account)
	require.Len(t, report.Results, 2)
	assert.Len(t, report.Results[0].Answers, 4)

	// Submit persists the report; repeating it is a no-op.
	resp, body = postJSON(t, ts.URL+"/assessments/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, ts.URL+"/assessments/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = getJSON(t, ts.URL+"/results/"+id)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = getJSON(t, ts.URL+"/results?account=Alice+Doe")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var total int
	require.NoError(t, json.Unmarshal(body["total"], &total))
	assert.Equal(t, 1, total)
}

func TestCreateAssessment_Defaults(t *testing.T) {
	ts := newTestServer(t, fullBank("html", "css"))

	// No seniority and no skills: plan defaults apply.
	resp, body := postJSON(t, ts.URL+"/assessments", map[string]any{"account": "bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var seniority string
	require.NoError(t, json.Unmarshal(body["seniority"], &seniority))
	assert.Equal(t, "middle", seniority)

	var skills []string
	require.NoError(t, json.Unmarshal(body["skills"], &skills))
	assert.Equal(t, []string{"html", "css"}, skills)
}

func TestCreateAssessment_Errors(t *testing.T) {
	ts := newTestServer(t, fullBank("html"))

	resp, body := postJSON(t, ts.URL+"/assessments", map[string]any{
		"account":   "bob",
		"seniority": "principal",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "UNKNOWN_SENIORITY")

	resp, body = postJSON(t, ts.URL+"/assessments", map[string]any{
		"seniority": "middle",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "VALIDATION_ERROR")
}

func TestAnswer_Errors(t *testing.T) {
	ts := newTestServer(t, fullBank("html", "css"))

	resp, body := postJSON(t, ts.URL+"/assessments/nope/answer", map[string]any{
		"selected_index": 0,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "NOT_FOUND")

	resp, body = postJSON(t, ts.URL+"/assessments", map[string]any{"account": "bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var id string
	require.NoError(t, json.Unmarshal(body["id"], &id))

	resp, body = postJSON(t, ts.URL+"/assessments/"+id+"/answer", map[string]any{
		"selected_index": 99,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "VALIDATION_ERROR")

	// The run is still answerable after a rejected index.
	resp, _ = postJSON(t, ts.URL+"/assessments/"+id+"/answer", map[string]any{
		"selected_index": 0,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSubmit_BeforeCompletion(t *testing.T) {
	ts := newTestServer(t, fullBank("html", "css"))

	resp, body := postJSON(t, ts.URL+"/assessments", map[string]any{"account": "bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var id string
	require.NoError(t, json.Unmarshal(body["id"], &id))

	resp, body = postJSON(t, ts.URL+"/assessments/"+id+"/submit", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "BAD_REQUEST")
}

func TestGetQuestion_IsIdempotent(t *testing.T) {
	ts := newTestServer(t, fullBank("html", "css"))

	resp, body := postJSON(t, ts.URL+"/assessments", map[string]any{"account": "bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var id string
	require.NoError(t, json.Unmarshal(body["id"], &id))
	var first questionView
	require.NoError(t, json.Unmarshal(body["question"], &first))

	for i := 0; i < 3; i++ {
		resp, body = getJSON(t, ts.URL+"/assessments/"+id+"/question")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var again questionView
		require.NoError(t, json.Unmarshal(body["question"], &again))
		assert.Equal(t, first, again, "pending question does not change between polls")
	}
}

func TestEmptyBankFinishesImmediately(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := postJSON(t, ts.URL+"/assessments", map[string]any{"account": "bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var done bool
	require.NoError(t, json.Unmarshal(body["done"], &done))
	assert.True(t, done)

	var report models.Report
	require.NoError(t, json.Unmarshal(body["report"], &report))
	require.Len(t, report.Results, 2)
	for _, res := range report.Results {
		assert.Equal(t, "NO_QUESTION_AVAILABLE", res.FinalResult)
		assert.True(t, res.Failed)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := getJSON(t, ts.URL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"ok"`, string(body["status"]))
}

func TestResults_Missing(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, _ := getJSON(t, ts.URL+"/results/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

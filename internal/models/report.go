package models

import "time"

// AnswerRecord captures one submitted answer. Appended once per answered
// question, never mutated.
type AnswerRecord struct {
	QuestionID    string `json:"question_id"`
	SelectedIndex int    `json:"selected_index"`
	IsCorrect     bool   `json:"is_correct"`
}

// SkillResult is the terminal outcome of one skill's session.
type SkillResult struct {
	Skill       string         `json:"skill"`
	FinalResult string         `json:"final_result"`
	Failed      bool           `json:"failed"`
	Answers     []AnswerRecord `json:"answer_history"`
}

// Report aggregates the outcomes of a full multi-skill run.
type Report struct {
	ID        string        `json:"id,omitempty"`
	Account   string        `json:"account"`
	Seniority Seniority     `json:"seniority"`
	Skills    []string      `json:"skills"`
	Results   []SkillResult `json:"results"`
	Timestamp time.Time     `json:"timestamp"`
}

// Summary returns the ordered skill → final result mapping.
func (r Report) Summary() map[string]string {
	out := make(map[string]string, len(r.Results))
	for _, res := range r.Results {
		out[res.Skill] = res.FinalResult
	}
	return out
}

// ReportFilter narrows stored report listings.
type ReportFilter struct {
	Account   string
	Seniority string
	Limit     int
	Offset    int
}

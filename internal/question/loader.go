package question

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aid-linh-pnp/test-question/internal/logger"
	"github.com/aid-linh-pnp/test-question/internal/models"
)

// LoadBank reads a JSON question bank from path. The file is a flat array of
// records; see models.QuestionRecord for the field layout. Records failing
// validation are rejected as a whole so a bad bank is caught at startup, not
// mid-assessment.
func LoadBank(path string) ([]models.QuestionRecord, error) {
	log := logger.Default().WithPrefix("questions")
	log.Info("loading question bank: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var records []models.QuestionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	for i, q := range records {
		if err := validateRecord(q); err != nil {
			return nil, fmt.Errorf("question %d (id=%q): %w", i, q.ID, err)
		}
	}

	log.Info("loaded %d questions", len(records))
	return records, nil
}

func validateRecord(q models.QuestionRecord) error {
	if q.ID == "" {
		return fmt.Errorf("missing id")
	}
	if q.Skill == "" {
		return fmt.Errorf("missing skill")
	}
	if !q.Seniority.Valid() {
		return fmt.Errorf("unknown seniority %q", q.Seniority)
	}
	if q.Level < models.MinLevel || q.Level > models.MaxLevel {
		return fmt.Errorf("level %d out of range", q.Level)
	}
	if q.Text == "" {
		return fmt.Errorf("missing question text")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("need at least 2 options, got %d", len(q.Options))
	}
	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("exactly one option must be the answer key, got %d", correct)
	}
	return nil
}

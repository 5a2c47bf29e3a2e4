package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/aid-linh-pnp/test-question/internal/logger"
	"github.com/aid-linh-pnp/test-question/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// SaveReport persists a finalized report with its per-skill outcomes and
// answer histories in one transaction. A report that is already stored under
// the same ID is left untouched, so duplicate submissions are harmless.
func (db *DB) SaveReport(ctx context.Context, report models.Report) error {
	log := logger.FromContext(ctx).WithPrefix("report_store")
	log.Debug("saving report: id=%s account=%s skills=%d", report.ID, report.Account, len(report.Results))

	return tx(ctx, db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
INSERT OR IGNORE INTO assessments (id, account, seniority, created_at)
VALUES (?, ?, ?, ?)
`, report.ID, report.Account, string(report.Seniority), report.Timestamp)
		if err != nil {
			log.Error("failed to insert assessment: %v", err)
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			log.Debug("report %s already stored, skipping", report.ID)
			return nil
		}

		for i, sr := range report.Results {
			res, err := t.ExecContext(ctx, `
INSERT INTO skill_results (assessment_id, position, skill, final_result, failed)
VALUES (?, ?, ?, ?, ?)
`, report.ID, i, sr.Skill, sr.FinalResult, sr.Failed)
			if err != nil {
				log.Error("failed to insert skill result: %v", err)
				return err
			}
			srID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for j, a := range sr.Answers {
				if _, err := t.ExecContext(ctx, `
INSERT INTO answers (skill_result_id, position, question_id, selected_index, is_correct)
VALUES (?, ?, ?, ?, ?)
`, srID, j, a.QuestionID, a.SelectedIndex, a.IsCorrect); err != nil {
					log.Error("failed to insert answer: %v", err)
					return err
				}
			}
		}
		log.Info("report saved: id=%s", report.ID)
		return nil
	})
}

// GetReport loads one stored report with full answer histories. Returns nil
// when the ID is unknown.
func (db *DB) GetReport(ctx context.Context, id string) (*models.Report, error) {
	log := logger.FromContext(ctx).WithPrefix("report_store")

	var report models.Report
	var seniority string
	err := db.QueryRowContext(ctx, `
SELECT id, account, seniority, created_at FROM assessments WHERE id = ?
`, id).Scan(&report.ID, &report.Account, &seniority, &report.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("report not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get report: %v", err)
		return nil, err
	}
	report.Seniority = models.Seniority(seniority)

	results, err := db.loadResults(ctx, id, true)
	if err != nil {
		return nil, err
	}
	report.Results = results
	for _, sr := range results {
		report.Skills = append(report.Skills, sr.Skill)
	}
	return &report, nil
}

// ListReports returns stored reports matching the filter, newest first,
// without answer histories.
func (db *DB) ListReports(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	log := logger.FromContext(ctx).WithPrefix("report_store")

	query := sqlBuilder.
		Select("id", "account", "seniority", "created_at").
		From("assessments").
		OrderBy("created_at DESC")

	if filter.Account != "" {
		query = query.Where(squirrel.Eq{"account": filter.Account})
	}
	if filter.Seniority != "" {
		query = query.Where(squirrel.Eq{"seniority": filter.Seniority})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
		if filter.Offset > 0 {
			query = query.Offset(uint64(filter.Offset))
		}
	} else if filter.Offset > 0 {
		// SQLite refuses OFFSET without LIMIT; -1 means unbounded.
		query = query.Suffix("LIMIT -1 OFFSET ?", filter.Offset)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list reports: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var r models.Report
		var seniority string
		if err := rows.Scan(&r.ID, &r.Account, &seniority, &r.Timestamp); err != nil {
			log.Error("failed to scan report row: %v", err)
			return nil, err
		}
		r.Seniority = models.Seniority(seniority)
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range reports {
		results, err := db.loadResults(ctx, reports[i].ID, false)
		if err != nil {
			return nil, err
		}
		reports[i].Results = results
		for _, sr := range results {
			reports[i].Skills = append(reports[i].Skills, sr.Skill)
		}
	}

	log.Debug("found %d reports", len(reports))
	return reports, nil
}

// CountReports returns how many stored reports match the filter.
func (db *DB) CountReports(ctx context.Context, filter models.ReportFilter) (int, error) {
	query := sqlBuilder.Select("COUNT(*)").From("assessments")
	if filter.Account != "" {
		query = query.Where(squirrel.Eq{"account": filter.Account})
	}
	if filter.Seniority != "" {
		query = query.Where(squirrel.Eq{"seniority": filter.Seniority})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (db *DB) loadResults(ctx context.Context, assessmentID string, withAnswers bool) ([]models.SkillResult, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, skill, final_result, failed FROM skill_results
WHERE assessment_id = ? ORDER BY position
`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.SkillResult
	var ids []int64
	for rows.Next() {
		var sr models.SkillResult
		var id int64
		if err := rows.Scan(&id, &sr.Skill, &sr.FinalResult, &sr.Failed); err != nil {
			return nil, err
		}
		results = append(results, sr)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !withAnswers {
		return results, nil
	}
	for i, id := range ids {
		answers, err := db.loadAnswers(ctx, id)
		if err != nil {
			return nil, err
		}
		results[i].Answers = answers
	}
	return results, nil
}

func (db *DB) loadAnswers(ctx context.Context, skillResultID int64) ([]models.AnswerRecord, error) {
	rows, err := db.QueryContext(ctx, `
SELECT question_id, selected_index, is_correct FROM answers
WHERE skill_result_id = ? ORDER BY position
`, skillResultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []models.AnswerRecord
	for rows.Next() {
		var a models.AnswerRecord
		if err := rows.Scan(&a.QuestionID, &a.SelectedIndex, &a.IsCorrect); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

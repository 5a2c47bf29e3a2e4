package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aid-linh-pnp/test-question/internal/logger"
	"github.com/aid-linh-pnp/test-question/internal/models"
)

// Sink accepts a finalized report exactly once per completed run.
type Sink interface {
	Submit(ctx context.Context, report models.Report) error
}

// Func adapts a function to the Sink interface.
type Func func(ctx context.Context, report models.Report) error

func (f Func) Submit(ctx context.Context, report models.Report) error {
	return f(ctx, report)
}

// Multi fans a report out to several sinks in order and stops at the first
// failure, so a retry resubmits to every sink. Sinks are expected to tolerate
// duplicate submissions.
func Multi(sinks ...Sink) Sink {
	return Func(func(ctx context.Context, report models.Report) error {
		for _, s := range sinks {
			if err := s.Submit(ctx, report); err != nil {
				return err
			}
		}
		return nil
	})
}

// FileSink writes each report as a pretty-printed JSON file under Dir, named
// <account>_<timestamp>.json.
type FileSink struct {
	Dir string
}

func (f FileSink) Submit(ctx context.Context, report models.Report) error {
	log := logger.FromContext(ctx).WithPrefix("file-sink")

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	path := filepath.Join(f.Dir, Filename(report))
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info("report written to %s", path)
	return nil
}

// Filename derives the result file name for a report.
func Filename(report models.Report) string {
	account := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(report.Account), " ", "_"))
	return fmt.Sprintf("%s_%s.json", account, report.Timestamp.Format("20060102_150405"))
}

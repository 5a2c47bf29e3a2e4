package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aid-linh-pnp/test-question/internal/github"
	"github.com/aid-linh-pnp/test-question/internal/models"
	"github.com/aid-linh-pnp/test-question/internal/sink"
)

// PushReportJob mirrors a finalized report to the configured GitHub
// repository. The local store is the system of record; this push is
// best-effort and a failure only shows up in the logs.
type PushReportJob struct {
	Client *github.Client
	Report models.Report
}

func (j *PushReportJob) Name() string {
	return fmt.Sprintf("push-report-%s", j.Report.ID)
}

func (j *PushReportJob) Run(ctx context.Context) error {
	content, err := json.MarshalIndent(j.Report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	path := "results/" + sink.Filename(j.Report)
	message := fmt.Sprintf("Add assessment result for %s", j.Report.Account)
	return j.Client.PushFile(ctx, path, message, content)
}

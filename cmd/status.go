package main

import (
	"context"
	"time"

	"github.com/desertthunder/habsync/internal/models"
	"github.com/urfave/cli/v3"
)

type statusReport struct {
	Remaining int               `json:"rate_remaining"`
	Reset     *time.Time        `json:"rate_reset,omitempty"`
	Runs      []*models.SyncRun `json:"runs,omitempty"`
}

// Status shows the current rate limit state and recent sync history.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	report := statusReport{Remaining: -1}

	if r.gate != nil {
		remaining, reset := r.gate.State().Snapshot()
		report.Remaining = remaining
		if !reset.IsZero() {
			report.Reset = &reset
		}
	}

	if r.history != nil {
		runs, err := r.history.List(int(cmd.Int("limit")))
		if err != nil {
			return err
		}
		report.Runs = runs
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	r.writePlainHeader("habsync status")
	if report.Remaining >= 0 {
		r.writePlain("Rate limit remaining: %d\n", report.Remaining)
	} else {
		r.writePlain("Rate limit remaining: unknown\n")
	}
	if report.Reset != nil {
		r.writePlain("Quota resets at: %s\n", report.Reset.Format(time.RFC3339))
	}

	if r.history == nil {
		r.writePlain("\nNo history database, run 'habsync setup' to create one\n")
		return nil
	}

	if len(report.Runs) == 0 {
		r.writePlain("\nNo sync runs recorded yet\n")
		return nil
	}

	r.writePlainln("Recent syncs:")
	for _, run := range report.Runs {
		outcome := "✓"
		if !run.Success {
			outcome = "✗"
		}
		r.writePlain("  %s %s  habits=%d dailies=%d todos=%d dropped=%d\n",
			outcome, run.StartedAt.Format("2006-01-02 15:04"), run.Habits, run.Dailies, run.Todos, run.Dropped)
		if !run.Success && run.Error != "" {
			r.writePlain("      %s\n", run.Error)
		}
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/habsync/internal/formatter"
	"github.com/desertthunder/habsync/internal/models"
	"github.com/desertthunder/habsync/internal/services"
	"github.com/desertthunder/habsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// TasksList fetches tasks from the API and prints them.
func (r *Runner) TasksList(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: Habitica service not initialized, run 'habsync setup' and add credentials", shared.ErrServiceUnavailable)
	}

	query := services.TaskQuery{}
	if raw := cmd.String("type"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		query.Type = category
	}
	if raw := cmd.String("due-date"); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("%w: due-date must be YYYY-MM-DD: %v", shared.ErrInvalidFlag, err)
		}
		query.DueDate = due
	}

	tasks, err := r.service.FetchTasks(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tasks, cmd.Bool("pretty"))
	}

	if len(tasks) == 0 {
		r.writePlain("No tasks found\n")
		return nil
	}

	today := time.Now()
	for _, task := range tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %-13s %s %s", mark, task.Category, formatter.PriorityGlyph(task.Priority), task.Text)
		if due, ok := task.DueOn(today); ok {
			line += fmt.Sprintf(" (due %s)", due.Format("2006-01-02"))
		}
		r.writePlain("%s\n", line)
	}
	r.writePlain("\n%d tasks\n", len(tasks))

	return nil
}

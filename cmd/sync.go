package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/habsync/internal/formatter"
	"github.com/desertthunder/habsync/internal/repositories"
	"github.com/desertthunder/habsync/internal/shared"
	"github.com/desertthunder/habsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync fetches every task and rewrites the per-category note files.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: Habitica service not initialized, run 'habsync setup' and add credentials", shared.ErrServiceUnavailable)
	}
	if !r.config.Notes.SyncEnabled {
		return fmt.Errorf("%w: note sync is disabled in config (notes.sync_enabled)", shared.ErrInvalidConfig)
	}

	engine := r.engine
	if folder := cmd.String("folder"); folder != "" {
		engine = tasks.NewNoteEngine(tasks.NoteEngineOpts{
			Service:  r.service,
			Hub:      r.hub,
			Folder:   folder,
			Settings: formatter.Settings{Indent: r.config.Notes.Indent, Tag: r.config.Notes.Tag},
			History:  r.recorder(),
			Logger:   r.logger,
		})
	}

	r.logger.Info("starting sync", "folder", r.config.Notes.Folder)
	r.writePlain("Syncing Habitica tasks to notes...\n\n")

	var progressCh chan tasks.ProgressUpdate
	done := make(chan struct{})
	if !cmd.Bool("quiet") {
		progressCh = make(chan tasks.ProgressUpdate, 50)
		go func() {
			defer close(done)
			for update := range progressCh {
				switch update.Phase {
				case tasks.FetchTasks:
					r.writePlain("📥 %s\n", update.Message)
				case tasks.ClassifyTasks:
					r.writePlain("🗂  %s\n", update.Message)
				case tasks.WriteNotes:
					r.writePlain("   %s\n", update.Message)
				}
			}
		}()
	} else {
		close(done)
	}

	result, err := engine.SyncAll(ctx, progressCh)
	if progressCh != nil {
		close(progressCh)
	}
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete!")
	r.writePlain("Tasks synced: %d\n", result.Collection.Total())
	if result.Dropped > 0 {
		r.writePlain("Dropped %d tasks with unrecognized categories\n", result.Dropped)
	}
	r.writePlain("Notes written:\n")
	for _, path := range result.Written {
		r.writePlain("  - %s\n", path)
	}

	return nil
}

func (r *Runner) recorder() tasks.HistoryRecorder {
	if r.history == nil {
		return nil
	}
	return repositories.NewHistory(r.history)
}

// package tasks implements the sync pipeline from the Habitica API to
// markdown notes on disk.
//
// The core abstraction is SyncEngine, which orchestrates the fetch,
// classify, and render steps. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/habsync/internal/events"
	"github.com/desertthunder/habsync/internal/formatter"
	"github.com/desertthunder/habsync/internal/models"
	"github.com/desertthunder/habsync/internal/services"
	"github.com/desertthunder/habsync/internal/shared"
)

// SyncResult contains all data from a full sync operation.
type SyncResult struct {
	Collection models.TaskCollection // Tasks bucketed by category
	Dropped    int                   // Tasks discarded for unknown categories
	Written    []string              // Note file paths written, in category order
	Run        *models.SyncRun       // Recorded run metadata
}

// SyncEngine defines operations for reconciling remote tasks into notes.
type SyncEngine interface {
	// SyncAll fetches every task, classifies it, and overwrites the
	// per-category note files. Progress updates are sent through the
	// optional channel.
	SyncAll(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error)
	// Refresh fetches every task and publishes category events without
	// touching the notes folder.
	Refresh(ctx context.Context) ([]models.Task, error)
}

// HistoryRecorder persists sync run outcomes. Recording failures are
// logged by the engine and never abort a sync.
type HistoryRecorder interface {
	RecordRun(run *models.SyncRun) error
}

// NoteEngine implements SyncEngine against a task service, publishing
// through an event hub and rendering notes into a folder.
type NoteEngine struct {
	service  services.Service
	hub      *events.Hub
	folder   string
	settings formatter.Settings
	history  HistoryRecorder
	logger   *log.Logger
	now      func() time.Time
}

// NoteEngineOpts configures NewNoteEngine. Service, Hub, and Folder are
// required; the rest default sensibly.
type NoteEngineOpts struct {
	Service  services.Service
	Hub      *events.Hub
	Folder   string
	Settings formatter.Settings
	History  HistoryRecorder
	Logger   *log.Logger
	Now      func() time.Time
}

func NewNoteEngine(opts NoteEngineOpts) *NoteEngine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	hub := opts.Hub
	if hub == nil {
		hub = events.NewHub()
	}
	return &NoteEngine{
		service:  opts.Service,
		hub:      hub,
		folder:   opts.Folder,
		settings: opts.Settings,
		history:  opts.History,
		logger:   opts.Logger,
		now:      now,
	}
}

// Hub returns the event hub sync operations publish through.
func (e *NoteEngine) Hub() *events.Hub { return e.hub }

// sendProgress sends a progress update through the channel without blocking.
// If the channel is nil or full, the update is dropped.
func (e *NoteEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SyncAll runs the full pipeline. Note listeners are silenced for the
// duration so the write below is the only projection of this batch;
// other listener groups still observe the category events. Nothing is
// written unless the fetch succeeds in full, and categories with no
// tasks produce no note file.
func (e *NoteEngine) SyncAll(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: no task service configured", shared.ErrServiceUnavailable)
	}
	run := &models.SyncRun{ID: shared.GenerateID(), StartedAt: e.now()}
	result, err := e.syncAll(ctx, progress, run)
	run.FinishedAt = e.now()
	run.Success = err == nil
	if err != nil {
		run.Error = err.Error()
	}
	e.record(run)
	if result != nil {
		result.Run = run
	}
	return result, err
}

func (e *NoteEngine) syncAll(ctx context.Context, progress chan<- ProgressUpdate, run *models.SyncRun) (*SyncResult, error) {
	e.sendProgress(progress, fetchTasksUpdate(1, 3))

	var fetched []models.Task
	err := e.hub.RunAllSuspended(ctx, events.GroupNotes, func(ctx context.Context) error {
		tasks, err := e.service.FetchTasks(ctx, services.TaskQuery{})
		if err != nil {
			return err
		}
		fetched = tasks
		return e.hub.EmitByCategory(tasks)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	e.sendProgress(progress, fetchedTasksUpdate(1, 3, len(fetched)))

	collection, dropped := Classify(fetched, e.logger)
	run.Dropped = dropped
	for _, category := range models.Categories() {
		run.SetCount(category, len(collection[category]))
	}
	e.sendProgress(progress, classifyTasksUpdate(2, 3, collection))

	if err := e.ensureFolder(); err != nil {
		return nil, err
	}

	today := e.now()
	result := &SyncResult{Collection: collection, Dropped: dropped}
	persisted := persistedCategories()
	for i, category := range persisted {
		bucket := collection[category]
		if len(bucket) == 0 {
			continue
		}
		e.sendProgress(progress, writeNoteUpdate(i+1, len(persisted), formatter.NoteFilename(category), len(bucket)))
		content := formatter.RenderNote(bucket, e.settings, today)
		path, err := formatter.WriteNote(e.folder, category, content)
		if err != nil {
			return result, fmt.Errorf("writing %s: %w", formatter.NoteFilename(category), err)
		}
		result.Written = append(result.Written, path)
	}
	return result, nil
}

// Refresh fetches tasks and publishes them with every listener group
// active. Used by the live panel to repopulate without rewriting notes.
func (e *NoteEngine) Refresh(ctx context.Context) ([]models.Task, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: no task service configured", shared.ErrServiceUnavailable)
	}
	tasks, err := e.service.FetchTasks(ctx, services.TaskQuery{})
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	if err := e.hub.EmitByCategory(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ensureFolder creates the notes folder if it is missing. A file
// occupying the path is fatal before any note is written.
func (e *NoteEngine) ensureFolder() error {
	info, err := os.Stat(e.folder)
	if errors.Is(err, os.ErrNotExist) {
		return os.MkdirAll(e.folder, 0755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", shared.ErrStorageConflict, e.folder)
	}
	return nil
}

func (e *NoteEngine) record(run *models.SyncRun) {
	if e.history == nil {
		return
	}
	if err := e.history.RecordRun(run); err != nil && e.logger != nil {
		e.logger.Warn("failed to record sync run", "run", run.ID, "error", err)
	}
}

func persistedCategories() []models.Category {
	var out []models.Category
	for _, category := range models.Categories() {
		if category.Persisted() {
			out = append(out, category)
		}
	}
	return out
}

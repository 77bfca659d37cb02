package ui

import (
	"github.com/desertthunder/habsync/internal/events"
	"github.com/desertthunder/habsync/internal/models"
	"github.com/desertthunder/habsync/internal/tasks"
)

// tasksUpdatedMsg carries a hub event into the Elm loop.
type tasksUpdatedMsg struct {
	kind  events.Kind
	tasks []models.Task
}

// refreshDoneMsg reports the outcome of a manual refresh.
type refreshDoneMsg struct {
	err error
}

// progressUpdateMsg carries one engine progress update.
type progressUpdateMsg tasks.ProgressUpdate

// syncCompleteMsg reports the outcome of a full sync.
type syncCompleteMsg struct {
	result *tasks.SyncResult
	err    error
}

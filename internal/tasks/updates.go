package tasks

import (
	"fmt"

	"github.com/desertthunder/habsync/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTasks Phase = iota
	ClassifyTasks
	WriteNotes
	RecordHistory
)

func (p Phase) String() string {
	switch p {
	case FetchTasks:
		return "fetch_tasks"
	case ClassifyTasks:
		return "classify_tasks"
	case WriteNotes:
		return "write_notes"
	case RecordHistory:
		return "record_history"
	default:
		return ""
	}
}

func fetchTasksUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTasks,
		Step:    step,
		Total:   total,
		Message: "Fetching tasks from Habitica...",
	}
}

func fetchedTasksUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTasks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetched %d tasks", count),
	}
}

func classifyTasksUpdate(step, total int, collection models.TaskCollection) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClassifyTasks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Classified %d tasks", collection.Total()),
		Data:    collection,
	}
}

func writeNoteUpdate(step, total int, filename string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteNotes,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Writing %s (%d tasks)...", step, total, filename, count),
	}
}

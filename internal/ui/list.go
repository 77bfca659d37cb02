package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/habsync/internal/formatter"
	"github.com/desertthunder/habsync/internal/models"
)

var _ list.Item = taskItem{}

// taskItem wraps [models.Task] to implement [list.Item].
type taskItem struct {
	task models.Task
}

func (i taskItem) FilterValue() string { return i.task.Text }

func (i taskItem) Title() string {
	if i.task.Completed {
		return "✓ " + i.task.Text
	}
	return i.task.Text
}

func (i taskItem) Description() string {
	parts := []string{formatter.PriorityGlyph(i.task.Priority)}
	if due, ok := i.task.DueOn(today()); ok {
		parts = append(parts, due.Format("2006-01-02"))
	}
	if len(i.task.Checklist) > 0 {
		done := 0
		for _, item := range i.task.Checklist {
			if item.Completed {
				done++
			}
		}
		parts = append(parts, checklistSummary(done, len(i.task.Checklist)))
	}
	return strings.Join(parts, " • ")
}

func checklistSummary(done, total int) string {
	return fmt.Sprintf("%d/%d done", done, total)
}

// today is swapped out in tests for deterministic due dates.
var today = func() time.Time { return time.Now() }

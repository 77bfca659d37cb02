// package models defines the data model for the habsync client
package models

import (
	"fmt"
	"time"
)

// Category enumerates the five task kinds the remote service can return.
type Category string

const (
	CategoryHabit     Category = "habit"
	CategoryDaily     Category = "daily"
	CategoryTodo      Category = "todo"
	CategoryReward    Category = "reward"
	CategoryCompleted Category = "completedTodo"
)

// Categories returns all known categories in their fixed display order.
func Categories() []Category {
	return []Category{CategoryHabit, CategoryDaily, CategoryTodo, CategoryReward, CategoryCompleted}
}

// ParseCategory validates a raw category string from the API.
// Unknown values return an error so callers can drop the task with a warning.
func ParseCategory(raw string) (Category, error) {
	switch c := Category(raw); c {
	case CategoryHabit, CategoryDaily, CategoryTodo, CategoryReward, CategoryCompleted:
		return c, nil
	default:
		return "", fmt.Errorf("unknown task category %q", raw)
	}
}

// Persisted reports whether tasks of this category are written to note files.
// Rewards and completed todos are fetched but never persisted.
func (c Category) Persisted() bool {
	switch c {
	case CategoryReward, CategoryCompleted:
		return false
	default:
		return true
	}
}

// QueryValue returns the value the API expects for the `type` query parameter.
func (c Category) QueryValue() string {
	switch c {
	case CategoryHabit:
		return "habits"
	case CategoryDaily:
		return "dailys"
	case CategoryTodo:
		return "todos"
	case CategoryReward:
		return "rewards"
	case CategoryCompleted:
		return "completedTodos"
	default:
		return ""
	}
}

func (c Category) String() string { return string(c) }

// ChecklistItem is one entry in a task's ordered checklist.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task represents one remote work item.
//
// Priority is kept as the raw float the API sent; it is expected in [0,3] but
// may arrive out of range and is clamped at render time, never rejected.
type Task struct {
	ID        string          `json:"id"`
	Category  Category        `json:"type"`
	Text      string          `json:"text"`
	Notes     string          `json:"notes,omitempty"`
	Completed bool            `json:"completed"`
	Priority  float64         `json:"priority"`
	DueDate   *time.Time      `json:"date,omitempty"`
	NextDue   []time.Time     `json:"nextDue,omitempty"`
	Checklist []ChecklistItem `json:"checklist,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
}

// DueOn resolves the date a task should be presented as due on.
//
// Dailies are always due today. Todos prefer the earliest entry of NextDue
// and fall back to the direct due date. Every other category has no due date.
func (t Task) DueOn(today time.Time) (time.Time, bool) {
	switch t.Category {
	case CategoryDaily:
		return today, true
	case CategoryTodo:
		if len(t.NextDue) > 0 {
			earliest := t.NextDue[0]
			for _, due := range t.NextDue[1:] {
				if due.Before(earliest) {
					earliest = due
				}
			}
			return earliest, true
		}
		if t.DueDate != nil {
			return *t.DueDate, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// TaskCollection maps every known category to its ordered task list.
// Every known category key is always present, possibly with an empty list.
type TaskCollection map[Category][]Task

// NewTaskCollection returns a collection with a bucket for each known category.
func NewTaskCollection() TaskCollection {
	tc := make(TaskCollection, len(Categories()))
	for _, c := range Categories() {
		tc[c] = []Task{}
	}
	return tc
}

// Total counts the tasks across all buckets.
func (tc TaskCollection) Total() int {
	n := 0
	for _, tasks := range tc {
		n += len(tasks)
	}
	return n
}

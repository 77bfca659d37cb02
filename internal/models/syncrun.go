package models

import (
	"fmt"
	"time"
)

// SyncRun records the outcome of a single full sync for the history log.
//
// Runs are append-only; a failed fetch still produces a row so the status
// command can show why nothing was written.
type SyncRun struct {
	ID         string
	Sequence   int
	StartedAt  time.Time
	FinishedAt time.Time
	Habits     int
	Dailies    int
	Todos      int
	Rewards    int
	Completed  int
	Dropped    int
	Success    bool
	Error      string
}

// CountFor returns the recorded task count for the given category.
func (r *SyncRun) CountFor(c Category) int {
	switch c {
	case CategoryHabit:
		return r.Habits
	case CategoryDaily:
		return r.Dailies
	case CategoryTodo:
		return r.Todos
	case CategoryReward:
		return r.Rewards
	case CategoryCompleted:
		return r.Completed
	default:
		return 0
	}
}

// SetCount records the task count for the given category.
func (r *SyncRun) SetCount(c Category, n int) {
	switch c {
	case CategoryHabit:
		r.Habits = n
	case CategoryDaily:
		r.Dailies = n
	case CategoryTodo:
		r.Todos = n
	case CategoryReward:
		r.Rewards = n
	case CategoryCompleted:
		r.Completed = n
	}
}

// Validate checks the run is complete enough to persist.
func (r *SyncRun) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("sync run missing id")
	}
	if r.StartedAt.IsZero() {
		return fmt.Errorf("sync run missing start time")
	}
	if !r.Success && r.Error == "" {
		return fmt.Errorf("failed sync run missing error text")
	}
	return nil
}

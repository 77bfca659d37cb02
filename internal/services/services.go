// package services defines interface Service for interacting with the remote task API
package services

import (
	"context"
	"time"

	"github.com/desertthunder/habsync/internal/models"
)

// Service defines the interface for the remote task-tracking provider.
type Service interface {
	// FetchTasks retrieves the user's tasks, optionally narrowed by query.
	// The zero query fetches everything the account has.
	FetchTasks(ctx context.Context, query TaskQuery) ([]models.Task, error)

	// Name returns the name of the service (e.g., "Habitica")
	Name() string
}

// TaskQuery narrows a task fetch. Zero values mean "no filter".
type TaskQuery struct {
	Type    models.Category // maps to the `type` query parameter
	DueDate time.Time       // maps to the `dueDate` query parameter
}

// IsZero reports whether the query applies no filters.
func (q TaskQuery) IsZero() bool {
	return q.Type == "" && q.DueDate.IsZero()
}

// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"
)

// Repository defines the persistence operations for pending notification tasks.
type Repository interface {
	// Create persists the task and fills in ID and CreatedAt.
	Create(ctx context.Context, task *Task) error
	// DeleteByID removes a task. Deleting an id that does not exist is a no-op.
	DeleteByID(ctx context.Context, id int64) error
	// FindByClock returns all tasks whose clock equals the given minute.
	FindByClock(ctx context.Context, clock time.Time) ([]*Task, error)
}

// internal/domain/notification/task.go
package notification

import "time"

// Task is a pending reminder for a chat.
// Corresponds to the 'notification_tasks' table. The record's existence is the pending state:
// a delivered task is deleted, never updated.
type Task struct {
	ID        int64     // assigned by the repository on Create
	ChatID    int64     // destination chat
	Text      string    // what to remind about
	Clock     time.Time // minute precision, matched exactly by the delivery job
	CreatedAt time.Time
}

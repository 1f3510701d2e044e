// internal/infra/database/postgres_task_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"task_reminder_bot/internal/domain/notification"
	"time"
)

type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *notification.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	task.Clock = task.Clock.Truncate(time.Minute)

	query := `INSERT INTO notification_tasks (chat_id, task_text, task_clock)
               VALUES ($1, $2, $3)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, task.ChatID, task.Text, task.Clock).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification task: %w", err)
	}
	return nil
}

// DeleteByID does not check the affected row count: a task that is already gone is not an error.
func (r *PostgresTaskRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM notification_tasks WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error deleting notification task %d: %w", id, err)
	}
	return nil
}

func (r *PostgresTaskRepository) FindByClock(ctx context.Context, clock time.Time) ([]*notification.Task, error) {
	query := `SELECT id, chat_id, task_text, task_clock, created_at
               FROM notification_tasks
               WHERE task_clock = $1
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, clock.Truncate(time.Minute))
	if err != nil {
		return nil, fmt.Errorf("error querying notification tasks by clock: %w", err)
	}
	defer rows.Close()

	tasks := make([]*notification.Task, 0)
	for rows.Next() {
		t := &notification.Task{}
		if err := rows.Scan(&t.ID, &t.ChatID, &t.Text, &t.Clock, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification task rows: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) Close() error {
	return r.db.Close()
}

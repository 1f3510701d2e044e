package database

import (
	"context"
	"fmt"
	"task_reminder_bot/internal/domain/notification"
	"time"

	"github.com/jmoiron/sqlx"
)

// sqliteTaskRow mirrors notification_tasks; times are unix seconds.
type sqliteTaskRow struct {
	ID        int64  `db:"id"`
	ChatID    int64  `db:"chat_id"`
	Text      string `db:"task_text"`
	Clock     int64  `db:"task_clock"`
	CreatedAt int64  `db:"created_at"`
}

func (row sqliteTaskRow) toTask(loc *time.Location) *notification.Task {
	return &notification.Task{
		ID:        row.ID,
		ChatID:    row.ChatID,
		Text:      row.Text,
		Clock:     time.Unix(row.Clock, 0).In(loc),
		CreatedAt: time.Unix(row.CreatedAt, 0).In(loc),
	}
}

// SQLiteTaskRepository is a single-file task store for deployments without Postgres.
type SQLiteTaskRepository struct {
	db       *sqlx.DB
	location *time.Location
	now      func() time.Time
}

// NewSQLiteTaskRepository returns a repository reporting times in loc (time.Local if nil).
func NewSQLiteTaskRepository(db *sqlx.DB, loc *time.Location) *SQLiteTaskRepository {
	if loc == nil {
		loc = time.Local
	}
	return &SQLiteTaskRepository{db: db, location: loc, now: time.Now}
}

func (r *SQLiteTaskRepository) Create(ctx context.Context, task *notification.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	task.Clock = task.Clock.Truncate(time.Minute)
	createdAt := r.now()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notification_tasks (chat_id, task_text, task_clock, created_at) VALUES (?, ?, ?, ?)`,
		task.ChatID, task.Text, task.Clock.Unix(), createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("error creating notification task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading notification task id: %w", err)
	}

	task.ID = id
	task.CreatedAt = time.Unix(createdAt.Unix(), 0).In(r.location)
	return nil
}

// DeleteByID is idempotent. AUTOINCREMENT keeps ids from being reused, so a repeated
// delete can never hit a newer task.
func (r *SQLiteTaskRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notification_tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting notification task %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteTaskRepository) FindByClock(ctx context.Context, clock time.Time) ([]*notification.Task, error) {
	var rows []sqliteTaskRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, chat_id, task_text, task_clock, created_at
		 FROM notification_tasks
		 WHERE task_clock = ?
		 ORDER BY id`,
		clock.Truncate(time.Minute).Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("error querying notification tasks by clock: %w", err)
	}

	tasks := make([]*notification.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toTask(r.location))
	}
	return tasks, nil
}

func (r *SQLiteTaskRepository) Close() error {
	return r.db.Close()
}

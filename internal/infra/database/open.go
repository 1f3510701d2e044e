package database

import (
	"context"
	"errors"
	"fmt"
	"task_reminder_bot/internal/domain/notification"
	"time"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// TaskStore is a notification.Repository that owns its connection.
type TaskStore interface {
	notification.Repository
	Close() error
}

// OpenTaskStore connects to the configured driver, applies the schema and returns the
// repository. dsn is a Postgres connection string or a SQLite file path.
func OpenTaskStore(ctx context.Context, driver, dsn string, loc *time.Location) (TaskStore, error) {
	switch driver {
	case "postgres":
		db, err := NewPostgresConnection(dsn)
		if err != nil {
			return nil, err
		}
		if err := ApplySchema(ctx, db, driver); err != nil {
			db.Close()
			return nil, err
		}
		return NewPostgresTaskRepository(db), nil
	case "sqlite":
		db, err := NewSQLiteConnection(dsn)
		if err != nil {
			return nil, err
		}
		if err := ApplySchema(ctx, db.DB, driver); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLiteTaskRepository(db, loc), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

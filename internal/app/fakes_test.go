package app

import (
	"context"
	"errors"
	"sync"
	"task_reminder_bot/internal/domain/notification"
	"time"
)

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeClient struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (c *fakeClient) SendMessage(_ context.Context, chatID int64, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMessage{ChatID: chatID, Text: text})
	return c.err
}

func (c *fakeClient) messages() []sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentMessage(nil), c.sent...)
}

var errStoreDown = errors.New("store is down")

// fakeRepo is an in-memory notification.Repository with injectable failures.
type fakeRepo struct {
	mu        sync.Mutex
	nextID    int64
	tasks     map[int64]*notification.Task
	deleted   []int64
	createErr error
	findErr   error
	deleteErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tasks: map[int64]*notification.Task{}}
}

func (r *fakeRepo) Create(_ context.Context, task *notification.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	task.ID = r.nextID
	task.Clock = task.Clock.Truncate(time.Minute)
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeRepo) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeRepo) FindByClock(_ context.Context, clock time.Time) ([]*notification.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var found []*notification.Task
	for _, t := range r.tasks {
		if t.Clock.Equal(clock) {
			stored := *t
			found = append(found, &stored)
		}
	}
	return found, nil
}

func (r *fakeRepo) add(chatID int64, text string, clock time.Time) int64 {
	task := &notification.Task{ChatID: chatID, Text: text, Clock: clock}
	_ = r.Create(context.Background(), task)
	return task.ID
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func (r *fakeRepo) has(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[id]
	return ok
}

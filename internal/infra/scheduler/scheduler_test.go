package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"task_reminder_bot/internal/app"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDelivery struct {
	mu       sync.Mutex
	calls    []time.Time
	deadline bool
	release  chan struct{}
	started  chan struct{}
	err      error
}

func (d *fakeDelivery) DeliverDue(ctx context.Context, now time.Time) (app.DeliveryReport, error) {
	d.mu.Lock()
	d.calls = append(d.calls, now)
	_, d.deadline = ctx.Deadline()
	d.mu.Unlock()

	if d.started != nil {
		d.started <- struct{}{}
	}
	if d.release != nil {
		<-d.release
	}
	return app.DeliveryReport{Clock: now.Truncate(time.Minute)}, d.err
}

func (d *fakeDelivery) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func newTestScheduler(t *testing.T, delivery app.NotificationDelivery, spec string) (*DeliveryScheduler, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewDeliveryScheduler(delivery, logrus.NewEntry(logger), time.UTC, spec, time.Minute), hook
}

func TestRunOncePassesClockAndTimeout(t *testing.T) {
	delivery := &fakeDelivery{}
	s, _ := newTestScheduler(t, delivery, "* * * * *")
	tickAt := time.Date(2022, 1, 1, 20, 0, 7, 0, time.UTC)
	s.now = func() time.Time { return tickAt }

	require.True(t, s.RunOnce(context.Background()))

	require.Equal(t, 1, delivery.callCount())
	assert.True(t, delivery.calls[0].Equal(tickAt))
	assert.True(t, delivery.deadline)
}

func TestRunOnceSkipsWhileTickInProgress(t *testing.T) {
	delivery := &fakeDelivery{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s, hook := newTestScheduler(t, delivery, "* * * * *")

	done := make(chan bool)
	go func() { done <- s.RunOnce(context.Background()) }()
	<-delivery.started

	assert.False(t, s.RunOnce(context.Background()))
	assert.Equal(t, "Previous delivery tick is still running. Skipping.", hook.LastEntry().Message)

	close(delivery.release)
	assert.True(t, <-done)
	assert.Equal(t, 1, delivery.callCount())
}

func TestRunOnceLogsDeliveryError(t *testing.T) {
	delivery := &fakeDelivery{err: errors.New("store is down")}
	s, hook := newTestScheduler(t, delivery, "* * * * *")

	assert.True(t, s.RunOnce(context.Background()))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "Delivery tick failed", hook.LastEntry().Message)
	assert.NotEmpty(t, hook.LastEntry().Data["tick_id"])
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s, _ := newTestScheduler(t, &fakeDelivery{}, "every now and then")

	require.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	delivery := &fakeDelivery{}
	s, _ := newTestScheduler(t, delivery, "@every 1s")

	require.NoError(t, s.Start())
	assert.Eventually(t, func() bool { return delivery.callCount() > 0 }, 5*time.Second, 50*time.Millisecond)
	s.Stop()
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"task_reminder_bot/internal/app" // For NotificationDelivery interface
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DeliveryScheduler fires the delivery job on a cron cadence. Ticks never overlap:
// a tick that starts while the previous one is still sending is skipped.
type DeliveryScheduler struct {
	cronEngine  *cron.Cron
	delivery    app.NotificationDelivery
	logger      *logrus.Entry
	location    *time.Location
	cronSpec    string // e.g., "* * * * *" (every minute, at second 0)
	tickTimeout time.Duration

	running sync.Mutex
	now     func() time.Time
}

func NewDeliveryScheduler(
	delivery app.NotificationDelivery,
	logger *logrus.Entry,
	location *time.Location,
	cronSpec string,
	tickTimeout time.Duration,
) *DeliveryScheduler {
	if location == nil {
		location = time.Local
	}
	cronLogger := cron.PrintfLogger(logger)
	return &DeliveryScheduler{
		cronEngine: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		delivery:    delivery,
		logger:      logger,
		location:    location,
		cronSpec:    cronSpec,
		tickTimeout: tickTimeout,
		now:         time.Now,
	}
}

func (s *DeliveryScheduler) Start() error {
	s.logger.WithField("cron_spec", s.cronSpec).Info("Starting delivery scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("could not add delivery cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Info("Delivery scheduler started.")
	return nil
}

// RunOnce executes a single tick. It reports false when another tick was still in
// progress and this one was skipped.
func (s *DeliveryScheduler) RunOnce(ctx context.Context) bool {
	if !s.running.TryLock() {
		s.logger.Warn("Previous delivery tick is still running. Skipping.")
		return false
	}
	defer s.running.Unlock()

	now := s.now().In(s.location)
	logCtx := s.logger.WithFields(logrus.Fields{
		"tick_id": uuid.NewString(),
		"tick_at": now.Format(time.RFC3339),
	})

	if s.tickTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.tickTimeout)
		defer cancel()
	}

	started := time.Now()
	report, err := s.delivery.DeliverDue(ctx, now)
	if err != nil {
		logCtx.WithError(err).Error("Delivery tick failed")
		return true
	}

	entry := logCtx.WithFields(logrus.Fields{
		"task_clock":    report.Clock.Format(app.DateTimeLayout),
		"matched":       report.Matched,
		"sent":          report.Sent,
		"send_failed":   report.SendFailed,
		"deleted":       report.Deleted,
		"delete_failed": report.DeleteFailed,
		"took":          time.Since(started).String(),
	})
	if report.Matched == 0 {
		entry.Debug("Delivery tick finished, nothing due")
	} else {
		entry.Info("Delivery tick finished")
	}
	return true
}

func (s *DeliveryScheduler) Stop() {
	s.logger.Info("Stopping delivery scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Delivery scheduler gracefully stopped.")
}

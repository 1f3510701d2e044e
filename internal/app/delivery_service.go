// internal/app/delivery_service.go
package app

import (
	"context"
	"fmt"
	"task_reminder_bot/internal/domain/notification"
	domainTelegram "task_reminder_bot/internal/domain/telegram"
	"time"

	"github.com/sirupsen/logrus"
)

// NotificationDelivery is what the scheduler runs on every tick.
type NotificationDelivery interface {
	// DeliverDue sends and deletes every task scheduled for the minute containing now.
	DeliverDue(ctx context.Context, now time.Time) (DeliveryReport, error)
}

// DeliveryReport summarizes one tick.
type DeliveryReport struct {
	Clock        time.Time
	Matched      int
	Sent         int
	SendFailed   int
	Deleted      int
	DeleteFailed int
}

// DeliveryService implements NotificationDelivery.
//
// Delivery is at-most-once: a task is deleted after its send attempt whether or not the
// send succeeded, and nothing is retried. A task whose minute is never matched by a tick
// stays in the store untouched.
type DeliveryService struct {
	taskRepo       notification.Repository
	telegramClient domainTelegram.Client
	logger         *logrus.Entry
}

func NewDeliveryService(
	taskRepo notification.Repository,
	telegramClient domainTelegram.Client,
	logger *logrus.Entry,
) *DeliveryService {
	return &DeliveryService{
		taskRepo:       taskRepo,
		telegramClient: telegramClient,
		logger:         logger,
	}
}

func (s *DeliveryService) DeliverDue(ctx context.Context, now time.Time) (DeliveryReport, error) {
	clock := now.Truncate(time.Minute)
	report := DeliveryReport{Clock: clock}

	tasks, err := s.taskRepo.FindByClock(ctx, clock)
	if err != nil {
		return report, fmt.Errorf("failed to find tasks for %s: %w", clock.Format(DateTimeLayout), err)
	}
	report.Matched = len(tasks)

	for _, task := range tasks {
		logCtx := s.logger.WithFields(logrus.Fields{
			"task_id": task.ID,
			"chat_id": task.ChatID,
		})

		if err := s.telegramClient.SendMessage(ctx, task.ChatID, task.Text); err != nil {
			report.SendFailed++
			logCtx.WithError(err).Error("Failed to send notification, it will not be retried")
		} else {
			report.Sent++
			logCtx.Info("Message has been sent")
		}

		if err := s.taskRepo.DeleteByID(ctx, task.ID); err != nil {
			report.DeleteFailed++
			logCtx.WithError(err).Error("Failed to delete notification task")
			continue
		}
		report.Deleted++
	}

	return report, nil
}

// internal/app/intake_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"task_reminder_bot/internal/domain/notification"
	domainTelegram "task_reminder_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// IntakeService turns inbound chat messages into pending notification tasks.
// Every handled message produces exactly one reply: welcome, error or confirmation.
type IntakeService struct {
	parser         *MessageParser
	taskRepo       notification.Repository
	telegramClient domainTelegram.Client
	logger         *logrus.Entry
}

func NewIntakeService(
	parser *MessageParser,
	taskRepo notification.Repository,
	telegramClient domainTelegram.Client,
	logger *logrus.Entry,
) *IntakeService {
	return &IntakeService{
		parser:         parser,
		taskRepo:       taskRepo,
		telegramClient: telegramClient,
		logger:         logger,
	}
}

// HandleMessage processes one inbound message. The returned error is non-nil only when
// the task could not be persisted; the user has already been told in that case.
func (s *IntakeService) HandleMessage(ctx context.Context, chatID int64, text string) error {
	logCtx := s.logger.WithField("chat_id", chatID)

	if text == "" {
		logCtx.Debug("Ignoring message without text")
		return nil
	}

	if text == StartCommand {
		logCtx.Info("Processing /start command")
		s.reply(ctx, logCtx, chatID, WelcomeMessage)
		return nil
	}

	reminder, err := s.parser.Parse(text)
	if err != nil {
		if errors.Is(err, ErrDateFormatMismatch) {
			logCtx.WithError(err).Warn("Could not parse reminder date")
			s.reply(ctx, logCtx, chatID, InvalidDateFormatMessage)
			return nil
		}
		logCtx.WithError(err).Warn("Message does not match reminder format")
		s.reply(ctx, logCtx, chatID, InvalidCharactersMessage)
		return nil
	}

	task := &notification.Task{
		ChatID: chatID,
		Text:   reminder.Text,
		Clock:  reminder.Clock,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		logCtx.WithError(err).Error("Failed to save notification task")
		s.reply(ctx, logCtx, chatID, StoreFailureMessage)
		return fmt.Errorf("failed to save notification task for chat %d: %w", chatID, err)
	}

	logCtx.WithFields(logrus.Fields{
		"task_id":    task.ID,
		"task_clock": task.Clock.Format(DateTimeLayout),
	}).Info("Task has been saved")
	s.reply(ctx, logCtx, chatID, TaskAddedMessage)
	return nil
}

// reply is fire-and-forget: a failed send is logged and never undoes what was already done.
func (s *IntakeService) reply(ctx context.Context, logCtx *logrus.Entry, chatID int64, text string) {
	if err := s.telegramClient.SendMessage(ctx, chatID, text); err != nil {
		logCtx.WithError(err).Warn("Failed to send reply")
	}
}

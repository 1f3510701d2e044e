// internal/infra/telegram/intake_handlers.go
package telegram

import (
	"context"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// MessageHandler receives the text of every inbound message, commands included.
type MessageHandler interface {
	HandleMessage(ctx context.Context, chatID int64, text string) error
}

// RegisterIntakeHandlers routes all text messages to the handler. Updates without text
// (stickers, photos, joins) never reach OnText and get no response.
func RegisterIntakeHandlers(ctx context.Context, b *telebot.Bot, handler MessageHandler, baseLogger *logrus.Entry) {
	intakeLogger := baseLogger.WithField("handler_group", "intake")

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		chat := c.Chat()
		if chat == nil {
			return nil
		}

		intakeLogger.WithFields(logrus.Fields{
			"update_id": c.Update().ID,
			"chat_id":   chat.ID,
		}).Debug("Processing update")

		return handler.HandleMessage(ctx, chat.ID, c.Text())
	})
}

// ErrorHandler is the bot-wide OnError hook: it logs errors returned by handlers.
func ErrorHandler(baseLogger *logrus.Entry) func(error, telebot.Context) {
	return func(err error, c telebot.Context) {
		logCtx := baseLogger.WithError(err)
		if c != nil && c.Chat() != nil {
			logCtx = logCtx.WithField("chat_id", c.Chat().ID)
		}
		logCtx.Error("Telegram handler failed")
	}
}

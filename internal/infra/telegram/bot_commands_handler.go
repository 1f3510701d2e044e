// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// BotCommands is the menu shown by Telegram clients. Only /start exists; the
// command itself is answered by the intake handler like any other text.
var BotCommands = []telebot.Command{
	{Text: "start", Description: "Как добавить напоминание"},
}

// PublishBotCommands replaces the bot's command menu. A failure leaves the bot
// fully usable, so callers usually log it and carry on.
func PublishBotCommands(b *telebot.Bot, baseLogger *logrus.Entry) error {
	logCtx := baseLogger.WithField("handler_group", "commands")

	if err := b.SetCommands(BotCommands); err != nil {
		return fmt.Errorf("failed to publish bot commands: %w", err)
	}

	logCtx.WithField("count", len(BotCommands)).Info("Bot commands published")
	return nil
}

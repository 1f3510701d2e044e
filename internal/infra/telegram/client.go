// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
// Outgoing messages share one token bucket so scheduler bursts stay under Telegram's
// per-bot limits.
type TelebotAdapter struct {
	bot     *telebot.Bot
	limiter *rate.Limiter
}

func NewTelebotAdapter(b *telebot.Bot, ratePerSec int) *TelebotAdapter {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &TelebotAdapter{
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
	}
}

// SendMessage sends a plain text message to the chat. It blocks while the rate limit
// is exhausted, until ctx is done.
func (tba *TelebotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := tba.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send to chat %d not attempted: %w", chatID, err)
	}

	recipient := &telebot.Chat{ID: chatID}
	if _, err := tba.bot.Send(recipient, text); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}

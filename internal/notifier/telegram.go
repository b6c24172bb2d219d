package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
)

// Sender is the part of the Telegram client used for pushing messages.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier sends HTML messages to one chat.
type TelegramNotifier struct {
	Sender  Sender
	ChatID  string
	Backoff time.Duration // first retry delay, doubled per attempt
	Log     *logrus.Entry
}

// NewTelegramNotifier creates a notifier pushing to chatID through s.
func NewTelegramNotifier(s Sender, chatID string, log *logrus.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		Sender:  s,
		ChatID:  chatID,
		Backoff: time.Second,
		Log:     log.WithField("component", "telegram"),
	}
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.sendTo(ctx, t.ChatID, text)
}

func (t *TelegramNotifier) sendTo(ctx context.Context, chatID any, text string) error {
	_, err := t.Sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := t.Backoff * time.Duration(1<<uint(i))
		t.Log.WithError(err).WithFields(logrus.Fields{
			"attempt": i + 1,
			"of":      maxRetries + 1,
			"backoff": backoff,
		}).Warn("telegram send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}

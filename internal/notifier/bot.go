package notifier

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
)

// CommandHandler answers a chat command such as /score.
type CommandHandler interface {
	HandleCommand(ctx context.Context, command string) string
}

const pollTimeout = 30 * time.Second

// NewBot creates a long-polling Telegram client. Incoming messages from the
// configured chat are routed to h; other chats are ignored.
func NewBot(token, chatID string, client *http.Client, h CommandHandler, log *logrus.Logger) (*bot.Bot, error) {
	entry := log.WithField("component", "telegram")
	opts := []bot.Option{
		bot.WithDefaultHandler(commandRouter(chatID, h, entry)),
	}
	if client != nil {
		opts = append(opts, bot.WithHTTPClient(pollTimeout, client))
	}
	return bot.New(token, opts...)
}

func commandRouter(chatID string, h CommandHandler, log *logrus.Entry) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		reply := routeUpdate(ctx, chatID, h, update, log)
		if reply == "" {
			return
		}
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    update.Message.Chat.ID,
			Text:      reply,
			ParseMode: models.ParseModeHTML,
		}); err != nil {
			log.WithError(err).Error("send reply failed")
		}
	}
}

// routeUpdate returns the reply for an update, or "" when it should be ignored.
func routeUpdate(ctx context.Context, chatID string, h CommandHandler, update *models.Update, log *logrus.Entry) string {
	if update == nil || update.Message == nil {
		return ""
	}
	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return ""
	}
	from := strconv.FormatInt(update.Message.Chat.ID, 10)
	if chatID != "" && from != chatID {
		log.WithField("chat", from).Warn("ignoring message from unknown chat")
		return ""
	}

	// "/score@RadarBot extra" -> "/score"
	cmd := strings.Fields(text)[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	log.WithField("command", cmd).Info("received command")
	return h.HandleCommand(ctx, strings.ToLower(cmd))
}

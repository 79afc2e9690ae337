// Package notify delivers rendered nudges over Telegram. Delivery is a
// fire-and-forget side effect performed for the verdict pipeline; the
// engine itself never blocks on it.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "gopkg.in/telegram-bot-api.v4"
)

// Sender delivers a message text to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// TelegramSender sends messages through the Telegram Bot API.
type TelegramSender struct {
	bot *tgbotapi.BotAPI

	// defaultChatID receives messages when no chat id travels with the
	// notification and the user id is not a numeric chat id.
	defaultChatID int64
}

func NewTelegramSender(token string, defaultChatID int64) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	slog.Info("Telegram bot authorized", "account", bot.Self.UserName)
	return &TelegramSender{bot: bot, defaultChatID: defaultChatID}, nil
}

// Send delivers text to the chat. A zero chatID falls back to the
// configured default.
func (s *TelegramSender) Send(ctx context.Context, chatID int64, text string) error {
	if chatID == 0 {
		chatID = s.defaultChatID
	}
	if chatID == 0 {
		return fmt.Errorf("no chat id available")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	slog.DebugContext(ctx, "Telegram message sent", "chat_id", chatID)
	return nil
}

// ChatIDForUser interprets a user id as a Telegram chat id when it is
// numeric. User ids are Telegram chat ids in normal operation.
func ChatIDForUser(userID string) int64 {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

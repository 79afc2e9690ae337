package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"guardian/internal/amqp"
	"guardian/internal/log"
	"guardian/internal/notify"
)

// NotifyWorker delivers queued nudges to the user's chat.
type NotifyWorker struct {
	sender      notify.Sender
	sendTimeout time.Duration
}

func NewNotifyWorker(sender notify.Sender) *NotifyWorker {
	return &NotifyWorker{
		sender:      sender,
		sendTimeout: 10 * time.Second,
	}
}

// Deliver sends one notification. An error requeues the message, so the
// sender must only fail on genuinely retryable conditions.
func (w *NotifyWorker) Deliver(msg *amqp.NotificationMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.sendTimeout)
	defer cancel()

	if err := w.sender.Send(ctx, msg.ChatID, msg.Text); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	slog.InfoContext(ctx, "Notification delivered",
		log.FieldUserID, msg.UserID,
		log.FieldChatID, msg.ChatID,
		log.FieldTier, msg.Tier)
	return nil
}

package amqp

import (
	"encoding/json"
	"time"

	"guardian/internal/core"
)

// NotificationMessage carries a rendered nudge from the API process to
// the delivery worker. The text is final; the worker only delivers it.
type NotificationMessage struct {
	UserID    string    `json:"user_id"`
	ChatID    int64     `json:"chat_id,omitempty"`
	Tier      core.Tier `json:"tier"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewNotificationMessage creates a delivery message for a rendered verdict.
func NewNotificationMessage(userID string, chatID int64, tier core.Tier, text string) *NotificationMessage {
	return &NotificationMessage{
		UserID:    userID,
		ChatID:    chatID,
		Tier:      tier,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON creates a message from JSON bytes
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package dto

import (
	"github.com/google/uuid"
	"time"
)

// MessagePayload — содержимое входящего конверта type=message
type MessagePayload struct {
	Content string `json:"content"`
}

// TypingPayload — содержимое входящего конверта type=typing
type TypingPayload struct {
	IsTyping bool `json:"is_typing"`
}

type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	ChannelID uuid.UUID `json:"channel_id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type TypingIndicator struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	IsTyping bool      `json:"is_typing"`
}

package dto

import (
	"github.com/google/uuid"
	"time"
)

type CreateChannelRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type ChannelResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Role      string    `json:"role,omitempty"`
}

type ChannelMemberInfo struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	IsOnline bool      `json:"is_online"`
}

type ChannelWithMembers struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	CreatedBy uuid.UUID           `json:"created_by"`
	CreatedAt time.Time           `json:"created_at"`
	Members   []ChannelMemberInfo `json:"members"`
}

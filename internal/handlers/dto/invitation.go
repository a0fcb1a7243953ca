package dto

import (
	"github.com/google/uuid"
	"time"
)

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RespondToInvitationRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

type InvitationResponse struct {
	ID              uuid.UUID `json:"id"`
	ChannelID       uuid.UUID `json:"channel_id"`
	ChannelName     string    `json:"channel_name"`
	InviterID       uuid.UUID `json:"inviter_id"`
	InviterUsername string    `json:"inviter_username"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

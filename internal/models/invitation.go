package models

import (
	"github.com/google/uuid"
	"time"
)

// Статусы приглашения
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// Invitation — приглашение пользователя в канал.
// На пару (канал, приглашённый) существует не более одной записи.
type Invitation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChannelID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_channel_invitee"`
	InviterID uuid.UUID `gorm:"type:uuid;not null"`
	InviteeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_channel_invitee"`
	Status    string    `gorm:"not null;default:'pending';check:status IN ('pending','accepted','rejected')"`
	CreatedAt time.Time

	Channel Channel `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE"`
	Inviter User    `gorm:"foreignKey:InviterID;constraint:OnDelete:CASCADE"`
	Invitee User    `gorm:"foreignKey:InviteeID;constraint:OnDelete:CASCADE"`
}

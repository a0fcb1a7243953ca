package models

import (
	"github.com/google/uuid"
	"time"
)

// Роли участников канала
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Channel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time

	// Связи
	Members  []ChannelMember `gorm:"foreignKey:ChannelID"`
	Messages []Message       `gorm:"foreignKey:ChannelID"`
}

// ChannelMember — участие пользователя в канале с ролью.
// Составной первичный ключ гарантирует не более одной записи на пару (канал, пользователь).
type ChannelMember struct {
	ChannelID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"not null;default:'member';check:role IN ('admin','member')"`
	JoinedAt  time.Time

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Channel Channel `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE"`
}

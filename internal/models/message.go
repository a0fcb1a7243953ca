package models

import (
	"github.com/google/uuid"
	"time"
)

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChannelID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`

	// Связи
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Channel Channel `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE"`
}

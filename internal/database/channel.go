package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/chatwave/internal/models"
	"gorm.io/gorm"
)

// CreateChannel создает канал и вставляет создателя как admin в одной транзакции
func (d *Database) CreateChannel(channel *models.Channel) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(channel).Error; err != nil {
			return err
		}

		member := models.ChannelMember{
			ChannelID: channel.ID,
			UserID:    channel.CreatedBy,
			Role:      models.RoleAdmin,
			JoinedAt:  time.Now(),
		}

		return tx.Create(&member).Error
	})
}

func (d *Database) GetChannel(id uuid.UUID) (*models.Channel, error) {
	var channel models.Channel
	if err := d.db.First(&channel, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &channel, nil
}

// UserChannel — канал вместе с ролью пользователя в нем
type UserChannel struct {
	ID        uuid.UUID
	Name      string
	CreatedBy uuid.UUID
	CreatedAt time.Time
	Role      string
}

// GetUserChannels возвращает каналы, в которых состоит пользователь, с его ролью
func (d *Database) GetUserChannels(userID uuid.UUID) ([]UserChannel, error) {
	var channels []UserChannel

	err := d.db.Model(&models.Channel{}).
		Select("channels.id, channels.name, channels.created_by, channels.created_at, cm.role").
		Joins("JOIN channel_members cm ON cm.channel_id = channels.id").
		Where("cm.user_id = ?", userID).
		Order("channels.created_at DESC").
		Scan(&channels).Error

	return channels, err
}

// GetChannelMembers возвращает участников канала с данными пользователей
func (d *Database) GetChannelMembers(channelID uuid.UUID) ([]models.ChannelMember, error) {
	var members []models.ChannelMember

	err := d.db.
		Where("channel_id = ?", channelID).
		Preload("User").
		Order("role").
		Find(&members).Error

	return members, err
}

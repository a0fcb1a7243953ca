package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/chatwave/internal/models"
	"gorm.io/gorm"
)

// IsChannelMember проверяет участие пользователя в канале (любая роль)
func (d *Database) IsChannelMember(channelID, userID uuid.UUID) (bool, error) {
	var count int64
	err := d.db.Model(&models.ChannelMember{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMemberRole возвращает роль пользователя в канале.
// Несуществующий канал — ErrNotFound, канал без этого участника — ErrForbidden:
// вызывающие обязаны отдавать наружу разные коды (404 против 403).
func (d *Database) GetMemberRole(channelID, userID uuid.UUID) (string, error) {
	var member models.ChannelMember
	err := d.db.
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&member).Error

	if err == nil {
		return member.Role, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var count int64
	if err := d.db.Model(&models.Channel{}).Where("id = ?", channelID).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "", ErrNotFound
	}

	return "", ErrForbidden
}

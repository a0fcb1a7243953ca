package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/chatwave/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateInvitation создает pending-приглашение.
// Приглашённый уже в канале — ErrAlreadyMember.
// Нерешённое приглашение на ту же пару (канал, приглашённый) — ErrAlreadyExists.
// Решённая (accepted/rejected) строка переиспользуется и сбрасывается в pending.
func (d *Database) CreateInvitation(channelID, inviterID, inviteeID uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation

	err := d.db.Transaction(func(tx *gorm.DB) error {
		// Проверка участия внутри транзакции: гонка с параллельным accept
		// не должна породить приглашение для уже состоящего участника
		var members int64
		if err := tx.Model(&models.ChannelMember{}).
			Where("channel_id = ? AND user_id = ?", channelID, inviteeID).
			Count(&members).Error; err != nil {
			return err
		}
		if members > 0 {
			return ErrAlreadyMember
		}

		var existing models.Invitation
		err := tx.
			Where("channel_id = ? AND invitee_id = ?", channelID, inviteeID).
			First(&existing).Error

		switch {
		case err == nil:
			if existing.Status == models.InvitationPending {
				return ErrAlreadyExists
			}

			existing.InviterID = inviterID
			existing.Status = models.InvitationPending
			existing.CreatedAt = time.Now()
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			invitation = existing
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			invitation = models.Invitation{
				ChannelID: channelID,
				InviterID: inviterID,
				InviteeID: inviteeID,
				Status:    models.InvitationPending,
				CreatedAt: time.Now(),
			}
			return tx.Create(&invitation).Error

		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return &invitation, nil
}

func (d *Database) GetInvitation(id uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := d.db.First(&invitation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// GetPendingInvitations возвращает нерешённые приглашения пользователя
func (d *Database) GetPendingInvitations(inviteeID uuid.UUID) ([]models.Invitation, error) {
	var invitations []models.Invitation

	err := d.db.
		Where("invitee_id = ? AND status = ?", inviteeID, models.InvitationPending).
		Preload("Channel").
		Preload("Inviter").
		Order("created_at DESC").
		Find(&invitations).Error

	return invitations, err
}

// ResolveInvitation переводит приглашение в accepted или rejected.
// Принятие атомарно добавляет участника канала в той же транзакции;
// уже существующее участие не дублируется (гонка с прямым добавлением).
func (d *Database) ResolveInvitation(id uuid.UUID, accept bool) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var invitation models.Invitation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&invitation, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if invitation.Status != models.InvitationPending {
			return ErrInvalidState
		}

		status := models.InvitationRejected
		if accept {
			status = models.InvitationAccepted
		}

		if err := tx.Model(&invitation).Update("status", status).Error; err != nil {
			return err
		}

		if !accept {
			return nil
		}

		member := models.ChannelMember{
			ChannelID: invitation.ChannelID,
			UserID:    invitation.InviteeID,
			Role:      models.RoleMember,
			JoinedAt:  time.Now(),
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
	})
}

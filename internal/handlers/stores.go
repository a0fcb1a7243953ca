package handlers

import (
	"github.com/google/uuid"
	"github.com/thereayou/chatwave/internal/database"
	"github.com/thereayou/chatwave/internal/models"
)

// Store — срез хранилища, который используют обработчики.
// Реализуется *database.Database; в тестах подменяется моком.
type Store interface {
	SaveUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	UpdateLastSeen(id string) error

	CreateChannel(channel *models.Channel) error
	GetChannel(id uuid.UUID) (*models.Channel, error)
	GetUserChannels(userID uuid.UUID) ([]database.UserChannel, error)
	GetChannelMembers(channelID uuid.UUID) ([]models.ChannelMember, error)

	IsChannelMember(channelID, userID uuid.UUID) (bool, error)
	GetMemberRole(channelID, userID uuid.UUID) (string, error)

	SaveMessage(message *models.Message) error
	GetChannelMessages(channelID uuid.UUID, limit int, beforeID *uuid.UUID) ([]models.Message, error)

	CreateInvitation(channelID, inviterID, inviteeID uuid.UUID) (*models.Invitation, error)
	GetInvitation(id uuid.UUID) (*models.Invitation, error)
	GetPendingInvitations(inviteeID uuid.UUID) ([]models.Invitation, error)
	ResolveInvitation(id uuid.UUID, accept bool) error
}

var _ Store = (*database.Database)(nil)

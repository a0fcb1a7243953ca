package handlers

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/thereayou/chatwave/internal/database"
	"github.com/thereayou/chatwave/internal/models"
)

// MockStore — мок хранилища для тестов обработчиков
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStore) FindUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) UpdateLastSeen(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStore) CreateChannel(channel *models.Channel) error {
	args := m.Called(channel)
	return args.Error(0)
}

func (m *MockStore) GetChannel(id uuid.UUID) (*models.Channel, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *MockStore) GetUserChannels(userID uuid.UUID) ([]database.UserChannel, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.UserChannel), args.Error(1)
}

func (m *MockStore) GetChannelMembers(channelID uuid.UUID) ([]models.ChannelMember, error) {
	args := m.Called(channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChannelMember), args.Error(1)
}

func (m *MockStore) IsChannelMember(channelID, userID uuid.UUID) (bool, error) {
	args := m.Called(channelID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) GetMemberRole(channelID, userID uuid.UUID) (string, error) {
	args := m.Called(channelID, userID)
	return args.String(0), args.Error(1)
}

func (m *MockStore) SaveMessage(message *models.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockStore) GetChannelMessages(channelID uuid.UUID, limit int, beforeID *uuid.UUID) ([]models.Message, error) {
	args := m.Called(channelID, limit, beforeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStore) CreateInvitation(channelID, inviterID, inviteeID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(channelID, inviterID, inviteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockStore) GetInvitation(id uuid.UUID) (*models.Invitation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockStore) GetPendingInvitations(inviteeID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(inviteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockStore) ResolveInvitation(id uuid.UUID, accept bool) error {
	args := m.Called(id, accept)
	return args.Error(0)
}

var _ Store = (*MockStore)(nil)

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/chatwave/internal/database"
	"github.com/thereayou/chatwave/internal/handlers/dto"
	"github.com/thereayou/chatwave/internal/middleware"
	"github.com/thereayou/chatwave/internal/models"
	"github.com/thereayou/chatwave/internal/websocket"
)

type ChannelHandler struct {
	store Store
	hub   *websocket.Hub
}

func NewChannelHandler(store Store, hub *websocket.Hub) *ChannelHandler {
	return &ChannelHandler{store: store, hub: hub}
}

// CreateChannel создает канал; создатель становится admin
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel := &models.Channel{
		Name:      req.Name,
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}

	if err := h.store.CreateChannel(channel); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create channel"})
		return
	}

	c.JSON(http.StatusCreated, dto.ChannelResponse{
		ID:        channel.ID,
		Name:      channel.Name,
		CreatedBy: channel.CreatedBy,
		CreatedAt: channel.CreatedAt,
		Role:      models.RoleAdmin,
	})
}

// ListChannels возвращает каналы пользователя с его ролью
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	channels, err := h.store.GetUserChannels(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch channels"})
		return
	}

	response := make([]dto.ChannelResponse, len(channels))
	for i, ch := range channels {
		response[i] = dto.ChannelResponse{
			ID:        ch.ID,
			Name:      ch.Name,
			CreatedBy: ch.CreatedBy,
			CreatedAt: ch.CreatedAt,
			Role:      ch.Role,
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetChannel возвращает канал с участниками и их онлайн-статусом
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return
	}

	if !h.requireMembership(c, channelID, userID) {
		return
	}

	channel, err := h.store.GetChannel(channelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch channel"})
		return
	}

	members, err := h.store.GetChannelMembers(channelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch members"})
		return
	}

	memberInfos := make([]dto.ChannelMemberInfo, len(members))
	for i, m := range members {
		memberInfos[i] = dto.ChannelMemberInfo{
			UserID:   m.UserID,
			Username: m.User.Username,
			Role:     m.Role,
			IsOnline: h.hub.IsUserOnline(m.UserID),
		}
	}

	c.JSON(http.StatusOK, dto.ChannelWithMembers{
		ID:        channel.ID,
		Name:      channel.Name,
		CreatedBy: channel.CreatedBy,
		CreatedAt: channel.CreatedAt,
		Members:   memberInfos,
	})
}

// GetMessages возвращает историю канала (старые первыми), доступна только участникам
func (h *ChannelHandler) GetMessages(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return
	}

	if !h.requireMembership(c, channelID, userID) {
		return
	}

	var beforeID *uuid.UUID
	if before := c.Query("before"); before != "" {
		id, err := uuid.Parse(before)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid before id"})
			return
		}
		beforeID = &id
	}

	messages, err := h.store.GetChannelMessages(channelID, 100, beforeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch messages"})
		return
	}

	response := make([]dto.MessageResponse, len(messages))
	for i, msg := range messages {
		response[i] = dto.MessageResponse{
			ID:        msg.ID,
			ChannelID: msg.ChannelID,
			UserID:    msg.UserID,
			Username:  msg.User.Username,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}

// requireMembership отвечает 404 для несуществующего канала и 403 для
// чужого — снаружи эти случаи обязаны выглядеть по-разному
func (h *ChannelHandler) requireMembership(c *gin.Context, channelID, userID uuid.UUID) bool {
	_, err := h.store.GetMemberRole(channelID, userID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
	case errors.Is(err, database.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this channel"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
	}
	return false
}

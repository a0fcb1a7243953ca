package handlers

import (
	"encoding/json"
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

type InvitationHandler struct {
	store Store
	hub   *websocket.Hub
}

func NewInvitationHandler(store Store, hub *websocket.Hub) *InvitationHandler {
	return &InvitationHandler{store: store, hub: hub}
}

// Invite приглашает пользователя (по email) в канал.
// Приглашать может любой участник канала; приглашаемый не должен в нем состоять.
func (h *InvitationHandler) Invite(c *gin.Context) {
	inviterID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	inviterName := c.MustGet(middleware.UsernameKey).(string)

	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return
	}

	var req dto.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err = h.store.GetMemberRole(channelID, inviterID)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return
	case errors.Is(err, database.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "only channel members can invite"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	invitee, err := h.store.FindUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	isMember, err := h.store.IsChannelMember(channelID, invitee.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if isMember {
		c.JSON(http.StatusConflict, gin.H{"error": "user is already a member"})
		return
	}

	invitation, err := h.store.CreateInvitation(channelID, inviterID, invitee.ID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "invitation already pending"})
		case errors.Is(err, database.ErrAlreadyMember):
			c.JSON(http.StatusConflict, gin.H{"error": "user is already a member"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invitation"})
		}
		return
	}

	channel, err := h.store.GetChannel(channelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	response := dto.InvitationResponse{
		ID:              invitation.ID,
		ChannelID:       invitation.ChannelID,
		ChannelName:     channel.Name,
		InviterID:       invitation.InviterID,
		InviterUsername: inviterName,
		Status:          invitation.Status,
		CreatedAt:       invitation.CreatedAt,
	}

	// Живые сессии приглашенного узнают о приглашении сразу
	h.notifyInvitee(invitee.ID, response)

	c.JSON(http.StatusCreated, response)
}

// ListInvitations возвращает нерешённые приглашения текущего пользователя
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	invitations, err := h.store.GetPendingInvitations(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invitations"})
		return
	}

	response := make([]dto.InvitationResponse, len(invitations))
	for i, inv := range invitations {
		response[i] = dto.InvitationResponse{
			ID:              inv.ID,
			ChannelID:       inv.ChannelID,
			ChannelName:     inv.Channel.Name,
			InviterID:       inv.InviterID,
			InviterUsername: inv.Inviter.Username,
			Status:          inv.Status,
			CreatedAt:       inv.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}

// Respond принимает или отклоняет приглашение. Разрешено только приглашенному
// и только для pending-приглашений; принятие добавляет участника с ролью member.
func (h *InvitationHandler) Respond(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invitation id"})
		return
	}

	var req dto.RespondToInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := h.store.GetInvitation(invitationID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	if invitation.InviteeID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your invitation"})
		return
	}

	if err := h.store.ResolveInvitation(invitationID, *req.Accept); err != nil {
		switch {
		case errors.Is(err, database.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "invitation already processed"})
		case errors.Is(err, database.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update invitation"})
		}
		return
	}

	status := models.InvitationRejected
	if *req.Accept {
		status = models.InvitationAccepted
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *InvitationHandler) notifyInvitee(inviteeID uuid.UUID, invitation dto.InvitationResponse) {
	data, err := json.Marshal(invitation)
	if err != nil {
		return
	}

	msg := websocket.Message{
		Type:      websocket.TypeInvitation,
		UserID:    invitation.InviterID,
		Data:      data,
		Timestamp: time.Now(),
	}

	if payload, err := json.Marshal(msg); err == nil {
		h.hub.SendToUser(inviteeID, payload)
	}
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/chatwave/internal/database"
	"github.com/thereayou/chatwave/internal/handlers/dto"
	"github.com/thereayou/chatwave/internal/middleware"
	"github.com/thereayou/chatwave/internal/models"
	ws "github.com/thereayou/chatwave/internal/websocket"
)

func invitationRouter(store Store, userID uuid.UUID, username string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewInvitationHandler(store, ws.NewHub())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UsernameKey, username)
	})
	r.POST("/api/channels/:id/invite", h.Invite)
	r.GET("/api/invitations", h.ListInvitations)
	r.POST("/api/invitations/:id/respond", h.Respond)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInviteAsMember(t *testing.T) {
	store := new(MockStore)
	inviterID := uuid.New()
	channelID := uuid.New()
	invitee := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}

	store.On("GetMemberRole", channelID, inviterID).Return(models.RoleAdmin, nil)
	store.On("FindUserByEmail", "bob@example.com").Return(invitee, nil)
	store.On("IsChannelMember", channelID, invitee.ID).Return(false, nil)
	store.On("CreateInvitation", channelID, inviterID, invitee.ID).Return(&models.Invitation{
		ID:        uuid.New(),
		ChannelID: channelID,
		InviterID: inviterID,
		InviteeID: invitee.ID,
		Status:    models.InvitationPending,
		CreatedAt: time.Now(),
	}, nil)
	store.On("GetChannel", channelID).Return(&models.Channel{ID: channelID, Name: "general"}, nil)

	r := invitationRouter(store, inviterID, "alice")
	w := doJSON(t, r, http.MethodPost, "/api/channels/"+channelID.String()+"/invite",
		dto.InviteRequest{Email: "bob@example.com"})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.InvitationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "general", resp.ChannelName)
	assert.Equal(t, "alice", resp.InviterUsername)
	assert.Equal(t, models.InvitationPending, resp.Status)
	store.AssertExpectations(t)
}

func TestInviteAsNonMember(t *testing.T) {
	store := new(MockStore)
	inviterID := uuid.New()
	channelID := uuid.New()

	store.On("GetMemberRole", channelID, inviterID).Return("", database.ErrForbidden)

	r := invitationRouter(store, inviterID, "carol")
	w := doJSON(t, r, http.MethodPost, "/api/channels/"+channelID.String()+"/invite",
		dto.InviteRequest{Email: "bob@example.com"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	store.AssertNotCalled(t, "CreateInvitation")
}

func TestInviteIntoMissingChannel(t *testing.T) {
	store := new(MockStore)
	inviterID := uuid.New()
	channelID := uuid.New()

	store.On("GetMemberRole", channelID, inviterID).Return("", database.ErrNotFound)

	r := invitationRouter(store, inviterID, "alice")
	w := doJSON(t, r, http.MethodPost, "/api/channels/"+channelID.String()+"/invite",
		dto.InviteRequest{Email: "bob@example.com"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInviteExistingMember(t *testing.T) {
	store := new(MockStore)
	inviterID := uuid.New()
	channelID := uuid.New()
	invitee := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}

	store.On("GetMemberRole", channelID, inviterID).Return(models.RoleMember, nil)
	store.On("FindUserByEmail", "bob@example.com").Return(invitee, nil)
	store.On("IsChannelMember", channelID, invitee.ID).Return(true, nil)

	r := invitationRouter(store, inviterID, "alice")
	w := doJSON(t, r, http.MethodPost, "/api/channels/"+channelID.String()+"/invite",
		dto.InviteRequest{Email: "bob@example.com"})

	assert.Equal(t, http.StatusConflict, w.Code)
	store.AssertNotCalled(t, "CreateInvitation")
}

func TestInviteWhilePendingExists(t *testing.T) {
	store := new(MockStore)
	inviterID := uuid.New()
	channelID := uuid.New()
	invitee := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}

	store.On("GetMemberRole", channelID, inviterID).Return(models.RoleMember, nil)
	store.On("FindUserByEmail", "bob@example.com").Return(invitee, nil)
	store.On("IsChannelMember", channelID, invitee.ID).Return(false, nil)
	store.On("CreateInvitation", channelID, inviterID, invitee.ID).Return(nil, database.ErrAlreadyExists)

	r := invitationRouter(store, inviterID, "alice")
	w := doJSON(t, r, http.MethodPost, "/api/channels/"+channelID.String()+"/invite",
		dto.InviteRequest{Email: "bob@example.com"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInviteRacesWithAccept(t *testing.T) {
	store := new(MockStore)
	inviterID := uuid.New()
	channelID := uuid.New()
	invitee := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}

	// Участие появилось между проверкой и созданием приглашения
	store.On("GetMemberRole", channelID, inviterID).Return(models.RoleMember, nil)
	store.On("FindUserByEmail", "bob@example.com").Return(invitee, nil)
	store.On("IsChannelMember", channelID, invitee.ID).Return(false, nil)
	store.On("CreateInvitation", channelID, inviterID, invitee.ID).Return(nil, database.ErrAlreadyMember)

	r := invitationRouter(store, inviterID, "alice")
	w := doJSON(t, r, http.MethodPost, "/api/channels/"+channelID.String()+"/invite",
		dto.InviteRequest{Email: "bob@example.com"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRespondAccept(t *testing.T) {
	store := new(MockStore)
	inviteeID := uuid.New()
	invitationID := uuid.New()

	store.On("GetInvitation", invitationID).Return(&models.Invitation{
		ID:        invitationID,
		InviteeID: inviteeID,
		Status:    models.InvitationPending,
	}, nil)
	store.On("ResolveInvitation", invitationID, true).Return(nil)

	accept := true
	r := invitationRouter(store, inviteeID, "bob")
	w := doJSON(t, r, http.MethodPost, "/api/invitations/"+invitationID.String()+"/respond",
		dto.RespondToInvitationRequest{Accept: &accept})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.InvitationAccepted)
	store.AssertExpectations(t)
}

func TestRespondByWrongUser(t *testing.T) {
	store := new(MockStore)
	invitationID := uuid.New()

	store.On("GetInvitation", invitationID).Return(&models.Invitation{
		ID:        invitationID,
		InviteeID: uuid.New(),
		Status:    models.InvitationPending,
	}, nil)

	accept := true
	r := invitationRouter(store, uuid.New(), "mallory")
	w := doJSON(t, r, http.MethodPost, "/api/invitations/"+invitationID.String()+"/respond",
		dto.RespondToInvitationRequest{Accept: &accept})

	assert.Equal(t, http.StatusForbidden, w.Code)
	store.AssertNotCalled(t, "ResolveInvitation")
}

func TestRespondToResolvedInvitation(t *testing.T) {
	store := new(MockStore)
	inviteeID := uuid.New()
	invitationID := uuid.New()

	store.On("GetInvitation", invitationID).Return(&models.Invitation{
		ID:        invitationID,
		InviteeID: inviteeID,
		Status:    models.InvitationAccepted,
	}, nil)
	store.On("ResolveInvitation", invitationID, false).Return(database.ErrInvalidState)

	reject := false
	r := invitationRouter(store, inviteeID, "bob")
	w := doJSON(t, r, http.MethodPost, "/api/invitations/"+invitationID.String()+"/respond",
		dto.RespondToInvitationRequest{Accept: &reject})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListInvitations(t *testing.T) {
	store := new(MockStore)
	inviteeID := uuid.New()

	store.On("GetPendingInvitations", inviteeID).Return([]models.Invitation{
		{
			ID:        uuid.New(),
			ChannelID: uuid.New(),
			Status:    models.InvitationPending,
			Channel:   models.Channel{Name: "general"},
			Inviter:   models.User{Username: "alice"},
		},
	}, nil)

	r := invitationRouter(store, inviteeID, "bob")
	w := doJSON(t, r, http.MethodGet, "/api/invitations", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []dto.InvitationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "general", resp[0].ChannelName)
	assert.Equal(t, "alice", resp[0].InviterUsername)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/chatwave/internal/database"
	"github.com/thereayou/chatwave/internal/middleware"
	ws "github.com/thereayou/chatwave/internal/websocket"
)

// WebSocketHandler поднимает живые сессии на /ws/:channel_id
type WebSocketHandler struct {
	hub            *ws.Hub
	store          Store
	messageHandler *MessageHandler
	upgrader       websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, store Store, messageHandler *MessageHandler) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		store:          store,
		messageHandler: messageHandler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Проверить origin в prod
				return true
			},
		},
	}
}

// HandleWebSocket авторизует подключение и запускает насосы сессии.
// Проверка участия идет до upgrade: неучастник не оставляет в реестре
// никаких следов и не получает сессию вовсе.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	username := c.MustGet(middleware.UsernameKey).(string)

	channelID, err := uuid.Parse(c.Param("channel_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return
	}

	_, err = h.store.GetMemberRole(channelID, userID)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return
	case errors.Is(err, database.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this channel"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, userID, username, channelID)

	if err := h.hub.Register(client); err != nil {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(h.messageHandler)
}

package handlers

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/chatwave/internal/handlers/dto"
	"github.com/thereayou/chatwave/internal/models"
	"github.com/thereayou/chatwave/internal/websocket"
)

// MessageHandler — входящий поток шлюза: валидирует сообщение, сохраняет
// и рассылает сохраненный результат участникам канала.
type MessageHandler struct {
	store Store
	hub   *websocket.Hub

	// Писатели одного канала сериализуются: порядок постановки в очереди
	// (то есть порядок доставки) совпадает с порядком коммитов в базе
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewMessageHandler(store Store, hub *websocket.Hub) *MessageHandler {
	return &MessageHandler{
		store: store,
		hub:   hub,
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (h *MessageHandler) HandleMessage(client *websocket.Client, env *websocket.ClientEnvelope) error {
	switch env.Type {
	case websocket.TypeMessage:
		return h.handleTextMessage(client, env)

	case websocket.TypeTyping:
		return h.handleTyping(client, env)

	default:
		log.Printf("Unknown message type: %s", env.Type)
		return websocket.ErrInvalidMessage
	}
}

func (h *MessageHandler) handleTextMessage(client *websocket.Client, env *websocket.ClientEnvelope) error {
	var payload dto.MessagePayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return websocket.ErrInvalidMessage
	}

	if strings.TrimSpace(payload.Content) == "" {
		return websocket.ErrInvalidMessage
	}

	lock := h.channelLock(client.ChannelID)
	lock.Lock()
	defer lock.Unlock()

	message := &models.Message{
		ChannelID: client.ChannelID,
		UserID:    client.UserID,
		Content:   payload.Content,
		CreatedAt: time.Now(),
	}

	// Ошибка записи возвращается только отправителю;
	// несохраненное сообщение не должно дойти до остальных
	if err := h.store.SaveMessage(message); err != nil {
		log.Printf("Failed to save message: %v", err)
		return err
	}

	response := dto.MessageResponse{
		ID:        message.ID,
		ChannelID: message.ChannelID,
		UserID:    message.UserID,
		Username:  client.Username,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}

	payloadData, err := h.marshalEnvelope(websocket.TypeMessage, client, response)
	if err != nil {
		return err
	}

	// Отправитель тоже получает свою копию — клиентам так проще
	// держать единый порядок ленты
	h.hub.SendToChannel(client.ChannelID, payloadData)

	go h.store.UpdateLastSeen(client.UserID.String())

	return nil
}

func (h *MessageHandler) handleTyping(client *websocket.Client, env *websocket.ClientEnvelope) error {
	var payload dto.TypingPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return websocket.ErrInvalidMessage
	}

	indicator := dto.TypingIndicator{
		UserID:   client.UserID,
		Username: client.Username,
		IsTyping: payload.IsTyping,
	}

	payloadData, err := h.marshalEnvelope(websocket.TypeTyping, client, indicator)
	if err != nil {
		return err
	}

	h.hub.SendToChannel(client.ChannelID, payloadData)

	return nil
}

func (h *MessageHandler) marshalEnvelope(msgType websocket.MessageType, client *websocket.Client, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	msg := websocket.Message{
		Type:      msgType,
		ChannelID: &client.ChannelID,
		UserID:    client.UserID,
		Data:      raw,
		Timestamp: time.Now(),
	}

	return json.Marshal(msg)
}

func (h *MessageHandler) channelLock(channelID uuid.UUID) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()

	lock, ok := h.locks[channelID]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[channelID] = lock
	}
	return lock
}

package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MessageType определяет типы сообщений
type MessageType string

const (
	// Системные типы
	TypePing  MessageType = "ping"
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"

	// Типы сообщений
	TypeMessage MessageType = "message"
	TypeTyping  MessageType = "typing"

	// Типы присутствия
	TypeUserJoined MessageType = "user_joined"
	TypeUserLeft   MessageType = "user_left"

	// Персональные уведомления (во все сессии пользователя)
	TypeInvitation MessageType = "invitation"
)

// Message — серверный конверт, уходящий клиентам
type Message struct {
	Type      MessageType     `json:"type"`
	ChannelID *uuid.UUID      `json:"channel_id,omitempty"`
	UserID    uuid.UUID       `json:"user_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// ClientEnvelope — входящий конверт от клиента
type ClientEnvelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Hub — реестр живых сессий процесса. Индексирует клиентов по id сессии,
// по пользователю и по каналу. Все мутации карт защищены mu; блокировка
// никогда не удерживается через I/O — только через неблокирующую постановку
// в очередь Send.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Клиенты по UserID (один пользователь может иметь несколько соединений)
	userClients map[uuid.UUID]map[uuid.UUID]*Client

	// Клиенты по каналу
	channels map[uuid.UUID]map[uuid.UUID]*Client

	mu sync.RWMutex

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		channels:    make(map[uuid.UUID]map[uuid.UUID]*Client),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run гоняет keepalive до остановки hub
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub и закрывает все соединения
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
		client.closeConn()
	}
	h.userClients = make(map[uuid.UUID]map[uuid.UUID]*Client)
	h.channels = make(map[uuid.UUID]map[uuid.UUID]*Client)
}

// Register добавляет сессию в индексы по каналу и пользователю.
// Авторизация — забота вызывающего: сюда попадают только проверенные участники.
// Повторная регистрация того же id — ошибка программирования, фатальная для соединения.
func (h *Hub) Register(client *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		return ErrAlreadyRegistered
	}

	h.clients[client.ID] = client

	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[client.UserID][client.ID] = client

	if _, ok := h.channels[client.ChannelID]; !ok {
		h.channels[client.ChannelID] = make(map[uuid.UUID]*Client)
	}
	h.channels[client.ChannelID][client.ID] = client

	log.Printf("Client registered: %s (User: %s, Channel: %s)", client.ID, client.UserID, client.ChannelID)

	// Уведомляем остальных участников о подключении
	joinMsg := Message{
		Type:      TypeUserJoined,
		ChannelID: &client.ChannelID,
		UserID:    client.UserID,
		Timestamp: time.Now(),
	}
	if data, err := json.Marshal(joinMsg); err == nil {
		h.enqueueToChannel(client.ChannelID, data, client.ID)
	}

	return nil
}

// Unregister удаляет сессию из всех индексов. Идемпотентен: повторный
// вызов (гонка тирдауна из read- и write-насосов) — no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()

	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(h.clients, client.ID)

	if userClients, ok := h.userClients[client.UserID]; ok {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}

	if channel, ok := h.channels[client.ChannelID]; ok {
		delete(channel, client.ID)
		if len(channel) == 0 {
			delete(h.channels, client.ChannelID)
		}
	}

	close(client.Send)

	log.Printf("Client unregistered: %s (User: %s)", client.ID, client.UserID)

	// Уведомляем остальных участников об отключении
	leaveMsg := Message{
		Type:      TypeUserLeft,
		ChannelID: &client.ChannelID,
		UserID:    client.UserID,
		Timestamp: time.Now(),
	}
	if data, err := json.Marshal(leaveMsg); err == nil {
		h.enqueueToChannel(client.ChannelID, data, client.ID)
	}

	h.mu.Unlock()

	client.closeConn()
}

// SendToChannel рассылает payload всем сессиям канала на момент вызова.
// Доставка — неблокирующая постановка в очередь каждой сессии; сессия с
// переполненной очередью выселяется и закрывается, а не тормозит остальных.
func (h *Hub) SendToChannel(channelID uuid.UUID, payload []byte) {
	var stalled []*Client

	h.mu.RLock()
	if channel, ok := h.channels[channelID]; ok {
		for _, client := range channel {
			select {
			case client.Send <- payload:
			default:
				stalled = append(stalled, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		log.Printf("Evicting slow client %s (User: %s)", client.ID, client.UserID)
		h.Unregister(client)
	}
}

// SendToUser доставляет payload во все сессии пользователя (все устройства)
func (h *Hub) SendToUser(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.userClients[userID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- payload:
			default:
			}
		}
	}
}

// enqueueToChannel ставит payload в очереди сессий канала, кроме skip.
// Вызывается только под h.mu; переполненные очереди пропускаются,
// выселение произойдет при следующем обычном broadcast.
func (h *Hub) enqueueToChannel(channelID uuid.UUID, payload []byte, skip uuid.UUID) {
	if channel, ok := h.channels[channelID]; ok {
		for _, client := range channel {
			if client.ID == skip {
				continue
			}
			select {
			case client.Send <- payload:
			default:
			}
		}
	}
}

// enqueue ставит payload в очередь одной сессии, если та еще зарегистрирована.
// Снятая с учета сессия — no-op, переполненная очередь — ErrClientQueueFull.
func (h *Hub) enqueue(client *Client, payload []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client.ID]; !ok {
		return nil
	}

	select {
	case client.Send <- payload:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := Message{
		Type:      TypePing,
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(msg); err == nil {
		for _, client := range h.clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// IsUserOnline сообщает, есть ли у пользователя хотя бы одна живая сессия
func (h *Hub) IsUserOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.userClients[userID]) > 0
}

// GetChannelUsers возвращает пользователей с живыми сессиями в канале
func (h *Hub) GetChannelUsers(channelID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userMap := make(map[uuid.UUID]bool)
	if channel, ok := h.channels[channelID]; ok {
		for _, client := range channel {
			userMap[client.UserID] = true
		}
	}

	users := make([]uuid.UUID, 0, len(userMap))
	for userID := range userMap {
		users = append(users, userID)
	}
	return users
}

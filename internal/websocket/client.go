package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения
	maxMessageSize = 64 * 1024 // 64KB

	// Емкость исходящей очереди сессии; переполнение ведет к выселению
	sendQueueSize = 64
)

type ClientMessageHandler interface {
	HandleMessage(client *Client, env *ClientEnvelope) error
}

// Client — живая сессия: аутентифицированный пользователь, привязанный
// к одному каналу на все время жизни соединения.
type Client struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Username  string
	ChannelID uuid.UUID
	Conn      *websocket.Conn
	Send      chan []byte
	Hub       *Hub

	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, username string, channelID uuid.UUID) *Client {
	return &Client{
		ID:        uuid.New(),
		UserID:    userID,
		Username:  username,
		ChannelID: channelID,
		Conn:      conn,
		Send:      make(chan []byte, sendQueueSize),
		Hub:       hub,
	}
}

// closeConn закрывает соединение не более одного раза;
// безопасен при гонке выселения с тирдауном насосов
func (c *Client) closeConn() {
	c.closeOnce.Do(func() {
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}

// ReadPump читает сообщения от клиента и передает их handler'у
func (c *Client) ReadPump(handler ClientMessageHandler) {
	defer func() {
		c.Hub.Unregister(c)
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var env ClientEnvelope
		err := c.Conn.ReadJSON(&env)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if env.Type == TypePong {
			continue
		}

		if handler != nil {
			if err := handler.HandleMessage(c, &env); err != nil {
				log.Printf("Error handling message: %v", err)
				c.SendError(err.Error())
			}
		}
	}
}

// WritePump сливает исходящую очередь в соединение
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConn()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage ставит типизированный конверт в очередь этой сессии
func (c *Client) SendMessage(msgType MessageType, data interface{}) error {
	msg := Message{
		Type:      msgType,
		ChannelID: &c.ChannelID,
		UserID:    c.UserID,
		Timestamp: time.Now(),
	}

	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return err
		}
		msg.Data = jsonData
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// Постановка идет через hub: очередь уже выселенной сессии закрыта,
	// и писать в нее напрямую нельзя
	return c.Hub.enqueue(c, msgData)
}

func (c *Client) SendError(errorMsg string) {
	c.SendMessage(TypeError, map[string]string{
		"error": errorMsg,
	})
}

package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxInboundMessageSize = 1024
	pongWaitFactor        = 2 // pong deadline = PingInterval * factor
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Фронтенд обслуживается с другого origin; аутентификации на канале нет,
	// подписка дает только получение собственных уведомлений
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client одно websocket-подключение
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// Handler возвращает http.HandlerFunc, апгрейдящий соединение и
// обслуживающий его до разрыва
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws: upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan []byte, h.opts.SendBufferSize),
		}

		go client.writePump(h)
		client.readPump(h)
	}
}

// readPump читает кадры клиента. Единственный осмысленный входящий кадр -
// registerUser; всё остальное игнорируется.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		close(c.send)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundMessageSize)
	pongWait := h.opts.PingInterval * pongWaitFactor
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("ws: read error user=%s: %v", c.userID, err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		if msg.Event == EventRegisterUser && msg.UserID != "" && c.userID == "" {
			h.register(msg.UserID, c)
		}
	}
}

// writePump сериализует запись в соединение и поддерживает его ping-фреймами
func (c *Client) writePump(h *Hub) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(time.Second))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

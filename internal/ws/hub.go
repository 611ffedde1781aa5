// Package ws реализует живой канал уведомлений поверх websocket.
//
// Клиент после подключения отправляет кадр
//
//	{"event": "registerUser", "user_id": "<идентификатор студента>"}
//
// и попадает в комнату этого пользователя. Сервер адресует пуши комнате:
//
//	{"event": "appointmentUpdate", "data": {"message": "...", "status": "..."}}
//
// Доставка best-effort и не более одного раза: отключенные пользователи
// ничего не получают, очередей и ретраев нет.
package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Имена событий протокола
const (
	EventRegisterUser      = "registerUser"
	EventAppointmentUpdate = "appointmentUpdate"
)

// inboundMessage кадр от клиента
type inboundMessage struct {
	Event  string `json:"event"`
	UserID string `json:"user_id"`
}

// outboundMessage кадр сервера
type outboundMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Options настройки канала
type Options struct {
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	SendBufferSize int
}

// Hub реестр живых подключений, сгруппированных по идентификатору пользователя
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	opts   Options
	logger Logger
}

// NewHub создает пустой hub
func NewHub(opts Options, logger Logger) *Hub {
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.PingInterval == 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.SendBufferSize == 0 {
		opts.SendBufferSize = 16
	}
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		opts:   opts,
		logger: logger,
	}
}

// Publish отправляет событие во все живые подключения пользователя.
// Возвращает true, если событие ушло хотя бы в одно подключение.
// Переполненная очередь клиента приводит к дропу кадра, не к блокировке.
func (h *Hub) Publish(userID string, event string, data interface{}) bool {
	payload, err := json.Marshal(outboundMessage{Event: event, Data: data})
	if err != nil {
		h.logger.Error("ws: marshal event %s for user=%s: %v", event, userID, err)
		return false
	}

	h.mu.RLock()
	clients := h.rooms[userID]
	delivered := false
	for c := range clients {
		select {
		case c.send <- payload:
			delivered = true
		default:
			h.logger.Warn("ws: send buffer full, dropping %s for user=%s", event, userID)
		}
	}
	h.mu.RUnlock()

	return delivered
}

// ConnectedUsers возвращает количество пользователей с живыми подключениями
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// register привязывает клиента к комнате пользователя
func (h *Hub) register(userID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*Client]struct{})
	}
	h.rooms[userID][c] = struct{}{}
	c.userID = userID

	h.logger.Info("ws: user=%s registered, connections=%d", userID, len(h.rooms[userID]))
}

// unregister убирает клиента из его комнаты и чистит пустую комнату
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.userID == "" {
		return
	}
	if clients, ok := h.rooms[c.userID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, c.userID)
		}
	}
}

package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestClient() *Client {
	return &Client{send: make(chan []byte, 1)}
}

func TestPublish_DeliversToRegisteredUser(t *testing.T) {
	hub := NewHub(Options{}, nopLogger{})
	client := newTestClient()
	hub.register("21-A-01720", client)

	delivered := hub.Publish("21-A-01720", EventAppointmentUpdate, map[string]string{
		"message": "Your appointment has been Approved",
		"status":  "Approved",
	})
	require.True(t, delivered)

	var msg outboundMessage
	require.NoError(t, json.Unmarshal(<-client.send, &msg))
	assert.Equal(t, EventAppointmentUpdate, msg.Event)

	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Approved", data["status"])
}

func TestPublish_UnknownUser(t *testing.T) {
	hub := NewHub(Options{}, nopLogger{})

	assert.False(t, hub.Publish("ghost", EventAppointmentUpdate, nil))
}

func TestPublish_FullBufferDropsFrame(t *testing.T) {
	hub := NewHub(Options{SendBufferSize: 1}, nopLogger{})
	client := newTestClient()
	hub.register("21-A-01720", client)

	require.True(t, hub.Publish("21-A-01720", EventAppointmentUpdate, nil))
	// очередь заполнена, второй кадр дропается без блокировки
	assert.False(t, hub.Publish("21-A-01720", EventAppointmentUpdate, nil))
}

func TestPublish_FansOutToAllConnections(t *testing.T) {
	hub := NewHub(Options{}, nopLogger{})
	first := newTestClient()
	second := newTestClient()
	hub.register("21-A-01720", first)
	hub.register("21-A-01720", second)

	require.True(t, hub.Publish("21-A-01720", EventAppointmentUpdate, nil))
	assert.Len(t, first.send, 1)
	assert.Len(t, second.send, 1)
}

func TestUnregister_CleansEmptyRoom(t *testing.T) {
	hub := NewHub(Options{}, nopLogger{})
	client := newTestClient()
	hub.register("21-A-01720", client)
	require.Equal(t, 1, hub.ConnectedUsers())

	hub.unregister(client)
	assert.Equal(t, 0, hub.ConnectedUsers())
	assert.False(t, hub.Publish("21-A-01720", EventAppointmentUpdate, nil))
}

package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"iotlab.dev/esp32-telemetry-hub/pkg/common"
)

const (
	MsgTypeSubscribe   = "subscribe"
	MsgTypeUnsubscribe = "unsubscribe"
	MsgTypeError       = "error"

	// sendBufferSize bounds the per-client outbound queue. A slow dashboard
	// drops events instead of blocking ingest.
	sendBufferSize = 256

	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 1024
)

// InboundMessage is what a dashboard client sends: subscribe/unsubscribe
// for a device-scoped channel. Global events need no subscription.
type InboundMessage struct {
	Type     string `json:"type"`
	DeviceID string `json:"deviceId"`
}

// Event is the outbound push frame.
type Event struct {
	Event     string `json:"event"`
	DeviceID  string `json:"deviceId,omitempty"`
	Timestamp string `json:"timestamp"`
	Payload   any    `json:"payload,omitempty"`
}

// Hub fans events out to connected dashboard clients. It implements
// iot.Broadcaster; broadcasts never block the caller.
type Hub struct {
	logger  *zap.Logger
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

// Client is one websocket connection with its device subscriptions.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	devices map[string]struct{}
	mu      sync.RWMutex
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// dashboards connect from anywhere, there is no auth model
		return true
	},
}

func NewHub() *Hub {
	return &Hub{
		logger:  common.GetLoggerWith(common.LoggerNameWsHub),
		clients: make(map[*Client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("Client connected", zap.Int("clients", h.ClientCount()))
}

// unregister removes a client. Only the goroutine that actually removes it
// closes the send channel, so shutdown and read-pump exit cannot double-close.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if existed {
		close(client.send)
	}
	h.logger.Info("Client disconnected", zap.Int("clients", h.ClientCount()))
}

// BroadcastGlobal pushes an event to every connected client.
func (h *Hub) BroadcastGlobal(event string, payload any) {
	h.broadcast(event, "", payload, nil)
}

// BroadcastDevice pushes an event to clients subscribed to the device.
func (h *Hub) BroadcastDevice(deviceID string, event string, payload any) {
	h.broadcast(event, deviceID, payload, func(c *Client) bool {
		return c.isSubscribed(deviceID)
	})
}

func (h *Hub) broadcast(event, deviceID string, payload any, filter func(*Client) bool) {
	msg := Event{
		Event:     event,
		DeviceID:  deviceID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast", zap.Error(err))
		return
	}

	// snapshot under the hub lock, send outside it
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if filter == nil || filter(client) {
			client.trySend(data)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, client)
	}
}

// HandleUpgrade upgrades the HTTP connection and starts the client pumps.
func (h *Hub) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		devices: make(map[string]struct{}),
	}

	h.register(client)

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("Websocket read error", zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("invalid JSON message")
		return
	}

	switch msg.Type {
	case MsgTypeSubscribe:
		if msg.DeviceID == "" {
			c.sendError("deviceId is required")
			return
		}
		c.mu.Lock()
		c.devices[msg.DeviceID] = struct{}{}
		c.mu.Unlock()
		c.hub.logger.Info("Client subscribed", zap.String("deviceId", msg.DeviceID))
	case MsgTypeUnsubscribe:
		c.mu.Lock()
		delete(c.devices, msg.DeviceID)
		c.mu.Unlock()
	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}

// trySend drops the message when the client buffer is full or the channel
// already closed; a slow subscriber never blocks a broadcast.
func (c *Client) trySend(data []byte) {
	defer func() {
		recover()
	}()

	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) isSubscribed(deviceID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.devices[deviceID]
	return ok
}

func (c *Client) sendError(message string) {
	data, err := json.Marshal(Event{
		Event:     MsgTypeError,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   map[string]string{"message": message},
	})
	if err != nil {
		return
	}
	c.trySend(data)
}

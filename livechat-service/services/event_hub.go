package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"cloudphone-backend/shared/events"
)

const writeWait = 5 * time.Second

var ErrHubQueueFull = errors.New("event hub queue is full")

// HubMessage is written to admin consoles for control frames
type HubMessage struct {
	Type      string    `json:"type"`
	TenantID  string    `json:"tenantId,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HubClient is one admin console connection
type HubClient struct {
	TenantID string
	UserID   string
	conn     *websocket.Conn
	writeMu  sync.Mutex
}

func (c *HubClient) write(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// EventHub pushes blacklist events to the admin consoles of the event's tenant
type EventHub struct {
	clients    map[string]map[*HubClient]struct{} // tenantID -> connections
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	register   chan *HubClient
	unregister chan *HubClient
	broadcast  chan events.Event
	done       chan struct{}
	doneOnce   sync.Once
}

// NewEventHub creates a hub accepting browser origins from allowedOrigins.
// Requests without an Origin header are always accepted.
func NewEventHub(allowedOrigins ...string) *EventHub {
	h := &EventHub{
		clients:    make(map[string]map[*HubClient]struct{}),
		register:   make(chan *HubClient, 100),
		unregister: make(chan *HubClient, 100),
		broadcast:  make(chan events.Event, 1000),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || origin == allowed {
					return true
				}
			}
			log.Printf("🚫 WebSocket connection rejected from origin: %s", origin)
			return false
		},
	}
	return h
}

// Run handles the hub event loop until ctx is cancelled
func (h *EventHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.doneOnce.Do(func() { close(h.done) })
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Publish queues event for delivery. It never blocks.
func (h *EventHub) Publish(ctx context.Context, topic string, event events.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		log.Printf("⚠️ Event hub queue full, dropping %s event %s", event.Type, event.ID)
		return ErrHubQueueFull
	}
}

func (h *EventHub) registerClient(client *HubClient) {
	h.mutex.Lock()
	tenantClients, ok := h.clients[client.TenantID]
	if !ok {
		tenantClients = make(map[*HubClient]struct{})
		h.clients[client.TenantID] = tenantClients
	}
	tenantClients[client] = struct{}{}
	count := len(tenantClients)
	h.mutex.Unlock()

	log.Printf("🔌 Blacklist console connected: user=%s tenant=%s (Total: %d)", client.UserID, client.TenantID, count)

	welcome := HubMessage{
		Type:      "connection",
		TenantID:  client.TenantID,
		Message:   "WebSocket connection established",
		Timestamp: time.Now().UTC(),
	}
	if err := client.write(welcome); err != nil {
		h.dropLater(client)
	}
}

func (h *EventHub) unregisterClient(client *HubClient) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	tenantClients, ok := h.clients[client.TenantID]
	if !ok {
		return
	}
	if _, exists := tenantClients[client]; !exists {
		return
	}
	delete(tenantClients, client)
	if len(tenantClients) == 0 {
		delete(h.clients, client.TenantID)
	}
	client.conn.Close()
	log.Printf("🔌 Blacklist console disconnected: user=%s tenant=%s", client.UserID, client.TenantID)
}

func (h *EventHub) broadcastEvent(event events.Event) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	successCount := 0
	failCount := 0
	for client := range h.clients[event.TenantID] {
		if err := client.write(event); err != nil {
			log.Printf("❌ Failed to push %s to user %s: %v", event.Type, client.UserID, err)
			h.dropLater(client)
			failCount++
			continue
		}
		successCount++
	}

	if successCount+failCount > 0 {
		log.Printf("📡 %s pushed to tenant %s: %d success, %d failed", event.Type, event.TenantID, successCount, failCount)
	}
}

func (h *EventHub) dropLater(client *HubClient) {
	go h.send(h.unregister, client)
}

// send hands client to Run. It gives up once Run has returned.
func (h *EventHub) send(ch chan<- *HubClient, client *HubClient) bool {
	select {
	case ch <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *EventHub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for tenantID, tenantClients := range h.clients {
		for client := range tenantClients {
			client.conn.Close()
		}
		delete(h.clients, tenantID)
	}
}

// HandleConnection upgrades the request and serves the console until it disconnects
func (h *EventHub) HandleConnection(c *gin.Context, tenantID, userID string) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the error response
		log.Printf("❌ Failed to upgrade WebSocket: %v", err)
		return
	}

	client := &HubClient{TenantID: tenantID, UserID: userID, conn: conn}
	if !h.send(h.register, client) {
		conn.Close()
		return
	}
	defer h.send(h.unregister, client)

	for {
		var message map[string]interface{}
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("❌ WebSocket error for user %s: %v", userID, err)
			}
			return
		}

		if msgType, ok := message["type"].(string); ok && msgType == "ping" {
			client.write(HubMessage{Type: "pong", Timestamp: time.Now().UTC()})
		}
	}
}

// ConnectionCount returns the number of consoles connected for tenantID
func (h *EventHub) ConnectionCount(tenantID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[tenantID])
}

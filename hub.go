package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"rosa-studio-server/modules/studio"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the studio frontend is served from a different origin
	},
}

// wsClient - one connected browser watching a studio session
type wsClient struct {
	conn      *websocket.Conn
	sessionID string
	clientID  string
	send      chan []byte
}

// ServerMetrics - connection counters for the /metrics endpoint
type ServerMetrics struct {
	StartTime        time.Time
	TotalConnections int64
	MessagesSent     int64
	mutex            sync.RWMutex
}

// Hub - fan-out of state updates to every WebSocket client of a session.
// The studio store calls Broadcast after each committed transition, so a
// browser never has to poll for its own snapshot.
type Hub struct {
	store    *studio.Store
	sessions map[string]map[*wsClient]bool
	metrics  *ServerMetrics
	mutex    sync.RWMutex
}

// NewHub - empty hub; attach it to the store with SetBroadcaster
func NewHub(store *studio.Store) *Hub {
	return &Hub{
		store:    store,
		sessions: make(map[string]map[*wsClient]bool),
		metrics: &ServerMetrics{
			StartTime: time.Now(),
		},
	}
}

// Broadcast - push an event envelope to every client of the session.
// Slow clients are dropped instead of blocking the caller.
func (h *Hub) Broadcast(sessionID, event string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type":      event,
		"payload":   payload,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("❌ [Hub] Failed to marshal %s event: %v", event, err)
		return
	}

	h.mutex.RLock()
	clients := h.sessions[sessionID]
	stale := make([]*wsClient, 0)
	for client := range clients {
		select {
		case client.send <- data:
			h.metrics.mutex.Lock()
			h.metrics.MessagesSent++
			h.metrics.mutex.Unlock()
		default:
			stale = append(stale, client)
		}
	}
	h.mutex.RUnlock()

	for _, client := range stale {
		log.Printf("⚠️ [Hub] Dropping slow client %s in session %s", client.clientID, sessionID)
		h.removeClient(client)
	}
}

func (h *Hub) addClient(client *wsClient) {
	h.mutex.Lock()
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*wsClient]bool)
	}
	h.sessions[client.sessionID][client] = true
	count := len(h.sessions[client.sessionID])
	h.mutex.Unlock()

	h.metrics.mutex.Lock()
	h.metrics.TotalConnections++
	h.metrics.mutex.Unlock()

	log.Printf("✅ [Hub] Client %s joined session %s (%d connected)", client.clientID, client.sessionID, count)
}

func (h *Hub) removeClient(client *wsClient) {
	h.mutex.Lock()
	clients, exists := h.sessions[client.sessionID]
	if exists {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)
		}
		if len(clients) == 0 {
			delete(h.sessions, client.sessionID)
		}
	}
	h.mutex.Unlock()
}

// HandleWebSocket - upgrade, register, and start the read/write pumps.
// The session id comes from the query string; the first message sent is
// always a full state snapshot so the client renders without a round trip.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "missing session parameter", http.StatusBadRequest)
		return
	}
	clientID := r.URL.Query().Get("client")
	if clientID == "" {
		clientID = uuid.New().String()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Hub] WebSocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{
		conn:      conn,
		sessionID: sessionID,
		clientID:  clientID,
		send:      make(chan []byte, 256),
	}
	h.addClient(client)

	go client.writePump()
	go h.readPump(client)

	h.sendSnapshot(client)
}

// sendSnapshot - queue the current session state as a state_update event
func (h *Hub) sendSnapshot(client *wsClient) {
	snapshot := h.store.Snapshot(client.sessionID)
	data, err := json.Marshal(map[string]interface{}{
		"type":      "state_update",
		"payload":   snapshot,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("❌ [Hub] Failed to marshal snapshot: %v", err)
		return
	}
	select {
	case client.send <- data:
	default:
	}
}

// clientMessage - the few message types a browser is allowed to send
type clientMessage struct {
	Type string `json:"type"`
}

func (h *Hub) readPump(client *wsClient) {
	defer func() {
		h.removeClient(client)
		client.conn.Close()
	}()

	for {
		var message clientMessage
		if err := client.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ [Hub] WebSocket error: %v", err)
			}
			break
		}

		switch message.Type {
		case "request_state":
			h.sendSnapshot(client)
		case "ping":
			// keepalive, nothing to do
		default:
			log.Printf("⚠️ [Hub] Ignoring unknown message type %q from %s", message.Type, client.clientID)
		}
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("⚠️ [Hub] WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// SessionInfo - connection details for the /session/{sessionId} endpoint
func (h *Hub) SessionInfo(sessionID string) (clientCount int, clientIDs []string) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	clients := h.sessions[sessionID]
	clientIDs = make([]string, 0, len(clients))
	for client := range clients {
		clientIDs = append(clientIDs, client.clientID)
	}
	return len(clients), clientIDs
}

// MetricsSnapshot - aggregate counters plus per-session client counts
func (h *Hub) MetricsSnapshot() map[string]interface{} {
	h.metrics.mutex.RLock()
	startTime := h.metrics.StartTime
	totalConnections := h.metrics.TotalConnections
	messagesSent := h.metrics.MessagesSent
	h.metrics.mutex.RUnlock()

	h.mutex.RLock()
	sessionDetails := make([]map[string]interface{}, 0, len(h.sessions))
	totalClients := 0
	for sessionID, clients := range h.sessions {
		totalClients += len(clients)
		sessionDetails = append(sessionDetails, map[string]interface{}{
			"sessionId":   sessionID,
			"clientCount": len(clients),
		})
	}
	h.mutex.RUnlock()

	return map[string]interface{}{
		"server": map[string]interface{}{
			"uptime":           time.Since(startTime).String(),
			"startTime":        startTime,
			"totalConnections": totalConnections,
			"messagesSent":     messagesSent,
			"currentClients":   totalClients,
		},
		"sessions": sessionDetails,
	}
}

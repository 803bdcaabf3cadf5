package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/service"
)

// Message types sent over the change feed.
const (
	MessageConnected   = "connected"
	MessageFileChange  = "file_change"
	MessageCards       = string(service.ChangeCards)
	MessagePreferences = string(service.ChangePreferences)
)

const (
	sendBuffer   = 256
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	maxReadBytes = 512 // Clients only send control frames
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WebSocketHub manages WebSocket connections and broadcasts board and
// storage file changes to every connected client.
type WebSocketHub struct {
	mu       sync.RWMutex
	clients  map[*WebSocketClient]bool
	snapshot func() any
}

// WebSocketClient represents a connected WebSocket client.
type WebSocketClient struct {
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte
}

// WebSocketMessage is the JSON message sent to clients.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// BoardSnapshot is the full state sent to a client when it connects, so it
// can render without a separate GET.
type BoardSnapshot struct {
	Cards    model.CardList `json:"cards"`
	Tally    model.Tally    `json:"tally"`
	DarkMode bool           `json:"darkMode"`
}

// SnapshotOf captures the current state of board.
func SnapshotOf(board *service.BoardService) BoardSnapshot {
	cards := board.Cards()
	return BoardSnapshot{Cards: cards, Tally: cards.Tally(), DarkMode: board.DarkMode()}
}

// ConnectedData is the payload of the connected message.
type ConnectedData struct {
	Message string `json:"message"`
	State   any    `json:"state,omitempty"`
}

// NewWebSocketHub creates a new WebSocket hub.
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients: make(map[*WebSocketClient]bool),
	}
}

// SetSnapshot sets the function that provides the state included in each
// client's connected message. Nil sends no state.
func (h *WebSocketHub) SetSnapshot(fn func() any) {
	h.mu.Lock()
	h.snapshot = fn
	h.mu.Unlock()
}

// OnFileChange implements FileWatcherSubscriber.
func (h *WebSocketHub) OnFileChange(change FileChange) {
	h.publish(WebSocketMessage{Type: MessageFileChange, Data: change})
}

// OnBoardChange implements service.BoardSubscriber.
func (h *WebSocketHub) OnBoardChange(change service.BoardChange) {
	h.publish(WebSocketMessage{Type: string(change.Type), Data: change})
}

func (h *WebSocketHub) publish(msg WebSocketMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Failed to marshal %s message: %v", msg.Type, err)
		return
	}
	h.broadcast(data)
}

// broadcast sends a message to all connected clients.
func (h *WebSocketHub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*WebSocketClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.trySend(client, data)
	}
}

// trySend attempts to send data to a client, handling the case where
// the client's channel was closed between snapshot and send.
func (h *WebSocketHub) trySend(client *WebSocketClient, data []byte) {
	defer func() {
		// Channel was closed by removeClient; the client is already gone
		_ = recover()
	}()

	select {
	case client.send <- data:
	default:
		// Client buffer full, close it
		h.removeClient(client)
	}
}

func (h *WebSocketHub) addClient(client *WebSocketClient) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

func (h *WebSocketHub) removeClient(client *WebSocketClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// ServeWS handles WebSocket connection requests.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &WebSocketClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.addClient(client)
	log.Debugf("WebSocket client connected from %s", r.RemoteAddr)

	// Start read/write goroutines
	go client.writePump()
	go client.readPump()

	h.mu.RLock()
	snapshot := h.snapshot
	h.mu.RUnlock()

	welcome := ConnectedData{Message: "Live updates enabled"}
	if snapshot != nil {
		welcome.State = snapshot()
	}
	if data, err := json.Marshal(WebSocketMessage{Type: MessageConnected, Data: welcome}); err == nil {
		h.trySend(client, data)
	}
}

// readPump reads messages from the WebSocket connection.
// We don't expect client messages, but we need to read to detect disconnects.
func (c *WebSocketClient) readPump() {
	defer func() {
		// Only call removeClient here - closing send channel signals writePump to exit
		// writePump is responsible for closing the connection
		c.hub.removeClient(c)
	}()

	c.conn.SetReadLimit(maxReadBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debugf("WebSocket read error: %v", err)
			}
			break
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One frame per message so each frame is a complete JSON document
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			// Drain what queued up while writing
			for i, n := 0, len(c.send); i < n; i++ {
				queued, ok := <-c.send
				if !ok {
					return
				}
				if err := c.conn.WriteMessage(websocket.TextMessage, queued); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

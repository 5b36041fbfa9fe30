// Package gateway terminates WebSocket connections and routes client
// messages to rooms.
package gateway

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"splay-lite/apps/server/internal/auth"
	"splay-lite/apps/server/internal/codec"
	"splay-lite/apps/server/internal/lobby"
	"splay-lite/apps/server/internal/room"
	"splay-lite/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins in production
	},
}

// Connection represents one WebSocket client.
type Connection struct {
	ID       string
	UserID   uint64
	Nickname string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time

	// Current room association.
	RoomID string
	Room   *room.Room
}

// Gateway manages WebSocket connections.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	userConns   map[uint64]*Connection
	nextConnID  uint64
	lobby       *lobby.Lobby
	auth        auth.Service
}

func New(lby *lobby.Lobby, authService auth.Service) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		userConns:   make(map[uint64]*Connection),
		lobby:       lby,
		auth:        authService,
	}
}

// HandleWebSocket upgrades the connection. Clients authenticate with a
// session token in the query string; without one they get a guest account.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, nickname, ok := g.auth.ResolveSession(token)
	if !ok {
		var newToken string
		userID, newToken, _ = g.auth.ResolveOrCreateAccount(token)
		if userID == 0 {
			http.Error(w, "auth failed", http.StatusUnauthorized)
			return
		}
		_, nickname, _ = g.auth.ResolveSession(newToken)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)

	c := &Connection{
		ID:       connID,
		UserID:   userID,
		Nickname: nickname,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
	}
	g.connections[connID] = c
	if prev := g.userConns[userID]; prev != nil && prev != c {
		prev.Conn.Close()
	}
	g.userConns[userID] = c
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s (userID=%d), total: %d", connID, userID, len(g.connections))

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		if c.Room != nil {
			_ = c.Room.SubmitEvent(room.Event{
				Type:   room.EventConnLost,
				UserID: c.UserID,
			})
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}

		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	env, err := codec.Decode(data)
	if err != nil {
		log.Printf("[Gateway] Failed to decode: %v", err)
		c.sendError(1, "invalid message format")
		return
	}

	log.Printf("[Gateway] Received from user %d: type=%s room=%s", c.UserID, env.Type, env.RoomID)

	switch env.Type {
	case codec.ClientJoinRoom:
		c.handleJoinRoom(env)
	case codec.ClientAction:
		c.handleAction(env)
	case codec.ClientChoice:
		c.handleChoice(env)
	case codec.ClientLeave:
		c.handleLeave(env)
	default:
		log.Printf("[Gateway] Unknown message type: %s", env.Type)
		c.sendError(1, "unknown message type")
	}
}

func (c *Connection) handleJoinRoom(env *codec.ClientEnvelope) {
	var r *room.Room
	if env.RoomID != "" {
		r = c.Gateway.lobby.GetRoom(env.RoomID)
		if r == nil {
			c.sendError(2, "room not found")
			return
		}
	} else {
		var err error
		r, err = c.Gateway.lobby.QuickStart(c.UserID, c.Gateway.broadcastToUser)
		if err != nil {
			c.sendError(2, err.Error())
			return
		}
	}

	c.RoomID = r.ID
	c.Room = r

	if err := r.SubmitEvent(room.Event{
		Type:     room.EventJoin,
		UserID:   c.UserID,
		Nickname: c.Nickname,
	}); err != nil {
		c.sendError(2, err.Error())
		return
	}

	log.Printf("[Gateway] User %d joined room %s", c.UserID, r.ID)
}

func (c *Connection) handleAction(env *codec.ClientEnvelope) {
	if c.Room == nil {
		c.sendError(3, "not in a room")
		return
	}
	if env.Action == nil {
		c.sendError(1, "missing action")
		return
	}
	kind, ok := engine.ParseActionKind(env.Action.Kind)
	if !ok {
		c.sendError(4, fmt.Sprintf("unknown action kind %q", env.Action.Kind))
		return
	}

	if err := c.Room.SubmitEvent(room.Event{
		Type:       room.EventAction,
		UserID:     c.UserID,
		ActionKind: kind,
		CardID:     env.Action.Card,
	}); err != nil {
		c.sendError(4, err.Error())
	}
}

func (c *Connection) handleChoice(env *codec.ClientEnvelope) {
	if c.Room == nil {
		c.sendError(3, "not in a room")
		return
	}
	if env.Choice == nil {
		c.sendError(1, "missing choice")
		return
	}

	if err := c.Room.SubmitEvent(room.Event{
		Type:     room.EventChoice,
		UserID:   c.UserID,
		ChoiceID: env.Choice.ChoiceID,
		Picks:    env.Choice.Picks,
	}); err != nil {
		c.sendError(5, err.Error())
	}
}

func (c *Connection) handleLeave(env *codec.ClientEnvelope) {
	if c.Room == nil {
		return
	}
	_ = c.Room.SubmitEvent(room.Event{
		Type:   room.EventLeave,
		UserID: c.UserID,
	})
	c.Room = nil
	c.RoomID = ""
}

func (c *Connection) sendError(code int, msg string) {
	data, err := codec.Encode(codec.ServerError, c.RoomID, 0, codec.ErrorPayload{
		Code:    code,
		Message: msg,
	})
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	if g.userConns[c.UserID] == c {
		delete(g.userConns, c.UserID)
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}

// broadcastToUser sends a message to a specific user.
func (g *Gateway) broadcastToUser(userID uint64, data []byte) {
	g.mu.RLock()
	c := g.userConns[userID]
	g.mu.RUnlock()

	if c != nil {
		select {
		case c.Send <- data:
		default:
			// Drop if buffer full
		}
	}
}

// Broadcast sends a message to all connections.
func (g *Gateway) Broadcast(message []byte) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.connections {
		select {
		case c.Send <- message:
		default:
			// Drop message if buffer full
		}
	}
}

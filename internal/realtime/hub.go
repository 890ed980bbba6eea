package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/events"
	"github.com/Denn4ik2010/online-shop/shared/metrics"
	"github.com/Denn4ik2010/online-shop/shared/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 32
)

// Frame is what connected clients receive.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub pushes chat and message events to the sockets of the users involved.
// A user may hold several connections.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	log      *zap.SugaredLogger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log.Sugar(),
	}
}

// ServeWS upgrades an authenticated request. Must run behind AuthMiddleware.
func (h *Hub) ServeWS(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "userId", userID, "error", err)
		return
	}

	cl := &client{userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(cl)

	go h.writePump(cl)
	go h.readPump(cl)
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	set, ok := h.clients[cl.userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[cl.userID] = set
	}
	set[cl] = struct{}{}
	h.mu.Unlock()

	metrics.ConnectionOpened()
	h.log.Debugw("client connected", "userId", cl.userID)
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	set, ok := h.clients[cl.userID]
	if ok {
		if _, ok = set[cl]; ok {
			delete(set, cl)
			if len(set) == 0 {
				delete(h.clients, cl.userID)
			}
		}
	}
	h.mu.Unlock()

	if ok {
		cl.close()
		metrics.ConnectionClosed()
		h.log.Debugw("client disconnected", "userId", cl.userID)
	}
}

// Connections returns how many sockets userID holds.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// readPump only services control frames; clients do not send data.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.unregister(cl)
		_ = cl.conn.Close()
	}()

	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debugw("websocket read error", "userId", cl.userID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues frame for every socket of the given users. Slow sockets whose
// buffer is full are dropped.
func (h *Hub) Send(frame Frame, userIDs ...string) {
	payload, err := json.Marshal(frame)
	if err != nil {
		h.log.Warnw("failed to marshal frame", "type", frame.Type, "error", err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for _, id := range userIDs {
		for cl := range h.clients[id] {
			select {
			case cl.send <- payload:
			default:
				slow = append(slow, cl)
			}
		}
	}
	h.mu.RUnlock()

	for _, cl := range slow {
		h.log.Warnw("dropping slow client", "userId", cl.userID)
		h.unregister(cl)
	}
}

// HandleChatEvent is the chat.events stream handler.
func (h *Hub) HandleChatEvent(_ context.Context, event events.Event) error {
	switch event.Type {
	case events.ChatCreated, events.ChatDeleted:
		var data events.ChatEvent
		if err := event.Decode(&data); err != nil {
			return err
		}
		h.Send(Frame{Type: event.Type, Data: data}, data.Participants...)
	case events.MessageCreated, events.MessageUpdated, events.MessageDeleted:
		var data events.MessageEvent
		if err := event.Decode(&data); err != nil {
			return err
		}
		h.Send(Frame{Type: event.Type, Data: data}, data.Participants...)
	default:
		h.log.Debugw("ignoring event", "type", event.Type)
	}
	return nil
}

// HandleUserEvent closes the sockets of deleted users.
func (h *Hub) HandleUserEvent(_ context.Context, event events.Event) error {
	if event.Type != events.UserDeleted {
		return nil
	}
	var data events.UserDeletedEvent
	if err := event.Decode(&data); err != nil {
		return err
	}

	h.mu.RLock()
	var victims []*client
	for cl := range h.clients[data.UserID] {
		victims = append(victims, cl)
	}
	h.mu.RUnlock()

	for _, cl := range victims {
		h.unregister(cl)
	}
	return nil
}

// Close disconnects everyone.
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*client
	for _, set := range h.clients {
		for cl := range set {
			all = append(all, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range all {
		h.unregister(cl)
	}
}

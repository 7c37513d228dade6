package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/beratcankara/inoflow/internal/events"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection belonging to a logged-in user. A
// user may hold several at once (multiple tabs).
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks connections per user and fans bus events out to the
// connections of the users each event concerns.
type Hub struct {
	clients map[string]*Client         // clientID -> Client
	users   map[string]map[string]bool // userID -> set of clientIDs

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	done       chan struct{}
	mu         sync.RWMutex
}

type delivery struct {
	userIDs []string
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		users:      make(map[string]map[string]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop; it exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case d := <-h.deliver:
			h.handleDeliver(d)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

// HandleEvent is the bus subscriber: it forwards an event to the
// connections of every user the event names.
func (h *Hub) HandleEvent(ev events.Event) {
	if len(ev.UserIDs) == 0 {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("hub: failed to marshal event: %v", err)
		return
	}
	select {
	case h.deliver <- delivery{userIDs: ev.UserIDs, payload: payload}:
	default:
		// Slow consumer: drop rather than block the bus.
		log.Printf("hub: delivery queue full, dropping %s/%s event", ev.Table, ev.Action)
	}
}

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

func (h *Hub) handleRegister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.ID] = c
	if h.users[c.UserID] == nil {
		h.users[c.UserID] = make(map[string]bool)
	}
	h.users[c.UserID][c.ID] = true
}

func (h *Hub) handleUnregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.send)
	if set := h.users[c.UserID]; set != nil {
		delete(set, c.ID)
		if len(set) == 0 {
			delete(h.users, c.UserID)
		}
	}
}

func (h *Hub) handleDeliver(d delivery) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, uid := range d.userIDs {
		for clientID := range h.users[uid] {
			c := h.clients[clientID]
			if c == nil {
				continue
			}
			select {
			case c.send <- d.payload:
			default:
				// Connection not draining; it will be reaped by its
				// write pump timing out.
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients {
		close(c.send)
		_ = c.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.users = make(map[string]map[string]bool)
}

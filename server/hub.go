package server

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client
type Client struct {
	Hub   *Hub
	Conn  *websocket.Conn
	Send  chan []byte
	Seat  int // -1 if not seated
	Token string
}

// Hub manages all WebSocket connections for one table
type Hub struct {
	Clients    map[*Client]bool
	Seats      [4]*Client // Clients by seat
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	Incoming   chan *ClientMessageWithSender
	logger     *log.Logger
	mu         sync.RWMutex
}

// ClientMessageWithSender pairs a message with its sender
type ClientMessageWithSender struct {
	Client  *Client
	Message ClientMessage
}

// NewHub creates a new Hub
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Incoming:   make(chan *ClientMessageWithSender, 256),
		logger:     logger.WithPrefix("hub"),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				if client.Seat >= 0 && client.Seat < 4 {
					h.Seats[client.Seat] = nil
				}
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToClient sends a message to a specific client
func (h *Hub) SendToClient(client *Client, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal failed", "error", err)
		return
	}
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("client send buffer full, dropping message", "seat", client.Seat)
	}
}

// BroadcastMessage sends a message to all clients
func (h *Hub) BroadcastMessage(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal failed", "error", err)
		return
	}
	h.Broadcast <- data
}

// SeatClient assigns a client to a seat
func (h *Hub) SeatClient(client *Client, seat int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.Seat >= 0 && client.Seat < 4 {
		h.Seats[client.Seat] = nil
	}
	client.Seat = seat
	if seat >= 0 && seat < 4 {
		h.Seats[seat] = client
	}
}

// UnseatClient removes a client from their seat
func (h *Hub) UnseatClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.Seat >= 0 && client.Seat < 4 {
		h.Seats[client.Seat] = nil
	}
	client.Seat = -1
}

// ClientBySeat returns the client at a seat, nil when unoccupied
func (h *Hub) ClientBySeat(seat int) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if seat >= 0 && seat < 4 {
		return h.Seats[seat]
	}
	return nil
}

// ReadPump pumps messages from the websocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("websocket closed unexpectedly", "error", err)
			}
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.Hub.logger.Warn("unparseable client message", "error", err)
			continue
		}

		c.Hub.Incoming <- &ClientMessageWithSender{Client: c, Message: clientMsg}
	}
}

// WritePump pumps messages from the hub to the websocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

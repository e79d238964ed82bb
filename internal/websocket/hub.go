package websocket

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/portfolio-be/internal/models"
)

// broadcastBuffer bounds how many events may queue before Publish starts dropping.
const broadcastBuffer = 256

// Hub maintains the set of active clients and broadcasts events to them.
// Only the Run goroutine touches the client set.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound encoded messages for global broadcast.
	broadcast chan []byte

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			log.Info().Msg("Websocket hub stopped")
			return
		case client := <-h.register:
			h.clients[client] = true
			log.Info().Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer.
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Register adds a client. It reports false when the hub is no longer running.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event for every connected client. It never blocks; when
// the queue is full the event is dropped for live subscribers.
func (h *Hub) Publish(event models.Event) {
	message := NewEventMessage(event)
	if message == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		log.Warn().Str("event_type", event.Type).Msg("Websocket broadcast queue full, dropping event")
	}
}

// Package ws difunde eventos del back-office (facturas, stock, historial) a
// los clientes conectados por websocket.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"
)

// Event mensaje enviado a los clientes.
type Event struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// Conn lo mínimo que el hub necesita de una conexión.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub registro de conexiones y difusión. Publish no bloquea: si el buffer
// está lleno el evento se descarta.
type Hub struct {
	register   chan Conn
	unregister chan Conn
	broadcast  chan []byte
	done       chan struct{}
	log        zerolog.Logger

	mu      sync.Mutex
	clients map[Conn]struct{}
}

// NewHub crea el hub; llamar Run para atender los canales.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws").Logger(),
		clients:    make(map[Conn]struct{}),
	}
}

// Run atiende altas, bajas y difusiones hasta que ctx termina.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				_ = c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.log.Debug().Msg("cliente ws conectado")
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				_ = c.Close()
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					_ = c.Close()
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register agrega una conexión. Con el hub detenido cierra la conexión.
func (h *Hub) Register(c Conn) {
	select {
	case h.register <- c:
	case <-h.done:
		_ = c.Close()
	}
}

// Unregister quita y cierra la conexión.
func (h *Hub) Unregister(c Conn) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Clients cantidad de conexiones activas.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish serializa el evento y lo encola para difusión.
func (h *Hub) Publish(topic string, payload any) {
	msg, err := json.Marshal(Event{Topic: topic, Data: payload})
	if err != nil {
		h.log.Warn().Err(err).Str("topic", topic).Msg("evento ws no serializable")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Str("topic", topic).Msg("buffer ws lleno, evento descartado")
	}
}

// Package realtime pushes committed stock changes to websocket clients.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"interfaz/internal/dto"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Hub fans stock events out to every connected client. A client that cannot
// keep up is disconnected instead of blocking the publisher.
type Hub struct {
	mu       sync.RWMutex
	clientes map[*cliente]struct{}
}

func NewHub() *Hub {
	return &Hub{clientes: make(map[*cliente]struct{})}
}

type cliente struct {
	conn *websocket.Conn
	send chan []byte
}

// PublicarStock broadcasts one message per event.
func (h *Hub) PublicarStock(eventos ...dto.EventoStock) {
	for _, ev := range eventos {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Error().Err(err).Msg("ws: marshal evento")
			continue
		}
		h.difundir(data)
	}
}

func (h *Hub) difundir(data []byte) {
	h.mu.RLock()
	var lentos []*cliente
	for c := range h.clientes {
		select {
		case c.send <- data:
		default:
			lentos = append(lentos, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range lentos {
		h.quitar(c)
	}
}

// Clientes returns the number of connected clients.
func (h *Hub) Clientes() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clientes)
}

// Atender registers an upgraded connection and blocks until it closes.
func (h *Hub) Atender(conn *websocket.Conn) {
	c := &cliente{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clientes[c] = struct{}{}
	h.mu.Unlock()
	log.Debug().Int("clientes", h.Clientes()).Msg("ws: cliente conectado")

	go h.escribir(c)
	h.leer(c)
}

func (h *Hub) quitar(c *cliente) {
	h.mu.Lock()
	if _, ok := h.clientes[c]; ok {
		delete(h.clientes, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// leer drains client frames so pongs and close messages are processed.
func (h *Hub) leer(c *cliente) {
	defer func() {
		h.quitar(c)
		c.conn.Close()
		log.Debug().Msg("ws: cliente desconectado")
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) escribir(c *cliente) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

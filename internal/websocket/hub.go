// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// ErrHubStopped is returned when registering with a hub that is not running.
var ErrHubStopped = errors.New("websocket hub is not running")

// Message types.
const (
	MessageTypeIndexPublished = "index_published"
	MessageTypeIndexFailed    = "index_failed"
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
)

const broadcastBuffer = 64

// Message is one JSON frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// IndexEvent describes one index build attempt.
type IndexEvent struct {
	Version        int64     `json:"version,omitempty"`
	Items          int       `json:"items,omitempty"`
	VocabularySize int       `json:"vocabulary_size,omitempty"`
	Restored       bool      `json:"restored,omitempty"`
	DurationMS     int64     `json:"duration_ms"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	logger     zerolog.Logger

	mu sync.RWMutex
	// done is closed while no RunWithContext loop is active.
	done chan struct{}
}

// NewHub creates a stopped hub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHub(logger zerolog.Logger) *Hub {
	done := make(chan struct{})
	close(done)
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With().Str("component", "websocket-hub").Logger(),
		done:       done,
	}
}

// RunWithContext processes registrations and broadcasts until ctx is done,
// then closes every client and returns ctx.Err(). A supervisor may call it
// again after it returns.
//
// Pending registrations are handled before broadcasts so a client that
// registered first never misses a message queued after it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	h.mu.Lock()
	done := make(chan struct{})
	h.done = done
	h.mu.Unlock()
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case c := <-h.register:
			h.add(c)
			continue
		case c := <-h.unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.broadcastToClients(msg)
		}
	}
}

// Running reports whether a RunWithContext loop is active.
func (h *Hub) Running() bool {
	select {
	case <-h.stopped():
		return false
	default:
		return true
	}
}

func (h *Hub) stopped() <-chan struct{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.done
}

// Register adds c to the hub and starts its pumps.
func (h *Hub) Register(ctx context.Context, c *Client) error {
	select {
	case h.register <- c:
		c.start()
		return nil
	case <-h.stopped():
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// leave is called by a client's read pump when its connection ends.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped():
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info().Uint64("client", c.id).Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info().Uint64("client", c.id).Int("total_clients", n).Msg("websocket client disconnected")
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg for every client. It never blocks; when the queue is
// full the message is dropped.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn().Str("type", msg.Type).Msg("broadcast queue full, message dropped")
	}
}

// IndexPublished announces a newly serving index.
func (h *Hub) IndexPublished(stats recommend.IndexStats, took time.Duration) {
	h.Broadcast(Message{Type: MessageTypeIndexPublished, Data: IndexEvent{
		Version:        stats.Version,
		Items:          stats.Items,
		VocabularySize: stats.VocabularySize,
		Restored:       stats.Restored,
		DurationMS:     took.Milliseconds(),
		Timestamp:      time.Now().UTC(),
	}})
}

// IndexFailed announces a failed build attempt.
func (h *Hub) IndexFailed(err error, took time.Duration) {
	h.Broadcast(Message{Type: MessageTypeIndexFailed, Data: IndexEvent{
		DurationMS: took.Milliseconds(),
		Error:      err.Error(),
		Timestamp:  time.Now().UTC(),
	}})
}

// broadcastToClients sends msg to clients in connection order. Clients whose
// buffer is full are dropped.
func (h *Hub) broadcastToClients(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.sortedClients() {
		select {
		case c.send <- msg:
		default:
			close(c.send)
			delete(h.clients, c)
			h.logger.Warn().Uint64("client", c.id).Msg("slow websocket client dropped")
		}
	}
}

// sortedClients returns clients by id. The caller holds h.mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	return clients
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := h.sortedClients()
	for _, c := range clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()

	reason := "context_canceled"
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		reason = "context_deadline"
	}
	h.logger.Info().
		Str("reason", reason).
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

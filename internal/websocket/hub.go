// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/campus/internal/logging"
	"github.com/tomtom215/campus/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Hub tracks open chat sessions so they can be closed on shutdown.
// Sessions register themselves, so a hub that is not running still accepts
// connections; RunWithContext only adds the shutdown behavior.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Debug().Uint64("client_id", c.id).Int("total_clients", total).Msg("chat session opened")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		metrics.WSConnections.Dec()
		logging.Debug().Uint64("client_id", c.id).Int("total_clients", total).Msg("chat session closed")
	}
}

// RunWithContext blocks until ctx is done, then closes every open session.
// It is run as a supervised service.
func (h *Hub) RunWithContext(ctx context.Context) error {
	<-ctx.Done()
	h.logGracefulShutdown(ctx)
	return ctx.Err()
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.closeAllClients()

	logging.Info().
		Str("component", "chat-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("chat hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// closeAllClients asks every session to send a close frame, in id order,
// and returns how many were open.
func (h *Hub) closeAllClients() int {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		client.Close()
	}
	return len(clients)
}

// GetClientCount returns the number of open sessions.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package websocket

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/campus/internal/metrics"
	"github.com/tomtom215/campus/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBufferSize = 16
)

// DefaultRateLimitedMessage answers messages over the per-session rate.
const DefaultRateLimitedMessage = "You're sending messages too quickly. Please wait a moment."

// clientIDCounter orders sessions for shutdown and logs.
var clientIDCounter atomic.Uint64

// Responder produces the reply to one chat message. The reply is sent even
// when err is non-nil.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// Options configures a chat session.
type Options struct {
	// MessageRate is the sustained messages per second. Zero disables the limit.
	MessageRate float64
	Burst       int

	// RateLimitedMessage replaces the reply when the limit is hit.
	RateLimitedMessage string
}

// Client is one chat session over a websocket connection. Messages are
// answered in order, one at a time.
type Client struct {
	id        uint64
	hub       *Hub
	conn      *websocket.Conn
	send      chan models.ChatResponse
	responder Responder
	limiter   *rate.Limiter
	limited   string
	logger    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a session. ctx supplies request-scoped values such as
// the request id; its cancellation is ignored because the HTTP handler
// returns right after Start.
//
//nolint:gocritic // logger passed by value to match zerolog.With() usage
func NewClient(ctx context.Context, hub *Hub, conn *websocket.Conn, responder Responder, opts Options, logger zerolog.Logger) *Client {
	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.MessageRate > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.MessageRate), burst)
	}
	limited := opts.RateLimitedMessage
	if limited == "" {
		limited = DefaultRateLimitedMessage
	}

	id := clientIDCounter.Add(1)
	return &Client{
		id:        id,
		hub:       hub,
		conn:      conn,
		send:      make(chan models.ChatResponse, sendBufferSize),
		responder: responder,
		limiter:   limiter,
		limited:   limited,
		logger:    logger.With().Uint64("client_id", id).Logger(),
		ctx:       sessionCtx,
		cancel:    cancel,
	}
}

// ID returns the session id.
func (c *Client) ID() uint64 {
	return c.id
}

// Start registers the session and begins reading and writing.
func (c *Client) Start() {
	c.hub.add(c)
	go c.writePump()
	go c.readPump()
}

// Close ends the session with a normal close frame.
func (c *Client) Close() {
	c.cancel()
}

// readPump answers inbound messages until the peer goes away.
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.hub.remove(c)
		_ = c.conn.Close() // Explicitly ignore error - best-effort cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("read").Inc()
				c.logger.Warn().Err(err).Msg("unexpected websocket close error")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()

		if !c.limiter.Allow() {
			c.enqueue(models.ChatResponse{Response: c.limited})
			continue
		}

		reply, err := c.responder.Respond(c.ctx, parseMessage(data))
		if err != nil {
			c.logger.Warn().Err(err).Msg("chat reply degraded")
		}
		if !c.enqueue(models.ChatResponse{Response: reply}) {
			return
		}
	}
}

// parseMessage extracts the message field. Anything else reads as empty.
func parseMessage(data []byte) string {
	var req models.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ""
	}
	return req.Message
}

// enqueue hands a reply to writePump. It reports false once the session
// is closing.
func (c *Client) enqueue(resp models.ChatResponse) bool {
	select {
	case c.send <- resp:
		return true
	case <-c.ctx.Done():
		return false
	}
}

// writePump writes replies and keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Explicitly ignore error - best-effort cleanup
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if err := c.conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
				c.logger.Debug().Err(err).Msg("failed to write close message")
			}
			return

		case resp := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			data, err := json.Marshal(resp)
			if err != nil {
				c.logger.Error().Err(err).Msg("failed to marshal chat response")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

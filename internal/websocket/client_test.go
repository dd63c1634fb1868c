// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/models"
)

// echoResponder answers with the message upper-cased and records calls.
type echoResponder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (e *echoResponder) Respond(_ context.Context, message string) (string, error) {
	e.mu.Lock()
	e.calls = append(e.calls, message)
	e.mu.Unlock()
	if message == "" {
		return "empty", e.err
	}
	return strings.ToUpper(message), e.err
}

func (e *echoResponder) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func setupWebSocketServer(t *testing.T, hub *Hub, responder Responder, opts Options) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		NewClient(r.Context(), hub, conn, responder, opts, zerolog.Nop()).Start()
	}))
	t.Cleanup(server.Close)
	return server
}

func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) models.ChatResponse {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var resp models.ChatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("reply %q is not a chat response: %v", data, err)
	}
	return resp
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestClient_RepliesInOrder(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	responder := &echoResponder{}
	conn := dialWebSocket(t, setupWebSocketServer(t, hub, responder, Options{}))

	for _, msg := range []string{"hello", "how do i enroll", "bye"} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"message":"`+msg+`"}`)); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
	}
	for _, want := range []string{"HELLO", "HOW DO I ENROLL", "BYE"} {
		if got := readReply(t, conn).Response; got != want {
			t.Errorf("reply = %q, want %q", got, want)
		}
	}
}

func TestClient_MalformedFrameIsEmptyMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		frame string
	}{
		{"not json", "hello there"},
		{"wrong type", `{"message": 42}`},
		{"missing field", `{"text":"hi"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			conn := dialWebSocket(t, setupWebSocketServer(t, NewHub(), &echoResponder{}, Options{}))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.frame)); err != nil {
				t.Fatalf("WriteMessage: %v", err)
			}
			if got := readReply(t, conn).Response; got != "empty" {
				t.Errorf("reply = %q, want the empty-message answer", got)
			}
		})
	}
}

func TestClient_SendsReplyOnResponderError(t *testing.T) {
	t.Parallel()

	responder := &echoResponder{err: errors.New("model unavailable")}
	conn := dialWebSocket(t, setupWebSocketServer(t, NewHub(), responder, Options{}))

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"message":"hi"}`)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if got := readReply(t, conn).Response; got != "HI" {
		t.Errorf("reply = %q, want the responder text despite the error", got)
	}
}

func TestClient_RateLimited(t *testing.T) {
	t.Parallel()

	responder := &echoResponder{}
	opts := Options{MessageRate: 0.001, Burst: 1, RateLimitedMessage: "slow down"}
	conn := dialWebSocket(t, setupWebSocketServer(t, NewHub(), responder, opts))

	for i := 0; i < 2; i++ {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"message":"hi"}`)); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
	}
	if got := readReply(t, conn).Response; got != "HI" {
		t.Errorf("first reply = %q, want HI", got)
	}
	if got := readReply(t, conn).Response; got != "slow down" {
		t.Errorf("second reply = %q, want the rate limit text", got)
	}
	if n := responder.count(); n != 1 {
		t.Errorf("responder called %d times, want 1", n)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(context.Background(), NewHub(), nil, &echoResponder{}, Options{}, zerolog.Nop())
	defer c.Close()

	if c.limited != DefaultRateLimitedMessage {
		t.Errorf("limited message = %q, want default", c.limited)
	}
	if !c.limiter.Allow() || !c.limiter.Allow() {
		t.Error("zero MessageRate should not limit")
	}

	other := NewClient(context.Background(), NewHub(), nil, &echoResponder{}, Options{}, zerolog.Nop())
	defer other.Close()
	if other.ID() <= c.ID() {
		t.Errorf("client ids not increasing: %d then %d", c.ID(), other.ID())
	}
}

func TestNewClient_IgnoresRequestCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(ctx, NewHub(), nil, &echoResponder{}, Options{}, zerolog.Nop())
	cancel()

	if c.ctx.Err() != nil {
		t.Error("session context canceled with the request context")
	}
	c.Close()
	if c.ctx.Err() == nil {
		t.Error("Close did not cancel the session context")
	}
}

func TestParseMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{`{"message":"hi"}`, "hi"},
		{`{"message":""}`, ""},
		{`[]`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		if got := parseMessage([]byte(tt.in)); got != tt.want {
			t.Errorf("parseMessage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

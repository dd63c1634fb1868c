// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/campus/internal/chatbot"
	"github.com/tomtom215/campus/internal/models"
)

func TestChat_ResponseShape(t *testing.T) {
	env := setupTestEnv(t, envOptions{chat: &fakeChat{}})

	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{"json", "application/json", `{"message":"hi"}`, `{"response":"echo:hi"}`},
		{"json with charset", "application/json; charset=utf-8", `{"message":"hi"}`, `{"response":"echo:hi"}`},
		{"no content type", "", `{"message":"hi"}`, `{"response":"echo:hi"}`},
		{"form", "application/x-www-form-urlencoded", "message=hello+there", `{"response":"echo:hello there"}`},
		{"malformed json", "application/json", `{"message":`, `{"response":"echo:"}`},
		{"wrong type", "application/json", `{"message":7}`, `{"response":"echo:"}`},
		{"empty body", "application/json", "", `{"response":"echo:"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			expectStatus(t, rec, http.StatusOK)
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestChat_DegradedStill200(t *testing.T) {
	env := setupTestEnv(t, envOptions{chat: &fakeChat{err: errors.New("inference timeout")}})

	rec := env.do(http.MethodPost, "/api/v1/chat", "", `{"message":"hi"}`)
	expectStatus(t, rec, http.StatusOK)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if len(resp) != 1 || resp["response"] != "echo:hi" {
		t.Errorf("body = %v, want only the response field", resp)
	}
}

func TestChat_NoService(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	rec := env.do(http.MethodPost, "/api/v1/chat", "", `{"message":"hi"}`)
	expectStatus(t, rec, http.StatusOK)

	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if resp.Response != chatbot.DefaultUnavailableMessage {
		t.Errorf("response = %q, want the unavailable message", resp.Response)
	}
}

func TestChatWebSocket(t *testing.T) {
	env := setupTestEnv(t, envOptions{chat: &fakeChat{}})
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/chat/ws"

	t.Run("allowed origin", func(t *testing.T) {
		header := http.Header{"Origin": []string{testOrigin}}
		conn, resp, err := websocket.DefaultDialer.Dial(url, header)
		if err != nil {
			t.Fatalf("Dial() error = %v", err)
		}
		resp.Body.Close()
		defer conn.Close()

		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"message":"hi"}`)); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
		if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
			t.Fatalf("SetReadDeadline: %v", err)
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		if string(data) != `{"response":"echo:hi"}` {
			t.Errorf("reply = %s", data)
		}
	})

	tests := []struct {
		name   string
		origin string
	}{
		{"missing origin", ""},
		{"foreign origin", "http://evil.test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if err == nil {
				conn.Close()
				t.Fatal("Dial() succeeded, want handshake rejection")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("handshake response = %v, want 403", resp)
			}
			if resp != nil {
				resp.Body.Close()
			}
		})
	}
}

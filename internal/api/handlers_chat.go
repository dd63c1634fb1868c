// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/campus/internal/chatbot"
	"github.com/tomtom215/campus/internal/logging"
	"github.com/tomtom215/campus/internal/models"
	ws "github.com/tomtom215/campus/internal/websocket"
)

// maxChatBodyBytes bounds a chat request body.
const maxChatBodyBytes = 16 * 1024

// unavailableResponder answers every turn when no chat service is wired.
type unavailableResponder struct{}

func (unavailableResponder) Respond(context.Context, string) (string, error) {
	return chatbot.DefaultUnavailableMessage, chatbot.ErrModelUnavailable
}

func (h *Handler) responder() ws.Responder {
	if h.chat == nil {
		return unavailableResponder{}
	}
	return h.chat
}

// Chat handles one chat turn. It always answers 200 with exactly
// {"response": "..."}; a malformed body is treated as an empty message.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	message := readChatMessage(w, r)

	reply, err := h.responder().Respond(r.Context(), message)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Chat reply degraded")
	}

	data, err := json.Marshal(models.ChatResponse{Response: reply})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal chat response")
		data = []byte(`{"response":""}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write chat response")
	}
}

// readChatMessage extracts the message from a JSON body or the form field
// "message". Any decoding failure yields "".
func readChatMessage(w http.ResponseWriter, r *http.Request) string {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return ""
		}
		return r.PostForm.Get("message")
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxChatBodyBytes); err != nil {
			return ""
		}
		return r.PostFormValue("message")
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	var req models.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ""
	}
	return req.Message
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on websocket handshakes.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// ChatWebSocket upgrades the connection to a chat session.
func (h *Handler) ChatWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	var opts ws.Options
	if h.config != nil {
		opts.MessageRate = h.config.Chatbot.MessageRate
		opts.Burst = h.config.Chatbot.MessageBurst
	}
	client := ws.NewClient(r.Context(), h.wsHub, conn, h.responder(), opts, *logging.Ctx(r.Context()))
	client.Start()
}

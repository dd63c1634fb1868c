// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package websocket serves the study assistant over websocket connections.

Each connection is a chat session. The client sends text frames of the form

	{"message": "how do I enroll?"}

and receives one reply per message, in order:

	{"response": "Open the course page and press Enroll."}

A frame that is not valid JSON is answered as an empty message. Replies are
produced by a Responder, normally the chatbot service; the reply text is
always sent even when the responder reports an error, so the session never
sees a failure shape.

Sessions are rate limited with golang.org/x/time/rate. Messages over the
limit are answered with a fixed text instead of reaching the responder.

The Hub tracks open sessions. When its context ends, typically at server
shutdown, every session is sent a normal close frame.

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	client := websocket.NewClient(r.Context(), hub, conn, chatService, opts, logger)
	client.Start()
*/
package websocket

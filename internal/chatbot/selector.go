// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"math/rand/v2"
	"strings"
)

// Fallback texts used when configuration leaves them blank.
const (
	DefaultUnknownMessage     = "Sorry, I don't understand your message."
	DefaultEmptyMessage       = "Please enter a valid message."
	DefaultUnavailableMessage = "The assistant is unavailable right now. Please try again later."
)

// DefaultResponses answer a known tag that has no responses of its own.
var DefaultResponses = []string{"I'm still learning about that.", "I don't understand."}

// Selector picks a reply for a predicted tag.
type Selector struct {
	intents  *Intents
	defaults []string
	unknown  string
	intn     func(n int) int
}

// NewSelector returns a selector drawing uniformly with math/rand/v2.
// Blank defaults fall back to DefaultResponses and DefaultUnknownMessage.
func NewSelector(intents *Intents, defaults []string, unknown string) *Selector {
	s := &Selector{
		intents: intents,
		unknown: unknown,
		intn:    rand.IntN,
	}
	for _, d := range defaults {
		if strings.TrimSpace(d) != "" {
			s.defaults = append(s.defaults, d)
		}
	}
	if len(s.defaults) == 0 {
		s.defaults = DefaultResponses
	}
	if strings.TrimSpace(s.unknown) == "" {
		s.unknown = DefaultUnknownMessage
	}
	if s.intents == nil {
		s.intents = NewIntents(nil)
	}
	return s
}

// Select returns a response for tag. The result is never empty.
func (s *Selector) Select(tag string) string {
	reply, _ := s.choose(tag)
	return reply
}

// choose reports whether tag matched an intent.
func (s *Selector) choose(tag string) (string, bool) {
	intent, ok := s.intents.Lookup(tag)
	if !ok {
		return s.unknown, false
	}
	pool := intent.Responses
	if len(pool) == 0 {
		pool = s.defaults
	}
	return pool[s.intn(len(pool))], true
}

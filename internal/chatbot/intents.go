// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// Intent is one tag with the patterns it was trained on and the responses
// it may answer with.
type Intent struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

// Intents is an immutable tag lookup. When a tag appears twice the first
// entry wins.
type Intents struct {
	list  []Intent
	byTag map[string]int
}

// NewIntents indexes list by tag. Blank responses are dropped.
func NewIntents(list []Intent) *Intents {
	in := &Intents{
		list:  make([]Intent, 0, len(list)),
		byTag: make(map[string]int, len(list)),
	}
	for _, it := range list {
		if _, dup := in.byTag[it.Tag]; dup {
			continue
		}
		responses := make([]string, 0, len(it.Responses))
		for _, r := range it.Responses {
			if strings.TrimSpace(r) != "" {
				responses = append(responses, r)
			}
		}
		it.Responses = responses
		in.byTag[it.Tag] = len(in.list)
		in.list = append(in.list, it)
	}
	return in
}

// LoadIntents reads intents.json: {"intents": [...]} or a bare array.
func LoadIntents(path string) (*Intents, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intents: %w", err)
	}
	return ParseIntents(data)
}

// ParseIntents decodes intents JSON.
func ParseIntents(data []byte) (*Intents, error) {
	var list []Intent
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("parse intents: %w", err)
		}
		return NewIntents(list), nil
	}
	var doc struct {
		Intents []Intent `json:"intents"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse intents: %w", err)
	}
	return NewIntents(doc.Intents), nil
}

// Lookup returns the intent for tag.
func (in *Intents) Lookup(tag string) (Intent, bool) {
	i, ok := in.byTag[tag]
	if !ok {
		return Intent{}, false
	}
	return in.list[i], true
}

// Tags lists tags in file order.
func (in *Intents) Tags() []string {
	tags := make([]string, len(in.list))
	for i, it := range in.list {
		tags[i] = it.Tag
	}
	return tags
}

// Len is the number of distinct tags.
func (in *Intents) Len() int { return len(in.list) }

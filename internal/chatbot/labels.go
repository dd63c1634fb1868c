// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// LabelEncoder decodes class indices to intent tags, like a fitted
// scikit-learn LabelEncoder.
type LabelEncoder struct {
	classes []string
}

// NewLabelEncoder returns an encoder over classes in index order.
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("label encoder has no classes")
	}
	return &LabelEncoder{classes: append([]string(nil), classes...)}, nil
}

// LoadLabels reads labels.json, either a bare array or {"classes": [...]}.
func LoadLabels(path string) (*LabelEncoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}

	var classes []string
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var doc struct {
			Classes []string `json:"classes"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("parse labels: %w", err)
		}
		classes = doc.Classes
	} else if err := json.Unmarshal(data, &classes); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	return NewLabelEncoder(classes)
}

// Len is the number of classes.
func (e *LabelEncoder) Len() int { return len(e.classes) }

// Decode returns the tag for a class index.
func (e *LabelEncoder) Decode(idx int) (string, error) {
	if idx < 0 || idx >= len(e.classes) {
		return "", fmt.Errorf("class index %d out of range [0,%d)", idx, len(e.classes))
	}
	return e.classes[idx], nil
}

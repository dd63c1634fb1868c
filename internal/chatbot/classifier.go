// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"context"
	"errors"
	"fmt"
)

// IntentClassifier predicts an intent tag for normalized text.
type IntentClassifier interface {
	Classify(ctx context.Context, normalized string) (string, error)
}

// Classifier runs tokenizer, padding, model and label decoding.
type Classifier struct {
	tokenizer   *Tokenizer
	model       *Model
	labels      *LabelEncoder
	inputLength int
}

var _ IntentClassifier = (*Classifier)(nil)

// NewClassifier wires the artifacts together. inputLength 0 takes the
// model's own input length. The model output width must equal the number
// of labels.
func NewClassifier(tokenizer *Tokenizer, model *Model, labels *LabelEncoder, inputLength int) (*Classifier, error) {
	if tokenizer == nil || model == nil || labels == nil {
		return nil, errors.New("tokenizer, model and labels are required")
	}
	if inputLength == 0 {
		inputLength = model.InputLength()
	}
	if inputLength != model.InputLength() {
		return nil, fmt.Errorf("input length %d does not match model input length %d", inputLength, model.InputLength())
	}
	if model.Outputs() != labels.Len() {
		return nil, fmt.Errorf("model has %d outputs but label encoder has %d classes", model.Outputs(), labels.Len())
	}
	return &Classifier{tokenizer: tokenizer, model: model, labels: labels, inputLength: inputLength}, nil
}

// InputLength is the padded sequence length.
func (c *Classifier) InputLength() int { return c.inputLength }

// Probabilities returns the model output for normalized text.
func (c *Classifier) Probabilities(ctx context.Context, normalized string) ([]float64, error) {
	seq := c.tokenizer.TextToSequence(normalized)
	padded := PadSequences([][]int{seq}, c.inputLength, PadPre, PadPre, 0)[0]
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	probs, err := c.model.Predict(padded)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return probs, nil
}

// Classify returns the tag with the highest probability.
func (c *Classifier) Classify(ctx context.Context, normalized string) (string, error) {
	probs, err := c.Probabilities(ctx, normalized)
	if err != nil {
		return "", err
	}
	return c.labels.Decode(Argmax(probs))
}

// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

// Fixture vocabulary: 1=<OOV>, 2=hello, 3=bye, 4=thank.
var fixtureWordIndex = map[string]int{"<OOV>": 1, "hello": 2, "bye": 3, "thank": 4}

var fixtureLabels = []string{"greeting", "goodbye", "thanks"}

var fixtureIntents = []Intent{
	{Tag: "greeting", Patterns: []string{"hello", "hi"}, Responses: []string{"Hello!", "Hi there!"}},
	{Tag: "goodbye", Patterns: []string{"bye"}},
	// "thanks" is deliberately missing so it decodes to an unknown tag.
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

func fixtureTokenizerJSON(t *testing.T, encodedIndex bool) []byte {
	t.Helper()
	var wordIndex any = fixtureWordIndex
	if encodedIndex {
		wordIndex = string(mustJSON(t, fixtureWordIndex))
	}
	return mustJSON(t, map[string]any{
		"class_name": "Tokenizer",
		"config": map[string]any{
			"num_words":      nil,
			"filters":        DefaultFilters,
			"lower":          true,
			"split":          " ",
			"char_level":     false,
			"oov_token":      "<OOV>",
			"document_count": 4,
			"word_index":     wordIndex,
		},
	})
}

// fixtureModel maps each known word to a one-hot embedding, averages over
// non-padding steps and applies an identity dense layer with softmax.
func fixtureModel(outputs int) map[string]any {
	embedding := [][]float64{
		{0, 0, 0}, // padding
		{0, 0, 0}, // <OOV>
		{1, 0, 0}, // hello
		{0, 1, 0}, // bye
		{0, 0, 1}, // thank
	}
	kernel := make([][]float64, 3)
	for i := range kernel {
		kernel[i] = make([]float64, outputs)
		if i < outputs {
			kernel[i][i] = 4
		}
	}
	return map[string]any{
		"input_length": 4,
		"layers": []map[string]any{
			{"class_name": "Embedding", "mask_zero": true, "weights": embedding},
			{"type": "global_average_pooling1d"},
			{"type": "dense", "activation": "softmax", "kernel": kernel, "bias": make([]float64, outputs)},
		},
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// writeFixtureBundle writes a complete, valid artifact directory.
func writeFixtureBundle(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, TokenizerFile, fixtureTokenizerJSON(t, true))
	writeFile(t, dir, ModelFile, mustJSON(t, fixtureModel(len(fixtureLabels))))
	writeFile(t, dir, LabelsFile, mustJSON(t, fixtureLabels))
	writeFile(t, dir, IntentsFile, mustJSON(t, map[string]any{"intents": fixtureIntents}))
	return dir
}

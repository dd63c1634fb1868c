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
	"strings"

	"github.com/goccy/go-json"
)

// DefaultFilters is the Keras Tokenizer default filter set.
const DefaultFilters = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

// Padding and truncation modes for PadSequences.
const (
	PadPre  = "pre"
	PadPost = "post"
)

// Tokenizer maps text to integer sequences the way a fitted Keras
// Tokenizer does.
type Tokenizer struct {
	numWords  int
	filters   map[rune]struct{}
	lower     bool
	split     string
	charLevel bool
	oovIndex  int
	wordIndex map[string]int
}

type tokenizerJSON struct {
	ClassName string          `json:"class_name"`
	Config    tokenizerConfig `json:"config"`
}

type tokenizerConfig struct {
	NumWords  *int            `json:"num_words"`
	Filters   *string         `json:"filters"`
	Lower     *bool           `json:"lower"`
	Split     *string         `json:"split"`
	CharLevel bool            `json:"char_level"`
	OOVToken  *string         `json:"oov_token"`
	WordIndex json.RawMessage `json:"word_index"`
}

// LoadTokenizer reads a tokenizer.json produced by Tokenizer.to_json().
func LoadTokenizer(path string) (*Tokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tokenizer: %w", err)
	}
	return ParseTokenizer(data)
}

// ParseTokenizer decodes Tokenizer.to_json() output. word_index may be
// either a JSON object or a JSON-encoded string holding one, as Keras
// writes it.
func ParseTokenizer(data []byte) (*Tokenizer, error) {
	var doc tokenizerJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tokenizer: %w", err)
	}
	cfg := doc.Config

	wordIndex, err := decodeWordIndex(cfg.WordIndex)
	if err != nil {
		return nil, err
	}

	t := &Tokenizer{
		lower:     true,
		split:     " ",
		charLevel: cfg.CharLevel,
		wordIndex: wordIndex,
	}
	if cfg.NumWords != nil {
		t.numWords = *cfg.NumWords
	}
	if cfg.Lower != nil {
		t.lower = *cfg.Lower
	}
	if cfg.Split != nil && *cfg.Split != "" {
		t.split = *cfg.Split
	}
	filters := DefaultFilters
	if cfg.Filters != nil {
		filters = *cfg.Filters
	}
	t.filters = make(map[rune]struct{}, len(filters))
	for _, r := range filters {
		t.filters[r] = struct{}{}
	}
	if cfg.OOVToken != nil {
		t.oovIndex = wordIndex[*cfg.OOVToken]
	}
	return t, nil
}

func decodeWordIndex(raw json.RawMessage) (map[string]int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.New("tokenizer has no word_index")
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("parse word_index: %w", err)
		}
		raw = []byte(encoded)
	}
	var index map[string]int
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("parse word_index: %w", err)
	}
	return index, nil
}

// WordIndex returns the index of word, 0 when unknown.
func (t *Tokenizer) WordIndex(word string) int {
	return t.wordIndex[word]
}

// VocabularySize is one more than the highest word index.
func (t *Tokenizer) VocabularySize() int {
	highest := 0
	for _, i := range t.wordIndex {
		highest = max(highest, i)
	}
	return highest + 1
}

// TextsToSequences converts each text to its index sequence.
func (t *Tokenizer) TextsToSequences(texts []string) [][]int {
	out := make([][]int, len(texts))
	for i, text := range texts {
		out[i] = t.TextToSequence(text)
	}
	return out
}

// TextToSequence converts one text. Words beyond num_words and unknown
// words map to the OOV index when an oov_token was fitted, and are
// dropped otherwise.
func (t *Tokenizer) TextToSequence(text string) []int {
	words := t.words(text)
	seq := make([]int, 0, len(words))
	for _, w := range words {
		i, ok := t.wordIndex[w]
		switch {
		case ok && (t.numWords == 0 || i < t.numWords):
			seq = append(seq, i)
		case t.oovIndex > 0:
			seq = append(seq, t.oovIndex)
		}
	}
	return seq
}

func (t *Tokenizer) words(text string) []string {
	if t.lower {
		text = strings.ToLower(text)
	}
	if t.charLevel {
		words := make([]string, 0, len(text))
		for _, r := range text {
			words = append(words, string(r))
		}
		return words
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if _, ok := t.filters[r]; ok {
			b.WriteString(t.split)
			continue
		}
		b.WriteRune(r)
	}

	parts := strings.Split(b.String(), t.split)
	words := parts[:0]
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// PadSequences pads or truncates every sequence to maxlen, like
// keras.preprocessing.sequence.pad_sequences. padding and truncating are
// PadPre or PadPost.
func PadSequences(seqs [][]int, maxlen int, padding, truncating string, value int) [][]int {
	maxlen = max(maxlen, 0)
	out := make([][]int, len(seqs))
	for i, seq := range seqs {
		row := make([]int, maxlen)
		for j := range row {
			row[j] = value
		}
		if len(seq) > maxlen {
			if truncating == PadPost {
				seq = seq[:maxlen]
			} else {
				seq = seq[len(seq)-maxlen:]
			}
		}
		if padding == PadPost {
			copy(row, seq)
		} else {
			copy(row[maxlen-len(seq):], seq)
		}
		out[i] = row
	}
	return out
}

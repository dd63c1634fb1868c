// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
)

// maxLemmaPasses bounds the fixed-point iteration in Lemmatize.
const maxLemmaPasses = 8

// nounExceptions are irregular plurals, after WordNet's noun.exc.
var nounExceptions = map[string]string{
	"analyses":   "analysis",
	"appendices": "appendix",
	"bases":      "basis",
	"children":   "child",
	"crises":     "crisis",
	"criteria":   "criterion",
	"feet":       "foot",
	"geese":      "goose",
	"indices":    "index",
	"lice":       "louse",
	"matrices":   "matrix",
	"men":        "man",
	"mice":       "mouse",
	"movies":     "movie",
	"oxen":       "ox",
	"people":     "person",
	"phenomena":  "phenomenon",
	"quizzes":    "quiz",
	"teeth":      "tooth",
	"theses":     "thesis",
	"women":      "woman",
}

// protectedWords look like plurals but are not.
var protectedWords = map[string]struct{}{
	"always": {}, "as": {}, "does": {}, "has": {}, "his": {}, "is": {},
	"its": {}, "less": {}, "news": {}, "perhaps": {}, "plus": {}, "series": {},
	"species": {}, "this": {}, "thus": {}, "us": {}, "was": {}, "yes": {},
	"abdomen": {}, "amen": {}, "omen": {}, "regimen": {}, "specimen": {}, "stamen": {},
}

type suffixRule struct {
	suffix, replacement string
}

// nounRules follow WordNet's morphy noun detachment rules, ordered so the
// most specific suffix is tried first.
var nounRules = []suffixRule{
	{"sses", "ss"},
	{"ies", "y"},
	{"xes", "x"},
	{"ches", "ch"},
	{"shes", "sh"},
	{"men", "man"},
	{"s", ""},
}

// Lemmatizer reduces nouns to their base form using an exception table and
// suffix rules. It has no dictionary, so it prefers leaving a word alone
// over guessing.
type Lemmatizer struct {
	extra map[string]string
}

// NewLemmatizer returns a lemmatizer. extra entries override the built-in
// exceptions; entries that are not single lowercase words are ignored.
func NewLemmatizer(extra map[string]string) *Lemmatizer {
	l := &Lemmatizer{extra: make(map[string]string, len(extra))}
	for word, lemma := range extra {
		word, lemma = strings.ToLower(word), strings.ToLower(lemma)
		if !isWord(word) || !isWord(lemma) {
			continue
		}
		l.extra[word] = lemma
	}
	return l
}

// LoadLemmas reads a {"word": "lemma"} JSON file.
func LoadLemmas(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lemmas: %w", err)
	}
	var lemmas map[string]string
	if err := json.Unmarshal(data, &lemmas); err != nil {
		return nil, fmt.Errorf("parse lemmas: %w", err)
	}
	return lemmas, nil
}

// Lemmatize returns the lemma of word. Applying it to its own output is a
// no-op.
func (l *Lemmatizer) Lemmatize(word string) string {
	for range maxLemmaPasses {
		next := l.step(word)
		if next == word {
			break
		}
		word = next
	}
	return word
}

func (l *Lemmatizer) step(word string) string {
	if lemma, ok := l.extra[word]; ok {
		return lemma
	}
	if lemma, ok := nounExceptions[word]; ok {
		return lemma
	}
	if _, ok := protectedWords[word]; ok {
		return word
	}
	if len(word) < 4 || !isWord(word) {
		return word
	}
	if strings.HasSuffix(word, "ss") || strings.HasSuffix(word, "us") || strings.HasSuffix(word, "is") {
		return word
	}
	for _, r := range nounRules {
		if !strings.HasSuffix(word, r.suffix) {
			continue
		}
		stem := word[:len(word)-len(r.suffix)] + r.replacement
		// "00-s" would leave a dangling hyphen.
		if len(stem) < 2 || strings.HasSuffix(stem, "-") || strings.HasSuffix(stem, "'") {
			return word
		}
		return stem
	}
	return word
}

// isWord reports whether s is a non-empty run of letters, digits and
// in-word apostrophes or hyphens.
func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

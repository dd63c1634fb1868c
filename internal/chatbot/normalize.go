// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// clitics are split off the preceding word, Treebank style.
var clitics = []string{"n't", "'s", "'re", "'ll", "'ve", "'d", "'m"}

// maxNormalizePasses bounds the tokenize-lemmatize fixed-point loop. A
// lemma can expose a new clitic ("don'ts" -> "don't"), which the next pass
// splits.
const maxNormalizePasses = 8

// Normalizer turns a raw message into the space-joined lemma sequence the
// tokenizer was fitted on. It is safe for concurrent use.
type Normalizer struct {
	lemmatizer  *Lemmatizer
	foldAccents bool
}

// NewNormalizer returns a normalizer. A nil lemmatizer uses the built-in
// rules only.
func NewNormalizer(lemmatizer *Lemmatizer, foldAccents bool) *Normalizer {
	if lemmatizer == nil {
		lemmatizer = NewLemmatizer(nil)
	}
	return &Normalizer{lemmatizer: lemmatizer, foldAccents: foldAccents}
}

// Normalize composes to NFC, lowercases, tokenizes and lemmatizes s.
// Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	// Lowercasing can emit combining marks, so compose again afterwards.
	// transform.Transformer and cases.Caser carry state; build per call.
	s = cases.Lower(language.Und).String(norm.NFC.String(s))
	if n.foldAccents {
		t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if folded, _, err := transform.String(t, s); err == nil {
			s = folded
		}
	} else {
		s = norm.NFC.String(s)
	}

	out := n.lemmatize(s)
	for range maxNormalizePasses {
		next := n.lemmatize(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

// lemmatize runs one tokenize-lemmatize-join pass.
func (n *Normalizer) lemmatize(s string) string {
	tokens := Tokenize(s)
	for i, tok := range tokens {
		if isClitic(tok) || !isWord(tok) {
			continue
		}
		tokens[i] = n.lemmatizer.Lemmatize(tok)
	}
	return strings.Join(tokens, " ")
}

// Tokenize splits s into word, clitic and punctuation tokens. Word runs keep
// internal apostrophes and hyphens; a trailing clitic becomes its own token;
// every other non-space rune is a token by itself.
func Tokenize(s string) []string {
	rs := []rune(strings.ReplaceAll(s, "’", "'"))
	var tokens []string
	var cur []rune

	flush := func() {
		if len(cur) == 0 {
			return
		}
		tokens = append(tokens, splitClitic(string(cur))...)
		cur = cur[:0]
	}

	for i, r := range rs {
		switch {
		case unicode.IsSpace(r):
			flush()
		case isWordRune(r):
			cur = append(cur, r)
		case (r == '\'' || r == '-') && i+1 < len(rs) && isWordRune(rs[i+1]) &&
			(len(cur) > 0 || (r == '\'' && startsClitic(rs[i:]))):
			cur = append(cur, r)
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()
	return tokens
}

// splitClitic peels every trailing clitic off word, so "can't've" yields
// "ca", "n't", "'ve".
func splitClitic(word string) []string {
	var tail []string
	for !isClitic(word) {
		c, ok := cliticSuffix(word)
		if !ok {
			break
		}
		tail = append(tail, c)
		word = word[:len(word)-len(c)]
	}
	out := make([]string, 0, len(tail)+1)
	out = append(out, word)
	for i := len(tail) - 1; i >= 0; i-- {
		out = append(out, tail[i])
	}
	return out
}

func cliticSuffix(word string) (string, bool) {
	for _, c := range clitics {
		if len(word) > len(c) && strings.HasSuffix(word, c) {
			return c, true
		}
	}
	return "", false
}

// startsClitic reports whether rs begins with a standalone clitic such as
// "'s" followed by a non-word rune or the end of input.
func startsClitic(rs []rune) bool {
	end := 1
	for end < len(rs) && isWordRune(rs[end]) {
		end++
	}
	return isClitic(string(rs[:end]))
}

func isClitic(tok string) bool {
	for _, c := range clitics {
		if tok == c {
			return true
		}
	}
	return false
}

// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/metrics"
)

// ErrModelUnavailable wraps every failure to load the chatbot bundle.
var ErrModelUnavailable = errors.New("chatbot model unavailable")

// Artifact file names inside the model directory.
const (
	ModelFile     = "model.json"
	TokenizerFile = "tokenizer.json"
	LabelsFile    = "labels.json"
	IntentsFile   = "intents.json"
	LemmasFile    = "lemmas.json"
)

// BundleOptions tune how a bundle is assembled.
type BundleOptions struct {
	// InputLength overrides the padded length; 0 uses the model's.
	InputLength int

	FoldAccents      bool
	DefaultResponses []string
	UnknownMessage   string
}

// Bundle is everything a chat turn needs. It is never mutated after
// construction.
type Bundle struct {
	Normalizer *Normalizer
	Classifier IntentClassifier
	Selector   *Selector
	Intents    *Intents

	InputLength int

	// UnansweredTags are labels with no intent entry; they answer with the
	// unknown message.
	UnansweredTags []string
}

// LoadBundle reads and validates all artifacts in dir. Any failure wraps
// ErrModelUnavailable.
func LoadBundle(dir string, opts BundleOptions) (*Bundle, error) {
	unavailable := func(stage string, err error) error {
		return fmt.Errorf("%w: %s: %w", ErrModelUnavailable, stage, err)
	}

	var extra map[string]string
	lemmasPath := filepath.Join(dir, LemmasFile)
	if _, err := os.Stat(lemmasPath); err == nil {
		if extra, err = LoadLemmas(lemmasPath); err != nil {
			return nil, unavailable("load lemmas", err)
		}
	}

	tokenizer, err := LoadTokenizer(filepath.Join(dir, TokenizerFile))
	if err != nil {
		return nil, unavailable("load tokenizer", err)
	}
	model, err := LoadModel(filepath.Join(dir, ModelFile))
	if err != nil {
		return nil, unavailable("load model", err)
	}
	labels, err := LoadLabels(filepath.Join(dir, LabelsFile))
	if err != nil {
		return nil, unavailable("load labels", err)
	}
	intents, err := LoadIntents(filepath.Join(dir, IntentsFile))
	if err != nil {
		return nil, unavailable("load intents", err)
	}

	classifier, err := NewClassifier(tokenizer, model, labels, opts.InputLength)
	if err != nil {
		return nil, unavailable("validate bundle", err)
	}

	var unanswered []string
	for _, tag := range labels.classes {
		if _, ok := intents.Lookup(tag); !ok {
			unanswered = append(unanswered, tag)
		}
	}

	return &Bundle{
		Normalizer:     NewNormalizer(NewLemmatizer(extra), opts.FoldAccents),
		Classifier:     classifier,
		Selector:       NewSelector(intents, opts.DefaultResponses, opts.UnknownMessage),
		Intents:        intents,
		InputLength:    classifier.InputLength(),
		UnansweredTags: unanswered,
	}, nil
}

// LoaderState describes where a Loader is in its lifecycle.
type LoaderState int

const (
	StateNotLoaded LoaderState = iota
	StateReady
	StateFailed
)

func (s LoaderState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "not_loaded"
	}
}

// Loader loads a bundle at most once. Concurrent first callers block on the
// same load and observe the same result, including a failure.
type Loader struct {
	load   func() (*Bundle, error)
	logger zerolog.Logger

	once   sync.Once
	mu     sync.RWMutex
	state  LoaderState
	bundle *Bundle
	err    error
}

// NewLoader wraps an arbitrary load function.
//
//nolint:gocritic // logger passed by value to match zerolog.With() usage
func NewLoader(load func() (*Bundle, error), logger zerolog.Logger) *Loader {
	return &Loader{load: load, logger: logger.With().Str("component", "chatbot-loader").Logger()}
}

// NewDirLoader loads the bundle from dir on first use.
//
//nolint:gocritic // logger passed by value to match zerolog.With() usage
func NewDirLoader(dir string, opts BundleOptions, logger zerolog.Logger) *Loader {
	l := NewLoader(func() (*Bundle, error) { return LoadBundle(dir, opts) }, logger)
	l.logger = l.logger.With().Str("model_dir", dir).Logger()
	return l
}

// Load returns the bundle, loading it on the first call.
func (l *Loader) Load() (*Bundle, error) {
	l.once.Do(l.doLoad)
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bundle, l.err
}

func (l *Loader) doLoad() {
	start := time.Now()
	b, err := l.load()
	if err == nil && b == nil {
		err = errors.New("loader returned no bundle")
	}
	if err != nil && !errors.Is(err, ErrModelUnavailable) {
		err = fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	elapsed := time.Since(start)
	metrics.RecordModelLoad(elapsed, err)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state, l.err = StateFailed, err
		l.logger.Error().Err(err).Dur("duration", elapsed).Msg("Failed to load chatbot bundle")
		return
	}
	l.state, l.bundle = StateReady, b

	event := l.logger.Info().Dur("duration", elapsed).Int("input_length", b.InputLength)
	if b.Intents != nil {
		event = event.Int("intents", b.Intents.Len())
	}
	event.Msg("Chatbot bundle loaded")
	if len(b.UnansweredTags) > 0 {
		l.logger.Warn().Strs("tags", b.UnansweredTags).Msg("Labels without intent responses")
	}
}

// State reports the load state without triggering a load.
func (l *Loader) State() LoaderState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

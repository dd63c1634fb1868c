// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package chatbot answers free-text study-assistant messages with a
pre-trained intent classifier.

# Chat Turn

	message ─► Normalizer ─► Classifier ─► Selector ─► reply
	            NFC, lower     Keras         random
	            tokenize       tokenizer,    response
	            lemmatize      pad, dense    for tag

Empty input short-circuits to the empty message without touching the
model. A bundle that cannot be loaded yields the unavailable message and an
error wrapping ErrModelUnavailable. Inference runs under a timeout behind a
circuit breaker.

# Artifacts

LoadBundle reads a directory of JSON artifacts exported from the training
pipeline:

	model.json      sequential network (embedding, pooling, dense)
	tokenizer.json  Keras Tokenizer.to_json()
	labels.json     label encoder classes_
	intents.json    {"intents": [{"tag", "patterns", "responses"}]}
	lemmas.json     optional {"word": "lemma"} overrides

A Bundle is immutable once loaded and safe for concurrent use. Loader
loads it at most once per process.
*/
package chatbot

// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package audit

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/config"
	"github.com/tomtom215/campus/internal/logging"
	"github.com/tomtom215/campus/internal/metrics"
)

const writeTimeout = 5 * time.Second

// Config holds audit logger settings.
type Config struct {
	RetentionDays int
	BufferSize    int
}

// ConfigFrom maps the application configuration.
func ConfigFrom(cfg *config.AuditConfig) Config {
	return Config{
		RetentionDays: cfg.RetentionDays,
		BufferSize:    cfg.BufferSize,
	}
}

// Logger buffers events and writes them to a Store in the background.
type Logger struct {
	config    Config
	store     Store
	eventChan chan *Event
	stopChan  chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
	wg        sync.WaitGroup
	logger    zerolog.Logger
}

// NewLogger starts the background writer. Call Close to stop it.
//
//nolint:gocritic // logger passed by value to match zerolog.With() usage
func NewLogger(store Store, cfg Config, logger zerolog.Logger) *Logger {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}

	l := &Logger{
		config:    cfg,
		store:     store,
		eventChan: make(chan *Event, cfg.BufferSize),
		stopChan:  make(chan struct{}),
		logger:    logger,
	}
	l.wg.Add(1)
	go l.asyncWriter()
	return l
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.eventChan:
			l.writeEvent(event)
		}
	}
}

func (l *Logger) writeEvent(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := l.store.Save(ctx, event); err != nil {
		metrics.RecordAuditEvent(string(event.Type), "failed")
		l.logger.Error().Err(err).Str("event_id", event.ID).Msg("Failed to save audit event")
		return
	}
	metrics.RecordAuditEvent(string(event.Type), "stored")
}

// Log queues an event without blocking. ID and Timestamp are filled in
// when empty. Events logged after Close are dropped.
func (l *Logger) Log(event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if l.closed.Load() {
		metrics.RecordAuditEvent(string(event.Type), "dropped")
		return
	}

	select {
	case l.eventChan <- event:
	default:
		metrics.RecordAuditEvent(string(event.Type), "dropped")
		l.logger.Warn().Str("event_id", event.ID).Str("type", string(event.Type)).
			Msg("Audit event buffer full, dropping event")
	}
}

// LogRequest records a mutating request and the status it was answered with.
//
//nolint:gocritic // hugeParam: Actor passed by value for API simplicity
func (l *Logger) LogRequest(r *http.Request, actor Actor, eventType EventType, status int) {
	outcome := OutcomeSuccess
	if status >= http.StatusBadRequest {
		outcome = OutcomeFailure
	}
	l.Log(&Event{
		Type:      eventType,
		Outcome:   outcome,
		Actor:     actor,
		Source:    SourceFromRequest(r),
		Action:    r.Method + " " + r.URL.Path,
		Status:    status,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}

// LogAuthzDenied records a refused authorization check.
//
//nolint:gocritic // hugeParam: Actor passed by value for API simplicity
func (l *Logger) LogAuthzDenied(r *http.Request, actor Actor, check string) {
	l.Log(&Event{
		Type:      EventTypeAuthzDenied,
		Outcome:   OutcomeFailure,
		Actor:     actor,
		Source:    SourceFromRequest(r),
		Action:    check,
		Status:    http.StatusForbidden,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}

// Query reads events from the store.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

// Purge deletes events older than the retention period.
func (l *Logger) Purge(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -l.config.RetentionDays)
	return l.store.Delete(ctx, cutoff)
}

// Close stops the writer after draining buffered events. Safe to call
// more than once.
func (l *Logger) Close() error {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.stopChan)
		l.wg.Wait()
	})
	return nil
}

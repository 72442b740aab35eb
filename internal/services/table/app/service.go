// Package app orchestrates the rules core for named characters and clocks
// held at a table, persisting state and journaling every roll.
package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/duskwall/internal/core/character"
	"github.com/louisbranch/duskwall/internal/core/dice"
	"github.com/louisbranch/duskwall/internal/platform/id"
	"github.com/louisbranch/duskwall/internal/services/table/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for table operations.
const TracerName = "duskwall/table"

// Service runs table operations against a store and a dice source.
type Service struct {
	store    storage.Store
	source   dice.Source
	selector character.TraumaSelector
	now      func() time.Time
	newID    func() (string, error)
	tracer   trace.Tracer
	locks    sync.Map
}

// Option configures a Service.
type Option func(*Service)

// WithTraumaSelector chooses the trauma marked on stress overflow.
func WithTraumaSelector(selector character.TraumaSelector) Option {
	return func(s *Service) {
		s.selector = selector
	}
}

// WithNow overrides the clock used for record timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how character and clock ids are minted.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithTracer overrides the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// New builds a Service.
func New(store storage.Store, source dice.Source, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("table store is required")
	}
	if source == nil {
		return nil, fmt.Errorf("dice source is required")
	}
	s := &Service{
		store:  store,
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  id.NewID,
		tracer: otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// lock serializes work on one record key and returns the unlock func.
func (s *Service) lock(key string) func() {
	value, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "table."+op, trace.WithAttributes(attrs...))
}

// finish records err on span and ends it.
func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// record appends a journal entry stamped with the active span. Journal
// failures are logged and do not undo the roll.
func (s *Service) record(ctx context.Context, entry storage.JournalEntry) storage.JournalEntry {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if spanContext.HasTraceID() {
		entry.TraceID = spanContext.TraceID().String()
	}
	if spanContext.HasSpanID() {
		entry.SpanID = spanContext.SpanID().String()
	}
	entry.CreatedAt = s.now()
	stored, err := s.store.AppendJournal(ctx, entry)
	if err != nil {
		log.Printf("table: journal %s roll: %v", entry.Kind, err)
		return entry
	}
	return stored
}

// Journal returns up to limit recent roll entries, newest first.
func (s *Service) Journal(ctx context.Context, limit int) (entries []storage.JournalEntry, err error) {
	ctx, span := s.start(ctx, "Journal", attribute.Int("duskwall.limit", limit))
	defer func() { finish(span, err) }()

	return s.store.ListJournal(ctx, limit)
}

func trimID(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("id is required")
	}
	return trimmed, nil
}

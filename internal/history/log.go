package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultCapacity is the number of records kept when no capacity is set.
const DefaultCapacity = 200

// ErrPersistence wraps store write failures. The in-memory log keeps the
// mutation even when this is returned.
var ErrPersistence = errors.New("history: persist failed")

// ErrInvalidRecord is returned when a record cannot be stored, such as one
// whose result is NaN or infinite. The log is left unchanged.
var ErrInvalidRecord = errors.New("history: invalid record")

// tracer is the history's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("history")

// Log is the bounded, newest-first calculation history. Mutations hold the
// write lock for the whole mutate-and-persist cycle, so the store only ever
// sees one write at a time and never loses an update.
type Log struct {
	mu       sync.RWMutex
	records  []Record
	lastID   int64
	store    Store
	capacity int
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Log.
type Option func(*Log)

// WithCapacity overrides DefaultCapacity. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithClock sets the time source used for record IDs and timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New returns an empty Log persisting to store.
func New(store Store, opts ...Option) *Log {
	l := &Log{
		records:  []Record{},
		store:    store,
		capacity: DefaultCapacity,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load builds a Log from whatever store holds. A missing, unreadable or
// malformed document yields an empty Log; Load never fails.
func Load(ctx context.Context, store Store, opts ...Option) *Log {
	l := New(store, opts...)

	data, err := store.ReadAll(ctx)
	if errors.Is(err, ErrNotFound) {
		l.logger.Info("no persisted history, starting empty")
		return l
	}
	if err != nil {
		l.logger.Warn("history unreadable, starting empty", zap.Error(err))
		return l
	}

	records, err := decodeRecords(data)
	if err != nil {
		l.logger.Warn("history malformed, starting empty", zap.Error(err))
		return l
	}

	if len(records) > l.capacity {
		l.logger.Warn("persisted history exceeds capacity, truncating",
			zap.Int("persisted", len(records)),
			zap.Int("capacity", l.capacity),
		)
		records = records[:l.capacity]
	}

	l.records = records
	for _, rec := range records {
		l.lastID = max(l.lastID, rec.ID)
	}

	entriesGauge.Record(ctx, int64(len(records)))
	l.logger.Info("history loaded", zap.Int("entries", len(records)))

	return l
}

// Capacity is the maximum number of records the log keeps.
func (l *Log) Capacity() int {
	return l.capacity
}

// Len returns the current number of records.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Append inserts rec at the front, evicting the oldest record when the log
// is full, then persists.
func (l *Log) Append(ctx context.Context, rec Record) error {
	ctx, span := tracer.Start(ctx, "history.append")
	defer span.End()

	if err := checkResult(rec.Result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid record")
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.insert(rec)
	return l.persist(ctx, span)
}

// AppendResult creates a record for a successful evaluation and appends
// it. The record is returned even when persisting fails.
func (l *Log) AppendResult(ctx context.Context, expression string, result float64) (Record, error) {
	ctx, span := tracer.Start(ctx, "history.append")
	defer span.End()

	if err := checkResult(result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid record")
		return Record{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UTC()
	rec := Record{
		ID:         l.nextID(now),
		Expression: expression,
		Result:     result,
		Timestamp:  now.Truncate(time.Millisecond),
	}
	span.SetAttributes(attribute.Int64("history.record.id", rec.ID))

	l.insert(rec)
	return rec, l.persist(ctx, span)
}

// List returns a copy of the records, newest first.
func (l *Log) List() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.records)
}

// Clear removes every record and persists the empty log.
func (l *Log) Clear(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "history.clear")
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	span.SetAttributes(attribute.Int("history.cleared", len(l.records)))
	l.records = []Record{}
	return l.persist(ctx, span)
}

// nextID derives a millisecond ID from now, bumped past the last issued ID
// so IDs stay strictly increasing within the process.
func (l *Log) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func checkResult(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: result %g is not finite", ErrInvalidRecord, v)
	}
	return nil
}

// insert must be called with mu held.
func (l *Log) insert(rec Record) {
	l.records = slices.Insert(l.records, 0, rec)
	if len(l.records) > l.capacity {
		l.records[l.capacity] = Record{}
		l.records = l.records[:l.capacity]
	}
	l.lastID = max(l.lastID, rec.ID)
}

// persist must be called with mu held.
func (l *Log) persist(ctx context.Context, span trace.Span) error {
	entriesGauge.Record(ctx, int64(len(l.records)))
	span.SetAttributes(attribute.Int("history.entries", len(l.records)))

	data, err := encodeRecords(l.records)
	if err == nil {
		err = l.store.WriteAll(ctx, data)
	}
	if err != nil {
		persistFailures.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist history")
		l.logger.Error("persisting history failed",
			zap.Int("entries", len(l.records)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

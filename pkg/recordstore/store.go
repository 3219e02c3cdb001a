package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Recorder receives store health signals. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordStoreFallback(collection, reason string)
	RecordStoreWriteFailure(collection, backend string)
}

type Option func(*options)

type options struct {
	log     *zap.Logger
	metrics Recorder
	strict  bool
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithMetrics(r Recorder) Option {
	return func(o *options) { o.metrics = r }
}

// WithStrictDurability makes Save and Mutate report backend write failures
// as ErrPersistence instead of continuing on the in-memory working copy.
func WithStrictDurability() Option {
	return func(o *options) { o.strict = true }
}

// Store is the persisted form of one named collection.
//
// Reads never fail: when the backend has nothing usable the store answers
// from its in-memory working copy, or from the seed when it has none. After
// a failed write the working copy stays authoritative until a write succeeds.
type Store[T any] struct {
	backend    Backend
	collection string
	seed       func() []T
	log        *zap.Logger
	metrics    Recorder
	strict     bool

	mu      sync.Mutex
	working []byte
	dirty   bool
}

func New[T any](backend Backend, collection string, seed func() []T, opts ...Option) *Store[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if seed == nil {
		seed = func() []T { return nil }
	}
	return &Store[T]{
		backend:    backend,
		collection: collection,
		seed:       seed,
		log:        o.log.Named("recordstore").With(zap.String("collection", collection), zap.String("backend", backend.Name())),
		metrics:    o.metrics,
		strict:     o.strict,
	}
}

func (s *Store[T]) Collection() string { return s.collection }

// Load returns a private copy of the collection.
func (s *Store[T]) Load(ctx context.Context) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save replaces the whole collection.
func (s *Store[T]) Save(ctx context.Context, items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, items)
}

// Mutate runs a read-modify-write cycle with other writers of this store held off.
// Nothing is written when fn returns an error.
func (s *Store[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.load(ctx))
	if err != nil {
		return err
	}
	return s.save(ctx, next)
}

func (s *Store[T]) load(ctx context.Context) []T {
	if s.dirty && s.working != nil {
		if items, err := decode[T](s.working); err == nil {
			return items
		}
	}

	data, err := s.backend.Read(ctx, s.collection)
	if err == nil {
		items, decodeErr := decode[T](data)
		if decodeErr == nil {
			s.working = data
			return items
		}
		err = decodeErr
		s.fallback("corrupt", err)
	} else if errors.Is(err, ErrCollectionNotFound) {
		s.fallback("missing", nil)
	} else {
		s.fallback("unreadable", err)
	}

	if s.working != nil {
		if items, err := decode[T](s.working); err == nil {
			return items
		}
	}
	items := s.seed()
	if items == nil {
		items = make([]T, 0)
	}
	return items
}

func (s *Store[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = make([]T, 0)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.collection, err)
	}

	if err := s.backend.Write(ctx, s.collection, data); err != nil {
		s.log.Error("collection write failed", zap.Error(err), zap.Bool("strict", s.strict))
		if s.metrics != nil {
			s.metrics.RecordStoreWriteFailure(s.collection, s.backend.Name())
		}
		if s.strict {
			return fmt.Errorf("%w: write %s: %v", ErrPersistence, s.collection, err)
		}
		s.working = data
		s.dirty = true
		return nil
	}

	s.working = data
	s.dirty = false
	return nil
}

func (s *Store[T]) fallback(reason string, err error) {
	if err != nil {
		s.log.Warn("collection load fell back", zap.String("reason", reason), zap.Error(err))
	} else {
		s.log.Debug("collection load fell back", zap.String("reason", reason))
	}
	if s.metrics != nil {
		s.metrics.RecordStoreFallback(s.collection, reason)
	}
}

func decode[T any](data []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

package state

import (
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/shopfront/internal/catalog"
	"github.com/roach88/shopfront/internal/persist"
)

// Store owns the current snapshot.
//
// Thread-safety model:
//   - Dispatch: serialized; one action runs to completion (reduce, storage
//     writes, snapshot swap) before the next starts
//   - Snapshot, Subscribe: safe from any goroutine
//   - subscribers are called after the dispatch lock is released, so they
//     may Dispatch themselves
type Store struct {
	mu     sync.Mutex
	snap   Snapshot
	port   persist.Port
	clock  Sequencer
	logger *slog.Logger

	maxPrice float64
	now      func() time.Time
	report   LoadReport

	subMu  sync.Mutex
	subs   map[uint64]func(Snapshot)
	nextID uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock sets the sequencer used to stamp snapshots. Defaults to a fresh
// Clock.
func WithClock(c Sequencer) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithMaxPrice sets the upper bound of the default price range.
func WithMaxPrice(max float64) Option {
	return func(s *Store) {
		s.maxPrice = max
	}
}

// WithNow sets the time source used to check session expiry at startup.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a store seeded from port. A nil port behaves as persist.Nop.
func New(port persist.Port, opts ...Option) *Store {
	if port == nil {
		port = persist.Nop{}
	}
	s := &Store{
		port:     port,
		clock:    NewClock(),
		logger:   slog.Default(),
		maxPrice: catalog.DefaultMaxPrice,
		now:      time.Now,
		subs:     make(map[uint64]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, report := Load(port, s.maxPrice, s.now())
	switch {
	case report.Discarded:
		s.logger.Warn("discarded persisted state", "error", report.Reason)
	case report.Reason != nil:
		s.logger.Warn("could not read persisted state, using defaults", "error", report.Reason)
	}
	if report.SessionDropped {
		s.logger.Info("dropped stale session")
	}
	s.snap = snap
	s.report = report

	return s
}

// LoadReport describes what New did with the persisted state.
func (s *Store) LoadReport() LoadReport {
	return s.report
}

// Dispatch applies a and returns the resulting snapshot. It never fails:
// a nil action returns the current snapshot unchanged, and storage write
// errors are logged without rolling back.
func (s *Store) Dispatch(a Action) Snapshot {
	s.mu.Lock()
	if a == nil {
		out := s.snap.Clone()
		s.mu.Unlock()
		return out
	}

	next, fx := reduce(s.snap, a)
	next.Seq = s.clock.Next()

	for _, err := range fx.errs {
		s.logger.Warn("persist encode failed", "action", a.Kind(), "error", err)
	}
	for _, w := range fx.writes {
		if err := s.apply(w); err != nil {
			s.logger.Warn("persist write failed", "action", a.Kind(), "key", w.Key, "error", err)
		}
	}

	s.snap = next
	out := next.Clone()
	s.mu.Unlock()

	s.logger.Debug("dispatched", "action", a.Kind(), "seq", out.Seq)
	s.notify(out)
	return out
}

func (s *Store) apply(w Write) error {
	if w.Delete {
		return s.port.Delete(w.Key)
	}
	return s.port.Set(w.Key, w.Value)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Subscribe registers fn to receive every snapshot produced by Dispatch.
// The returned function unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap.Clone())
	}
}

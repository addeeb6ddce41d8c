package harness

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/shopfront/internal/catalog"
	"github.com/roach88/shopfront/internal/persist"
	"github.com/roach88/shopfront/internal/state"
	"github.com/roach88/shopfront/internal/testutil"
)

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger routes store logs somewhere other than io.Discard.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// recorder is a Port that logs every write it forwards.
type recorder struct {
	persist.Port

	mu     sync.Mutex
	writes []string
}

func (r *recorder) Set(key, value string) error {
	r.log(state.Write{Key: key, Value: value})
	return r.Port.Set(key, value)
}

func (r *recorder) Delete(key string) error {
	r.log(state.Write{Key: key, Delete: true})
	return r.Port.Delete(key)
}

func (r *recorder) log(w state.Write) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, w.String())
}

// take returns and resets the recorded writes.
func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.writes
	r.writes = nil
	return out
}

// Run executes a scenario against a fresh store backed by in-memory storage
// seeded from scenario.Storage, and evaluates its expectations.
//
// Sequence numbers come from a DeterministicClock and the load-time clock
// is fixed, so the same scenario always produces the same Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	now := testutil.Epoch
	if scenario.Now != nil {
		now = *scenario.Now
	}
	maxPrice := float64(catalog.DefaultMaxPrice)
	if scenario.MaxPrice > 0 {
		maxPrice = scenario.MaxPrice
	}

	mem := persist.NewMemory(scenario.Storage)
	rec := &recorder{Port: mem}
	st := state.New(rec,
		state.WithLogger(cfg.logger),
		state.WithClock(testutil.NewDeterministicClock()),
		state.WithMaxPrice(maxPrice),
		state.WithNow(func() time.Time { return now }),
	)
	rec.take()

	result := NewResult()
	result.Load = st.LoadReport()

	for i, step := range scenario.Steps {
		action, err := decodeAction(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		snap := st.Dispatch(action)
		result.Trace = append(result.Trace, TraceEvent{
			Seq:    snap.Seq,
			Action: action.Kind(),
			Writes: rec.take(),
		})
		cfg.logger.Debug("scenario step", "step", i, "action", action.Kind(), "seq", snap.Seq)
	}

	result.Final = st.Snapshot()
	result.Stored = mem.Dump()

	if scenario.Expect != nil {
		for _, msg := range Evaluate(scenario.Expect, result) {
			result.AddError(msg)
		}
	}
	return result, nil
}

package harness

import (
	"github.com/roach88/shopfront/internal/state"
)

// TraceEvent records one dispatched step.
type TraceEvent struct {
	Seq    int64    `json:"seq"`
	Action string   `json:"action"`
	Writes []string `json:"writes,omitempty"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Trace lists the dispatched actions in order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the snapshot after the last step.
	Final state.Snapshot `json:"final"`

	// Stored is the persisted key-value mirror after the last step.
	Stored map[string]string `json:"stored"`

	// Load describes what store initialization did with the seeded storage.
	Load state.LoadReport `json:"-"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Stored: map[string]string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

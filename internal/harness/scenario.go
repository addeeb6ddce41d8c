package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shopfront/internal/persist"
)

// Scenario is a scripted sequence of store actions with expectations about
// the resulting snapshot and persisted keys.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Now is the wall-clock time used for session expiry checks at load.
	// Defaults to testutil.Epoch.
	Now *time.Time `yaml:"now,omitempty"`

	// MaxPrice overrides the default price ceiling.
	MaxPrice float64 `yaml:"max_price,omitempty"`

	// Storage seeds the persisted keys before the store is created.
	Storage map[string]string `yaml:"storage,omitempty"`

	// Steps are dispatched in order.
	Steps []Step `yaml:"steps"`

	// Expect is checked against the final snapshot.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Step is one action. Args are decoded strictly into the action's argument
// type, so misspelled keys are rejected.
type Step struct {
	Action string         `yaml:"action"`
	Args   map[string]any `yaml:"args,omitempty"`
}

// Expect lists checks on the final state. Unset fields are not checked.
type Expect struct {
	View          *string           `yaml:"view,omitempty"`
	ProductID     *int64            `yaml:"product_id,omitempty"`
	Query         *string           `yaml:"query,omitempty"`
	ShowFilters   *bool             `yaml:"show_filters,omitempty"`
	Authenticated *bool             `yaml:"authenticated,omitempty"`
	Cart          *[]CartExpect     `yaml:"cart,omitempty"`
	CartTotal     *float64          `yaml:"cart_total,omitempty"`
	Filtered      *[]int64          `yaml:"filtered,omitempty"`
	Stored        map[string]string `yaml:"stored,omitempty"`
	Absent        []string          `yaml:"absent,omitempty"`
	Discarded     *bool             `yaml:"discarded,omitempty"`
}

// CartExpect is one expected cart line.
type CartExpect struct {
	ID       int64 `yaml:"id"`
	Quantity int   `yaml:"quantity"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or names an unknown action.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks required fields and decodes every step once so
// argument errors surface before anything runs.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.MaxPrice < 0 {
		return fmt.Errorf("max_price cannot be negative")
	}
	for k := range s.Storage {
		if !isPersistedKey(k) {
			return fmt.Errorf("storage: unknown key %q", k)
		}
	}
	for i, step := range s.Steps {
		if step.Action == "" {
			return fmt.Errorf("steps[%d]: action is required", i)
		}
		if _, err := decodeAction(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	if s.Expect != nil {
		for k := range s.Expect.Stored {
			if !isPersistedKey(k) {
				return fmt.Errorf("expect.stored: unknown key %q", k)
			}
		}
		for _, k := range s.Expect.Absent {
			if !isPersistedKey(k) {
				return fmt.Errorf("expect.absent: unknown key %q", k)
			}
		}
	}
	return nil
}

func isPersistedKey(k string) bool {
	for _, known := range persist.Keys {
		if k == known {
			return true
		}
	}
	return false
}

package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// goldenRecord is what a golden file holds: the trace, the final snapshot
// and the persisted mirror.
type goldenRecord struct {
	Scenario string            `json:"scenario"`
	Trace    []TraceEvent      `json:"trace"`
	Final    any               `json:"final"`
	Stored   map[string]string `json:"stored"`
}

// Golden renders r as the indented JSON stored in golden files. Map keys are
// sorted by encoding/json, so the output is stable.
func Golden(name string, r *Result) ([]byte, error) {
	rec := goldenRecord{
		Scenario: name,
		Trace:    r.Trace,
		Final:    r.Final,
		Stored:   r.Stored,
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs scenario, fails t on any unmet expectation and compares
// the result with testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, msg)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Golden(name, result)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/shopfront/internal/harness"
)

// ScenarioOptions holds flags for the scenario command.
type ScenarioOptions struct {
	*RootOptions
	Golden string // golden file to compare against
	Update bool   // rewrite the golden file instead of comparing
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "Run a scripted store scenario",
		Long: `Run a YAML scenario against an in-memory store and print the final
snapshot. The state file is not touched.

Exit codes:
  0 - All expectations held (and the golden file matched)
  1 - An expectation failed or the golden file differs
  2 - Command error (unreadable or invalid scenario)

Examples:
  shopfront scenario ./scenarios/checkout.yaml
  shopfront scenario ./scenarios/checkout.yaml --golden ./golden/checkout.golden
  shopfront scenario ./scenarios/checkout.yaml --golden ./golden/checkout.golden --update`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Golden, "golden", "", "compare the run with this golden file")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "write the golden file instead of comparing")

	return cmd
}

func runScenario(cmd *cobra.Command, opts *ScenarioOptions, path string) error {
	out := opts.formatter(cmd)

	s, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	result, err := harness.Run(s, harness.WithLogger(opts.logger(cmd)))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}
	out.VerboseLog("%s: %d steps", s.Name, len(result.Trace))

	report := ScenarioReport{
		Name:   s.Name,
		Pass:   result.Pass,
		Errors: result.Errors,
		Final:  result.Final,
	}

	if opts.Golden != "" {
		if err := checkGolden(opts, s.Name, result); err != nil {
			report.Pass = false
			report.Errors = append(report.Errors, err.Error())
		}
	}

	if err := out.Success(report); err != nil {
		return err
	}
	if !report.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", s.Name))
	}
	return nil
}

func checkGolden(opts *ScenarioOptions, name string, result *harness.Result) error {
	got, err := harness.Golden(name, result)
	if err != nil {
		return fmt.Errorf("render golden: %w", err)
	}
	if opts.Update {
		if err := os.MkdirAll(filepath.Dir(opts.Golden), 0o755); err != nil {
			return fmt.Errorf("create golden dir: %w", err)
		}
		return os.WriteFile(opts.Golden, got, 0o644)
	}
	want, err := os.ReadFile(opts.Golden)
	if err != nil {
		return fmt.Errorf("read golden: %w", err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("golden mismatch: %s", opts.Golden)
	}
	return nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/clockstate/internal/harness"
)

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	RunID  string   `json:"run_id,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// ScenarioRunResult holds the overall scenario run result.
type ScenarioRunResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r ScenarioRunResult) String() string {
	var b strings.Builder
	for _, s := range r.Scenarios {
		if s.Pass {
			fmt.Fprintf(&b, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(&b, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}
	fmt.Fprintf(&b, "\n%d passed, %d failed, %d total", r.Passed, r.Failed, r.Total)
	return b.String()
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <file>...",
		Short: "Run YAML scenarios",
		Long: `Run scenario files against a fresh in-memory ledger each, using the
configured program ID and rent. The local database is not touched.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (bad config, unreadable scenario)

Example:
  clockctl scenario testdata/scenarios/timestamp_overwrite.yaml
  clockctl scenario scenarios/*.yaml --format json`,
		Args: argsWithExitCode(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			cfg, _, err := loadConfig(rootOpts)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err, nil)
			}

			runOpts := []harness.Option{
				harness.WithProgramID(cfg.ProgramID),
				harness.WithRent(cfg.Rent),
				harness.WithLogger(newLogger(rootOpts, cfg, f.GetErrWriter())),
			}

			result := ScenarioRunResult{
				Scenarios: make([]ScenarioResult, 0, len(args)),
				Total:     len(args),
			}
			for _, path := range args {
				scenario, err := harness.LoadScenario(path)
				if err != nil {
					return f.Fail(ExitCommandError, ErrCodeScenario, fmt.Sprintf("failed to load %s", path), err, nil)
				}

				sr := ScenarioResult{Name: scenario.Name, File: path}
				run, err := harness.Run(scenario, runOpts...)
				if err != nil {
					sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
				} else {
					sr.Pass = run.Pass
					sr.RunID = run.RunID
					sr.Errors = run.Errors
				}

				if sr.Pass {
					result.Passed++
				} else {
					result.Failed++
				}
				result.Scenarios = append(result.Scenarios, sr)
				f.VerboseLog("scenario %s: pass=%t", sr.Name, sr.Pass)
			}

			if err := f.Success(result); err != nil {
				return err
			}
			if result.Failed > 0 {
				exitErr := NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total))
				exitErr.Reported = true
				return exitErr
			}
			return nil
		},
	}
}

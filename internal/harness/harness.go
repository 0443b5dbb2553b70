package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/statemig/internal/blockstate"
	"github.com/roach88/statemig/internal/loader"
	"github.com/roach88/statemig/internal/schema"
	"github.com/roach88/statemig/internal/upgrade"
)

// Run executes a scenario with logging discarded.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario and returns the result.
//
// Execution flow:
// 1. Load the scenario's schemas directory
// 2. Build an Upgrader over the loaded schemas
// 3. Upgrade the input state step by step from the scenario's version
// 4. Compare the final state with the expected state
//
// An error is returned only when the scenario cannot run at all; a wrong
// final state is reported through Result.Pass and Result.Errors.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	schemas, err := loader.LoadWithOptions(scenario.Schemas, loader.Options{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("load schemas: %w", err)
	}

	u, err := upgrade.New(schemas)
	if err != nil {
		return nil, fmt.Errorf("build upgrader: %w", err)
	}

	from, err := schema.ParseVersion(scenario.From)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	input, err := scenario.Input.State()
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	expect, err := scenario.Expect.State()
	if err != nil {
		return nil, fmt.Errorf("expect: %w", err)
	}

	result := NewResult()
	result.Input = input
	result.Steps = u.UpgradeSteps(input, from)
	result.Final = input.Clone()
	if n := len(result.Steps); n > 0 {
		result.Final = result.Steps[n-1].State
	}

	logger.Debug("scenario executed",
		"scenario", scenario.Name,
		"from", from.String(),
		"steps", len(result.Steps),
	)

	if !expect.Equal(result.Final) {
		result.AddError(fmt.Sprintf("final state mismatch:\n  expected: %s\n  actual:   %s",
			blockstate.Encode(expect),
			blockstate.Encode(result.Final),
		))
	}

	return result, nil
}

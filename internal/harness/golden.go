package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/statemig/internal/blockstate"
)

// Snapshot renders a scenario trace for golden-file comparison. States use
// canonical JSON, so the output is byte-for-byte deterministic.
//
//	scenario: <name>
//	from: <version>
//	input: <state>
//	step <version>: <state>
//	result: <state>
func Snapshot(scenario *Scenario, result *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", scenario.Name)
	fmt.Fprintf(&buf, "from: %s\n", scenario.From)
	fmt.Fprintf(&buf, "input: %s\n", blockstate.Encode(result.Input))
	for _, step := range result.Steps {
		fmt.Fprintf(&buf, "step %s: %s\n", step.Version, blockstate.Encode(step.State))
	}
	fmt.Fprintf(&buf, "result: %s\n", blockstate.Encode(result.Final))
	return buf.Bytes()
}

// RunWithGolden executes a scenario and compares its trace against
// {fixtureDir}/{scenario.Name}.golden.
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, fixtureDir string) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario, result, fixtureDir)
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result, fixtureDir string) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir(fixtureDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario, result))
}

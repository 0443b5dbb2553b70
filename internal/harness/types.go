package harness

import (
	"github.com/roach88/statemig/internal/blockstate"
	"github.com/roach88/statemig/internal/upgrade"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when the final state equals the expected state.
	Pass bool

	// Input is the parsed input state.
	Input blockstate.State

	// Steps holds the state after each applied schema, in order.
	Steps []upgrade.Step

	// Final is the fully upgraded state.
	Final blockstate.State

	// Errors contains mismatch descriptions. Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []upgrade.Step{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

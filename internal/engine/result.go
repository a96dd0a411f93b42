package engine

import (
	"planguard/internal/rules"
)

// Result is the terminal output of one batch evaluation. Violations are in
// canonical (resourceIndex, ruleDeclarationOrder) order regardless of how the
// evaluation was scheduled. The caller owns the Result; the engine retains no
// reference.
type Result struct {
	Violations []rules.Violation `json:"violations"`
	Warnings   []rules.Warning   `json:"warnings,omitempty"`

	// Passed is true iff no violation at severity ERROR was found.
	Passed bool `json:"passed"`

	// Counts tallies violations by severity.
	Counts map[rules.Severity]int `json:"counts"`
}

// Exit code contract:
// 0 = clean run, no error-severity violations
// 1 = error-severity violations detected
// 2 = partial evaluation (a rule predicate faulted) but no failing violation
// 3 = fatal error (evaluation did not run)
const (
	ExitClean   = 0
	ExitFailed  = 1
	ExitPartial = 2
	ExitFatal   = 3
)

// ExitCode maps the result onto the process-level success signal consumed by
// calling automation.
func (r *Result) ExitCode() int {
	if !r.Passed {
		return ExitFailed
	}
	if len(r.Warnings) > 0 {
		return ExitPartial
	}
	return ExitClean
}

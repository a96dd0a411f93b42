package flags

// Package flags defines canonical CLI flag names shared across the CLI and engine.
// Keeping these as constants helps avoid drift between Cobra flag wiring and other
// code paths that need to reference flags.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Input.Plan, flags.FlagPlan, "", "...")
//	arg := "--" + flags.FlagPlan
const (
	// Input
	FlagPlan = "plan"

	// Rules
	FlagRules     = "rules"
	FlagRulesFile = "rules-file"
	FlagSet       = "set"

	// Output
	FlagConsoleFormat         = "console-format"
	FlagConsoleFilterSeverity = "console-filter-severity"
	FlagReport                = "report"
	FlagOut                   = "out"
	FlagOutFormat             = "out-format"
	FlagNoConsole             = "no-console"

	// Runtime
	FlagWorkers = "workers"
	FlagTimeout = "timeout"
)

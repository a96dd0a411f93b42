package cli

import (
	"context"
	"fmt"
	"os"
	"planguard/internal/config"
	"planguard/internal/engine"
	"planguard/internal/flags"

	"github.com/spf13/cobra"
)

var cfg = config.New()

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a Terraform plan for compliance violations",
	Long: `Check the resource changes in a Terraform plan JSON against the rule set and
report every violation.

The plan is the output of "terraform show -json <planfile>". Only managed
resource changes with a mutating action (create, update, delete) are
evaluated; data sources and no-op entries are ignored.

Rules:
	Built-in rules are always available ("planguard rules list" shows them).
	Additional guardrail rules can be loaded from YAML files with CEL
	expressions via --rules-file. Both kinds participate in one rule set, and
	duplicate rule IDs are rejected.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON document or NDJSON stream to a file
	- --report: write a Markdown report
	- --no-console: suppress the console sink (use with --out/--report for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, violation, warning, run.finished).

Exit codes:
	0 = clean run, no error-severity violations
	1 = error-severity violations detected
	2 = partial evaluation (some rules could not be evaluated)
	3 = fatal error (check did not run)

Examples:
	# Check a saved plan
	terraform plan -out tfplan
	terraform show -json tfplan > plan.json
	planguard check --plan plan.json

	# Pipe the plan via stdin and stream machine-readable events
	terraform show -json tfplan | planguard check --plan - --no-console --out findings.ndjson

	# Load extra guardrails and override a rule option
	planguard check --plan plan.json --rules-file guardrails.yaml --set required-tags.keys=owner
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(engine.ExitFatal)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.Timeout)
		defer cancel()

		eng := engine.NewEngine()
		code := eng.Run(ctx, cfg)
		cancel()
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Input
	checkCmd.Flags().StringVar(&cfg.Input.Plan, flags.FlagPlan, "", "Terraform plan JSON to check (\"-\" reads stdin)")

	// Rules
	checkCmd.Flags().StringVar(&cfg.Rules.Selector, flags.FlagRules, "", "Comma-separated rule IDs to run (empty = all rules)")
	checkCmd.Flags().StringSliceVar(&cfg.Rules.Files, flags.FlagRulesFile, nil, "Guardrail rule file(s) to load (repeatable; comma-separated accepted)")
	checkCmd.Flags().StringSliceVar(&cfg.Rules.Set, flags.FlagSet, nil, "Per-rule options as ruleID.option=value (repeatable; comma-separated accepted)")

	// Output
	checkCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	checkCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterSeverity, flags.FlagConsoleFilterSeverity, nil, "Filter console output by severity (INFO, WARNING, ERROR). Comma-separated.")
	checkCmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	checkCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	checkCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	checkCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out/--report)")

	// Runtime
	checkCmd.Flags().IntVar(&cfg.Runtime.Workers, flags.FlagWorkers, cfg.Runtime.Workers, "Concurrent evaluation workers (default: 4)")
	checkCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout (default: 5m)")
}

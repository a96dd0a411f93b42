package engine

import (
	"context"
	"fmt"
	"os"
	"planguard/internal/celrules"
	"planguard/internal/change"
	"planguard/internal/config"
	"planguard/internal/output"
	"planguard/internal/plan"
	"planguard/internal/rules"

	"github.com/google/uuid"
)

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterSeverity)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// applyRuleOptionsIfAny applies per-rule configuration supplied via repeated
// --set flags.
//
// --set values are parsed as "ruleID.option=value" and routed to the matching
// rule's Configure method (only rules that implement rules.ConfigurableRule).
//
// Example:
//
//	planguard check --plan plan.json --set required-tags.keys=owner
func applyRuleOptionsIfAny(cfg *config.Config) error {
	if len(cfg.Rules.Set) == 0 {
		return nil
	}

	assignments, err := config.ParseRuleOptionAssignments(cfg.Rules.Set)
	if err != nil {
		return err
	}

	all := rules.List()
	byID := make(map[string]rules.Rule, len(all))
	for _, r := range all {
		byID[r.ID()] = r
	}

	for ruleID, opts := range assignments {
		r, ok := byID[ruleID]
		if !ok {
			return fmt.Errorf("unknown rule ID %q", ruleID)
		}
		cr, ok := r.(rules.ConfigurableRule)
		if !ok {
			return fmt.Errorf("rule %q does not support options", ruleID)
		}

		allowed := make(map[string]struct{})
		for _, opt := range cr.Options() {
			allowed[opt.Name] = struct{}{}
		}
		for name := range opts {
			if _, ok := allowed[name]; !ok {
				return fmt.Errorf("unknown option %q for rule %q", name, ruleID)
			}
		}

		if err := cr.Configure(opts); err != nil {
			return fmt.Errorf("configure rule %q: %w", ruleID, err)
		}
	}

	return nil
}

func resolveAndConfigureRules(cfg *config.Config) ([]rules.Rule, bool) {
	if !cfg.Output.NoConsole && cfg.Runtime.Verbose {
		fmt.Fprintln(os.Stderr, "Resolving rules...")
	}
	selected, err := rules.Resolve(cfg.Rules.Selector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving rules: %v\n", err)
		return nil, false
	}

	if err := applyRuleOptionsIfAny(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring rules: %v\n", err)
		return nil, false
	}

	return selected, true
}

func loadGuardrailRules(cfg *config.Config) ([]rules.Rule, bool) {
	if len(cfg.Rules.Files) == 0 {
		return nil, true
	}
	loaded, err := celrules.LoadAll(cfg.Rules.Files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rule files: %v\n", err)
		return nil, false
	}
	return loaded, true
}

// Engine evaluates one plan against the configured rule set and routes the
// outcome to the output sinks.
type Engine struct {
	// loadChanges is a test seam for plan input.
	// If nil, the plan is read from cfg.Input.Plan via the plan package.
	loadChanges func(path string) ([]change.ResourceChange, error)
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) readPlan(cfg *config.Config) ([]change.ResourceChange, error) {
	if e.loadChanges != nil {
		return e.loadChanges(cfg.Input.Plan)
	}
	return plan.Load(cfg.Input.Plan)
}

// Run executes the whole check: load, build the rule set, evaluate, write
// sinks. The return value is the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	builtin, ok := resolveAndConfigureRules(cfg)
	if !ok {
		return ExitFatal
	}
	guardrails, ok := loadGuardrailRules(cfg)
	if !ok {
		return ExitFatal
	}

	set, err := rules.Build(builtin, guardrails)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building rule set: %v\n", err)
		return ExitFatal
	}
	if !cfg.Output.NoConsole && cfg.Runtime.Verbose {
		fmt.Fprintf(os.Stderr, "Selected %d rules.\n", set.Len())
	}

	changes, err := e.readPlan(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading plan: %v\n", err)
		return ExitFatal
	}
	if !cfg.Output.NoConsole && cfg.Runtime.Verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d resource changes.\n", len(changes))
	}

	outMgr, err := setupOutputManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output sinks: %v\n", err)
		return ExitFatal
	}
	defer outMgr.Close()

	runID := uuid.NewString()
	_ = outMgr.Write(output.Event{Type: "run.started", RunID: runID, Changes: len(changes), Rules: set.Len()})

	res, err := Evaluate(ctx, changes, set, Options{Workers: cfg.Runtime.Workers})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating plan: %v\n", err)
		_ = outMgr.Write(output.Event{Type: "run.finished", RunID: runID, ExitCode: ExitFatal})
		return ExitFatal
	}

	for _, v := range res.Violations {
		_ = outMgr.Write(v)
	}
	for _, w := range res.Warnings {
		_ = outMgr.Write(w)
	}

	code := res.ExitCode()
	_ = outMgr.Write(output.Event{
		Type:       "run.finished",
		RunID:      runID,
		Violations: len(res.Violations),
		ExitCode:   code,
	})
	return code
}

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// check behavior, keep the CLI flags in internal/cli/check.go in sync.
	Input   Input
	Rules   Rules
	Output  Output
	Runtime Runtime
}

type Input struct {
	// Plan is the path of the Terraform plan JSON to evaluate (see --plan).
	// "-" reads the plan from stdin.
	Plan string
}

type Rules struct {
	// Selector selects which built-in rules to run.
	// Empty means all rules; otherwise a comma-separated list of rule IDs
	// (see --rules).
	Selector string

	// Files lists guardrail rule documents (YAML with CEL expressions) to
	// load in addition to the built-in rules (see --rules-file).
	Files []string

	// Set provides per-rule option overrides from the CLI.
	// Entries are of the form ruleID.option=value (repeatable; comma-separated
	// accepted; see --set).
	Set []string
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterSeverity filters console output by violation severity
	// (see --console-filter-severity). Allowed values: INFO, WARNING, ERROR.
	ConsoleFilterSeverity []string

	// Report writes a Markdown report to this path (see --report).
	Report string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out
	// file extension.
	OutFormat string

	// NoConsole suppresses the console sink (see --no-console).
	// Use with --out/--report for machine-readable output.
	NoConsole bool
}

type Runtime struct {
	// Workers controls parallelism for change evaluation (see --workers).
	// Must be >= 1. Parallelism never affects output order.
	Workers int

	// Timeout is the global timeout for the run (see --timeout).
	// Must be > 0.
	Timeout time.Duration

	// Verbose enables more detailed diagnostics.
	Verbose bool
}

func New() *Config {
	return &Config{
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Workers: 4,
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Rules.Files = splitCommaList(c.Rules.Files)
	c.Rules.Set = splitCommaList(c.Rules.Set)

	// Input validation
	if c.Input.Plan == "" {
		return errors.New("--plan must be provided (use \"-\" for stdin)")
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--console-format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for i, sev := range c.Output.ConsoleFilterSeverity {
		v := strings.ToUpper(normalizeEnumValue(sev))
		if v != "INFO" && v != "WARNING" && v != "ERROR" {
			return fmt.Errorf("unsupported --console-filter-severity value: %s (must be one of: INFO, WARNING, ERROR)", sev)
		}
		c.Output.ConsoleFilterSeverity[i] = v
	}

	// Runtime validation
	if c.Runtime.Workers <= 0 {
		return errors.New("--workers must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else {
			if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
				return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
			}
		}
	}

	// Rule option syntax validation (rule.option=value)
	if len(c.Rules.Set) > 0 {
		if _, err := ParseRuleOptionAssignments(c.Rules.Set); err != nil {
			return err
		}
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseRuleOptionAssignments parses values of the form "ruleID.option=value".
//
// Notes:
// - Entries may be provided via repeated flags and/or comma-delimited lists.
// - This validates syntax only (no validation of rule IDs or option names).
// - Empty values are allowed ("rule.option=").
func ParseRuleOptionAssignments(values []string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)
	for _, raw := range splitCommaList(values) {
		left, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set entry %q: expected rule.option=value", raw)
		}
		left = strings.TrimSpace(left)
		value = strings.TrimSpace(value)
		ruleID, opt, ok := strings.Cut(left, ".")
		if !ok {
			return nil, fmt.Errorf("invalid --set entry %q: expected rule.option=value", raw)
		}
		ruleID = strings.TrimSpace(ruleID)
		opt = strings.TrimSpace(opt)
		if ruleID == "" || opt == "" {
			return nil, fmt.Errorf("invalid --set entry %q: expected non-empty rule and option", raw)
		}
		if _, ok := out[ruleID]; !ok {
			out[ruleID] = make(map[string]string)
		}
		out[ruleID][opt] = value
	}
	return out, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// Package celrules loads declarative rule documents whose predicates are CEL
// expressions. It is the adapter between external rule authoring and the
// engine's Rule contract: documents are parsed and compiled once at startup,
// and a compilation failure is a build-time error, never a runtime one.
package celrules

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"

	"planguard/internal/change"
	"planguard/internal/rules"
)

// Document is one YAML rule source.
//
//	rules:
//	  - id: no-public-buckets
//	    title: Storage must not be public
//	    severity: error
//	    applies_to: [azurerm_storage_account]
//	    expression: 'after.allow_blob_public_access == true'
//	    message: 'storage account allows public access'
//	    message_expression: '"storage account " + after.name + " allows public access"'
type Document struct {
	Rules []RuleDoc `yaml:"rules"`
}

// RuleDoc is the authored form of one rule. Expression is a CEL predicate
// over the variables `before`, `after`, `type`, `address` and `instance_key`;
// it must evaluate to a boolean, where true means the change violates the
// rule. MessageExpression, when present, is a CEL expression producing the
// violation text; Message is the static fallback.
type RuleDoc struct {
	ID                string   `yaml:"id"`
	Title             string   `yaml:"title"`
	Description       string   `yaml:"description"`
	Severity          string   `yaml:"severity"`
	AppliesTo         []string `yaml:"applies_to"`
	Expression        string   `yaml:"expression"`
	Message           string   `yaml:"message"`
	MessageExpression string   `yaml:"message_expression"`
}

// Load reads, parses and compiles one rule document.
func Load(path string) ([]rules.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule document: %w", err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// LoadAll loads multiple rule documents, concatenating their rules in
// argument order so that declaration order is preserved across files.
func LoadAll(paths []string) ([]rules.Rule, error) {
	var out []rules.Rule
	for _, p := range paths {
		rs, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}

// Parse decodes a YAML rule document and compiles every expression.
func Parse(data []byte) ([]rules.Rule, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode rule document: %w", err)
	}

	env, err := newEnv()
	if err != nil {
		return nil, err
	}

	out := make([]rules.Rule, 0, len(doc.Rules))
	for _, rd := range doc.Rules {
		r, err := compile(env, rd)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func newEnv() (*cel.Env, error) {
	// Attribute trees are dynamic maps from the plan artifact; DynType keeps
	// the environment schema-free.
	return cel.NewEnv(
		cel.Variable("before", cel.DynType),
		cel.Variable("after", cel.DynType),
		cel.Variable("type", cel.StringType),
		cel.Variable("address", cel.StringType),
		cel.Variable("instance_key", cel.StringType),
	)
}

func compile(env *cel.Env, rd RuleDoc) (*celRule, error) {
	if rd.ID == "" {
		return nil, &rules.InvalidRuleError{Reason: "rule document entry without id"}
	}
	if strings.TrimSpace(rd.Expression) == "" {
		return nil, &rules.InvalidRuleError{ID: rd.ID, Reason: "empty predicate expression"}
	}

	sev, err := parseSeverity(rd.Severity)
	if err != nil {
		return nil, &rules.InvalidRuleError{ID: rd.ID, Reason: err.Error()}
	}

	prog, err := compileExpr(env, rd.Expression)
	if err != nil {
		return nil, &rules.InvalidRuleError{ID: rd.ID, Reason: fmt.Sprintf("predicate: %v", err)}
	}

	var msgProg cel.Program
	if strings.TrimSpace(rd.MessageExpression) != "" {
		msgProg, err = compileExpr(env, rd.MessageExpression)
		if err != nil {
			return nil, &rules.InvalidRuleError{ID: rd.ID, Reason: fmt.Sprintf("message expression: %v", err)}
		}
	}

	return &celRule{doc: rd, severity: sev, prog: prog, msgProg: msgProg}, nil
}

func compileExpr(env *cel.Env, expr string) (cel.Program, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	// The cost limit keeps a pathological authored expression from stalling
	// the whole evaluation run.
	return env.Program(ast, cel.CostLimit(1_000_000))
}

func parseSeverity(s string) (rules.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		// Default severity for authored rules.
		return rules.SeverityError, nil
	case "info":
		return rules.SeverityInfo, nil
	case "warning":
		return rules.SeverityWarning, nil
	case "error":
		return rules.SeverityError, nil
	default:
		return "", fmt.Errorf("unknown severity %q (must be info, warning or error)", s)
	}
}

type celRule struct {
	doc      RuleDoc
	severity rules.Severity
	prog     cel.Program
	msgProg  cel.Program
}

func (r *celRule) ID() string               { return r.doc.ID }
func (r *celRule) Severity() rules.Severity { return r.severity }
func (r *celRule) AppliesTo() []string      { return r.doc.AppliesTo }

func (r *celRule) Title() string {
	if r.doc.Title != "" {
		return r.doc.Title
	}
	return r.doc.ID
}

func (r *celRule) Description() string {
	if r.doc.Description != "" {
		return r.doc.Description
	}
	return "Authored rule: " + r.doc.Expression
}

func (r *celRule) Evaluate(c *change.ResourceChange) (bool, error) {
	out, _, err := r.prog.Eval(input(c))
	if err != nil {
		// A key miss is the CEL rendition of an absent attribute; absent
		// never equals anything, so the predicate does not match.
		if strings.Contains(err.Error(), "no such key") {
			return false, nil
		}
		return false, err
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("predicate of rule %s returned %T, want bool", r.doc.ID, out.Value())
	}
	return b, nil
}

func (r *celRule) Message(c *change.ResourceChange) string {
	if r.msgProg != nil {
		if out, _, err := r.msgProg.Eval(input(c)); err == nil {
			if s, ok := out.Value().(string); ok && s != "" {
				return s
			}
		}
	}
	if r.doc.Message != "" {
		return r.doc.Message
	}
	return fmt.Sprintf("rule %s matched %s", r.doc.ID, c.DisplayName())
}

// input builds the CEL activation for one change. Absent trees become empty
// maps so that has() probes stay total for create-only and delete-only
// changes.
func input(c *change.ResourceChange) map[string]any {
	before := c.Before.Interface()
	if before == nil {
		before = map[string]any{}
	}
	after := c.After.Interface()
	if after == nil {
		after = map[string]any{}
	}
	return map[string]any{
		"before":       before,
		"after":        after,
		"type":         c.Type,
		"address":      c.Address,
		"instance_key": c.InstanceKey,
	}
}

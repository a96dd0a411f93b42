package rules

import (
	"planguard/internal/change"
)

// Severity classifies how serious a violation is. Only error-severity
// violations fail a run.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// ValidSeverity reports whether s is one of the known severities.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Rule is one compliance check: a pure predicate over a resource change plus
// the metadata needed to dispatch and report it.
type Rule interface {
	ID() string
	Title() string
	Description() string
	Severity() Severity

	// AppliesTo returns the resource types this rule is evaluated against.
	// An empty slice means the rule applies to every resource type.
	AppliesTo() []string

	// Evaluate reports whether the change violates this rule. Predicates
	// must be side-effect-free and must not read anything beyond the change;
	// missing attributes resolve to absent, not an error.
	Evaluate(c *change.ResourceChange) (bool, error)

	// Message renders the human-readable violation text for a change the
	// predicate matched. It may interpolate attribute values.
	Message(c *change.ResourceChange) string
}

// Option describes one configurable knob of a rule.
type Option struct {
	Name        string
	Description string
	Default     string
}

// ConfigurableRule is a Rule that accepts per-rule options supplied via
// repeated --set flags (ruleID.option=value).
type ConfigurableRule interface {
	Rule
	Options() []Option
	Configure(opts map[string]string) error
}

package checks

import (
	"testing"

	"planguard/internal/attr"
	"planguard/internal/change"
	"planguard/internal/rules"
)

// planned builds a create-style change with the given after state.
func planned(resourceType string, after map[string]any) *change.ResourceChange {
	return &change.ResourceChange{
		Type:   resourceType,
		Before: attr.Absent(),
		After:  attr.FromAny(after),
	}
}

// deleted builds a delete-only change with the given before state.
func deleted(resourceType string, before map[string]any) *change.ResourceChange {
	return &change.ResourceChange{
		Type:   resourceType,
		Before: attr.FromAny(before),
		After:  attr.Absent(),
	}
}

func evaluateRule(t *testing.T, r rules.Rule, c *change.ResourceChange) bool {
	t.Helper()
	fired, err := r.Evaluate(c)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	return fired
}

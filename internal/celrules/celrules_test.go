package celrules

import (
	"errors"
	"strings"
	"testing"

	"planguard/internal/attr"
	"planguard/internal/change"
	"planguard/internal/rules"
)

const sampleDoc = `
rules:
  - id: no-public-buckets
    title: Storage must not be public
    severity: error
    applies_to: [azurerm_storage_account]
    expression: 'has(after.allow_blob_public_access) && after.allow_blob_public_access == true'
    message_expression: '"storage account " + string(after.name) + " allows public access"'
    message: storage account allows public access
  - id: tag-purpose-required
    severity: warning
    expression: '!has(after.tags) || !has(after.tags.purpose)'
    message: resource is missing the purpose tag
`

func planned(resourceType string, after map[string]any) *change.ResourceChange {
	return &change.ResourceChange{
		Type:   resourceType,
		Before: attr.Absent(),
		After:  attr.FromAny(after),
	}
}

func TestParseAndEvaluate(t *testing.T) {
	rs, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 2 {
		t.Fatalf("got %d rules, want 2", len(rs))
	}

	public := rs[0]
	if public.ID() != "no-public-buckets" || public.Severity() != rules.SeverityError {
		t.Errorf("rule 0 = %s/%s", public.ID(), public.Severity())
	}
	if got := public.AppliesTo(); len(got) != 1 || got[0] != "azurerm_storage_account" {
		t.Errorf("AppliesTo = %v", got)
	}

	c := planned("azurerm_storage_account", map[string]any{
		"name":                     "evidence01",
		"allow_blob_public_access": true,
	})
	fired, err := public.Evaluate(c)
	if err != nil || !fired {
		t.Fatalf("Evaluate = %v, %v; want fire", fired, err)
	}
	if msg := public.Message(c); !strings.Contains(msg, "evidence01") {
		t.Errorf("message expression not interpolated: %q", msg)
	}

	compliant := planned("azurerm_storage_account", map[string]any{"allow_blob_public_access": false})
	if fired, err := public.Evaluate(compliant); err != nil || fired {
		t.Errorf("compliant change fired: %v, %v", fired, err)
	}
}

func TestEvaluateMissingAttributeDoesNotFault(t *testing.T) {
	doc := `
rules:
  - id: direct-key-access
    expression: 'after.allow_blob_public_access == true'
`
	rs, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	// The key is missing and the expression does not guard with has();
	// the predicate must still resolve to no-match, not a fault.
	c := planned("azurerm_storage_account", map[string]any{"name": "x"})
	fired, err := rs[0].Evaluate(c)
	if err != nil {
		t.Fatalf("missing attribute faulted: %v", err)
	}
	if fired {
		t.Error("missing attribute must not match an equality predicate")
	}
}

func TestEvaluateDeleteOnlyChange(t *testing.T) {
	rs, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	deleted := &change.ResourceChange{
		Type:   "azurerm_storage_account",
		Before: attr.FromAny(map[string]any{"allow_blob_public_access": true}),
		After:  attr.Absent(),
	}
	// after is presented as an empty map; has() guards keep this a non-match.
	if fired, err := rs[0].Evaluate(deleted); err != nil || fired {
		t.Errorf("delete-only change: fired=%v err=%v", fired, err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing id", "rules:\n  - expression: 'true'\n"},
		{"empty expression", "rules:\n  - id: r\n    expression: ''\n"},
		{"bad severity", "rules:\n  - id: r\n    severity: fatal\n    expression: 'true'\n"},
		{"compile error", "rules:\n  - id: r\n    expression: 'after .. oops'\n"},
		{"bad message expression", "rules:\n  - id: r\n    expression: 'true'\n    message_expression: '1 +'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var inv *rules.InvalidRuleError
			if !errors.As(err, &inv) {
				t.Fatalf("err = %v, want InvalidRuleError", err)
			}
		})
	}
}

func TestNonBooleanPredicateIsAnError(t *testing.T) {
	doc := "rules:\n  - id: r\n    expression: '\"not a bool\"'\n"
	rs, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rs[0].Evaluate(planned("t", map[string]any{})); err == nil {
		t.Error("non-boolean predicate result should surface as an error")
	}
}

func TestStaticMessageFallback(t *testing.T) {
	rs, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	tagRule := rs[1]
	c := planned("azurerm_subnet", map[string]any{})
	if msg := tagRule.Message(c); msg != "resource is missing the purpose tag" {
		t.Errorf("static message = %q", msg)
	}
}

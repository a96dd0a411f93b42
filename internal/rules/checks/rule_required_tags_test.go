package checks

import (
	"strings"
	"testing"

	"planguard/internal/change"
)

func TestRequiredTagsRule(t *testing.T) {
	rule := &RequiredTagsRule{}

	tests := []struct {
		name string
		c    *change.ResourceChange
		want bool
	}{
		{
			name: "purpose present -> compliant",
			c:    planned("azurerm_storage_account", map[string]any{"tags": map[string]any{"purpose": "lab"}}),
			want: false,
		},
		{
			name: "empty tags map -> fires",
			c:    planned("azurerm_storage_account", map[string]any{"tags": map[string]any{}}),
			want: true,
		},
		{
			name: "no tags attribute at all -> fires",
			c:    planned("azurerm_resource_group", map[string]any{"name": "lab"}),
			want: true,
		},
		{
			name: "other tags but not purpose -> fires",
			c:    planned("azurerm_subnet", map[string]any{"tags": map[string]any{"env": "dev"}}),
			want: true,
		},
		{
			name: "delete-only change exempt",
			c:    deleted("azurerm_subnet", map[string]any{"tags": map[string]any{}}),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluateRule(t, rule, tt.c); got != tt.want {
				t.Errorf("Evaluate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequiredTagsConfigure(t *testing.T) {
	rule := &RequiredTagsRule{}
	if err := rule.Configure(map[string]string{"keys": "purpose, owner"}); err != nil {
		t.Fatal(err)
	}

	c := planned("azurerm_storage_account", map[string]any{"tags": map[string]any{"purpose": "lab"}})
	if !evaluateRule(t, rule, c) {
		t.Error("missing owner tag should fire after reconfiguration")
	}
	if msg := rule.Message(c); !strings.Contains(msg, "owner") {
		t.Errorf("message %q should name the missing key", msg)
	}

	both := planned("azurerm_storage_account", map[string]any{
		"tags": map[string]any{"purpose": "lab", "owner": "platform"},
	})
	if evaluateRule(t, rule, both) {
		t.Error("all keys present should be compliant")
	}

	if err := rule.Configure(map[string]string{"keys": " , "}); err == nil {
		t.Error("expected error for empty key list")
	}

	// Unrelated options leave the configuration untouched.
	if err := rule.Configure(map[string]string{"other": "x"}); err != nil {
		t.Fatal(err)
	}
	if !evaluateRule(t, rule, c) {
		t.Error("configuration should persist across unrelated Configure calls")
	}
}

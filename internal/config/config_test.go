package config

import (
	"reflect"
	"testing"
)

func TestValidate_NormalizesCommaDelimitedRuleFiles(t *testing.T) {
	cfg := New()
	cfg.Input.Plan = "plan.json"
	cfg.Rules.Files = []string{"guardrails/base.yaml, guardrails/storage.yaml", "extra.yaml", ",,"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}

	want := []string{"guardrails/base.yaml", "guardrails/storage.yaml", "extra.yaml"}
	if !reflect.DeepEqual(cfg.Rules.Files, want) {
		t.Fatalf("Files normalized mismatch: got %v want %v", cfg.Rules.Files, want)
	}
}

func TestValidate_RequiresPlan(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when --plan is missing")
	}

	cfg.Input.Plan = "-"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("stdin plan should be accepted: %v", err)
	}
}

func TestValidate_ConsoleFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"JSON", false}, // normalized to lowercase
		{"ndjson", false},
		{"yaml", true},
	}

	for _, tt := range tests {
		cfg := New()
		cfg.Input.Plan = "plan.json"
		cfg.Output.ConsoleFormat = tt.format
		err := cfg.Validate()
		if tt.wantErr && err == nil {
			t.Errorf("format %q: expected error", tt.format)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("format %q: unexpected error: %v", tt.format, err)
		}
	}
}

func TestValidate_NormalizesFilterSeverity(t *testing.T) {
	cfg := New()
	cfg.Input.Plan = "plan.json"
	cfg.Output.ConsoleFilterSeverity = []string{"error", " Warning "}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	want := []string{"ERROR", "WARNING"}
	if !reflect.DeepEqual(cfg.Output.ConsoleFilterSeverity, want) {
		t.Fatalf("filter severity mismatch: got %v want %v", cfg.Output.ConsoleFilterSeverity, want)
	}

	cfg.Output.ConsoleFilterSeverity = []string{"critical"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown severity")
	}
}

func TestValidate_InfersOutFormat(t *testing.T) {
	tests := []struct {
		out     string
		want    string
		wantErr bool
	}{
		{"findings.json", "json", false},
		{"findings.ndjson", "ndjson", false},
		{"findings.jsonl", "ndjson", false},
		{"findings.csv", "", true},
		{"findings", "", true},
	}

	for _, tt := range tests {
		cfg := New()
		cfg.Input.Plan = "plan.json"
		cfg.Output.Out = tt.out
		err := cfg.Validate()
		if tt.wantErr {
			if err == nil {
				t.Errorf("out %q: expected error", tt.out)
			}
			continue
		}
		if err != nil {
			t.Errorf("out %q: unexpected error: %v", tt.out, err)
			continue
		}
		if cfg.Output.OutFormat != tt.want {
			t.Errorf("out %q: format = %q, want %q", tt.out, cfg.Output.OutFormat, tt.want)
		}
	}
}

func TestValidate_Workers(t *testing.T) {
	cfg := New()
	cfg.Input.Plan = "plan.json"
	cfg.Runtime.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero workers")
	}
}

func TestParseRuleOptionAssignments(t *testing.T) {
	got, err := ParseRuleOptionAssignments([]string{
		"required-tags.keys=purpose;owner, storage-min-tls.version=TLS1_2",
		"managed-identity.enabled=", // empty value allowed
	})
	if err != nil {
		t.Fatalf("ParseRuleOptionAssignments returned error: %v", err)
	}
	if got["required-tags"]["keys"] != "purpose;owner" {
		t.Fatalf("unexpected parsed value: %v", got)
	}
	if got["storage-min-tls"]["version"] != "TLS1_2" {
		t.Fatalf("unexpected parsed value: %v", got)
	}
	if got["managed-identity"]["enabled"] != "" {
		t.Fatalf("expected empty string value to be preserved: %v", got)
	}
}

func TestParseRuleOptionAssignments_ErrorsOnInvalidSyntax(t *testing.T) {
	tests := []struct {
		name   string
		values []string
	}{
		{name: "missing_equals", values: []string{"a.b"}},
		{name: "missing_dot", values: []string{"ab=true"}},
		{name: "empty_rule", values: []string{".b=true"}},
		{name: "empty_opt", values: []string{"a.=true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRuleOptionAssignments(tt.values); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestValidate_RejectsInvalidSetSyntax(t *testing.T) {
	cfg := New()
	cfg.Input.Plan = "plan.json"
	cfg.Rules.Set = []string{"required-tags.keys"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed --set entry")
	}
}

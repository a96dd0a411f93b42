package output

import "planguard/internal/rules"

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - violation
// - warning
// - run.finished
//
// JSON mode remains an aggregate of violations and warnings.
type Event struct {
	Type  string `json:"type"`
	RunID string `json:"run_id,omitempty"`
	*rules.Violation
	Warning    *rules.Warning `json:"warning,omitempty"`
	Changes    int            `json:"changes,omitempty"`
	Rules      int            `json:"rules,omitempty"`
	Violations int            `json:"violations,omitempty"`
	ExitCode   int            `json:"exit_code,omitempty"`
}

func eventFromViolation(v rules.Violation) Event {
	return Event{Type: "violation", Violation: &v}
}

func eventFromWarning(w rules.Warning) Event {
	return Event{Type: "warning", Warning: &w}
}

// aggregate is the JSON-mode document shape: the full outcome of one run in
// a single object.
type aggregate struct {
	Violations []rules.Violation `json:"violations"`
	Warnings   []rules.Warning   `json:"warnings,omitempty"`
}

package rules

// Violation is the value object produced when a rule's predicate matches a
// resource change. A batch evaluation yields an ordered sequence of these.
type Violation struct {
	RuleID        string   `json:"rule_id"`
	ResourceIndex int      `json:"resource_index"`
	ResourceType  string   `json:"resource_type"`
	Address       string   `json:"address,omitempty"`
	Severity      Severity `json:"severity"`
	Message       string   `json:"message,omitempty"`
}

// Warning records a rule predicate that faulted during evaluation. A faulting
// rule is isolated: it produces exactly one Warning per offending change and
// never aborts the rest of the batch.
type Warning struct {
	RuleID        string `json:"rule_id"`
	ResourceIndex int    `json:"resource_index"`
	Message       string `json:"message"`
}

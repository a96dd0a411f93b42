package checks

import (
	"fmt"
	"strings"

	"planguard/internal/change"
	"planguard/internal/rules"
)

// RequiredTagsRule flags any planned resource missing one of the governance
// tags. It applies to every resource type.
type RequiredTagsRule struct {
	keys []string
}

func init() {
	rules.Register(&RequiredTagsRule{})
}

func (r *RequiredTagsRule) ID() string {
	return "required-tags"
}

func (r *RequiredTagsRule) Title() string {
	return "Required Governance Tags Missing"
}

func (r *RequiredTagsRule) Description() string {
	return "Flags any planned resource missing one of the required tag keys (default: purpose).\n\n" +
		"A resource with no tags attribute at all is also a violation: absence of the " +
		"governance tag is exactly what this rule exists to catch. Tag values are not " +
		"checked, only key presence. Delete-only changes are exempt."
}

func (r *RequiredTagsRule) Severity() rules.Severity {
	return rules.SeverityError
}

func (r *RequiredTagsRule) AppliesTo() []string {
	return nil
}

func (r *RequiredTagsRule) requiredKeys() []string {
	if len(r.keys) == 0 {
		return []string{"purpose"}
	}
	return r.keys
}

func (r *RequiredTagsRule) missingKeys(c *change.ResourceChange) []string {
	var missing []string
	for _, key := range r.requiredKeys() {
		if c.AfterPath("tags." + key).IsAbsent() {
			missing = append(missing, key)
		}
	}
	return missing
}

func (r *RequiredTagsRule) Evaluate(c *change.ResourceChange) (bool, error) {
	if c.After.IsAbsent() {
		return false, nil
	}
	return len(r.missingKeys(c)) > 0, nil
}

func (r *RequiredTagsRule) Message(c *change.ResourceChange) string {
	return fmt.Sprintf("resource %q is missing required tag(s): %s", c.DisplayName(), strings.Join(r.missingKeys(c), ", "))
}

func (r *RequiredTagsRule) Options() []rules.Option {
	return []rules.Option{
		{
			Name:        "keys",
			Description: "Tag keys every resource must carry, separated by commas or semicolons",
			Default:     "purpose",
		},
	}
}

func (r *RequiredTagsRule) Configure(opts map[string]string) error {
	raw, ok := opts["keys"]
	if !ok {
		return nil
	}
	// Semicolons are accepted alongside commas so multi-key values survive
	// comma-splitting in --set parsing.
	var keys []string
	for _, k := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return fmt.Errorf("option keys must name at least one tag key")
	}
	r.keys = keys
	return nil
}

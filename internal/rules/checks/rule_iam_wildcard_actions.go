package checks

import (
	"fmt"

	"planguard/internal/change"
	"planguard/internal/rules"
)

// IAMWildcardActionsRule flags custom role definitions granting wildcard
// actions.
type IAMWildcardActionsRule struct{}

func init() {
	rules.Register(&IAMWildcardActionsRule{})
}

func (r *IAMWildcardActionsRule) ID() string {
	return "iam-wildcard-actions"
}

func (r *IAMWildcardActionsRule) Title() string {
	return "Role Definition Grants Wildcard Actions"
}

func (r *IAMWildcardActionsRule) Description() string {
	return "Flags a planned custom role definition where any permissions block lists \"*\" " +
		"as an action.\n\nA wildcard action grants every operation in scope, defeating " +
		"least privilege. The check is existential: one wildcard in any permissions " +
		"block is enough to flag the role."
}

func (r *IAMWildcardActionsRule) Severity() rules.Severity {
	return rules.SeverityError
}

func (r *IAMWildcardActionsRule) AppliesTo() []string {
	return []string{"azurerm_role_definition"}
}

func (r *IAMWildcardActionsRule) Evaluate(c *change.ResourceChange) (bool, error) {
	if c.After.IsAbsent() {
		return false, nil
	}
	for _, perm := range c.AfterPath("permissions").Items() {
		for _, action := range perm.Field("actions").Items() {
			if action.EqualString("*") {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *IAMWildcardActionsRule) Message(c *change.ResourceChange) string {
	return fmt.Sprintf("role definition %q grants the wildcard action \"*\"; enumerate the required actions instead", c.DisplayName())
}

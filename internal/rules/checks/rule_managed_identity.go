package checks

import (
	"fmt"

	"planguard/internal/change"
	"planguard/internal/rules"
)

// ManagedIdentityRule flags workload resources planned without a managed
// identity block.
type ManagedIdentityRule struct{}

func init() {
	rules.Register(&ManagedIdentityRule{})
}

func (r *ManagedIdentityRule) ID() string {
	return "managed-identity"
}

func (r *ManagedIdentityRule) Title() string {
	return "Managed Identity Not Configured"
}

func (r *ManagedIdentityRule) Description() string {
	return "Flags planned storage accounts and app workloads with no identity.type attribute.\n\n" +
		"Workloads without a managed identity end up authenticating with shared keys " +
		"or embedded credentials. For this rule the missing attribute is itself the " +
		"violation. Delete-only changes are exempt."
}

func (r *ManagedIdentityRule) Severity() rules.Severity {
	return rules.SeverityError
}

func (r *ManagedIdentityRule) AppliesTo() []string {
	return []string{
		"azurerm_storage_account",
		"azurerm_linux_web_app",
		"azurerm_linux_function_app",
	}
}

func (r *ManagedIdentityRule) Evaluate(c *change.ResourceChange) (bool, error) {
	if c.After.IsAbsent() {
		return false, nil
	}
	return c.AfterPath("identity.type").IsAbsent(), nil
}

func (r *ManagedIdentityRule) Message(c *change.ResourceChange) string {
	return fmt.Sprintf("resource %q has no managed identity; add an identity block with type SystemAssigned", c.DisplayName())
}

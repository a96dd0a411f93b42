package checks

import (
	"fmt"

	"planguard/internal/change"
	"planguard/internal/rules"
)

// InfrastructureEncryptionRule flags storage accounts planned without
// infrastructure (double) encryption.
type InfrastructureEncryptionRule struct{}

func init() {
	rules.Register(&InfrastructureEncryptionRule{})
}

func (r *InfrastructureEncryptionRule) ID() string {
	return "storage-infrastructure-encryption"
}

func (r *InfrastructureEncryptionRule) Title() string {
	return "Infrastructure Encryption Not Enabled"
}

func (r *InfrastructureEncryptionRule) Description() string {
	return "Flags a planned storage account unless infrastructure_encryption_enabled is the " +
		"literal boolean true.\n\nUnlike the hardening flags, this rule treats an absent " +
		"attribute as a violation: the provider default leaves the second encryption " +
		"layer off, and the control requires it on. Delete-only changes are exempt."
}

func (r *InfrastructureEncryptionRule) Severity() rules.Severity {
	return rules.SeverityWarning
}

func (r *InfrastructureEncryptionRule) AppliesTo() []string {
	return []string{"azurerm_storage_account"}
}

func (r *InfrastructureEncryptionRule) Evaluate(c *change.ResourceChange) (bool, error) {
	if c.After.IsAbsent() {
		return false, nil
	}
	return !c.AfterPath("infrastructure_encryption_enabled").IsTrue(), nil
}

func (r *InfrastructureEncryptionRule) Message(c *change.ResourceChange) string {
	return fmt.Sprintf("storage account %q does not enable infrastructure encryption; set infrastructure_encryption_enabled = true", c.DisplayName())
}

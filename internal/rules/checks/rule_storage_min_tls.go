package checks

import (
	"fmt"

	"planguard/internal/change"
	"planguard/internal/rules"
)

// StorageMinTLSRule flags storage accounts pinned to a TLS version older
// than 1.2.
type StorageMinTLSRule struct{}

func init() {
	rules.Register(&StorageMinTLSRule{})
}

func (r *StorageMinTLSRule) ID() string {
	return "storage-min-tls"
}

func (r *StorageMinTLSRule) Title() string {
	return "Storage Account Minimum TLS Below 1.2"
}

func (r *StorageMinTLSRule) Description() string {
	return "Flags a planned storage account whose min_tls_version is set to something other than TLS1_2.\n\n" +
		"An absent attribute is compliant (provider default). The comparison is " +
		"exact-match and case-sensitive."
}

func (r *StorageMinTLSRule) Severity() rules.Severity {
	return rules.SeverityWarning
}

func (r *StorageMinTLSRule) AppliesTo() []string {
	return []string{"azurerm_storage_account"}
}

func (r *StorageMinTLSRule) Evaluate(c *change.ResourceChange) (bool, error) {
	if c.After.IsAbsent() {
		return false, nil
	}
	v := c.AfterPath("min_tls_version")
	if v.IsAbsent() {
		return false, nil
	}
	return !v.EqualString("TLS1_2"), nil
}

func (r *StorageMinTLSRule) Message(c *change.ResourceChange) string {
	ver, _ := c.AfterPath("min_tls_version").StringVal()
	return fmt.Sprintf("storage account %q pins min_tls_version to %q; require TLS1_2", c.DisplayName(), ver)
}

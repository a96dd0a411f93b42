package checks

import (
	"fmt"

	"planguard/internal/change"
	"planguard/internal/rules"
)

// StorageHTTPSOnlyRule flags storage accounts that explicitly disable
// HTTPS-only traffic.
type StorageHTTPSOnlyRule struct{}

func init() {
	rules.Register(&StorageHTTPSOnlyRule{})
}

func (r *StorageHTTPSOnlyRule) ID() string {
	return "storage-https-only"
}

func (r *StorageHTTPSOnlyRule) Title() string {
	return "Storage Account Permits Plaintext Traffic"
}

func (r *StorageHTTPSOnlyRule) Description() string {
	return "Flags a planned storage account with enable_https_traffic_only set to a value other than true.\n\n" +
		"An absent attribute is compliant: the provider default already enforces HTTPS. " +
		"Only an explicit opt-out is a violation."
}

func (r *StorageHTTPSOnlyRule) Severity() rules.Severity {
	return rules.SeverityError
}

func (r *StorageHTTPSOnlyRule) AppliesTo() []string {
	return []string{"azurerm_storage_account"}
}

func (r *StorageHTTPSOnlyRule) Evaluate(c *change.ResourceChange) (bool, error) {
	if c.After.IsAbsent() {
		return false, nil
	}
	v := c.AfterPath("enable_https_traffic_only")
	if v.IsAbsent() {
		return false, nil
	}
	return !v.IsTrue(), nil
}

func (r *StorageHTTPSOnlyRule) Message(c *change.ResourceChange) string {
	return fmt.Sprintf("storage account %q disables HTTPS-only traffic; set enable_https_traffic_only = true", c.DisplayName())
}

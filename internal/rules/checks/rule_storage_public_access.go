package checks

import (
	"fmt"

	"planguard/internal/change"
	"planguard/internal/rules"
)

// StoragePublicAccessRule flags storage accounts whose planned state allows
// anonymous public access to blob data.
type StoragePublicAccessRule struct{}

func init() {
	rules.Register(&StoragePublicAccessRule{})
}

func (r *StoragePublicAccessRule) ID() string {
	return "storage-public-access"
}

func (r *StoragePublicAccessRule) Title() string {
	return "Storage Account Allows Public Blob Access"
}

func (r *StoragePublicAccessRule) Description() string {
	return "Flags a planned storage account with allow_blob_public_access set to true.\n\n" +
		"Anonymous blob access exposes evidence and data stores to the internet. " +
		"Only the literal boolean true is flagged; an absent attribute keeps the " +
		"provider default (disabled) and is compliant."
}

func (r *StoragePublicAccessRule) Severity() rules.Severity {
	return rules.SeverityError
}

func (r *StoragePublicAccessRule) AppliesTo() []string {
	return []string{"azurerm_storage_account"}
}

func (r *StoragePublicAccessRule) Evaluate(c *change.ResourceChange) (bool, error) {
	if c.After.IsAbsent() {
		return false, nil
	}
	return c.AfterPath("allow_blob_public_access").IsTrue(), nil
}

func (r *StoragePublicAccessRule) Message(c *change.ResourceChange) string {
	return fmt.Sprintf("storage account %q allows public blob access; set allow_blob_public_access = false", c.DisplayName())
}

package checks

import (
	"fmt"

	"planguard/internal/change"
	"planguard/internal/rules"
)

// ContainerPublicAccessRule flags storage containers whose access type is
// anything other than private.
type ContainerPublicAccessRule struct{}

func init() {
	rules.Register(&ContainerPublicAccessRule{})
}

func (r *ContainerPublicAccessRule) ID() string {
	return "container-public-access"
}

func (r *ContainerPublicAccessRule) Title() string {
	return "Storage Container Not Private"
}

func (r *ContainerPublicAccessRule) Description() string {
	return "Flags a planned storage container whose container_access_type is not \"private\".\n\n" +
		"Both \"blob\" and \"container\" access expose contents anonymously. An absent " +
		"attribute keeps the provider default (private) and is compliant."
}

func (r *ContainerPublicAccessRule) Severity() rules.Severity {
	return rules.SeverityError
}

func (r *ContainerPublicAccessRule) AppliesTo() []string {
	return []string{"azurerm_storage_container"}
}

func (r *ContainerPublicAccessRule) Evaluate(c *change.ResourceChange) (bool, error) {
	if c.After.IsAbsent() {
		return false, nil
	}
	v := c.AfterPath("container_access_type")
	if v.IsAbsent() {
		return false, nil
	}
	return !v.EqualString("private"), nil
}

func (r *ContainerPublicAccessRule) Message(c *change.ResourceChange) string {
	access, _ := c.AfterPath("container_access_type").StringVal()
	return fmt.Sprintf("storage container %q grants %q access; set container_access_type = \"private\"", c.DisplayName(), access)
}

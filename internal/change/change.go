package change

import (
	"fmt"

	"planguard/internal/attr"
)

// ResourceChange is one planned infrastructure mutation in normalized form.
// Before and After are immutable snapshots of the planned state; at least one
// of them is present (enforced at input normalization, see internal/plan).
type ResourceChange struct {
	// Index is the position of this change in the batch. It is the stable
	// ordering key for violation reports.
	Index int

	// Type is the resource type identifier (e.g. azurerm_storage_account)
	// used for rule applicability.
	Type string

	// Address is the provisioner-assigned address of the resource instance
	// (e.g. azurerm_storage_account.evidence["logs"]). Used in messages.
	Address string

	// InstanceKey is the for_each/count key when this change is one element
	// of a keyed collection, empty otherwise.
	InstanceKey string

	// Before is the pre-change attribute tree; absent for create-only changes.
	Before attr.Value

	// After is the post-change attribute tree; absent for delete-only changes.
	After attr.Value
}

// Valid reports whether the change satisfies the model invariant that at
// least one of Before/After is present.
func (c *ResourceChange) Valid() bool {
	return !(c.Before.IsAbsent() && c.After.IsAbsent())
}

// AfterPath resolves a dotted path in the post-change state. Missing
// attributes resolve to absent, never an error.
func (c *ResourceChange) AfterPath(path string) attr.Value {
	return attr.Resolve(c.After, path)
}

// BeforePath resolves a dotted path in the pre-change state.
func (c *ResourceChange) BeforePath(path string) attr.Value {
	return attr.Resolve(c.Before, path)
}

// State returns the attribute tree most relevant to compliance checks: After
// when present, otherwise Before (delete-only changes).
func (c *ResourceChange) State() attr.Value {
	if !c.After.IsAbsent() {
		return c.After
	}
	return c.Before
}

// DisplayName returns a human-oriented identifier for messages: the planned
// name attribute when present, otherwise the address, otherwise the index.
func (c *ResourceChange) DisplayName() string {
	if name, ok := c.State().Field("name").StringVal(); ok && name != "" {
		return name
	}
	if c.Address != "" {
		return c.Address
	}
	return fmt.Sprintf("change #%d", c.Index)
}

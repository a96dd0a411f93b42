package checks

import (
	"testing"

	"planguard/internal/change"
)

func TestContainerPublicAccessRule(t *testing.T) {
	rule := &ContainerPublicAccessRule{}

	tests := []struct {
		name string
		c    *change.ResourceChange
		want bool
	}{
		{
			name: "blob access -> fires",
			c:    planned("azurerm_storage_container", map[string]any{"container_access_type": "blob"}),
			want: true,
		},
		{
			name: "container access -> fires",
			c:    planned("azurerm_storage_container", map[string]any{"container_access_type": "container"}),
			want: true,
		},
		{
			name: "private -> compliant",
			c:    planned("azurerm_storage_container", map[string]any{"container_access_type": "private"}),
			want: false,
		},
		{
			name: "absent -> compliant (provider default)",
			c:    planned("azurerm_storage_container", map[string]any{"name": "audit"}),
			want: false,
		},
		{
			name: "delete-only change exempt",
			c:    deleted("azurerm_storage_container", map[string]any{"container_access_type": "blob"}),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluateRule(t, rule, tt.c); got != tt.want {
				t.Errorf("Evaluate = %v, want %v", got, tt.want)
			}
		})
	}
}

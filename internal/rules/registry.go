package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry = make(map[string]Rule)
	ordered  []Rule
	mu       sync.RWMutex
)

// Register adds a built-in rule to the global registry. Built-ins register
// from init() in internal/rules/checks; a duplicate ID at that point is a
// programmer error, so it panics rather than returning.
func Register(r Rule) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[r.ID()]; exists {
		panic(fmt.Sprintf("rule %s already registered", r.ID()))
	}
	registry[r.ID()] = r
	ordered = append(ordered, r)
}

// List returns all registered rules sorted by rule ID (for display).
func List() []Rule {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Rule, len(ordered))
	copy(out, ordered)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}

// Registered returns all registered rules in registration order. Declaration
// order matters for evaluation: violation reports must be stable across runs.
func Registered() []Rule {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Rule, len(ordered))
	copy(out, ordered)
	return out
}

// Resolve selects registered rules by a comma-separated list of rule IDs.
// An empty selector selects every registered rule, in registration order.
func Resolve(selector string) ([]Rule, error) {
	if selector == "" {
		return Registered(), nil
	}

	mu.RLock()
	defer mu.RUnlock()
	ids := strings.Split(selector, ",")
	var selected []Rule
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		r, ok := registry[id]
		if !ok {
			return nil, fmt.Errorf("rule not found: %s", id)
		}
		selected = append(selected, r)
	}
	return selected, nil
}

package rules

import (
	"fmt"
)

// DuplicateRuleIDError is returned by Build when two rule sources define the
// same rule ID.
type DuplicateRuleIDError struct {
	ID string
}

func (e *DuplicateRuleIDError) Error() string {
	return fmt.Sprintf("duplicate rule id %q", e.ID)
}

// InvalidRuleError is returned by Build for a rule with a missing ID, an
// unknown severity, or a malformed applies-to set.
type InvalidRuleError struct {
	ID     string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid rule: %s", e.Reason)
	}
	return fmt.Sprintf("invalid rule %q: %s", e.ID, e.Reason)
}

// Set is an ordered, immutable collection of rules partitioned by resource
// type for dispatch. Build it once at startup; a Set is safe for concurrent
// use by any number of simultaneous evaluations.
type Set struct {
	rules    []Rule
	order    map[string]int // rule ID -> declaration position
	byType   map[string][]Rule
	wildcard []Rule
}

// Build constructs a Set from rule sources in declaration order. It fails
// with DuplicateRuleIDError or InvalidRuleError before any evaluation can
// start; a Set is never partially built.
func Build(sources ...[]Rule) (*Set, error) {
	s := &Set{
		order:  make(map[string]int),
		byType: make(map[string][]Rule),
	}

	for _, src := range sources {
		for _, r := range src {
			if r == nil {
				return nil, &InvalidRuleError{Reason: "nil rule"}
			}
			if r.ID() == "" {
				return nil, &InvalidRuleError{Reason: "empty rule id"}
			}
			if !ValidSeverity(r.Severity()) {
				return nil, &InvalidRuleError{ID: r.ID(), Reason: fmt.Sprintf("unknown severity %q", r.Severity())}
			}
			if _, dup := s.order[r.ID()]; dup {
				return nil, &DuplicateRuleIDError{ID: r.ID()}
			}

			types := r.AppliesTo()
			for _, t := range types {
				if t == "" {
					return nil, &InvalidRuleError{ID: r.ID(), Reason: "empty resource type in applies-to set"}
				}
			}

			s.order[r.ID()] = len(s.rules)
			s.rules = append(s.rules, r)

			if len(types) == 0 {
				// Wildcard rules join every partition, preserving
				// declaration order relative to type-specific rules.
				s.wildcard = append(s.wildcard, r)
				for t := range s.byType {
					s.byType[t] = append(s.byType[t], r)
				}
				continue
			}
			for _, t := range types {
				if _, ok := s.byType[t]; !ok {
					// New partitions start with the wildcard rules
					// declared so far.
					s.byType[t] = append([]Rule(nil), s.wildcard...)
				}
				s.byType[t] = append(s.byType[t], r)
			}
		}
	}

	return s, nil
}

// Len returns the number of rules in the set.
func (s *Set) Len() int {
	return len(s.rules)
}

// Rules returns all rules in declaration order.
func (s *Set) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// ForType returns the rules applicable to resourceType (type-specific plus
// wildcard) in declaration order. Callers must not mutate the returned slice.
func (s *Set) ForType(resourceType string) []Rule {
	if rs, ok := s.byType[resourceType]; ok {
		return rs
	}
	return s.wildcard
}

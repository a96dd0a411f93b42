package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"planguard/internal/change"
	"planguard/internal/rules"
)

// Options tunes one evaluation run.
type Options struct {
	// Workers bounds the number of changes evaluated concurrently.
	// Values below 2 evaluate sequentially. Concurrency never shows in the
	// output: violations are emitted in canonical order either way.
	Workers int
}

// changeOutcome holds everything produced for a single change, keyed by the
// change's batch position so results can be reassembled in input order.
type changeOutcome struct {
	violations []rules.Violation
	warnings   []rules.Warning
}

// Evaluate runs every applicable rule against every change, in input order
// and rule-declaration order, and returns the aggregated result.
//
// All firings are reported, not just the first per change: an auditor needs
// the complete list. A predicate that returns an error or panics is recorded
// as a Warning and evaluation continues. The only fatal condition is a change
// violating the model invariant (neither before nor after state), which
// normalization should already have rejected.
func Evaluate(ctx context.Context, changes []change.ResourceChange, set *rules.Set, opts Options) (*Result, error) {
	for i := range changes {
		if !changes[i].Valid() {
			return nil, fmt.Errorf("malformed change at index %d (%s): neither before nor after state present", changes[i].Index, changes[i].Address)
		}
	}

	outcomes := make([]changeOutcome, len(changes))

	if opts.Workers > 1 && len(changes) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i := range changes {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcomes[i] = evaluateChange(&changes[i], set)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range changes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = evaluateChange(&changes[i], set)
		}
	}

	res := &Result{
		Violations: []rules.Violation{},
		Counts:     make(map[rules.Severity]int),
	}
	for _, oc := range outcomes {
		res.Violations = append(res.Violations, oc.violations...)
		res.Warnings = append(res.Warnings, oc.warnings...)
	}
	for _, v := range res.Violations {
		res.Counts[v.Severity]++
	}
	res.Passed = res.Counts[rules.SeverityError] == 0
	return res, nil
}

// evaluateChange runs the applicable rules for one change in declaration
// order. Per-change outcomes are independent, which is what makes the batch
// loop safe to parallelize.
func evaluateChange(c *change.ResourceChange, set *rules.Set) changeOutcome {
	var oc changeOutcome
	for _, r := range set.ForType(c.Type) {
		fired, msg, err := invoke(r, c)
		if err != nil {
			oc.warnings = append(oc.warnings, rules.Warning{
				RuleID:        r.ID(),
				ResourceIndex: c.Index,
				Message:       fmt.Sprintf("rule predicate failed: %v", err),
			})
			continue
		}
		if !fired {
			continue
		}
		oc.violations = append(oc.violations, rules.Violation{
			RuleID:        r.ID(),
			ResourceIndex: c.Index,
			ResourceType:  c.Type,
			Address:       c.Address,
			Severity:      r.Severity(),
			Message:       msg,
		})
	}
	return oc
}

// invoke runs a single rule predicate with panic isolation. One misbehaving
// rule must not mask real violations elsewhere in the batch.
func invoke(r rules.Rule, c *change.ResourceChange) (fired bool, msg string, err error) {
	defer func() {
		if p := recover(); p != nil {
			fired = false
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	fired, err = r.Evaluate(c)
	if err != nil {
		return false, "", err
	}
	if fired {
		msg = r.Message(c)
	}
	return fired, msg, nil
}

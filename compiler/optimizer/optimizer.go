// Package optimizer rewrites a logical plan with a fixed, explicitly
// ordered set of heuristic rules, applied repeatedly until a full pass
// changes nothing.  There is no cost model and no search over alternative
// plan shapes; the rule list is the whole contract.
package optimizer

import (
	"fmt"

	"github.com/keeldb/keel/compiler/logical"
)

// maxPasses bounds the fixpoint loop so a misbehaved rule fails loudly
// instead of spinning.
const maxPasses = 100

// Error reports a rule failure or a non-converging rule set.  Either is
// fatal for the compilation; rules are never silently skipped.
type Error struct {
	Rule string
	Msg  string
}

func (e *Error) Error() string {
	if e.Rule == "" {
		return e.Msg
	}
	return fmt.Sprintf("rule %s: %s", e.Rule, e.Msg)
}

// A Rule rewrites a plan, reporting whether it changed anything.  Rules
// must be deterministic: the same input sequence always produces the same
// output sequence.
type Rule struct {
	Name  string
	Apply func(logical.Seq) (logical.Seq, bool, error)
}

// DefaultRules is the registered rule list in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "merge-filters", Apply: mergeFilters},
		{Name: "push-filter-into-scan", Apply: pushFilterIntoScan},
		{Name: "prune-scan-columns", Apply: pruneScanColumns},
		{Name: "remove-pass", Apply: removePass},
	}
}

type Optimizer struct {
	rules []Rule
}

func New() *Optimizer {
	return &Optimizer{rules: DefaultRules()}
}

// NewWithRules builds an optimizer over an explicit rule list, mainly for
// tests that need to observe a single rule in isolation.
func NewWithRules(rules []Rule) *Optimizer {
	return &Optimizer{rules: rules}
}

// Optimize applies the rule list in order, repeating full passes until no
// rule reports a change.
func (o *Optimizer) Optimize(seq logical.Seq) (logical.Seq, error) {
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, rule := range o.rules {
			next, ok, err := rule.Apply(seq)
			if err != nil {
				return nil, &Error{Rule: rule.Name, Msg: err.Error()}
			}
			if ok {
				seq = next
				changed = true
			}
		}
		if !changed {
			return seq, nil
		}
	}
	return nil, &Error{Msg: fmt.Sprintf("plan did not converge after %d passes", maxPasses)}
}
